// ABOUTME: Shared wiring for commands: config, logger, storage, engagement and AI coach
// ABOUTME: Every command that touches data opens one app and closes it when done
package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/harper/growth-tribe/internal/config"
	"github.com/harper/growth-tribe/internal/core"
	"github.com/harper/growth-tribe/internal/ledger"
	"github.com/harper/growth-tribe/internal/llm"
	"github.com/harper/growth-tribe/internal/logging"
	"github.com/harper/growth-tribe/internal/models"
	"github.com/harper/growth-tribe/internal/storage/sqlite"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// app bundles what a command needs to act for a member
type app struct {
	cfg        *config.Config
	log        *logrus.Logger
	store      *sqlite.Storage
	engagement *core.Engagement
}

// loadConfig reads .env and the environment
func loadConfig() (*config.Config, *logrus.Logger, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	level := cfg.LogLevel
	switch {
	case verbose:
		level = "debug"
	case quiet:
		level = "error"
	}
	log := logging.New(logging.Config{Level: level, Output: os.Stderr})
	return cfg, log, nil
}

// openApp loads configuration and opens storage
func openApp() (*app, error) {
	cfg, log, err := loadConfig()
	if err != nil {
		return nil, err
	}

	tiers := ledger.DefaultTierTable()
	if cfg.TiersFile != "" {
		tiers, err = ledger.LoadTierTable(cfg.TiersFile)
		if err != nil {
			return nil, fmt.Errorf("loading tiers: %w", err)
		}
	}

	var store *sqlite.Storage
	if cfg.DBPath != "" {
		store, err = sqlite.NewStorageWithPath(cfg.DBPath)
	} else {
		store, err = sqlite.NewStorage()
	}
	if err != nil {
		return nil, fmt.Errorf("initializing storage: %w", err)
	}
	store.SetLogger(log)

	engagement := core.NewEngagement(store, store, store,
		core.WithLedger(ledger.New(tiers)),
		core.WithWelcomeBonus(cfg.WelcomeBonus),
		core.WithNotifier(core.LogNotifier{Log: log}),
		core.WithLogger(log),
	)

	return &app{
		cfg:        cfg,
		log:        log,
		store:      store,
		engagement: engagement,
	}, nil
}

// Close releases storage
func (a *app) Close() error {
	return a.store.Close()
}

// member signs in the acting member, creating the account on first use
func (a *app) member(ctx context.Context) (*models.Account, error) {
	userID, err := currentUser()
	if err != nil {
		return nil, err
	}
	account, created, err := a.engagement.EnsureAccount(ctx, userID, userID)
	if err != nil {
		return nil, err
	}
	if created {
		a.log.WithField("user_id", userID).Debug("welcome bonus granted")
	}
	return account, nil
}

// coach builds the AI coach from configuration
func (a *app) coach() (*core.Coach, error) {
	gen, err := newGenerator(a.cfg, a.log)
	if err != nil {
		return nil, err
	}
	return core.NewCoach(gen, a.log), nil
}

// currentUser resolves the acting member id
func currentUser() (string, error) {
	for _, candidate := range []string{userFlag, os.Getenv("TRIBE_USER"), os.Getenv("USER")} {
		if id := strings.TrimSpace(candidate); id != "" {
			return id, nil
		}
	}
	return "", fmt.Errorf("no member set: pass --user or set TRIBE_USER")
}

// newGenerator builds the configured text generator behind the retry
// policy and the optional per-member rate limit
func newGenerator(cfg *config.Config, log logrus.FieldLogger) (llm.Generator, error) {
	policy := llm.Policy{
		MaxRetries: cfg.MaxRetries,
		BaseDelay:  cfg.RetryBase,
		MaxJitter:  cfg.RetryJitter,
	}

	var gen llm.Generator
	switch cfg.AIProvider {
	case config.ProviderOpenAI:
		client, err := llm.NewOpenAIClientWithConfig(&llm.ClientConfig{
			APIKey:    cfg.OpenAIKey,
			ChatModel: cfg.ChatModel,
			Timeout:   cfg.Timeout,
			Policy:    policy,
		}, llm.WithLogger(log))
		if err != nil {
			return nil, fmt.Errorf("OPENAI_API_KEY not set or invalid: %w", err)
		}
		gen = client
	default:
		client, err := llm.NewGeminiClient(&llm.GeminiConfig{
			APIKey:  cfg.GeminiKey,
			Model:   cfg.GeminiModel,
			BaseURL: cfg.GeminiURL,
			Timeout: cfg.Timeout,
			Policy:  policy,
		}, llm.WithLogger(log))
		if err != nil {
			return nil, fmt.Errorf("GEMINI_API_KEY not set or invalid: %w", err)
		}
		gen = client
	}

	return llm.WrapWithUserRateLimit(gen, rate.Limit(cfg.AIRateLimit), cfg.AIRateBurst), nil
}
