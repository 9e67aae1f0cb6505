// ABOUTME: Centralized configuration for the tribe CLI and MCP server
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Supported AI providers
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Config holds all configuration for the tribe backend
type Config struct {
	// Store settings
	DBPath       string
	TiersFile    string
	WelcomeBonus int64

	// AI settings
	AIProvider  string
	GeminiKey   string
	GeminiModel string
	GeminiURL   string
	OpenAIKey   string
	ChatModel   string
	Timeout     time.Duration
	MaxRetries  int
	RetryBase   time.Duration
	RetryJitter time.Duration
	AIRateLimit float64
	AIRateBurst int

	// Charm settings
	CharmHost   string
	CharmDBName string
	AutoSync    bool

	// Observability
	LogLevel    string
	MetricsAddr string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		// Defaults
		DBPath:       os.Getenv("TRIBE_DB_PATH"),
		TiersFile:    os.Getenv("TRIBE_TIERS_FILE"),
		WelcomeBonus: int64(getEnvInt("TRIBE_WELCOME_BONUS", 100)),
		AIProvider:   strings.ToLower(getEnv("AI_PROVIDER", ProviderGemini)),
		GeminiKey:    os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.5-flash-preview-09-2025"),
		GeminiURL:    getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
		OpenAIKey:    os.Getenv("OPENAI_API_KEY"),
		ChatModel:    getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		Timeout:      getEnvDuration("AI_TIMEOUT", 30*time.Second),
		MaxRetries:   getEnvInt("AI_MAX_RETRIES", 5),
		RetryBase:    getEnvDuration("AI_RETRY_BASE", time.Second),
		RetryJitter:  getEnvDuration("AI_RETRY_JITTER", time.Second),
		AIRateLimit:  getEnvFloat("AI_RATE_LIMIT", 0),
		AIRateBurst:  getEnvInt("AI_RATE_BURST", 3),
		CharmHost:    getEnv("CHARM_HOST", "cloud.charm.sh"),
		CharmDBName:  getEnv("CHARM_DB", "growth-tribe"),
		AutoSync:     getEnvBool("CHARM_AUTO_SYNC", false),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		MetricsAddr:  os.Getenv("METRICS_ADDR"),
	}

	return cfg, cfg.Validate()
}

// Validate checks ranges and the provider name
func (c *Config) Validate() error {
	if c.WelcomeBonus < 0 {
		return fmt.Errorf("TRIBE_WELCOME_BONUS must be >= 0, got %d", c.WelcomeBonus)
	}
	if c.AIProvider != ProviderGemini && c.AIProvider != ProviderOpenAI {
		return fmt.Errorf("AI_PROVIDER must be %s or %s, got %q", ProviderGemini, ProviderOpenAI, c.AIProvider)
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("AI_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("AI_TIMEOUT must be positive, got %v", c.Timeout)
	}
	if c.RetryBase < 0 || c.RetryJitter < 0 {
		return fmt.Errorf("AI_RETRY_BASE and AI_RETRY_JITTER must be >= 0")
	}
	if c.AIRateLimit < 0 {
		return fmt.Errorf("AI_RATE_LIMIT must be >= 0, got %f", c.AIRateLimit)
	}
	if c.AIRateBurst < 1 {
		return fmt.Errorf("AI_RATE_BURST must be >= 1, got %d", c.AIRateBurst)
	}
	return nil
}

// AIKey returns the API key for the configured provider
func (c *Config) AIKey() string {
	if c.AIProvider == ProviderOpenAI {
		return c.OpenAIKey
	}
	return c.GeminiKey
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v == "true" || v == "1"
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
