// ABOUTME: MCP command starts Model Context Protocol server
// ABOUTME: Enables LLM agents to act in the community via stdio, with optional metrics and backup mirror
package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/harper/growth-tribe/internal/charm"
	"github.com/harper/growth-tribe/internal/core"
	"github.com/harper/growth-tribe/internal/mcp"
	"github.com/harper/growth-tribe/internal/metrics"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs Growth Tribe as an MCP (Model Context Protocol) server, letting
LLM agents read accounts, post, react and talk to the coach via stdio.

Set METRICS_ADDR (e.g. :9090) to expose Prometheus metrics, and
CHARM_AUTO_SYNC=true to mirror the member's account to Charm cloud.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by Claude Desktop)
  tribe --user maya mcp

  # Configure in claude_desktop_config.json:
  # {
  #   "mcpServers": {
  #     "tribe": {
  #       "command": "tribe",
  #       "args": ["--user", "maya", "mcp"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

func runMCP(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return ServeMCP(ctx)
}

// ServeMCP runs the MCP stdio server until ctx is done or stdin closes
func ServeMCP(ctx context.Context) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			a.log.WithError(err).Warn("error closing storage")
		}
	}()

	userID, err := currentUser()
	if err != nil {
		return err
	}

	var coach *core.Coach
	if a.cfg.AIKey() == "" {
		a.log.Warnf("no API key for provider %s; ask_coach and draft_post are disabled", a.cfg.AIProvider)
	} else if coach, err = a.coach(); err != nil {
		a.log.WithError(err).Warn("AI coach unavailable")
	}

	if a.cfg.MetricsAddr != "" {
		srv := startMetricsServer(a.cfg.MetricsAddr, a)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	if a.cfg.AutoSync {
		client, err := charm.NewClient(charm.Config{
			Host:     a.cfg.CharmHost,
			DBName:   a.cfg.CharmDBName,
			AutoSync: true,
		})
		if err != nil {
			a.log.WithError(err).Warn("charm backup disabled")
		} else {
			defer func() { _ = client.Close() }()
			stop := startMirror(ctx, charm.NewBackup(client, a.log), a.store, userID)
			defer stop()
		}
	}

	handlers := mcp.NewHandlers(a.engagement, coach, userID, a.log)
	server := mcp.NewServer(handlers, versionInfo.Version)

	a.log.WithField("user_id", userID).Info("Growth Tribe MCP server starting on stdio")

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-ctx.Done():
		a.log.Info("shutdown signal received")
		return nil
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}
}

// startMirror runs the backup mirror until stop is called. stop returns only
// after the mirror has exited, so the KV and the store can be closed safely.
func startMirror(ctx context.Context, backup *charm.Backup, src charm.Source, userID string) (stop func()) {
	mirrorCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		backup.Mirror(mirrorCtx, src, userID)
	}()
	return func() {
		cancel()
		<-done
	}
}

func startMetricsServer(addr string, a *app) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		a.log.WithField("addr", addr).Info("metrics listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.WithError(err).Error("metrics server stopped")
		}
	}()
	return srv
}
