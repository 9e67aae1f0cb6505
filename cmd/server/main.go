// ABOUTME: Main entry point for the Growth Tribe MCP server with stdio transport
// ABOUTME: Acts for $TRIBE_USER; configuration comes from the environment and .env
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/harper/growth-tribe/cmd/tribe/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := commands.ServeMCP(ctx); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
