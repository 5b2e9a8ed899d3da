// Package main is the entry point for the todo CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"todoapp/internal/backend/googletasks"
	"todoapp/internal/backend/placeholder"
	"todoapp/internal/cli"
	"todoapp/internal/commands"
	"todoapp/internal/config"
	"todoapp/internal/source"
	"todoapp/internal/ui"
)

func main() {
	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, newSource, cli.WithTUI(ui.Run))

	// Run and exit with code
	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	os.Exit(code)
}

// newSource builds the source selected by cfg.Source.
func newSource(ctx context.Context, cfg *config.Config, logger *log.Logger) (source.Source, error) {
	switch cfg.Source {
	case config.SourceGoogleTasks:
		if !cfg.HasOAuthClient() {
			return nil, fmt.Errorf("oauth_client.json not found in %s", cfg.Dir)
		}
		if !cfg.HasToken() {
			return nil, fmt.Errorf("not logged in (run: todo login)")
		}
		return googletasks.New(ctx, cfg, logger)
	default:
		return placeholder.New(cfg.Endpoint,
			placeholder.WithLimit(cfg.Limit),
			placeholder.WithTimeout(cfg.FetchTimeout),
			placeholder.WithLogger(logger),
		)
	}
}
