// Package main is the entry point of the Relay API gateway. It loads the
// configuration, sets up logging, seeds the in-memory stores and serves the
// gateway until SIGINT or SIGTERM.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/phrazzld/relay-api/internal/config"
	"github.com/phrazzld/relay-api/internal/platform/logger"
)

func main() {
	os.Exit(run(context.Background()))
}

// run returns the process exit code: 0 after a clean or signalled shutdown,
// 1 when initialization or binding fails.
func run(ctx context.Context) int {
	cfg, err := loadAppConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "relay-api: %v\n", err)
		return 1
	}

	log, err := setupAppLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "relay-api: %v\n", err)
		return 1
	}

	app, err := newApplication(ctx, cfg, log)
	if err != nil {
		log.Error("failed to initialize application", "error", err)
		return 1
	}

	if err := app.Run(ctx); err != nil {
		log.Error("server stopped with error", "error", err)
		return 1
	}
	return 0
}

// loadAppConfig loads the configuration and logs the values that shape
// startup.
func loadAppConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// setupAppLogger configures the process-wide JSON logger.
func setupAppLogger(cfg *config.Config) (*slog.Logger, error) {
	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	l.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"environment", cfg.Server.Environment,
		"log_level", cfg.Server.LogLevel,
		"max_body_bytes", cfg.Server.MaxBodyBytes,
		"shutdown_timeout", cfg.Server.ShutdownTimeout.String())
	return l, nil
}
