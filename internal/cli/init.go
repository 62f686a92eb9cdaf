// Package cli holds the start-up steps shared by cmd/pichacka and
// cmd/pichacka-worker.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"pichacka/internal/config"
	applog "pichacka/internal/log"
)

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig reads the environment and validates it, exiting
// the process on failure. The worker passes extra checks such as
// (*config.Config).ValidateWorker.
func LoadAndValidateConfig(extra ...func(*config.Config) error) *config.Config {
	cfg, err := config.Load()
	if err != nil {
		fail("Failed to load configuration", err)
	}
	if err := cfg.Validate(); err != nil {
		fail("Configuration validation failed", err)
	}
	for _, check := range extra {
		if err := check(cfg); err != nil {
			fail("Configuration validation failed", err)
		}
	}
	return cfg
}

// SetupLogger builds the process logger from LOG_LEVEL and LOG_FORMAT and
// installs it as the slog default.
func SetupLogger(cfg *config.Config, component string) *applog.Logger {
	level, _ := applog.ParseLevel(cfg.LogLevel)
	logger := applog.New(applog.Config{
		Level:     level,
		Component: component,
		Handler:   applog.NewHandler(os.Stdout, cfg.LogFormat, level),
	})
	applog.SetDefault(logger)
	return logger
}

// SignalContext is cancelled on SIGINT or SIGTERM.
func SignalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// fail reports errors raised before the configured logger exists.
func fail(msg string, err error) {
	applog.New(applog.DefaultConfig()).Error(msg, "error", err)
	os.Exit(1)
}
