package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"pichacka/internal/backend"
	"pichacka/internal/cli"
	"pichacka/internal/config"
	"pichacka/internal/export"
	apphttp "pichacka/internal/http"
	"pichacka/internal/ledger"
	applog "pichacka/internal/log"
	"pichacka/internal/metrics"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg, applog.ComponentApp)

	ctx, stop := cli.SignalContext()
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Server failed", "error", err)
		stop()
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}

// run serves the API until ctx is done. Backend resources are released
// before it returns, on success and on error.
func run(ctx context.Context, cfg *config.Config, logger *applog.Logger) error {
	loc := cfg.Location()

	backendConfig, err := backend.FromAppConfig(cfg)
	if err != nil {
		return fmt.Errorf("invalid backend configuration: %w", err)
	}
	res, err := backend.NewFactory(logger.Logger).CreateBackend(ctx, backendConfig)
	if err != nil {
		return fmt.Errorf("initialize %s backend: %w", cfg.DataBackend, err)
	}
	defer func() {
		if err := res.Cleanup(); err != nil {
			logger.Error("Backend cleanup failed", "error", err)
		}
	}()

	if cfg.SeedDemoData {
		seeded, err := ledger.SeedDemo(ctx, res.Store, time.Now().In(loc))
		if err != nil {
			return fmt.Errorf("seed demo data: %w", err)
		}
		logger.Info("Demo data check finished", "seeded", seeded)
	}

	exporter := export.NewGitHubExporter(&http.Client{Timeout: cfg.GitHubTimeout}, cfg.GitHubAPIURL, cfg.GitHubBranch, loc)

	srv := apphttp.NewServer(":"+cfg.Port, res.Ledger, apphttp.Options{
		Exporter:        exporter,
		Metrics:         metrics.New(),
		Logger:          logger.WithComponent(applog.ComponentHTTP),
		ExportRateLimit: cfg.ExportRateLimit,
		Location:        loc,
	})

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 45 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	// Graceful shutdown handling
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		logger.Info("Shutdown signal received")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
	}()

	logger.Info("Starting pichacka server",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"timezone", loc.String())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen on port %s: %w", cfg.Port, err)
	}

	<-stopped
	return nil
}
