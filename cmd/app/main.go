// File: cmd/app/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"localservices-frontend/internal/application"
	"localservices-frontend/internal/config"
	"localservices-frontend/internal/infra/adapters/shell"
	"localservices-frontend/internal/infra/logging"
	"localservices-frontend/internal/infra/metrics"

	"golang.org/x/sync/errgroup"
)

var version = "dev"

func main() {
	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (unredacted logs, console output)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("[DEV MODE] Enabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ---- Metrics ----
	metrics.MustRegister()
	metrics.SetBuildInfo("app", version)

	// ---- Shell + frontend ----
	sh := shell.New(os.Stdin, os.Stdout, logger)
	app, err := application.Build(ctx, cfg, logger, sh.UI())
	if err != nil {
		logger.Fatal().Err(err).Msg("build frontend")
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warn().Err(err).Msg("close storage")
		}
	}()
	sh.Attach(app.Frontend)
	logger.Info().
		Str("api", cfg.API.BaseURL).
		Str("storage", cfg.Storage.Backend).
		Msg("frontend ready")

	g, gctx := errgroup.WithContext(ctx)
	if cfg.Metrics.Port > 0 {
		addr := fmt.Sprintf(":%d", cfg.Metrics.Port)
		g.Go(func() error {
			logger.Info().Str("addr", addr).Msg("metrics listening")
			return metrics.ListenAndServe(gctx, addr)
		})
	}
	g.Go(func() error {
		defer stop() // leaving the shell ends the process
		return sh.Run(gctx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("exited with error")
		os.Exit(1)
	}
}
