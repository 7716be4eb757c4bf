// File: cmd/stubapi/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"localservices-frontend/internal/config"
	"localservices-frontend/internal/infra/logging"
	"localservices-frontend/internal/infra/metrics"
	"localservices-frontend/internal/infra/stubapi"

	"golang.org/x/sync/errgroup"
)

var version = "dev"

// stubapi serves the LocalServices REST API from seeded memory for local
// development and demos.
func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(cfg.Log, cfg.Runtime.Dev)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics.MustRegister()
	metrics.SetBuildInfo("stubapi", version)

	srv, err := stubapi.New(cfg.Stub, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("seed stub backend")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.ListenAndServe(gctx) })
	if cfg.Metrics.Port > 0 {
		addr := fmt.Sprintf(":%d", cfg.Metrics.Port)
		g.Go(func() error { return metrics.ListenAndServe(gctx, addr) })
	}
	logger.Info().
		Str("otp", cfg.Stub.OTPCode).
		Str("password", stubapi.SeedPassword).
		Msg("seeded accounts share one password")

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("stub api stopped")
		os.Exit(1)
	}
}
