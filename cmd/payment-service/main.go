package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/tammimikun/kids-worksheet-store/internal/app"
	"github.com/tammimikun/kids-worksheet-store/internal/config"
	"github.com/tammimikun/kids-worksheet-store/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewAdapter(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if cfg.Env == "prod" || cfg.Env == "staging" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Infow("application starting",
		"env", cfg.Env,
		"version", cfg.App.Version,
		"midtrans_production", cfg.Gateway.IsProduction,
		"download_mode", cfg.Download.Mode,
		"events_driver", cfg.Events.Driver,
	)

	if err := app.Run(ctx, cfg, log); err != nil {
		log.Errorw("application failed", "error", err)
		cancel()
		_ = log.Sync()
		os.Exit(1)
	}

	log.Infow("application exited normally")
}
