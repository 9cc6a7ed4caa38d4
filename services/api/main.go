package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/riverbed-labs/nwisfetch/pkg/logger"
	"github.com/riverbed-labs/nwisfetch/services/api/config"
	"github.com/riverbed-labs/nwisfetch/services/api/db"
	httpserver "github.com/riverbed-labs/nwisfetch/services/api/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logg, err := logger.New(cfg.LogLevel, false)
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer func() { _ = logg.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logg.Fatalw("db connection error", "err", err)
	}
	defer store.Close()

	srv := httpserver.New(cfg, store)
	logg.Infow("REST API listening", "addr", cfg.ListenAddr())

	if err := srv.Run(ctx); err != nil {
		logg.Fatalw("server error", "err", err)
	}
}
