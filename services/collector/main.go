package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/riverbed-labs/nwisfetch/nwis"
	"github.com/riverbed-labs/nwisfetch/pkg/logger"
	"github.com/riverbed-labs/nwisfetch/services/collector/internal/config"
	"github.com/riverbed-labs/nwisfetch/services/collector/internal/db"
	"github.com/riverbed-labs/nwisfetch/services/collector/internal/obs"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("collector failed: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logg, err := logger.New(cfg.LogLevel, false)
	if err != nil {
		return err
	}
	defer func() { _ = logg.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout+10*time.Second)
	defer cancel()

	client := &nwis.Client{HTTP: &http.Client{Timeout: cfg.RequestTimeout}}

	now := time.Now().UTC()
	q := nwis.Query{
		Site:     cfg.Site,
		DataType: cfg.DataType,
		Mode:     nwis.TimeSeries,
		Start:    now.AddDate(0, 0, -cfg.LookbackDays),
		End:      now,
	}

	_, table, err := client.Download(ctx, q)
	if err != nil {
		return err
	}
	logg.Infow("fetched site data",
		"site", cfg.Site, "type", cfg.DataType, "rows", table.Len())

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	if cfg.DryRun {
		logg.Infow("dry-run: skipping site upsert", "site", cfg.Site)
	} else {
		if err := db.UpsertSite(ctx, pool, cfg.Site, cfg.DataType); err != nil {
			return err
		}
	}

	lastMap, err := db.LastTimestamps(ctx, pool, cfg.Site)
	if err != nil {
		return err
	}

	candidates := obs.FromTable(cfg.Site, table)
	pending := obs.FilterNew(candidates, lastMap)

	if len(pending) == 0 {
		logg.Infow("no new observations to insert", "site", cfg.Site)
		return nil
	}

	if cfg.DryRun {
		for _, o := range pending {
			logg.Infow("dry-run: would insert",
				"site", o.Site, "param", o.Param, "ts", o.TS.Format(time.RFC3339), "value", o.Value)
		}
		return nil
	}

	if err := db.InsertObservations(ctx, pool, pending); err != nil {
		return err
	}

	logg.Infow("inserted observations", "count", len(pending), "site", cfg.Site)
	return nil
}
