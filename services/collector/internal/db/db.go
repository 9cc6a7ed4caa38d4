package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/riverbed-labs/nwisfetch/services/collector/internal/obs"
)

// UpsertSite records the monitored site, bumping updated_at on re-runs.
func UpsertSite(ctx context.Context, pool *pgxpool.Pool, site, dataType string) error {
	_, err := pool.Exec(ctx, `INSERT INTO nwis.sites (site_no, data_type, created_at, updated_at)
VALUES ($1,$2,NOW(),NOW())
ON CONFLICT (site_no) DO UPDATE
SET data_type = EXCLUDED.data_type,
    updated_at = NOW()`, site, dataType)
	return err
}

// LastTimestamps loads the most recent stored timestamp per parameter for
// the site.
func LastTimestamps(ctx context.Context, pool *pgxpool.Pool, site string) (map[string]time.Time, error) {
	rows, err := pool.Query(ctx, `
SELECT param_cd, MAX(ts)
FROM nwis.observations
WHERE site_no = $1
GROUP BY param_cd`, site)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]time.Time)
	for rows.Next() {
		var param string
		var ts time.Time
		if err := rows.Scan(&param, &ts); err != nil {
			return nil, err
		}
		result[param] = ts
	}
	return result, rows.Err()
}

// InsertObservations writes new observation rows.
func InsertObservations(ctx context.Context, pool *pgxpool.Pool, observations []obs.Observation) error {
	if len(observations) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `INSERT INTO nwis.observations (site_no, param_cd, ts, value, ingested_at)
VALUES ($1,$2,$3,$4,NOW())
ON CONFLICT (site_no, param_cd, ts) DO UPDATE
SET value = EXCLUDED.value,
    ingested_at = NOW()`

	for _, o := range observations {
		batch.Queue(query, o.Site, o.Param, o.TS, o.Value)
	}

	res := pool.SendBatch(ctx, batch)
	defer res.Close()

	for range observations {
		if _, err := res.Exec(); err != nil {
			return err
		}
	}

	return nil
}
