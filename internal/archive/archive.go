// Package archive provides a local, single-file observation store backed
// by SQLite, used by the fetch CLI to accumulate retrievals over time.
package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/riverbed-labs/nwisfetch/nwis"
)

// Observation is one stored measurement: a site, a parameter column name
// and a timestamped value.
type Observation struct {
	Site  string
	Param string
	TS    time.Time
	Value float64
}

// DB is a sqlite-backed observation archive.
type DB struct {
	db *sql.DB
}

const schema = `CREATE TABLE IF NOT EXISTS observations (
	site_no  TEXT    NOT NULL,
	param_cd TEXT    NOT NULL,
	ts       INTEGER NOT NULL, -- unix seconds, UTC
	value    REAL    NOT NULL,
	PRIMARY KEY (site_no, param_cd, ts)
)`

// Open opens (creating if needed) an archive at fname.
func Open(fname string) (*DB, error) {
	db, err := sql.Open("sqlite", fname)
	if err != nil {
		return nil, fmt.Errorf("could not open archive %q: %w", fname, err)
	}

	ctx := context.Background()
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("could not setup archive %q: %w", fname, err)
	}

	// WAL improves concurrency for readers while a fetch is writing.
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode = WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("could not set WAL mode: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the archive.
func (a *DB) Close() error {
	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	return err
}

// PutTable stores every numeric cell of a retrieved table. Qualifier
// columns (suffix "_cd") and missing cells are skipped; re-fetched rows
// replace their earlier values.
func (a *DB) PutTable(ctx context.Context, site string, t *nwis.Table) (n int, err error) {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("could not begin archive transaction: %w", err)
	}
	defer func() {
		if err != nil {
			err = errors.Join(err, tx.Rollback())
		}
	}()

	const stmt = `INSERT OR REPLACE INTO observations (site_no, param_cd, ts, value)
VALUES (?1, ?2, ?3, ?4)`

	for i, row := range t.Rows {
		for j, cell := range row {
			col := t.Columns[j]
			if col.Kind != nwis.ColNumeric || strings.HasSuffix(col.Name, "_cd") {
				continue
			}
			if cell.Kind != nwis.KindNumeric {
				continue
			}
			if _, err = tx.ExecContext(ctx, stmt, site, col.Name, t.Index[i].UTC().Unix(), cell.Num); err != nil {
				return 0, fmt.Errorf("could not insert observation %q: %w", t.Index[i], err)
			}
			n++
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("could not commit archive transaction: %w", err)
	}
	return n, nil
}

// Observations returns the stored values for a site over [beg, end),
// ordered by parameter then time.
func (a *DB) Observations(ctx context.Context, site string, beg, end time.Time) ([]Observation, error) {
	rows, err := a.db.QueryContext(ctx, `
SELECT site_no, param_cd, ts, value FROM observations
WHERE site_no = ?1 AND ts >= ?2 AND ts < ?3
ORDER BY param_cd, ts`, site, beg.UTC().Unix(), end.UTC().Unix())
	if err != nil {
		return nil, fmt.Errorf("could not query archive: %w", err)
	}
	defer rows.Close()

	var out []Observation
	for rows.Next() {
		var (
			o  Observation
			ts int64
		)
		if err := rows.Scan(&o.Site, &o.Param, &ts, &o.Value); err != nil {
			return nil, fmt.Errorf("could not scan observation row: %w", err)
		}
		o.TS = time.Unix(ts, 0).UTC()
		out = append(out, o)
	}
	return out, rows.Err()
}
