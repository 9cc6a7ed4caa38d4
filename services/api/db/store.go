package db

import (
	"context"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store wraps database access helpers.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a Store backed by a pgx pool.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

// Close releases the pool resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Site represents a monitored station record.
type Site struct {
	SiteNo    string    `json:"site_no"`
	DataType  string    `json:"data_type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const listSitesSQL = `
    SELECT site_no, data_type, created_at, updated_at
    FROM nwis.sites
    ORDER BY site_no
`

// ListSites returns all monitored sites.
func (s *Store) ListSites(ctx context.Context) ([]Site, error) {
	rows, err := s.pool.Query(ctx, listSitesSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sites := make([]Site, 0)
	for rows.Next() {
		var site Site
		if err := rows.Scan(&site.SiteNo, &site.DataType, &site.CreatedAt, &site.UpdatedAt); err != nil {
			return nil, err
		}
		sites = append(sites, site)
	}
	return sites, rows.Err()
}

// GetSite returns one site, or nil when absent.
func (s *Store) GetSite(ctx context.Context, siteNo string) (*Site, error) {
	rows, err := s.pool.Query(ctx, `
    SELECT site_no, data_type, created_at, updated_at
    FROM nwis.sites
    WHERE site_no = $1`, siteNo)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	var site Site
	if err := rows.Scan(&site.SiteNo, &site.DataType, &site.CreatedAt, &site.UpdatedAt); err != nil {
		return nil, err
	}
	return &site, rows.Err()
}

// Observation represents one stored measurement.
type Observation struct {
	SiteNo     string    `json:"site_no"`
	Param      string    `json:"param_cd"`
	Timestamp  time.Time `json:"ts"`
	Value      float64   `json:"value"`
	IngestedAt time.Time `json:"ingested_at"`
}

// ObservationQuery holds filters for retrieving observations.
type ObservationQuery struct {
	SiteNo string
	Param  string
	Limit  int
	Since  *time.Time
	Until  *time.Time
}

const observationsBase = `
    SELECT site_no, param_cd, ts, value, ingested_at
    FROM nwis.observations
    WHERE site_no = $1
`

// FetchObservations returns observations for a site based on the query.
func (s *Store) FetchObservations(ctx context.Context, q ObservationQuery) ([]Observation, error) {
	args := []any{q.SiteNo}
	clause := ""
	argPos := 2
	if q.Param != "" {
		clause += " AND param_cd = $" + strconv.Itoa(argPos)
		args = append(args, q.Param)
		argPos++
	}
	if q.Since != nil {
		clause += " AND ts >= $" + strconv.Itoa(argPos)
		args = append(args, *q.Since)
		argPos++
	}
	if q.Until != nil {
		clause += " AND ts <= $" + strconv.Itoa(argPos)
		args = append(args, *q.Until)
		argPos++
	}
	order := " ORDER BY ts"
	limit := ""
	if q.Limit > 0 {
		limit = " LIMIT $" + strconv.Itoa(argPos)
		args = append(args, q.Limit)
	}

	sql := observationsBase + clause + order + limit

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	observations := make([]Observation, 0)
	for rows.Next() {
		var o Observation
		if err := rows.Scan(&o.SiteNo, &o.Param, &o.Timestamp, &o.Value, &o.IngestedAt); err != nil {
			return nil, err
		}
		observations = append(observations, o)
	}
	return observations, rows.Err()
}

const latestBySiteSQL = `
    SELECT DISTINCT ON (param_cd) site_no, param_cd, ts, value, ingested_at
    FROM nwis.observations
    WHERE site_no = $1
    ORDER BY param_cd, ts DESC
`

// LatestBySite returns the most recent observation per parameter.
func (s *Store) LatestBySite(ctx context.Context, siteNo string) ([]Observation, error) {
	rows, err := s.pool.Query(ctx, latestBySiteSQL, siteNo)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	data := make([]Observation, 0)
	for rows.Next() {
		var o Observation
		if err := rows.Scan(&o.SiteNo, &o.Param, &o.Timestamp, &o.Value, &o.IngestedAt); err != nil {
			return nil, err
		}
		data = append(data, o)
	}
	return data, rows.Err()
}
