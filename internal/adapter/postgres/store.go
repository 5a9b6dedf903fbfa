package postgres

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/couchcryptid/rain-gauge-etl/internal/domain"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS rain_readings (
    station         TEXT        NOT NULL,
    obs_date        DATE        NOT NULL,
    total_precip_in DOUBLE PRECISION NOT NULL,
    source_url      TEXT        NOT NULL,
    extracted_at    TIMESTAMPTZ NOT NULL,
    PRIMARY KEY (station, obs_date)
)`

const upsertReadingSQL = `
INSERT INTO rain_readings (station, obs_date, total_precip_in, source_url, extracted_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (station, obs_date) DO UPDATE
SET total_precip_in = EXCLUDED.total_precip_in,
    source_url = EXCLUDED.source_url,
    extracted_at = EXCLUDED.extracted_at`

// execer is the subset of pgxpool.Pool the store uses.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Store keeps one row per station and observation date.
// It implements pipeline.Loader.
type Store struct {
	db    execer
	close func()

	mu       sync.Mutex
	migrated bool
}

// Open builds a connection pool for databaseURL. No connection is made until
// the first Load, so an unreachable database surfaces as a load error.
func Open(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("configure postgres: %w", err)
	}
	return &Store{db: pool, close: pool.Close}, nil
}

// migrate creates the readings table once per Store. A failed attempt is
// retried on the next Load.
func (s *Store) migrate(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.migrated {
		return nil
	}
	if _, err := s.db.Exec(ctx, createTableSQL); err != nil {
		return fmt.Errorf("create rain_readings: %w", err)
	}
	s.migrated = true
	return nil
}

// Load upserts the reading. A rerun for the same day replaces the amount.
func (s *Store) Load(ctx context.Context, result domain.Result) error {
	obsDate, err := time.Parse(domain.DateLayout, result.Reading.Date)
	if err != nil {
		return fmt.Errorf("parse observation date %q: %w", result.Reading.Date, err)
	}
	if err := s.migrate(ctx); err != nil {
		return err
	}
	if _, err := s.db.Exec(ctx, upsertReadingSQL,
		result.Station,
		obsDate,
		result.Reading.TotalPrecipIn,
		result.SourceURL,
		result.ExtractedAt,
	); err != nil {
		return fmt.Errorf("upsert rain reading: %w", err)
	}
	return nil
}

// Close releases the pool.
func (s *Store) Close() {
	if s.close != nil {
		s.close()
	}
}
