// Package storage persists finished games, per-player records and the card
// catalog in PostgreSQL.
package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/tom-jt/Diviners-Gambit/internal/config"
)

// Store wraps a pgx connection pool.
type Store struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// Open connects to the configured database and verifies the connection.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	stats := pool.Stat()
	logger.Info("database connection pool initialized",
		zap.Int32("max_conns", stats.MaxConns()),
		zap.Int32("total_conns", stats.TotalConns()),
	)
	return &Store{pool: pool, logger: logger}, nil
}

// Close releases the pool.
func (s *Store) Close() {
	s.pool.Close()
}

const schema = `
CREATE TABLE IF NOT EXISTS cards (
	id          INTEGER PRIMARY KEY,
	name        TEXT NOT NULL,
	description TEXT NOT NULL,
	generation  INTEGER NOT NULL,
	priority    TEXT NOT NULL,
	card_type   TEXT NOT NULL,
	cost        DOUBLE PRECISION NOT NULL,
	targets     BOOLEAN NOT NULL,
	damage      TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS game_results (
	id          BIGSERIAL PRIMARY KEY,
	match_id    TEXT NOT NULL,
	game        INTEGER NOT NULL,
	mode        TEXT NOT NULL,
	seed        BIGINT NOT NULL,
	turns       INTEGER NOT NULL,
	winner_name TEXT,
	checksum    TEXT NOT NULL,
	ended_at    TIMESTAMPTZ NOT NULL,
	UNIQUE (match_id, game)
);

CREATE TABLE IF NOT EXISTS game_result_players (
	result_id  BIGINT NOT NULL REFERENCES game_results (id) ON DELETE CASCADE,
	seat       INTEGER NOT NULL,
	name       TEXT NOT NULL,
	health     DOUBLE PRECISION NOT NULL,
	diviner_id INTEGER NOT NULL,
	left_game  BOOLEAN NOT NULL,
	PRIMARY KEY (result_id, seat)
);

CREATE TABLE IF NOT EXISTS player_records (
	name       TEXT PRIMARY KEY,
	wins       INTEGER NOT NULL DEFAULT 0,
	losses     INTEGER NOT NULL DEFAULT 0,
	ties       INTEGER NOT NULL DEFAULT 0,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// Migrate creates the tables if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
