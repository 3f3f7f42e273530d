// Package archive persists final games and team metadata to Postgres for
// the collector.
package archive

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/ncaam/cbb-mcp/internal/metrics"
)

// Database holds the connection pool and provides access to repositories.
type Database struct {
	Pool *pgxpool.Pool

	Games *GameRepository
	Teams *TeamRepository
}

// NewDatabase creates a connection pool and initializes the repositories.
func NewDatabase(ctx context.Context, dsn string) (*Database, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.MaxConns = 10
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info().
		Str("database", poolConfig.ConnConfig.Database).
		Str("host", poolConfig.ConnConfig.Host).
		Msg("Successfully connected to archive database")

	db := &Database{Pool: pool}
	db.Games = &GameRepository{db: db}
	db.Teams = &TeamRepository{db: db}

	if err := db.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	metrics.DBConnectionsActive.Set(float64(pool.Stat().TotalConns()))
	return db, nil
}

// ensureSchema creates the archive tables when they do not exist yet. The
// collector owns this schema; there is no separate migration tooling.
func (db *Database) ensureSchema(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS teams (
			team_id      TEXT PRIMARY KEY,
			name         TEXT NOT NULL,
			abbreviation TEXT NOT NULL DEFAULT '',
			mascot       TEXT NOT NULL DEFAULT '',
			conference   TEXT NOT NULL DEFAULT '',
			wins         INT NOT NULL DEFAULT 0,
			losses       INT NOT NULL DEFAULT 0,
			conf_wins    INT NOT NULL DEFAULT 0,
			conf_losses  INT NOT NULL DEFAULT 0,
			venue_name   TEXT NOT NULL DEFAULT '',
			created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS games (
			game_id         TEXT PRIMARY KEY,
			game_date       TEXT NOT NULL,
			season          INT NOT NULL,
			status          TEXT NOT NULL,
			status_detail   TEXT NOT NULL DEFAULT '',
			venue           TEXT NOT NULL DEFAULT '',
			neutral_site    BOOLEAN NOT NULL DEFAULT FALSE,
			conference_game BOOLEAN NOT NULL DEFAULT FALSE,
			notes           TEXT NOT NULL DEFAULT '',
			home_team_id    TEXT NOT NULL,
			home_team_name  TEXT NOT NULL,
			home_score      INT NOT NULL,
			home_rank       INT,
			away_team_id    TEXT NOT NULL,
			away_team_name  TEXT NOT NULL,
			away_score      INT NOT NULL,
			away_rank       INT,
			created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS games_date_idx ON games (game_date);
	`
	if _, err := db.Pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure archive schema: %w", err)
	}
	return nil
}

// Health verifies the database connection.
func (db *Database) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.Pool.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

// Close closes the connection pool.
func (db *Database) Close() {
	if db.Pool != nil {
		db.Pool.Close()
		log.Info().Msg("Archive database connection pool closed")
	}
}
