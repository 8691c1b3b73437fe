package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/alexanderramin/careerplan/internal/config"
)

// PgxTX is the subset of pgxpool.Pool and pgx.Tx used by the Postgres
// repositories.
type PgxTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var (
	_ PgxTX = (*pgxpool.Pool)(nil)
	_ PgxTX = (pgx.Tx)(nil)
)

// NewPostgresPool connects, pings and migrates a PostgreSQL database.
func NewPostgresPool(ctx context.Context, cfg config.PostgresConfig, log *zap.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parsing postgres config: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	poolCfg.MaxConnIdleTime = time.Minute

	log.Info("connecting to postgres",
		zap.String("host", poolCfg.ConnConfig.Host),
		zap.Uint16("port", poolCfg.ConnConfig.Port),
		zap.String("db", poolCfg.ConnConfig.Database),
		zap.Int32("max_conns", poolCfg.MaxConns),
	)

	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	if err := MigratePostgres(connectCtx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("running postgres migrations: %w", err)
	}

	log.Info("postgres connection established")
	return pool, nil
}

// MigratePostgres creates the PostgreSQL schema. Every statement is idempotent.
func MigratePostgres(ctx context.Context, conn PgxTX) error {
	for i, stmt := range postgresMigrations {
		if _, err := conn.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("postgres migration %d: %w", i, err)
		}
	}
	return nil
}

var postgresMigrations = []string{
	`CREATE TABLE IF NOT EXISTS user_profiles (
		username         TEXT PRIMARY KEY,
		interests_values TEXT NOT NULL DEFAULT '',
		work_experience  TEXT NOT NULL DEFAULT '',
		circumstances    TEXT NOT NULL DEFAULT '',
		skills           TEXT NOT NULL DEFAULT '',
		goals            TEXT NOT NULL DEFAULT '',
		created_at       TIMESTAMPTZ NOT NULL,
		last_updated     TIMESTAMPTZ NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS career_plans (
		username           TEXT PRIMARY KEY,
		plan_id            TEXT NOT NULL,
		created_date       TIMESTAMPTZ NOT NULL,
		last_updated       TIMESTAMPTZ NOT NULL,
		version            INTEGER NOT NULL CHECK (version >= 1),
		overview           JSONB NOT NULL,
		milestone_1_month  JSONB,
		milestone_3_months JSONB,
		milestone_1_year   JSONB,
		milestone_5_years  JSONB
	)`,

	`CREATE TABLE IF NOT EXISTS plan_versions (
		plan_id      TEXT NOT NULL,
		version      INTEGER NOT NULL,
		username     TEXT NOT NULL REFERENCES career_plans(username) ON DELETE CASCADE,
		committed_at TIMESTAMPTZ NOT NULL,
		snapshot     JSONB NOT NULL,
		PRIMARY KEY (plan_id, version)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_plan_versions_username ON plan_versions(username, committed_at)`,
}
