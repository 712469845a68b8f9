package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// PoolLimits bounds the shared connection pool. Zero values fall back to
// the development defaults.
type PoolLimits struct {
	MaxOpen     int
	MaxIdle     int
	MaxLifetime time.Duration
}

// Open connects to Postgres through the pgx stdlib driver, applies the pool
// limits and verifies the connection with a short ping.
func Open(ctx context.Context, dsn string, limits PoolLimits) (*sql.DB, error) {
	conn, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if limits.MaxOpen <= 0 {
		limits.MaxOpen = 25
	}
	if limits.MaxIdle <= 0 {
		limits.MaxIdle = limits.MaxOpen
	}
	if limits.MaxLifetime <= 0 {
		limits.MaxLifetime = 30 * time.Minute
	}
	conn.SetMaxOpenConns(limits.MaxOpen)
	conn.SetMaxIdleConns(limits.MaxIdle)
	conn.SetConnMaxLifetime(limits.MaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	return conn, nil
}
