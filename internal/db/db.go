// Package db provides the PostgreSQL connection pool and shared pg helpers.
package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chatlinkhq/chatlink/internal/config"
)

// Open creates a pgx connection pool from the Postgres configuration.
func Open(ctx context.Context, cfg config.PostgresConfig) (*pgxpool.Pool, error) {
	return pgxpool.New(ctx, DSN(cfg))
}
