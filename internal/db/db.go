// Package db opens the PostgreSQL pool and hosts migration and pgtype helpers.
package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/relayline/relayline/internal/config"
)

// Open connects a pgx pool using the given PostgreSQL config.
func Open(ctx context.Context, cfg config.PostgresConfig) (*pgxpool.Pool, error) {
	return pgxpool.New(ctx, DSN(cfg))
}
