// Package store is the Session Directory: PostgreSQL persistence for
// conversations, triggers, and canned responses.
package store

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/relayline/relayline/internal/bridge"
)

// Store implements bridge.Directory over a pgx pool. The pool is long-lived;
// it is not re-established here on failure.
type Store struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// New creates a Store over the given pool.
func New(log *slog.Logger, pool *pgxpool.Pool) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		pool:   pool,
		logger: log.With(slog.String("service", "store")),
	}
}

// classify maps a pgx error to the bridge error taxonomy: absence is
// ErrNotFound, everything else means the directory is unreachable or
// rejecting and wraps ErrUnavailable.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, bridge.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, errors.Join(bridge.ErrUnavailable, err))
}
