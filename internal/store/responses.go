package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/relayline/relayline/internal/bridge"
	"github.com/relayline/relayline/internal/db"
)

// ResponseByID loads one canned response.
func (s *Store) ResponseByID(ctx context.Context, id string) (bridge.CannedResponse, error) {
	pgID, err := db.ParseUUID(id)
	if err != nil {
		return bridge.CannedResponse{}, fmt.Errorf("response by id: %w", bridge.ErrNotFound)
	}

	var message string
	err = s.pool.QueryRow(ctx,
		`SELECT message FROM responses WHERE id = $1`, pgID,
	).Scan(&message)
	if err != nil {
		return bridge.CannedResponse{}, classify("response by id", err)
	}
	return bridge.CannedResponse{ID: id, Message: message}, nil
}

// ListResponses returns all canned responses, oldest first.
func (s *Store) ListResponses(ctx context.Context) ([]bridge.CannedResponse, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, message FROM responses ORDER BY created_at`,
	)
	if err != nil {
		return nil, classify("list responses", err)
	}
	defer rows.Close()

	var out []bridge.CannedResponse
	for rows.Next() {
		var (
			id      pgtype.UUID
			message string
		)
		if err := rows.Scan(&id, &message); err != nil {
			return nil, classify("list responses", err)
		}
		out = append(out, bridge.CannedResponse{ID: db.UUIDString(id), Message: message})
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list responses", err)
	}
	return out, nil
}

// CreateResponse persists a new canned response.
func (s *Store) CreateResponse(ctx context.Context, message string) (bridge.CannedResponse, error) {
	id := db.NewUUID()
	_, err := s.pool.Exec(ctx,
		`INSERT INTO responses (id, message) VALUES ($1, $2)`,
		id, message,
	)
	if err != nil {
		return bridge.CannedResponse{}, classify("create response", err)
	}
	return bridge.CannedResponse{ID: db.UUIDString(id), Message: message}, nil
}
