package store

import (
	"context"
	"fmt"

	"github.com/relayline/relayline/internal/bridge"
	"github.com/relayline/relayline/internal/db"
)

// TriggerByID loads one trigger. Triggers are created out-of-band and are
// read-only through this store.
func (s *Store) TriggerByID(ctx context.Context, id string) (bridge.Trigger, error) {
	pgID, err := db.ParseUUID(id)
	if err != nil {
		// A malformed id is indistinguishable from an unknown one to callers.
		return bridge.Trigger{}, fmt.Errorf("trigger by id: %w", bridge.ErrNotFound)
	}

	var t bridge.Trigger
	err = s.pool.QueryRow(ctx,
		`SELECT active, sender_address, receiver_address, message FROM triggers WHERE id = $1`,
		pgID,
	).Scan(&t.Active, &t.SenderAddress, &t.ReceiverAddress, &t.Message)
	if err != nil {
		return bridge.Trigger{}, classify("trigger by id", err)
	}
	t.ID = id
	return t, nil
}
