package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/relayline/relayline/internal/bridge"
	"github.com/relayline/relayline/internal/db"
)

type conversationRow struct {
	ID              pgtype.UUID
	SenderAddress   string
	ReceiverAddress string
	ChannelID       string
	DisplayName     string
	AvatarURL       pgtype.Text
}

func (r conversationRow) toBridge() bridge.Conversation {
	return bridge.Conversation{
		ID:              db.UUIDString(r.ID),
		SenderAddress:   r.SenderAddress,
		ReceiverAddress: r.ReceiverAddress,
		ChannelID:       r.ChannelID,
		DisplayName:     r.DisplayName,
		AvatarURL:       db.TextToString(r.AvatarURL),
	}
}

const conversationColumns = `id, sender_address, receiver_address, channel_id, display_name, avatar_url`

// ConversationByPair returns the conversation for the exact address pair.
func (s *Store) ConversationByPair(ctx context.Context, sender, receiver string) (bridge.Conversation, error) {
	var row conversationRow
	err := s.pool.QueryRow(ctx,
		`SELECT `+conversationColumns+` FROM conversations
		 WHERE sender_address = $1 AND receiver_address = $2`,
		sender, receiver,
	).Scan(&row.ID, &row.SenderAddress, &row.ReceiverAddress, &row.ChannelID, &row.DisplayName, &row.AvatarURL)
	if err != nil {
		return bridge.Conversation{}, classify("conversation by pair", err)
	}
	return row.toBridge(), nil
}

// CreateConversation inserts conv with a fresh id. The unique constraint on
// the address pair makes this the conditional write that serializes
// concurrent first-contact resolutions.
func (s *Store) CreateConversation(ctx context.Context, conv bridge.Conversation) (bridge.Conversation, error) {
	id := db.NewUUID()
	_, err := s.pool.Exec(ctx,
		`INSERT INTO conversations (id, sender_address, receiver_address, channel_id, display_name, avatar_url)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		id, conv.SenderAddress, conv.ReceiverAddress, conv.ChannelID, conv.DisplayName, db.NullableText(conv.AvatarURL),
	)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return bridge.Conversation{}, fmt.Errorf("create conversation: %w", bridge.ErrConversationExists)
		}
		return bridge.Conversation{}, classify("create conversation", err)
	}
	conv.ID = db.UUIDString(id)
	return conv, nil
}

// ConversationsByChannel returns every conversation bound to channelID.
func (s *Store) ConversationsByChannel(ctx context.Context, channelID string) ([]bridge.Conversation, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+conversationColumns+` FROM conversations
		 WHERE channel_id = $1 ORDER BY created_at`,
		channelID,
	)
	if err != nil {
		return nil, classify("conversations by channel", err)
	}
	defer rows.Close()

	var convs []bridge.Conversation
	for rows.Next() {
		var row conversationRow
		if err := rows.Scan(&row.ID, &row.SenderAddress, &row.ReceiverAddress, &row.ChannelID, &row.DisplayName, &row.AvatarURL); err != nil {
			return nil, classify("conversations by channel", err)
		}
		convs = append(convs, row.toBridge())
	}
	if err := rows.Err(); err != nil {
		return nil, classify("conversations by channel", err)
	}
	return convs, nil
}

// SetConversationName updates only the display name.
func (s *Store) SetConversationName(ctx context.Context, id, name string) error {
	return s.setConversationField(ctx, "set conversation name", `display_name`, id, name)
}

// SetConversationAvatar updates only the avatar URL.
func (s *Store) SetConversationAvatar(ctx context.Context, id, url string) error {
	return s.setConversationField(ctx, "set conversation avatar", `avatar_url`, id, url)
}

func (s *Store) setConversationField(ctx context.Context, op, column, id, value string) error {
	pgID, err := db.ParseUUID(id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE conversations SET `+column+` = $1 WHERE id = $2`,
		value, pgID,
	)
	if err != nil {
		return classify(op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, bridge.ErrNotFound)
	}
	return nil
}
