package bridge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Resolve returns the conversation for the address pair, creating the chat
// channel and the directory record on first contact. Creation is safe under
// concurrent first messages: the directory insert is conditional on the pair,
// and the loser of the race re-reads the winner's record. The loser's channel
// is orphaned; that is logged and accepted.
func (s *Service) Resolve(ctx context.Context, sender, receiver string) (Conversation, error) {
	conv, err := s.directory.ConversationByPair(ctx, sender, receiver)
	if err == nil {
		return conv, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Conversation{}, fmt.Errorf("resolve pair: %w", err)
	}

	var created CreatedChannel
	err = s.external(ctx, "create channel", func(ctx context.Context) error {
		var err error
		created, err = s.chat.CreateChannel(ctx, s.channelName(sender))
		return err
	})
	if err != nil {
		return Conversation{}, err
	}

	if err := s.external(ctx, "invite bridge user", func(ctx context.Context) error {
		return s.chat.InviteBridgeUser(ctx, created.ID)
	}); err != nil {
		return Conversation{}, err
	}

	conv, err = s.directory.CreateConversation(ctx, Conversation{
		SenderAddress:   sender,
		ReceiverAddress: receiver,
		ChannelID:       created.ID,
		DisplayName:     created.Name,
	})
	if err == nil {
		return conv, nil
	}
	if errors.Is(err, ErrConversationExists) {
		s.logger.Warn("lost conversation create race, channel orphaned",
			slog.String("sender", sender),
			slog.String("channel_id", created.ID),
		)
		return s.directory.ConversationByPair(ctx, sender, receiver)
	}
	return Conversation{}, fmt.Errorf("persist conversation: %w", err)
}

func (s *Service) channelName(sender string) string {
	return s.channelPrefix + "-" + strings.TrimPrefix(sender, "+")
}
