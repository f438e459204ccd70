package bridge

import (
	"context"
	"fmt"
	"log/slog"
)

// SyncChannelRename writes the channel's new name into the display name of
// every bound conversation. Each record is updated independently; partial
// failure leaves the rest updated and is only logged by callers.
func (s *Service) SyncChannelRename(ctx context.Context, channelID, newName string) error {
	convs, err := s.directory.ConversationsByChannel(ctx, channelID)
	if err != nil {
		return fmt.Errorf("lookup channel conversations: %w", err)
	}

	err = forEachConversation(ctx, convs, func(ctx context.Context, conv Conversation) error {
		return s.directory.SetConversationName(ctx, conv.ID, newName)
	})
	if err != nil {
		s.logger.Error("rename sync incomplete",
			slog.String("channel_id", channelID),
			slog.Any("error", err),
		)
		return err
	}
	return nil
}

// SetChannelAvatar stores the avatar URL on every conversation bound to the
// channel. The value is taken as given, no validation. Returns ErrNotFound
// when the channel has no bound conversations so command handlers can tell
// the operator.
func (s *Service) SetChannelAvatar(ctx context.Context, channelID, url string) error {
	convs, err := s.directory.ConversationsByChannel(ctx, channelID)
	if err != nil {
		return fmt.Errorf("lookup channel conversations: %w", err)
	}
	if len(convs) == 0 {
		return ErrNotFound
	}

	err = forEachConversation(ctx, convs, func(ctx context.Context, conv Conversation) error {
		return s.directory.SetConversationAvatar(ctx, conv.ID, url)
	})
	if err != nil {
		s.logger.Error("avatar sync incomplete",
			slog.String("channel_id", channelID),
			slog.Any("error", err),
		)
		return err
	}
	return nil
}
