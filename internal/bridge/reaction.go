package bridge

import (
	"context"
	"fmt"
	"log/slog"
)

// HandleReaction relays a chat reaction as an SMS annotation. Only reactions
// to messages this bridge itself posted from inbound SMS are relayed; the
// message is recognized in recent channel history by its timestamp, a bot
// subtype, and this service's own bot id. Reacting to ordinary human chat is
// ignored.
func (s *Service) HandleReaction(ctx context.Context, channelID, messageTS, reaction string) error {
	convs, err := s.directory.ConversationsByChannel(ctx, channelID)
	if err != nil {
		return fmt.Errorf("lookup channel conversations: %w", err)
	}
	if len(convs) == 0 {
		return nil
	}

	var history []ChatMessage
	err = s.external(ctx, "fetch channel history", func(ctx context.Context) error {
		var err error
		history, err = s.chat.History(ctx, channelID, s.historyLimit)
		return err
	})
	if err != nil {
		s.logger.Error("reaction history fetch failed",
			slog.String("channel_id", channelID),
			slog.Any("error", err),
		)
		return err
	}

	for _, msg := range history {
		if msg.Timestamp != messageTS {
			continue
		}
		if msg.SubType != "bot_message" || msg.BotID != s.botID {
			continue
		}
		// Plain quotes around the raw text; the body must read naturally as
		// SMS, so no Go-style escaping of the message contents.
		text := fmt.Sprintf("Reacted with %s to \"%s\"", Expand(":"+reaction+":"), Expand(msg.Text))
		return s.RelayChannelMessage(ctx, channelID, text)
	}
	return nil
}
