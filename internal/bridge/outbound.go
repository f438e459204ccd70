package bridge

import (
	"context"
	"fmt"
	"log/slog"
)

// RelayChannelMessage turns a chat-originated message into outbound SMS.
// Every conversation bound to the channel produces an independent send; a
// channel shared by several conversations fans out to all of them.
//
// Address direction is swapped: the chat side is authored by the service
// operator, so the SMS must appear to come from the conversation's receiver
// number back to the original sender.
func (s *Service) RelayChannelMessage(ctx context.Context, channelID, text string) error {
	convs, err := s.directory.ConversationsByChannel(ctx, channelID)
	if err != nil {
		return fmt.Errorf("lookup channel conversations: %w", err)
	}
	if len(convs) == 0 {
		return nil
	}

	body := Expand(text)
	err = forEachConversation(ctx, convs, func(ctx context.Context, conv Conversation) error {
		return s.external(ctx, "send sms", func(ctx context.Context) error {
			return s.sms.Send(ctx, conv.ReceiverAddress, conv.SenderAddress, body)
		})
	})
	if err != nil {
		s.logger.Error("outbound relay incomplete",
			slog.String("channel_id", channelID),
			slog.Any("error", err),
		)
		return err
	}
	return nil
}
