package bridge

import (
	"context"
	"log/slog"
	"strings"
	"unicode"
)

// HandleInboundSMS relays one SMS from the transport into the bound chat
// channel, resolving (and lazily creating) the conversation. The body is
// posted untransformed; only the display identity is derived.
func (s *Service) HandleInboundSMS(ctx context.Context, from, to, body string) error {
	conv, err := s.Resolve(ctx, from, to)
	if err != nil {
		s.logger.Error("inbound resolve failed",
			slog.String("from", from),
			slog.Any("error", err),
		)
		return err
	}

	err = s.external(ctx, "post inbound message", func(ctx context.Context) error {
		return s.chat.PostMessage(ctx, conv.ChannelID, body, DisplayTitle(conv.DisplayName), conv.AvatarURL)
	})
	if err != nil {
		s.logger.Error("inbound post failed",
			slog.String("channel_id", conv.ChannelID),
			slog.Any("error", err),
		)
		return err
	}
	return nil
}

// DisplayTitle derives a human display name from a technical channel name:
// "-"-separated segments, each title-cased ("sms-15551234" → "Sms 15551234").
func DisplayTitle(channelName string) string {
	segments := strings.Split(channelName, "-")
	for i, seg := range segments {
		if seg == "" {
			continue
		}
		runes := []rune(seg)
		runes[0] = unicode.ToUpper(runes[0])
		segments[i] = string(runes)
	}
	return strings.Join(segments, " ")
}
