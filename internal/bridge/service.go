package bridge

import (
	"context"
	"log/slog"
	"time"

	"github.com/kenshaw/emoji"
)

const (
	defaultExternalTimeout = 10 * time.Second
	defaultHistoryLimit    = 100
)

// Options tunes a Service. BotID is the chat-platform authorship marker on
// relay-originated posts; TriggerToken is the shared secret for the
// programmatic trigger path.
type Options struct {
	BotID           string
	ChannelPrefix   string
	TriggerToken    string
	HistoryLimit    int
	ExternalTimeout time.Duration
}

// Service is the bridge core. It is constructed once at startup and shared by
// every handler; it holds no mutable state of its own, the Directory is the
// single synchronization point.
type Service struct {
	directory Directory
	chat      ChatClient
	sms       SMSSender
	logger    *slog.Logger

	botID           string
	channelPrefix   string
	triggerToken    string
	historyLimit    int
	externalTimeout time.Duration
}

// NewService builds the bridge core over its capability interfaces.
func NewService(log *slog.Logger, directory Directory, chat ChatClient, sms SMSSender, opts Options) *Service {
	if log == nil {
		log = slog.Default()
	}
	if opts.ChannelPrefix == "" {
		opts.ChannelPrefix = "sms"
	}
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = defaultHistoryLimit
	}
	if opts.ExternalTimeout <= 0 {
		opts.ExternalTimeout = defaultExternalTimeout
	}
	return &Service{
		directory:       directory,
		chat:            chat,
		sms:             sms,
		logger:          log.With(slog.String("service", "bridge")),
		botID:           opts.BotID,
		channelPrefix:   opts.ChannelPrefix,
		triggerToken:    opts.TriggerToken,
		historyLimit:    opts.HistoryLimit,
		externalTimeout: opts.ExternalTimeout,
	}
}

// external runs fn under the per-call timeout and classifies the failure.
func (s *Service) external(ctx context.Context, op string, fn func(context.Context) error) error {
	callCtx, cancel := context.WithTimeout(ctx, s.externalTimeout)
	defer cancel()
	return externalErr(op, fn(callCtx))
}

// Expand replaces :shortcode: emoji aliases with their glyphs. Used on every
// outbound SMS body and on reaction annotations, never on inbound chat posts.
func Expand(text string) string {
	return emoji.ReplaceAliases(text)
}
