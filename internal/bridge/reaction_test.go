package bridge

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleReactionRelaysBridgePosts(t *testing.T) {
	t.Parallel()
	f := newFixture()
	ctx := context.Background()

	conv, err := f.svc.Resolve(ctx, "+1555", "+1666")
	require.NoError(t, err)

	f.chat.history = []ChatMessage{
		{Timestamp: "100.1", Text: "unrelated", SubType: "bot_message", BotID: "B042"},
		{Timestamp: "100.2", Text: "need help :sos:", SubType: "bot_message", BotID: "B042"},
	}

	require.NoError(t, f.svc.HandleReaction(ctx, conv.ChannelID, "100.2", "wave"))

	sends := f.sms.all()
	require.Len(t, sends, 1)
	assert.Equal(t, `Reacted with 👋 to "need help 🆘"`, sends[0].Body)
	assert.Equal(t, "+1666", sends[0].From)
	assert.Equal(t, "+1555", sends[0].To)
}

func TestHandleReactionKeepsQuotesVerbatim(t *testing.T) {
	t.Parallel()
	f := newFixture()
	ctx := context.Background()

	conv, err := f.svc.Resolve(ctx, "+1555", "+1666")
	require.NoError(t, err)

	f.chat.history = []ChatMessage{
		{Timestamp: "150.1", Text: `She said "no"`, SubType: "bot_message", BotID: "B042"},
	}

	require.NoError(t, f.svc.HandleReaction(ctx, conv.ChannelID, "150.1", "wave"))

	sends := f.sms.all()
	require.Len(t, sends, 1)
	assert.Equal(t, `Reacted with 👋 to "She said "no""`, sends[0].Body,
		"message text is quoted as-is, never escaped")
}

func TestHandleReactionIgnoresHumanMessages(t *testing.T) {
	t.Parallel()
	f := newFixture()
	ctx := context.Background()

	conv, err := f.svc.Resolve(ctx, "+1555", "+1666")
	require.NoError(t, err)

	f.chat.history = []ChatMessage{
		// Plain human chat, then a post from a different bot.
		{Timestamp: "200.1", Text: "just chatting"},
		{Timestamp: "200.2", Text: "other bot", SubType: "bot_message", BotID: "B999"},
	}

	require.NoError(t, f.svc.HandleReaction(ctx, conv.ChannelID, "200.1", "wave"))
	require.NoError(t, f.svc.HandleReaction(ctx, conv.ChannelID, "200.2", "wave"))
	assert.Empty(t, f.sms.all())
}

func TestHandleReactionUnboundChannelSkipsHistory(t *testing.T) {
	t.Parallel()
	f := newFixture()
	f.chat.history = []ChatMessage{{Timestamp: "1.0", SubType: "bot_message", BotID: "B042"}}

	require.NoError(t, f.svc.HandleReaction(context.Background(), "C404", "1.0", "wave"))
	assert.Empty(t, f.sms.all())
}

func TestHandleReactionUnknownTimestamp(t *testing.T) {
	t.Parallel()
	f := newFixture()
	ctx := context.Background()

	conv, err := f.svc.Resolve(ctx, "+1555", "+1666")
	require.NoError(t, err)
	f.chat.history = []ChatMessage{{Timestamp: "300.1", SubType: "bot_message", BotID: "B042"}}

	require.NoError(t, f.svc.HandleReaction(ctx, conv.ChannelID, "999.9", "wave"))
	assert.Empty(t, f.sms.all())
}
