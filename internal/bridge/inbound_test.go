package bridge

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleInboundSMSPostsToBoundChannel(t *testing.T) {
	t.Parallel()
	f := newFixture()
	ctx := context.Background()

	require.NoError(t, f.svc.HandleInboundSMS(ctx, "+15551230001", "+15559990000", "hello"))

	require.Len(t, f.chat.posts, 1)
	post := f.chat.posts[0]
	assert.Equal(t, "hello", post.Text, "body is relayed untransformed")
	assert.Equal(t, "Sms 15551230001", post.Username)
	assert.Empty(t, post.IconURL)
	assert.Equal(t, f.chat.created[0].ID, post.ChannelID)
}

func TestHandleInboundSMSUsesStoredAvatar(t *testing.T) {
	t.Parallel()
	f := newFixture()
	ctx := context.Background()

	conv, err := f.svc.Resolve(ctx, "+1555", "+1666")
	require.NoError(t, err)
	require.NoError(t, f.dir.SetConversationAvatar(ctx, conv.ID, "https://example.com/jane.png"))
	require.NoError(t, f.dir.SetConversationName(ctx, conv.ID, "jane-doe"))

	require.NoError(t, f.svc.HandleInboundSMS(ctx, "+1555", "+1666", "hi again"))

	require.Len(t, f.chat.posts, 1)
	assert.Equal(t, "Jane Doe", f.chat.posts[0].Username)
	assert.Equal(t, "https://example.com/jane.png", f.chat.posts[0].IconURL)
}

func TestHandleInboundSMSPostFailureSurfaces(t *testing.T) {
	t.Parallel()
	f := newFixture()
	f.chat.postErr = assert.AnError

	err := f.svc.HandleInboundSMS(context.Background(), "+1555", "+1666", "hello")
	var extErr *ExternalError
	require.ErrorAs(t, err, &extErr)
	assert.Equal(t, "post inbound message", extErr.Op)
}

func TestDisplayTitle(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in, want string
	}{
		{"sms-15551234", "Sms 15551234"},
		{"jane-doe", "Jane Doe"},
		{"solo", "Solo"},
		{"", ""},
		{"a--b", "A  B"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DisplayTitle(tt.in), "input %q", tt.in)
	}
}
