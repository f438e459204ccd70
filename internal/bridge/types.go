// Package bridge implements the conversation session manager and the
// bidirectional relay between the SMS transport and the chat platform.
package bridge

import "context"

// Conversation binds an SMS address pair to a chat channel. The pair
// (SenderAddress, ReceiverAddress) is unique across all conversations; a
// channel may be bound by more than one conversation.
type Conversation struct {
	ID              string
	SenderAddress   string
	ReceiverAddress string
	ChannelID       string
	DisplayName     string
	AvatarURL       string
}

// Trigger is a pre-declared, token-gated programmatic SMS send. Triggers are
// created out-of-band and read-only here; Active=false disables execution
// without deletion.
type Trigger struct {
	ID              string
	Active          bool
	SenderAddress   string
	ReceiverAddress string
	Message         string
}

// CannedResponse is an operator-authored reusable message.
type CannedResponse struct {
	ID      string
	Message string
}

// ChatMessage is one entry of channel history, enough to recognize
// relay-originated posts.
type ChatMessage struct {
	Timestamp string
	Text      string
	SubType   string
	BotID     string
}

// CreatedChannel is the result of creating a chat channel.
type CreatedChannel struct {
	ID   string
	Name string
}

// Directory is the persistence contract for conversations, triggers, and
// canned responses. It is the only shared resource between concurrent
// handlers; all coordination happens through its reads and writes.
type Directory interface {
	// ConversationByPair returns the conversation for the exact address pair,
	// or ErrNotFound.
	ConversationByPair(ctx context.Context, sender, receiver string) (Conversation, error)
	// CreateConversation inserts conv with a fresh id. Returns
	// ErrConversationExists when another conversation already holds the same
	// address pair; the caller re-reads the winner.
	CreateConversation(ctx context.Context, conv Conversation) (Conversation, error)
	// ConversationsByChannel returns every conversation bound to channelID.
	// An unbound channel yields an empty slice, not an error.
	ConversationsByChannel(ctx context.Context, channelID string) ([]Conversation, error)
	SetConversationName(ctx context.Context, id, name string) error
	SetConversationAvatar(ctx context.Context, id, url string) error

	TriggerByID(ctx context.Context, id string) (Trigger, error)

	ResponseByID(ctx context.Context, id string) (CannedResponse, error)
	ListResponses(ctx context.Context) ([]CannedResponse, error)
	CreateResponse(ctx context.Context, message string) (CannedResponse, error)
}

// ChatClient is the capability surface the bridge needs from the chat
// platform. Username and icon on PostMessage may be empty for plain posts.
type ChatClient interface {
	CreateChannel(ctx context.Context, name string) (CreatedChannel, error)
	InviteBridgeUser(ctx context.Context, channelID string) error
	PostMessage(ctx context.Context, channelID, text, username, iconURL string) error
	// PostAsOperator posts as the operator account so the resulting message
	// event re-enters the relay like any human-authored message.
	PostAsOperator(ctx context.Context, channelID, text string) error
	DeleteMessage(ctx context.Context, channelID, messageTS string) error
	History(ctx context.Context, channelID string, limit int) ([]ChatMessage, error)
	PostResponsePicker(ctx context.Context, channelID string, responses []CannedResponse) error
}

// SMSSender sends one SMS through the gateway.
type SMSSender interface {
	Send(ctx context.Context, from, to, body string) error
}
