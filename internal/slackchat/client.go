// Package slackchat implements the bridge's chat capability on the Slack Web
// API. Two authorizations are in play: the bot token for relay posts and
// picker housekeeping, the operator user token for channel management,
// history, and posts that must re-enter the relay as human messages.
package slackchat

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/slack-go/slack"

	"github.com/relayline/relayline/internal/bridge"
)

// Interactive identifiers shared between the picker blocks and the
// interaction handlers.
const (
	ActionDismiss       = "dismiss"
	ActionSendResponse  = "response:send"
	CallbackAddResponse = "response:add"
)

// Client implements bridge.ChatClient.
type Client struct {
	bot       *slack.Client
	user      *slack.Client
	botUserID string
	logger    *slog.Logger
}

// New builds a Client from the two Slack tokens. botUserID is the workspace
// user invited into freshly created conversation channels.
func New(log *slog.Logger, botToken, userToken, botUserID string) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		bot:       slack.New(botToken),
		user:      slack.New(userToken),
		botUserID: botUserID,
		logger:    log.With(slog.String("service", "slackchat")),
	}
}

// CreateChannel creates a private channel owned by the operator account.
func (c *Client) CreateChannel(ctx context.Context, name string) (bridge.CreatedChannel, error) {
	channel, err := c.user.CreateConversationContext(ctx, slack.CreateConversationParams{
		ChannelName: name,
		IsPrivate:   true,
	})
	if err != nil {
		return bridge.CreatedChannel{}, fmt.Errorf("create conversation: %w", err)
	}
	return bridge.CreatedChannel{ID: channel.ID, Name: channel.Name}, nil
}

// InviteBridgeUser invites the bridge's bot user into the channel.
func (c *Client) InviteBridgeUser(ctx context.Context, channelID string) error {
	if _, err := c.user.InviteUsersToConversationContext(ctx, channelID, c.botUserID); err != nil {
		return fmt.Errorf("invite bot user: %w", err)
	}
	return nil
}

// PostMessage posts as the bot, optionally with a contact-derived username
// and avatar so inbound SMS reads like the external party speaking.
func (c *Client) PostMessage(ctx context.Context, channelID, text, username, iconURL string) error {
	opts := []slack.MsgOption{slack.MsgOptionText(text, false)}
	if username != "" {
		opts = append(opts, slack.MsgOptionUsername(username))
	}
	if iconURL != "" {
		opts = append(opts, slack.MsgOptionIconURL(iconURL))
	}
	if _, _, err := c.bot.PostMessageContext(ctx, channelID, opts...); err != nil {
		return fmt.Errorf("post message: %w", err)
	}
	return nil
}

// PostAsOperator posts with the user token so Slack emits an ordinary
// human-authored message event for the relay to pick up.
func (c *Client) PostAsOperator(ctx context.Context, channelID, text string) error {
	_, _, err := c.user.PostMessageContext(ctx, channelID,
		slack.MsgOptionText(text, false),
		slack.MsgOptionAsUser(true),
	)
	if err != nil {
		return fmt.Errorf("post as operator: %w", err)
	}
	return nil
}

// DeleteMessage removes a bot-posted message (picker housekeeping).
func (c *Client) DeleteMessage(ctx context.Context, channelID, messageTS string) error {
	if _, _, err := c.bot.DeleteMessageContext(ctx, channelID, messageTS); err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	return nil
}

// History returns recent channel messages, newest first, trimmed to what the
// reaction relay needs.
func (c *Client) History(ctx context.Context, channelID string, limit int) ([]bridge.ChatMessage, error) {
	resp, err := c.user.GetConversationHistoryContext(ctx, &slack.GetConversationHistoryParameters{
		ChannelID: channelID,
		Limit:     limit,
	})
	if err != nil {
		return nil, fmt.Errorf("conversation history: %w", err)
	}
	out := make([]bridge.ChatMessage, 0, len(resp.Messages))
	for _, msg := range resp.Messages {
		out = append(out, bridge.ChatMessage{
			Timestamp: msg.Timestamp,
			Text:      msg.Text,
			SubType:   msg.SubType,
			BotID:     msg.BotID,
		})
	}
	return out, nil
}

// PostResponsePicker posts the canned-response picker blocks as the bot.
func (c *Client) PostResponsePicker(ctx context.Context, channelID string, responses []bridge.CannedResponse) error {
	blocks := BuildResponsePicker(responses)
	if _, _, err := c.bot.PostMessageContext(ctx, channelID, slack.MsgOptionBlocks(blocks...)); err != nil {
		return fmt.Errorf("post response picker: %w", err)
	}
	return nil
}
