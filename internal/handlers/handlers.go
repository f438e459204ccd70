// Package handlers mounts the HTTP surface: transport webhooks, the trigger
// API, and the chat platform's event, interaction, and command callbacks.
package handlers

import (
	"context"

	"github.com/relayline/relayline/internal/bridge"
)

// BridgeService is the slice of the bridge core the HTTP layer drives.
type BridgeService interface {
	HandleInboundSMS(ctx context.Context, from, to, body string) error
	RelayChannelMessage(ctx context.Context, channelID, text string) error
	HandleReaction(ctx context.Context, channelID, messageTS, reaction string) error
	SyncChannelRename(ctx context.Context, channelID, newName string) error
	SetChannelAvatar(ctx context.Context, channelID, url string) error
	ExecuteTrigger(ctx context.Context, triggerID, authToken string) (bridge.TriggerResult, error)
	OpenResponsePicker(ctx context.Context, channelID string) error
	DismissPicker(ctx context.Context, channelID, messageTS string) error
	SendResponse(ctx context.Context, channelID, messageTS, responseID string) error
	AddResponse(ctx context.Context, message string) error
}

// ErrorResponse is the standard API error body (message only).
type ErrorResponse struct {
	Message string `json:"message"`
}
