package handlers

import (
	"context"
	"log/slog"
	"sync"

	"github.com/relayline/relayline/internal/bridge"
)

// fakeBridge records every call the HTTP layer makes into the core.
type fakeBridge struct {
	mu sync.Mutex

	inbound   [][3]string
	relayed   [][2]string
	reactions [][3]string
	renames   [][2]string
	avatars   [][2]string
	pickers   []string
	dismissed [][2]string
	sent      [][3]string
	added     []string

	triggerResult bridge.TriggerResult
	triggerErr    error
	triggerCalls  [][2]string

	inboundErr error
	avatarErr  error

	// gate, when set, blocks all mutating calls until closed. Used to prove
	// the handlers acknowledge before doing work.
	gate chan struct{}
}

func (f *fakeBridge) wait() {
	if f.gate != nil {
		<-f.gate
	}
}

func (f *fakeBridge) HandleInboundSMS(_ context.Context, from, to, body string) error {
	f.wait()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inbound = append(f.inbound, [3]string{from, to, body})
	return f.inboundErr
}

func (f *fakeBridge) RelayChannelMessage(_ context.Context, channelID, text string) error {
	f.wait()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.relayed = append(f.relayed, [2]string{channelID, text})
	return nil
}

func (f *fakeBridge) HandleReaction(_ context.Context, channelID, messageTS, reaction string) error {
	f.wait()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reactions = append(f.reactions, [3]string{channelID, messageTS, reaction})
	return nil
}

func (f *fakeBridge) SyncChannelRename(_ context.Context, channelID, newName string) error {
	f.wait()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.renames = append(f.renames, [2]string{channelID, newName})
	return nil
}

func (f *fakeBridge) SetChannelAvatar(_ context.Context, channelID, url string) error {
	f.wait()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.avatars = append(f.avatars, [2]string{channelID, url})
	return f.avatarErr
}

func (f *fakeBridge) ExecuteTrigger(_ context.Context, triggerID, authToken string) (bridge.TriggerResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.triggerCalls = append(f.triggerCalls, [2]string{triggerID, authToken})
	return f.triggerResult, f.triggerErr
}

func (f *fakeBridge) OpenResponsePicker(_ context.Context, channelID string) error {
	f.wait()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pickers = append(f.pickers, channelID)
	return nil
}

func (f *fakeBridge) DismissPicker(_ context.Context, channelID, messageTS string) error {
	f.wait()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dismissed = append(f.dismissed, [2]string{channelID, messageTS})
	return nil
}

func (f *fakeBridge) SendResponse(_ context.Context, channelID, messageTS, responseID string) error {
	f.wait()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, [3]string{channelID, messageTS, responseID})
	return nil
}

func (f *fakeBridge) AddResponse(_ context.Context, message string) error {
	f.wait()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.added = append(f.added, message)
	return nil
}

func testLogger() *slog.Logger {
	return slog.Default()
}
