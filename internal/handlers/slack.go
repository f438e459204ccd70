package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/slack-go/slack"

	"github.com/relayline/relayline/internal/bridge"
	"github.com/relayline/relayline/internal/slackchat"
)

// Slash commands understood by the bridge.
const (
	CommandRespond = "/sms-respond"
	CommandChat    = "/sms-chat"
)

const (
	usagePicture   = "Please use this format `" + CommandChat + " picture [url]`"
	pictureUpdated = "Profile picture has been updated."
)

// eventKind is the closed set of chat platform events this bridge handles.
// Anything outside the set falls through to a logged default, never a silent
// drop.
type eventKind string

const (
	eventMessage       eventKind = "message"
	eventReactionAdded eventKind = "reaction_added"
	eventGroupRename   eventKind = "group_rename"
	eventChannelRename eventKind = "channel_rename"
)

// SlackHandler serves the event, interaction, and command callbacks. Each
// callback is acknowledged before any directory or API work; the work itself
// runs detached and can be awaited with Drain.
type SlackHandler struct {
	bridge        BridgeService
	signingSecret string
	workTimeout   time.Duration
	logger        *slog.Logger

	events map[eventKind]func(ctx context.Context, payload json.RawMessage) error
	wg     sync.WaitGroup
}

// NewSlackHandler creates the Slack callback handler. An empty signingSecret
// disables request signature verification (tests only).
func NewSlackHandler(log *slog.Logger, bridge BridgeService, signingSecret string, workTimeout time.Duration) *SlackHandler {
	if workTimeout <= 0 {
		workTimeout = 30 * time.Second
	}
	h := &SlackHandler{
		bridge:        bridge,
		signingSecret: signingSecret,
		workTimeout:   workTimeout,
		logger:        log.With(slog.String("handler", "slack")),
	}
	h.events = map[eventKind]func(ctx context.Context, payload json.RawMessage) error{
		eventMessage:       h.onMessage,
		eventReactionAdded: h.onReaction,
		eventGroupRename:   h.onRename,
		eventChannelRename: h.onRename,
	}
	return h
}

// Register mounts the Slack callback routes on the Echo instance.
func (h *SlackHandler) Register(e *echo.Echo) {
	e.POST("/slack/events", h.Events)
	e.POST("/slack/interactions", h.Interactions)
	e.POST("/slack/commands", h.Commands)
}

// Drain waits for all detached callback work to finish.
func (h *SlackHandler) Drain() {
	h.wg.Wait()
}

func (h *SlackHandler) runAsync(task string, fn func(ctx context.Context) error) {
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), h.workTimeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			h.logger.Error("callback work failed",
				slog.String("task", task),
				slog.Any("error", err),
			)
		}
	}()
}

// readVerified returns the raw request body after checking the platform
// signature. Signature verification is a transport boundary concern; the
// relay core never sees unverified input.
func (h *SlackHandler) readVerified(c echo.Context) ([]byte, error) {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "unreadable body")
	}
	if h.signingSecret == "" {
		return body, nil
	}
	verifier, err := slack.NewSecretsVerifier(c.Request().Header, h.signingSecret)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing signature")
	}
	if _, err := verifier.Write(body); err != nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "verifier write")
	}
	if err := verifier.Ensure(); err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "bad signature")
	}
	return body, nil
}

type eventEnvelope struct {
	Type      string          `json:"type"`
	Challenge string          `json:"challenge"`
	Event     json.RawMessage `json:"event"`
}

type innerEvent struct {
	Type string `json:"type"`
}

// Events handles the event subscription callback: URL verification
// challenges and the event kinds in the dispatch table.
func (h *SlackHandler) Events(c echo.Context) error {
	body, err := h.readVerified(c)
	if err != nil {
		return err
	}

	var envelope eventEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed event payload")
	}

	switch envelope.Type {
	case "url_verification":
		return c.String(http.StatusOK, envelope.Challenge)
	case "event_callback":
		var inner innerEvent
		if err := json.Unmarshal(envelope.Event, &inner); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "malformed inner event")
		}
		kind := eventKind(inner.Type)
		handler, ok := h.events[kind]
		if !ok {
			h.logger.Debug("unhandled event kind", slog.String("kind", inner.Type))
			return c.NoContent(http.StatusOK)
		}
		payload := envelope.Event
		h.runAsync(inner.Type, func(ctx context.Context) error {
			return handler(ctx, payload)
		})
		return c.NoContent(http.StatusOK)
	default:
		h.logger.Debug("unhandled envelope type", slog.String("type", envelope.Type))
		return c.NoContent(http.StatusOK)
	}
}

type messageEvent struct {
	Channel string `json:"channel"`
	Text    string `json:"text"`
	SubType string `json:"subtype"`
}

func (h *SlackHandler) onMessage(ctx context.Context, payload json.RawMessage) error {
	var event messageEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return err
	}
	// Subtyped messages (bot posts, joins, edits) never relay; this is what
	// keeps the bridge's own posts from looping back out as SMS.
	if event.SubType != "" {
		return nil
	}
	return h.bridge.RelayChannelMessage(ctx, event.Channel, event.Text)
}

type reactionEvent struct {
	Reaction string `json:"reaction"`
	Item     struct {
		Type    string `json:"type"`
		Channel string `json:"channel"`
		TS      string `json:"ts"`
	} `json:"item"`
}

func (h *SlackHandler) onReaction(ctx context.Context, payload json.RawMessage) error {
	var event reactionEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return err
	}
	if event.Item.Type != "message" {
		return nil
	}
	return h.bridge.HandleReaction(ctx, event.Item.Channel, event.Item.TS, event.Reaction)
}

type renameEvent struct {
	Channel struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"channel"`
}

func (h *SlackHandler) onRename(ctx context.Context, payload json.RawMessage) error {
	var event renameEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return err
	}
	return h.bridge.SyncChannelRename(ctx, event.Channel.ID, event.Channel.Name)
}

// Interactions handles block actions and message actions from the canned
// response flow.
func (h *SlackHandler) Interactions(c echo.Context) error {
	body, err := h.readVerified(c)
	if err != nil {
		return err
	}

	values, err := url.ParseQuery(string(body))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed interaction payload")
	}
	var callback slack.InteractionCallback
	if err := json.Unmarshal([]byte(values.Get("payload")), &callback); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed interaction payload")
	}

	switch callback.Type {
	case slack.InteractionTypeBlockActions:
		h.dispatchBlockActions(callback)
	case slack.InteractionTypeMessageAction:
		if callback.CallbackID == slackchat.CallbackAddResponse {
			text := callback.Message.Text
			h.runAsync("add response", func(ctx context.Context) error {
				return h.bridge.AddResponse(ctx, text)
			})
		} else {
			h.logger.Debug("unhandled message action", slog.String("callback_id", callback.CallbackID))
		}
	default:
		h.logger.Debug("unhandled interaction type", slog.String("type", string(callback.Type)))
	}
	return c.NoContent(http.StatusOK)
}

func (h *SlackHandler) dispatchBlockActions(callback slack.InteractionCallback) {
	channelID := callback.Channel.ID
	messageTS := callback.Message.Timestamp

	for _, action := range callback.ActionCallback.BlockActions {
		switch action.ActionID {
		case slackchat.ActionDismiss:
			h.runAsync("dismiss picker", func(ctx context.Context) error {
				return h.bridge.DismissPicker(ctx, channelID, messageTS)
			})
		case slackchat.ActionSendResponse:
			responseID := action.Value
			h.runAsync("send response", func(ctx context.Context) error {
				return h.bridge.SendResponse(ctx, channelID, messageTS, responseID)
			})
		default:
			h.logger.Debug("unhandled block action", slog.String("action_id", action.ActionID))
		}
	}
}

// Commands handles the slash commands. The HTTP response is the immediate
// ack; user feedback goes through the command's response URL afterwards.
func (h *SlackHandler) Commands(c echo.Context) error {
	body, err := h.readVerified(c)
	if err != nil {
		return err
	}

	c.Request().Body = io.NopCloser(bytes.NewReader(body))
	cmd, err := slack.SlashCommandParse(c.Request())
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed command payload")
	}

	switch cmd.Command {
	case CommandRespond:
		h.runAsync("open response picker", func(ctx context.Context) error {
			return h.bridge.OpenResponsePicker(ctx, cmd.ChannelID)
		})
	case CommandChat:
		h.runChatCommand(cmd)
	default:
		h.logger.Debug("unhandled command", slog.String("command", cmd.Command))
	}
	return c.NoContent(http.StatusOK)
}

func (h *SlackHandler) runChatCommand(cmd slack.SlashCommand) {
	args := strings.Fields(cmd.Text)
	if len(args) == 0 {
		return
	}
	switch args[0] {
	case "picture":
		if len(args) != 2 {
			h.runAsync("picture usage", func(ctx context.Context) error {
				return h.respond(ctx, cmd.ResponseURL, usagePicture)
			})
			return
		}
		pictureURL := args[1]
		h.runAsync("update picture", func(ctx context.Context) error {
			err := h.bridge.SetChannelAvatar(ctx, cmd.ChannelID, pictureURL)
			if errors.Is(err, bridge.ErrNotFound) {
				// Channel without a conversation: nothing to update, say nothing.
				return nil
			}
			if err != nil {
				return err
			}
			return h.respond(ctx, cmd.ResponseURL, pictureUpdated)
		})
	default:
		h.logger.Debug("unhandled chat subcommand", slog.String("subcommand", args[0]))
	}
}

// respond posts ephemeral feedback to a command's response URL.
func (h *SlackHandler) respond(ctx context.Context, responseURL, text string) error {
	if responseURL == "" {
		return nil
	}
	payload, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, responseURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return nil
}
