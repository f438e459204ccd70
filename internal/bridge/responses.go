package bridge

import (
	"context"
	"fmt"
	"strings"
)

// OpenResponsePicker lists every canned response as a selectable item in the
// invoking channel. Channels without a bound conversation get nothing: the
// picker only makes sense where a send could go somewhere.
func (s *Service) OpenResponsePicker(ctx context.Context, channelID string) error {
	convs, err := s.directory.ConversationsByChannel(ctx, channelID)
	if err != nil {
		return fmt.Errorf("lookup channel conversations: %w", err)
	}
	if len(convs) == 0 {
		return nil
	}

	responses, err := s.directory.ListResponses(ctx)
	if err != nil {
		return fmt.Errorf("list responses: %w", err)
	}

	return s.external(ctx, "post response picker", func(ctx context.Context) error {
		return s.chat.PostResponsePicker(ctx, channelID, responses)
	})
}

// DismissPicker deletes the ephemeral picker message. No data mutation.
func (s *Service) DismissPicker(ctx context.Context, channelID, messageTS string) error {
	return s.external(ctx, "delete picker message", func(ctx context.Context) error {
		return s.chat.DeleteMessage(ctx, channelID, messageTS)
	})
}

// SendResponse realizes a picker selection: the picker message is deleted and
// the chosen response's text is posted into the channel as the operator.
// No direct SMS here: the post raises an ordinary message event, which the
// outbound relay picks up like any other chat message.
func (s *Service) SendResponse(ctx context.Context, channelID, messageTS, responseID string) error {
	if err := s.DismissPicker(ctx, channelID, messageTS); err != nil {
		return err
	}

	resp, err := s.directory.ResponseByID(ctx, responseID)
	if err != nil {
		return fmt.Errorf("load response: %w", err)
	}

	return s.external(ctx, "post response text", func(ctx context.Context) error {
		return s.chat.PostAsOperator(ctx, channelID, resp.Message)
	})
}

// AddResponse saves an operator's freeform message as a new canned response.
// Empty messages are dropped silently.
func (s *Service) AddResponse(ctx context.Context, message string) error {
	if strings.TrimSpace(message) == "" {
		return nil
	}
	_, err := s.directory.CreateResponse(ctx, message)
	return err
}
