package bridge

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
)

// Structured trigger error codes. These travel in a success-shaped response
// body; the transport status stays 200 for all of them.
const (
	TriggerErrInvalidToken = "invalid_auth_token"
	TriggerErrInvalidID    = "invalid_trigger_id"
	TriggerErrInactive     = "trigger_inactive"
)

// TriggerResult is the outcome of a trigger execution. Exactly one of Success
// or ErrorCode is set.
type TriggerResult struct {
	Success   bool   `json:"success,omitempty"`
	ErrorCode string `json:"error,omitempty"`
}

// ExecuteTrigger validates and fires a pre-declared SMS send. Checks run in
// order and the first failure wins: auth token, trigger existence, trigger
// active. On success the SMS goes sender to receiver, unswapped, because a
// trigger is an outbound message from the service's own number, not a reply.
// This path never touches the chat platform.
//
// A non-nil error means the directory was unreachable; structured failures
// come back inside the result.
func (s *Service) ExecuteTrigger(ctx context.Context, triggerID, authToken string) (TriggerResult, error) {
	if subtle.ConstantTimeCompare([]byte(authToken), []byte(s.triggerToken)) != 1 {
		return TriggerResult{ErrorCode: TriggerErrInvalidToken}, nil
	}

	trigger, err := s.directory.TriggerByID(ctx, triggerID)
	if errors.Is(err, ErrNotFound) {
		return TriggerResult{ErrorCode: TriggerErrInvalidID}, nil
	}
	if err != nil {
		return TriggerResult{}, fmt.Errorf("load trigger: %w", err)
	}

	if !trigger.Active {
		return TriggerResult{ErrorCode: TriggerErrInactive}, nil
	}

	err = s.external(ctx, "send trigger sms", func(ctx context.Context) error {
		return s.sms.Send(ctx, trigger.SenderAddress, trigger.ReceiverAddress, Expand(trigger.Message))
	})
	if err != nil {
		// Best-effort send: the gateway failure is logged and the caller
		// still gets the acknowledgment, mirroring the relay's loss model.
		s.logger.Error("trigger sms send failed",
			slog.String("trigger_id", triggerID),
			slog.Any("error", err),
		)
	}
	return TriggerResult{Success: true}, nil
}
