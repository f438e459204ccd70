package bridge

import (
	"context"
	"errors"
	"fmt"
	"os"
)

var (
	// ErrNotFound marks a legitimate absence: no record with that identity.
	ErrNotFound = errors.New("record not found")
	// ErrUnavailable marks the session directory being unreachable, as
	// opposed to a record legitimately missing.
	ErrUnavailable = errors.New("session directory unavailable")
	// ErrConversationExists signals a lost create race on an address pair.
	ErrConversationExists = errors.New("conversation already exists for address pair")
)

// ExternalError wraps a chat-platform or SMS-gateway failure. Timeout marks
// the retryable class; no retry is performed here, callers only log.
type ExternalError struct {
	Op      string
	Err     error
	Timeout bool
}

func (e *ExternalError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("%s: timed out: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ExternalError) Unwrap() error { return e.Err }

func externalErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &ExternalError{
		Op:      op,
		Err:     err,
		Timeout: errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err),
	}
}
