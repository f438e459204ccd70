package bridge

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// forEachConversation runs fn once per conversation concurrently. Every task
// runs to completion regardless of the others; failures are collected and
// returned joined, matching the per-record independence of the directory
// update model (no rollback across records).
func forEachConversation(ctx context.Context, convs []Conversation, fn func(ctx context.Context, conv Conversation) error) error {
	if len(convs) == 0 {
		return nil
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for _, conv := range convs {
		wg.Add(1)
		go func(conv Conversation) {
			defer wg.Done()
			if err := fn(ctx, conv); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("conversation %s: %w", conv.ID, err))
				mu.Unlock()
			}
		}(conv)
	}
	wg.Wait()
	return errors.Join(errs...)
}
