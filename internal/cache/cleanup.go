package cache

import (
	"context"
	"fmt"
	"time"
)

// StartCleanup launches a background sweep that calls PurgeExpired every
// interval until StopCleanup is called.
func (e *Engine) StartCleanup(interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("%w: got %s", ErrInvalidInterval, interval)
	}

	e.cleanupMu.Lock()
	defer e.cleanupMu.Unlock()
	if e.cleanupCancel != nil {
		return ErrCleanupRunning
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	e.cleanupCancel = cancel
	e.cleanupDone = done

	go e.cleanupLoop(ctx, interval, done)
	return nil
}

// StopCleanup stops the sweep started by StartCleanup and waits for it to
// exit. It is safe to call when no sweep is running and to call repeatedly.
func (e *Engine) StopCleanup() {
	e.cleanupMu.Lock()
	cancel, done := e.cleanupCancel, e.cleanupDone
	e.cleanupCancel, e.cleanupDone = nil, nil
	e.cleanupMu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (e *Engine) cleanupLoop(ctx context.Context, interval time.Duration, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.PurgeExpired()
		}
	}
}
