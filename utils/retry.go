package utils

import (
	"context"
	"fmt"
	"time"
)

// RetryConfig holds the backoff parameters for fetches that are allowed to
// fail transiently.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Logger      *Logger
}

// Do runs fn up to MaxAttempts times with doubling delays between attempts.
// The wait is cut short when ctx is cancelled.
func (r *RetryConfig) Do(ctx context.Context, name string, fn func() error) error {
	var lastErr error
	delay := r.BaseDelay

	for attempt := 1; attempt <= r.MaxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if attempt == r.MaxAttempts {
			break
		}

		r.Logger.Warn("[retry] %s failed (attempt %d/%d): %v, next try in %v",
			name, attempt, r.MaxAttempts, lastErr, delay)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		delay *= 2
	}

	return fmt.Errorf("%s failed after %d attempts: %w", name, r.MaxAttempts, lastErr)
}
