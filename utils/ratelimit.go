package utils

import "time"

// RateLimiter enforces a minimum interval between consecutive operations.
// The pipeline is sequential, so a simple last-timestamp check is enough:
// Wait blocks until at least the configured interval has passed since the
// previous call, then records the new timestamp.
type RateLimiter struct {
	minInterval time.Duration
	last        time.Time
}

// NewRateLimiter creates a RateLimiter with the given minimum interval in
// milliseconds. An interval of 0 disables waiting.
func NewRateLimiter(intervalMs int) *RateLimiter {
	return &RateLimiter{
		minInterval: time.Duration(intervalMs) * time.Millisecond,
	}
}

// Wait sleeps until the minimum interval since the last request has elapsed.
func (r *RateLimiter) Wait() {
	if r.minInterval <= 0 {
		return
	}
	if !r.last.IsZero() {
		if elapsed := time.Since(r.last); elapsed < r.minInterval {
			time.Sleep(r.minInterval - elapsed)
		}
	}
	r.last = time.Now()
}
