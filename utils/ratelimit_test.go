package utils

import (
	"testing"
	"time"
)

func TestRateLimiterEnforcesInterval(t *testing.T) {
	rl := NewRateLimiter(50)

	start := time.Now()
	rl.Wait() // first call never blocks
	rl.Wait()
	elapsed := time.Since(start)

	if elapsed < 50*time.Millisecond {
		t.Errorf("second Wait returned after %v; want at least 50ms", elapsed)
	}
}

func TestRateLimiterZeroIntervalNeverBlocks(t *testing.T) {
	rl := NewRateLimiter(0)

	start := time.Now()
	for i := 0; i < 100; i++ {
		rl.Wait()
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("100 Waits with zero interval took %v", elapsed)
	}
}
