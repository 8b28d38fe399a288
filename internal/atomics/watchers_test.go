package atomics

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestWaitDrained(t *testing.T) {
	tests := []struct {
		name          string
		initial       uint64
		drainAfter    time.Duration // zero leaves the gauge untouched
		timeout       time.Duration
		wantDrained   bool
		wantRemaining uint64
	}{
		{"already empty", 0, 0, 200 * time.Millisecond, true, 0},
		{"consumer catches up", 5, 50 * time.Millisecond, time.Second, true, 0},
		{"stuck queue", 3, 0, 150 * time.Millisecond, false, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gauge atomic.Uint64
			gauge.Store(tt.initial)

			if tt.drainAfter > 0 {
				time.AfterFunc(tt.drainAfter, func() { gauge.Store(0) })
			}

			start := time.Now()
			drained, remaining := WaitDrained(&gauge, tt.timeout)

			if drained != tt.wantDrained || remaining != tt.wantRemaining {
				t.Fatalf("got (drained=%v, remaining=%d), want (%v, %d)",
					drained, remaining, tt.wantDrained, tt.wantRemaining)
			}
			if !tt.wantDrained && time.Since(start) < tt.timeout {
				t.Fatalf("returned after %v, before the %v timeout", time.Since(start), tt.timeout)
			}
		})
	}
}
