// Helpers for the atomic gauges shared between pipeline stages
package atomics

import (
	"sync/atomic"
	"time"
)

const (
	drainPollInterval = 20 * time.Millisecond
	drainStreak       = 3 // consecutive zero reads before a gauge counts as drained
)

// Blocks until the gauge reads zero on consecutive polls or the timeout passes.
// Returns the last observed value, which is what was left behind on timeout.
func WaitDrained(gauge *atomic.Uint64, timeout time.Duration) (drained bool, remaining uint64) {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(drainPollInterval)
	defer ticker.Stop()

	streak := 0
	for {
		remaining = gauge.Load()
		if remaining == 0 {
			streak++
		} else {
			streak = 0
		}
		if streak >= drainStreak {
			drained = true
			return
		}

		select {
		case <-deadline.C:
			remaining = gauge.Load()
			return
		case <-ticker.C:
		}
	}
}
