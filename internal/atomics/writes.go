package atomics

import (
	"sync/atomic"
)

// Lowers a gauge by one, never wrapping below zero.
// Lock-free: a failed CAS only means another goroutine moved the gauge first.
func Decrement(gauge *atomic.Uint64) (after uint64) {
	for {
		current := gauge.Load()
		if current == 0 {
			return
		}
		if gauge.CompareAndSwap(current, current-1) {
			after = current - 1
			return
		}
	}
}
