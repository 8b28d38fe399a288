package atomics

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestDecrement(t *testing.T) {
	tests := []struct {
		name      string
		initial   uint64
		calls     int
		wantFinal uint64
	}{
		{"already zero", 0, 1, 0},
		{"single", 5, 1, 4},
		{"down to zero", 3, 3, 0},
		{"floors at zero", 2, 5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gauge atomic.Uint64
			gauge.Store(tt.initial)

			var after uint64
			for i := 0; i < tt.calls; i++ {
				after = Decrement(&gauge)
			}

			if final := gauge.Load(); final != tt.wantFinal || after != tt.wantFinal {
				t.Fatalf("expected final=%d, got gauge=%d returned=%d", tt.wantFinal, final, after)
			}
		})
	}
}

func TestDecrement_Concurrent(t *testing.T) {
	const workers = 16
	const perWorker = 500

	var gauge atomic.Uint64
	gauge.Store(workers * perWorker)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// One extra call per worker must not wrap the gauge
			for i := 0; i <= perWorker; i++ {
				Decrement(&gauge)
			}
		}()
	}
	wg.Wait()

	if got := gauge.Load(); got != 0 {
		t.Fatalf("expected gauge to settle at 0, got %d", got)
	}
}
