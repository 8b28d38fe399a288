package handoff

import (
	"context"
	"errors"
	"sensorweb/internal/global"
	"sync"
	"testing"
	"time"
)

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		policy   Policy
	}{
		{"negative capacity", -1, Block},
		{"unknown policy", 4, Policy(9)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New[int]([]string{global.NSTest}, tt.capacity, tt.policy)
			if err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		input     string
		want      Policy
		expectErr bool
	}{
		{"", Block, false},
		{"block", Block, false},
		{" DROP ", Drop, false},
		{"discard", Block, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePolicy(tt.input)
			if (err != nil) != tt.expectErr {
				t.Fatalf("error: got %v, expectErr %v", err, tt.expectErr)
			}
			if err == nil && got != tt.want {
				t.Fatalf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestSink_SynchronousHandoff(t *testing.T) {
	sink, err := New[string]([]string{global.NSTest}, 0, Block)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := context.Background()

	received := make(chan string, 1)
	go func() {
		value, ok := sink.Pop(ctx)
		if ok {
			received <- value
		}
	}()

	err = sink.Push(ctx, "ESP_D427A9")
	if err != nil {
		t.Fatalf("push failed: %v", err)
	}

	select {
	case got := <-received:
		if got != "ESP_D427A9" {
			t.Fatalf("got %q", got)
		}
	case <-time.After(time.Second):
		t.Fatal("consumer never received value")
	}

	if depth := sink.Depth(); depth != 0 {
		t.Fatalf("expected depth 0 after pop, got %d", depth)
	}
}

func TestSink_BlockWaitsForConsumer(t *testing.T) {
	sink, _ := New[int]([]string{global.NSTest}, 0, Block)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := sink.Push(ctx, 1)
	if err == nil {
		t.Fatal("expected push without consumer to fail once ctx expires")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
	if time.Since(start) < 40*time.Millisecond {
		t.Fatal("push returned before the deadline, it did not block")
	}
	if sink.Depth() != 0 {
		t.Fatalf("abandoned push left depth at %d", sink.Depth())
	}
}

func TestSink_DropNeverBlocks(t *testing.T) {
	tests := []struct {
		name        string
		capacity    int
		pushes      int
		wantDropped int
	}{
		{"synchronous without consumer", 0, 3, 3},
		{"buffered overflow", 2, 5, 3},
		{"buffered fits", 4, 4, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink, _ := New[int]([]string{global.NSTest}, tt.capacity, Drop)

			dropped := 0
			for i := 0; i < tt.pushes; i++ {
				err := sink.Push(context.Background(), i)
				if errors.Is(err, ErrFull) {
					dropped++
				} else if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
			}

			if dropped != tt.wantDropped {
				t.Fatalf("dropped %d, want %d", dropped, tt.wantDropped)
			}
			if got := int(sink.Depth()); got != tt.pushes-tt.wantDropped {
				t.Fatalf("depth %d, want %d", got, tt.pushes-tt.wantDropped)
			}
		})
	}
}

func TestSink_CloseDrainsBufferedValues(t *testing.T) {
	sink, _ := New[int]([]string{global.NSTest}, 4, Block)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		if err := sink.Push(ctx, i); err != nil {
			t.Fatalf("push %d: %v", i, err)
		}
	}
	if sink.Closed() {
		t.Fatal("new sink reports closed")
	}
	sink.Close()
	sink.Close() // idempotent
	if !sink.Closed() {
		t.Fatal("closed sink reports open")
	}

	if err := sink.Push(ctx, 4); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed after close, got %v", err)
	}

	for want := 1; want <= 3; want++ {
		got, ok := sink.Pop(ctx)
		if !ok || got != want {
			t.Fatalf("pop: got (%d, %v), want (%d, true)", got, ok, want)
		}
	}
	if _, ok := sink.Pop(ctx); ok {
		t.Fatal("expected closed empty sink to report no value")
	}
}

func TestSink_CloseReleasesBlockedProducer(t *testing.T) {
	sink, _ := New[int]([]string{global.NSTest}, 0, Block)

	result := make(chan error, 1)
	go func() {
		result <- sink.Push(context.Background(), 1)
	}()

	time.Sleep(20 * time.Millisecond)
	sink.Close()

	select {
	case err := <-result:
		if !errors.Is(err, ErrClosed) {
			t.Fatalf("expected ErrClosed, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("blocked producer was not released by close")
	}
}

func TestSink_PopHonorsContext(t *testing.T) {
	sink, _ := New[int]([]string{global.NSTest}, 1, Block)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, ok := sink.Pop(ctx); ok {
		t.Fatal("expected pop on cancelled context to fail")
	}
}

func TestSink_OrderAndConcurrency(t *testing.T) {
	sink, _ := New[int]([]string{global.NSTest}, 8, Block)
	ctx := context.Background()

	const total = 1000
	var got []int
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for len(got) < total {
			value, ok := sink.Pop(ctx)
			if !ok {
				return
			}
			got = append(got, value)
		}
	}()

	for i := 0; i < total; i++ {
		if err := sink.Push(ctx, i); err != nil {
			t.Fatalf("push %d: %v", i, err)
		}
	}
	wg.Wait()

	for i, value := range got {
		if value != i {
			t.Fatalf("out of order at %d: got %d", i, value)
		}
	}
}

func TestSink_CollectMetrics(t *testing.T) {
	sink, _ := New[int]([]string{global.NSRecv}, 1, Drop)
	ctx := context.Background()

	_ = sink.Push(ctx, 1)
	_ = sink.Push(ctx, 2) // dropped
	_, _ = sink.Pop(ctx)

	collected := sink.CollectMetrics(time.Second)
	values := make(map[string]uint64)
	for _, metric := range collected {
		values[metric.Name] = metric.Value.Raw.(uint64)
		if len(metric.Namespace) != 2 || metric.Namespace[1] != global.NSQueue {
			t.Fatalf("unexpected namespace %v", metric.Namespace)
		}
	}

	want := map[string]uint64{
		"depth":         0,
		"capacity":      1,
		"push_attempts": 2,
		"push_success":  1,
		"push_dropped":  1,
		"push_failed":   0,
		"pop_success":   1,
	}
	for name, value := range want {
		if values[name] != value {
			t.Errorf("%s: got %d want %d", name, values[name], value)
		}
	}

	// Counters reset after collection
	again := sink.CollectMetrics(time.Second)
	for _, metric := range again {
		if metric.Name == "push_attempts" && metric.Value.Raw.(uint64) != 0 {
			t.Errorf("push_attempts not reset")
		}
	}
}
