package metrics

import (
	"context"
	"sensorweb/internal/global"
	"sensorweb/internal/metrics"
	"sync/atomic"
	"testing"
	"time"
)

type fakeCollector struct {
	calls atomic.Uint64
}

func (fake *fakeCollector) CollectMetrics(interval time.Duration) (collection []metrics.Metric) {
	calls := fake.calls.Add(1)
	batch := metrics.NewBatch([]string{global.NSRecv, global.NSTest}, interval)
	batch.Add("calls", calls, "count", metrics.Counter, "times collected")
	collection = batch.Metrics
	return
}

type panicCollector struct{}

func (panicCollector) CollectMetrics(time.Duration) []metrics.Metric {
	panic("collector exploded")
}

func TestGatherer_Collect(t *testing.T) {
	gatherer := New([]string{global.NSRecv}, time.Minute, time.Hour)
	fake := &fakeCollector{}
	gatherer.Register(fake, nil)

	now := time.Date(2026, 4, 1, 10, 0, 30, 0, time.UTC)
	gatherer.Collect(context.Background(), now)

	got := gatherer.Registry.Search("calls", []string{global.NSRecv, global.NSTest}, time.Time{}, time.Time{})
	if len(got) != 1 || got[0].Value.Raw != uint64(1) {
		t.Fatalf("fake collector metrics: %+v", got)
	}

	system := gatherer.Registry.Search("", []string{global.NSRecv, global.NSmSystem}, time.Time{}, time.Time{})
	names := make(map[string]bool)
	for _, metric := range system {
		names[metric.Name] = true
	}
	for _, want := range []string{"memory_free", "memory_total", "goroutines"} {
		if !names[want] {
			t.Errorf("system metric %q missing", want)
		}
	}
}

func TestGatherer_CollectRecoversPanic(t *testing.T) {
	gatherer := New([]string{global.NSRecv}, time.Minute, time.Hour)
	gatherer.Register(panicCollector{})

	// Must not propagate
	gatherer.Collect(context.Background(), time.Now())
}

func TestGatherer_RunStopsOnCancel(t *testing.T) {
	gatherer := New([]string{global.NSRecv}, 20*time.Millisecond, time.Hour)
	fake := &fakeCollector{}
	gatherer.Register(fake)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		gatherer.Run(ctx)
		close(stopped)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for len(gatherer.Registry.Search("calls", nil, time.Time{}, time.Time{})) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("gatherer never collected")
		}
		time.Sleep(10 * time.Millisecond)
	}

	cancel()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("gatherer ignored cancel")
	}
}
