package metrics

import (
	"testing"
	"time"
)

func setupRegistryWithData(t *testing.T) (mockRegistry *Registry, mockedTimeSlices map[string]time.Time) {
	t.Helper()

	mockRegistry = New()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	interval := time.Minute

	ts1 := mockRegistry.NewTimeSlice(base.Add(0*time.Minute), interval)
	ts2 := mockRegistry.NewTimeSlice(base.Add(1*time.Minute+10*time.Second), interval)
	ts3 := mockRegistry.NewTimeSlice(base.Add(2*time.Minute), interval)

	listenerNS := []string{"Receiver", "Ingest", "Listener"}
	queueNS := []string{"Receiver", "Queue"}

	mockRegistry.Add(ts1, []Metric{
		{
			Name: "datagrams_received", Description: "datagrams read from the socket",
			Namespace: listenerNS, Type: Counter, Timestamp: ts1,
			Value: MetricValue{Raw: uint64(10), Unit: "count", Interval: interval},
		},
		{
			Name: "depth", Description: "events waiting for the output worker",
			Namespace: queueNS, Type: Gauge, Timestamp: ts1,
			Value: MetricValue{Raw: uint64(0), Unit: "count", Interval: interval},
		},
	})
	mockRegistry.Add(ts2, []Metric{
		{
			Name: "datagrams_received", Description: "datagrams read from the socket",
			Namespace: listenerNS, Type: Counter, Timestamp: ts2,
			Value: MetricValue{Raw: uint64(12), Unit: "count", Interval: interval},
		},
		{
			Name: "busy_pct", Description: "time spent outside the receive call",
			Namespace: listenerNS, Type: Summary, Timestamp: ts2,
			Value: MetricValue{Raw: 1.5, Unit: "percent", Interval: interval},
		},
	})
	mockRegistry.Add(ts3, []Metric{
		{
			Name: "depth", Description: "events waiting for the output worker",
			Namespace: queueNS, Type: Gauge, Timestamp: ts3,
			Value: MetricValue{Raw: uint64(3), Unit: "count", Interval: interval},
		},
	})

	mockedTimeSlices = map[string]time.Time{"ts1": ts1, "ts2": ts2, "ts3": ts3}
	return
}

func TestRegistry_NewTimeSlice(t *testing.T) {
	reg := New()
	now := time.Date(2026, 1, 1, 0, 0, 42, 0, time.UTC)

	got := reg.NewTimeSlice(now, 15*time.Second)
	want := time.Date(2026, 1, 1, 0, 0, 30, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected slice %v, got %v", want, got)
	}

	// Zero interval keeps the exact time
	got = reg.NewTimeSlice(now, 0)
	if !got.Equal(now) {
		t.Fatalf("expected slice %v, got %v", now, got)
	}
}

func TestRegistry_AddUnknownSliceIgnored(t *testing.T) {
	reg := New()
	reg.Add(time.Now(), []Metric{{Name: "orphan"}})

	if got := reg.Search("", nil, time.Time{}, time.Time{}); len(got) != 0 {
		t.Fatalf("expected no metrics, got %d", len(got))
	}
}

func TestRegistry_Prune(t *testing.T) {
	reg, ts := setupRegistryWithData(t)

	if got := len(reg.Search("", nil, time.Time{}, time.Time{})); got != 5 {
		t.Fatalf("expected 5 metrics before prune, got %d", got)
	}

	// ts1 is 2 minutes old, ts2 1 minute, ts3 current
	reg.Prune(ts["ts3"], 90*time.Second)

	after := reg.Search("", nil, time.Time{}, time.Time{})
	if len(after) != 3 {
		t.Fatalf("expected 3 metrics after prune, got %d", len(after))
	}
	for _, metric := range after {
		if metric.Timestamp.Equal(ts["ts1"]) {
			t.Fatalf("metric %q from pruned slice still present", metric.Name)
		}
	}
}

func TestBatch(t *testing.T) {
	ns := []string{"Receiver", "Output"}
	batch := NewBatch(ns, 15*time.Second)
	batch.Add("events", uint64(4), "count", Counter, "events received")
	batch.Add("nats_published", uint64(3), "count", Counter, "events published to NATS")

	// Caller slice reuse must not leak into the batch
	ns[1] = "mutated"

	if len(batch.Metrics) != 2 {
		t.Fatalf("expected 2 metrics, got %d", len(batch.Metrics))
	}
	for _, metric := range batch.Metrics {
		if metric.Namespace[1] != "Output" {
			t.Errorf("namespace changed: %v", metric.Namespace)
		}
		if metric.Value.Interval != 15*time.Second {
			t.Errorf("interval: got %v", metric.Value.Interval)
		}
		if !metric.Timestamp.Equal(batch.Metrics[0].Timestamp) {
			t.Errorf("metrics in one batch must share a record time")
		}
	}
}
