package metrics

import (
	"testing"
	"time"
)

func TestRegistry_Search(t *testing.T) {
	reg, ts := setupRegistryWithData(t)

	tests := []struct {
		name      string
		metric    string
		namespace []string
		start     time.Time
		end       time.Time
		wantCount int
	}{
		{"everything", "", nil, time.Time{}, time.Time{}, 5},
		{"by name", "datagrams_received", nil, time.Time{}, time.Time{}, 2},
		{"by namespace prefix", "", []string{"Receiver", "Queue"}, time.Time{}, time.Time{}, 2},
		{"prefix longer than namespace", "", []string{"Receiver", "Queue", "Extra"}, time.Time{}, time.Time{}, 0},
		{"namespace mismatch", "", []string{"Sender"}, time.Time{}, time.Time{}, 0},
		{"start bound", "", nil, ts["ts2"], time.Time{}, 3},
		{"end bound", "", nil, time.Time{}, ts["ts1"], 2},
		{"window", "depth", nil, ts["ts2"], ts["ts3"], 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := reg.Search(tt.metric, tt.namespace, tt.start, tt.end)
			if len(got) != tt.wantCount {
				t.Fatalf("expected %d metrics, got %d: %+v", tt.wantCount, len(got), got)
			}
		})
	}
}

func TestRegistry_SearchOrdering(t *testing.T) {
	reg, ts := setupRegistryWithData(t)

	got := reg.Search("datagrams_received", nil, time.Time{}, time.Time{})
	if len(got) != 2 {
		t.Fatalf("expected 2 metrics, got %d", len(got))
	}
	if !got[0].Timestamp.Equal(ts["ts1"]) || !got[1].Timestamp.Equal(ts["ts2"]) {
		t.Fatalf("results not oldest first: %v, %v", got[0].Timestamp, got[1].Timestamp)
	}
}

func TestRegistry_Discover(t *testing.T) {
	reg, _ := setupRegistryWithData(t)

	tests := []struct {
		name        string
		metric      string
		description string
		namespace   []string
		unit        string
		metricType  MetricType
		wantNames   []string
	}{
		{"all unique", "", "", nil, "", "", []string{"busy_pct", "datagrams_received", "depth"}},
		{"substring name", "gram", "", nil, "", "", []string{"datagrams_received"}},
		{"description", "", "output worker", nil, "", "", []string{"depth"}},
		{"unit", "", "", nil, "percent", "", []string{"busy_pct"}},
		{"type", "", "", nil, "", Gauge, []string{"depth"}},
		{"namespace", "", "", []string{"Receiver", "Ingest"}, "", "", []string{"busy_pct", "datagrams_received"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := reg.Discover(tt.metric, tt.description, tt.namespace, tt.unit, tt.metricType)
			if len(got) != len(tt.wantNames) {
				t.Fatalf("expected %d metrics, got %d: %+v", len(tt.wantNames), len(got), got)
			}
			for i, metric := range got {
				if metric.Name != tt.wantNames[i] {
					t.Errorf("index %d: got %q want %q", i, metric.Name, tt.wantNames[i])
				}
				if !metric.Timestamp.IsZero() || metric.Value.Raw != nil {
					t.Errorf("discovered metric %q must not carry time or value", metric.Name)
				}
			}
		})
	}
}
