package metrics

import (
	"sync"
	"time"
)

type Registry struct {
	mu      sync.RWMutex
	metrics map[time.Time]map[string]map[string]Metric // key0=timestamp, key1=namespace, key2=name
}

type MetricType string

const (
	Counter MetricType = "counter" // reset every collection interval
	Gauge   MetricType = "gauge"   // can go up/down
	Summary MetricType = "summary" // avg/min/max
)

// Anything that can report its counters for one collection interval
type Collector interface {
	CollectMetrics(interval time.Duration) []Metric
}

// Container for a metric and associated data
type Metric struct {
	Name        string // e.g. datagrams_received, depth
	Description string
	Namespace   []string // e.g. "Receiver/Ingest/Listener"
	Value       MetricValue
	Type        MetricType
	Timestamp   time.Time // time when the metric was recorded
}

// Specific value of a metric
type MetricValue struct {
	Raw      any           // uint64, float64
	Unit     string        // e.g., "ns", "bytes", "count"
	Interval time.Duration // measurement window
}

// JSON version
type JMetric struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Namespace   string       `json:"namespace"`
	Value       JMetricValue `json:"value"`
	Type        string       `json:"type"`
	Timestamp   string       `json:"timestamp"`
}

type JMetricValue struct {
	Raw      string `json:"raw"`
	Unit     string `json:"unit"`
	Interval string `json:"interval"`
}
