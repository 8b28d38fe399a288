package metrics

import (
	"sensorweb/internal/metrics"
	"sync"
	"time"
)

type Gatherer struct {
	Interval   time.Duration     // Polling interval to gather metrics at
	Retention  time.Duration     // Maximum time to maintain metrics for
	Registry   *metrics.Registry // Storage for metric data
	mu         sync.Mutex
	collectors []metrics.Collector
}

// Host level gauges (memory, goroutines)
type systemCollector struct {
	namespace []string
}
