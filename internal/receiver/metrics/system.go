package metrics

import (
	"runtime"
	"sensorweb/internal/metrics"
	"time"

	"github.com/pbnjay/memory"
)

func (system *systemCollector) CollectMetrics(interval time.Duration) (collection []metrics.Metric) {
	batch := metrics.NewBatch(system.namespace, interval)

	batch.Add("memory_free", memory.FreeMemory(), "bytes", metrics.Gauge, "Free system memory")
	batch.Add("memory_total", memory.TotalMemory(), "bytes", metrics.Gauge, "Total system memory")
	batch.Add("goroutines", uint64(runtime.NumGoroutine()), "count", metrics.Gauge, "Goroutines in the collector process")

	collection = batch.Metrics
	return
}
