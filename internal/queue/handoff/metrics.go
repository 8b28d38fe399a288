package handoff

import (
	"sensorweb/internal/metrics"
	"time"
)

func (sink *Sink[T]) CollectMetrics(interval time.Duration) (collection []metrics.Metric) {
	batch := metrics.NewBatch(sink.Namespace, interval)

	batch.Add("depth", sink.Metrics.Depth.Load(), "count", metrics.Gauge, "Events accepted and waiting for a consumer")
	batch.Add("capacity", uint64(sink.Capacity), "count", metrics.Gauge, "Buffered slots (0 is a synchronous hand-off)")
	batch.Add("push_attempts", sink.Metrics.PushAttempts.Swap(0), "count", metrics.Counter, "Total push attempts in the interval")
	batch.Add("push_success", sink.Metrics.PushSuccess.Swap(0), "count", metrics.Counter, "Events handed to a consumer in the interval")
	batch.Add("push_dropped", sink.Metrics.PushDropped.Swap(0), "count", metrics.Counter, "Events dropped because no consumer was ready")
	batch.Add("push_failed", sink.Metrics.PushFailed.Swap(0), "count", metrics.Counter, "Pushes abandoned on shutdown or closed queue")
	batch.Add("pop_success", sink.Metrics.PopSuccess.Swap(0), "count", metrics.Counter, "Events taken by consumers in the interval")

	collection = batch.Metrics
	return
}
