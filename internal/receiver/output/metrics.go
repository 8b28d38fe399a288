package output

import (
	"sensorweb/internal/metrics"
	"time"
)

func (instance *Instance) CollectMetrics(interval time.Duration) (collection []metrics.Metric) {
	// Read and clear
	received := instance.Metrics.ReceivedEvents.Swap(0)
	logged := instance.Metrics.LoggedEvents.Swap(0)
	fileWrites := instance.Metrics.SuccessfulFileWrites.Swap(0)
	beatsSends := instance.Metrics.SuccessfulBeatsSends.Swap(0)
	natsPubs := instance.Metrics.SuccessfulNATSPubs.Swap(0)
	wsDeliveries := instance.Metrics.WebSocketDeliveries.Swap(0)
	failed := instance.Metrics.FailedWrites.Swap(0)

	batch := metrics.NewBatch(instance.Namespace, interval)
	batch.Add("received_events", received, "count", metrics.Counter, "Total events taken from the dispatch queue")
	batch.Add("written_events", logged+fileWrites+beatsSends+natsPubs+wsDeliveries, "count", metrics.Counter,
		"Total writes to any outputs (across all outputs)")
	batch.Add("logged_events", logged, "count", metrics.Counter, "Events passed to the log consumer")
	batch.Add("success_file_writes", fileWrites, "count", metrics.Counter, "Lines flushed to the file output")
	batch.Add("success_beats_sends", beatsSends, "count", metrics.Counter, "Events acknowledged by the beats server")
	batch.Add("success_nats_publishes", natsPubs, "count", metrics.Counter, "Events published to NATS")
	batch.Add("websocket_deliveries", wsDeliveries, "count", metrics.Counter, "Event frames queued for websocket clients")
	batch.Add("failed_writes", failed, "count", metrics.Counter, "Output writes or flushes that returned an error")

	collection = batch.Metrics
	return
}
