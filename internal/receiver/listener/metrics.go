package listener

import (
	"sensorweb/internal/metrics"
	"sensorweb/pkg/message"
	"time"
)

func (instance *Instance) CollectMetrics(interval time.Duration) (collection []metrics.Metric) {
	batch := metrics.NewBatch(instance.Namespace, interval)

	busyNs := instance.Metrics.BusyNs.Swap(0)
	var busyPct float64
	if interval > 0 {
		busyPct = float64(busyNs) / float64(interval.Nanoseconds()) * 100
	}

	batch.Add("busy_time_percent", busyPct, "%", metrics.Summary, "Time spent decoding and dispatching in the interval")
	batch.Add("datagrams_received", instance.Metrics.Datagrams.Swap(0), "count", metrics.Counter, "Datagrams read from the multicast socket")
	batch.Add("datagrams_truncated", instance.Metrics.Truncated.Swap(0), "count", metrics.Counter, "Datagrams larger than the receive buffer (decoded truncated)")
	batch.Add("invalid_utf8", instance.Metrics.InvalidUTF8.Swap(0), "count", metrics.Counter, "Datagrams containing invalid UTF-8 sequences")
	batch.Add("receive_errors", instance.Metrics.ReceiveErrors.Swap(0), "count", metrics.Counter, "Failed socket reads")
	batch.Add("dispatch_failures", instance.Metrics.DispatchFails.Swap(0), "count", metrics.Counter, "Decoded events the dispatch queue did not accept")
	batch.Add("bytes_received", instance.Metrics.Bytes.Swap(0), "bytes", metrics.Counter, "Payload bytes read from the socket")

	for kind := range instance.Metrics.Kinds {
		name := "decoded_" + message.Kind(kind).String()
		batch.Add(name, instance.Metrics.Kinds[kind].Swap(0), "count", metrics.Counter, "Events decoded as "+message.Kind(kind).String())
	}

	collection = batch.Metrics
	return
}
