package websocket

import (
	"sensorweb/internal/metrics"
	"time"
)

func (hub *Hub) CollectMetrics(interval time.Duration) (collection []metrics.Metric) {
	batch := metrics.NewBatch(hub.Namespace, interval)

	batch.Add("clients_connected", uint64(hub.Clients()), "count", metrics.Gauge,
		"Websocket clients currently connected")
	batch.Add("connections_accepted", hub.Metrics.Accepted.Swap(0), "count", metrics.Counter,
		"Websocket upgrades accepted in the interval")
	batch.Add("connections_rejected", hub.Metrics.Rejected.Swap(0), "count", metrics.Counter,
		"Websocket requests refused for missing subprotocol or failed upgrade")
	batch.Add("clients_disconnected", hub.Metrics.Disconnected.Swap(0), "count", metrics.Counter,
		"Websocket clients removed in the interval")
	batch.Add("frames_echoed", hub.Metrics.Echoed.Swap(0), "count", metrics.Counter,
		"Client data frames echoed back")
	batch.Add("events_queued", hub.Metrics.Queued.Swap(0), "count", metrics.Counter,
		"Decoded events queued for clients (one per client)")
	batch.Add("events_broadcast", hub.Metrics.Broadcast.Swap(0), "count", metrics.Counter,
		"Decoded events written to clients (one per client)")
	batch.Add("events_dropped", hub.Metrics.BroadcastDropped.Swap(0), "count", metrics.Counter,
		"Decoded events dropped because a client's queue was full")
	batch.Add("broadcast_failures", hub.Metrics.BroadcastFailures.Swap(0), "count", metrics.Counter,
		"Event sends that failed and dropped the client")

	collection = batch.Metrics
	return
}
