package static

import (
	"sensorweb/internal/metrics"
	"time"
)

func (handler *Handler) CollectMetrics(interval time.Duration) (collection []metrics.Metric) {
	batch := metrics.NewBatch(handler.Namespace, interval)

	batch.Add("files_served", handler.Metrics.Served.Swap(0), "count", metrics.Counter,
		"Static files returned with 200")
	batch.Add("not_found", handler.Metrics.NotFound.Swap(0), "count", metrics.Counter,
		"Requests for missing or rejected paths")
	batch.Add("method_not_allowed", handler.Metrics.MethodNotAllowed.Swap(0), "count", metrics.Counter,
		"Non-GET requests refused")
	batch.Add("index_redirects", handler.Metrics.Redirected.Swap(0), "count", metrics.Counter,
		"Root requests redirected to the index page")

	collection = batch.Metrics
	return
}
