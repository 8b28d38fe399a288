package server

import (
	"context"
	"net/http"
	"sensorweb/internal/global"
	"sensorweb/internal/metrics"
	"strings"
)

// Handles metric search to discover metrics (returns no actual data, only sample metric per individual metric)
func handleDiscovery(baseCtx context.Context, discover Discoverer, serverResponder http.ResponseWriter, clientRequest *http.Request) {
	reqNamespace := namespaceFromPath(clientRequest.URL.Path, global.DiscoveryPath)

	reqName := clientRequest.FormValue("name")
	reqDescription := clientRequest.FormValue("description")
	reqUnit := clientRequest.FormValue("unit")

	rawType := metrics.MetricType(strings.ToLower(clientRequest.FormValue("type")))

	var reqType metrics.MetricType
	switch rawType {
	case metrics.Counter, metrics.Gauge, metrics.Summary:
		reqType = rawType
	case "":
	default:
		serverResponder.WriteHeader(http.StatusBadRequest)
		return
	}

	rawResults := discover(reqName, reqDescription, reqNamespace, reqUnit, reqType)

	var results []metrics.JMetric
	for _, rawResult := range rawResults {
		results = append(results, rawResult.Convert())
	}

	if len(results) == 0 {
		jResp(baseCtx, serverResponder, Jerror{Msg: "Search returned no results"})
	} else {
		jResp(baseCtx, serverResponder, results)
	}
}
