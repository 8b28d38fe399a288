package server

import (
	"context"
	"net/http"
	"sensorweb/internal/global"
	"sensorweb/internal/metrics"
	"time"
)

// Handles metric search requests based on time for data
func handleData(baseCtx context.Context, search DataSearcher, serverResponder http.ResponseWriter, clientRequest *http.Request) {
	reqNamespace := namespaceFromPath(clientRequest.URL.Path, global.DataPath)
	reqName := clientRequest.FormValue("name")

	reqStartTime, reqEndTime, err := parseWindow(clientRequest, time.Now())
	if err != nil {
		serverResponder.WriteHeader(http.StatusBadRequest)
		return
	}

	rawResults := search(reqName, reqNamespace, reqStartTime, reqEndTime)

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
