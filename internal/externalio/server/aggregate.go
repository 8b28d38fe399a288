package server

import (
	"context"
	"net/http"
	"sensorweb/internal/global"
	"time"
)

// Handles requests reducing one metric over a time window to a single value
func handleAggregation(baseCtx context.Context, search AggSearcher, serverResponder http.ResponseWriter, clientRequest *http.Request) {
	reqNamespace := namespaceFromPath(clientRequest.URL.Path, global.AggregationPath)
	reqName := clientRequest.FormValue("name")
	aggType := clientRequest.FormValue("aggregation")

	reqStartTime, reqEndTime, err := parseWindow(clientRequest, time.Now())
	if err != nil {
		serverResponder.WriteHeader(http.StatusBadRequest)
		return
	}

	result, err := search(aggType, reqName, reqNamespace, reqStartTime, reqEndTime)
	if err != nil {
		jResp(baseCtx, serverResponder, Jerror{Msg: err.Error()})
		return
	}
	jResp(baseCtx, serverResponder, result.Convert())
}
