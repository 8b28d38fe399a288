package server

import (
	"context"
	"sensorweb/internal/metrics"
	"time"
)

type httpLogWriter struct {
	ctx context.Context
}

type Jerror struct {
	Msg string `json:"error"`
}

type DataSearcher func(name string, namespacePrefix []string, start, end time.Time) []metrics.Metric
type Discoverer func(name, description string, namespacePrefix []string, unit string, metricType metrics.MetricType) []metrics.Metric
type AggSearcher func(aggType, name string, namespacePrefix []string, start, end time.Time) (metrics.Metric, error)
