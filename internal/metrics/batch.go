package metrics

import (
	"slices"
	"time"
)

// Accumulates metrics sharing one namespace, record time and interval
type Batch struct {
	namespace  []string
	interval   time.Duration
	recordTime time.Time
	Metrics    []Metric
}

func NewBatch(namespace []string, interval time.Duration) (batch *Batch) {
	batch = &Batch{
		namespace:  slices.Clone(namespace),
		interval:   interval,
		recordTime: time.Now(),
	}
	return
}

func (batch *Batch) Add(name string, raw any, unit string, metricType MetricType, description string) {
	batch.Metrics = append(batch.Metrics, Metric{
		Name:        name,
		Description: description,
		Namespace:   batch.namespace,
		Type:        metricType,
		Timestamp:   batch.recordTime,
		Value: MetricValue{
			Raw:      raw,
			Unit:     unit,
			Interval: batch.interval,
		},
	})
}
