package metrics

import (
	"fmt"
	"sensorweb/internal/calc"
	"strings"
	"time"
)

const (
	AggSum         string = "sum"
	AggMean        string = "mean"
	AggTrimmedMean string = "trimmedmean" // drops 10% from each end
	AggMin         string = "min"
	AggMax         string = "max"
)

// Reduces every sample of one metric in the window to a single summary value
func (registry *Registry) Aggregate(aggType, name string, namespacePrefix []string, start, end time.Time) (result Metric, err error) {
	if name == "" {
		err = fmt.Errorf("aggregation requires a metric name")
		return
	}

	samples := registry.Search(name, namespacePrefix, start, end)
	if len(samples) == 0 {
		err = fmt.Errorf("no samples for metric %q in requested window", name)
		return
	}

	values := make([]float64, 0, len(samples))
	for _, sample := range samples {
		value, ok := toFloat(sample.Value.Raw)
		if !ok {
			err = fmt.Errorf("metric %q holds non-numeric value %T", name, sample.Value.Raw)
			return
		}
		values = append(values, value)
	}

	var aggregated float64
	switch strings.ToLower(aggType) {
	case AggSum:
		aggregated = calc.Sum(values)
	case AggMean:
		aggregated = calc.TrimmedMean(values, 0)
	case AggTrimmedMean:
		aggregated = calc.TrimmedMean(values, 0.10)
	case AggMin:
		aggregated, _ = calc.Extremes(values)
	case AggMax:
		_, aggregated = calc.Extremes(values)
	default:
		err = fmt.Errorf("unknown aggregation type %q", aggType)
		return
	}

	first, last := samples[0], samples[len(samples)-1]
	result = Metric{
		Name:        name,
		Description: first.Description,
		Namespace:   first.Namespace,
		Type:        Summary,
		Timestamp:   last.Timestamp,
		Value: MetricValue{
			Raw:      aggregated,
			Unit:     first.Value.Unit,
			Interval: last.Timestamp.Sub(first.Timestamp) + last.Value.Interval,
		},
	}
	return
}

func toFloat(raw any) (value float64, ok bool) {
	ok = true
	switch typed := raw.(type) {
	case uint64:
		value = float64(typed)
	case float64:
		value = typed
	case int:
		value = float64(typed)
	case int64:
		value = float64(typed)
	default:
		ok = false
	}
	return
}
