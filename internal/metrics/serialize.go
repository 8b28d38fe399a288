package metrics

import (
	"fmt"
	"strings"
	"time"
)

// Converts internal metric type to export (JSON) metric
func (inMetric Metric) Convert() (outMetric JMetric) {
	outMetric = JMetric{
		Name:        inMetric.Name,
		Description: inMetric.Description,
		Namespace:   strings.Join(inMetric.Namespace, "/"),
		Type:        string(inMetric.Type),
		Value: JMetricValue{
			Raw:      fmt.Sprintf("%v", inMetric.Value.Raw),
			Unit:     inMetric.Value.Unit,
			Interval: inMetric.Value.Interval.String(),
		},
	}
	if !inMetric.Timestamp.IsZero() {
		outMetric.Timestamp = inMetric.Timestamp.Format(time.RFC3339Nano)
	}
	return
}
