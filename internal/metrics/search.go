package metrics

import (
	"sort"
	"strings"
	"time"
)

// Supports exact match or prefix match. Empty query matches all.
func matchesNamespace(metricNS, queryNS []string) (matches bool) {
	if len(metricNS) < len(queryNS) {
		return
	}
	for i := range queryNS {
		if metricNS[i] != queryNS[i] {
			return
		}
	}
	matches = true
	return
}

// Returns all metrics matching given name and namespace prefix, oldest first.
// Empty name or prefix match everything. Zero start/end leave that side of the window open.
func (registry *Registry) Search(name string, namespacePrefix []string, start, end time.Time) (results []Metric) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	var timestamps []time.Time
	for ts := range registry.metrics {
		if !start.IsZero() && ts.Before(start) {
			continue
		}
		if !end.IsZero() && ts.After(end) {
			continue
		}
		timestamps = append(timestamps, ts)
	}
	sort.Slice(timestamps, func(i, j int) bool {
		return timestamps[i].Before(timestamps[j])
	})

	for _, ts := range timestamps {
		// Namespaces sorted so results are stable within a slice
		nsMap := registry.metrics[ts]
		namespaces := make([]string, 0, len(nsMap))
		for nsStr := range nsMap {
			namespaces = append(namespaces, nsStr)
		}
		sort.Strings(namespaces)

		for _, nsStr := range namespaces {
			if !matchesNamespace(strings.Split(nsStr, "/"), namespacePrefix) {
				continue
			}
			for metricName, metric := range nsMap[nsStr] {
				if name == "" || metricName == name {
					results = append(results, metric)
				}
			}
		}
	}
	return
}

// Finds all metric types that match given search filters (time-independent). Returns all when all filters are empty.
func (registry *Registry) Discover(name, description string, namespacePrefix []string, unit string, metricType MetricType) (results []Metric) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	seen := make(map[string]Metric)
	for _, nsMap := range registry.metrics {
		for nsStr, metricsMap := range nsMap {
			if !matchesNamespace(strings.Split(nsStr, "/"), namespacePrefix) {
				continue
			}

			for _, metric := range metricsMap {
				if name != "" && !strings.Contains(metric.Name, name) {
					continue
				}
				if description != "" && !strings.Contains(metric.Description, description) {
					continue
				}
				if unit != "" && metric.Value.Unit != unit {
					continue
				}
				if metricType != "" && metric.Type != metricType {
					continue
				}

				key := nsStr + "|" + metric.Name + "|" + string(metric.Type) + "|" + metric.Value.Unit
				if _, exists := seen[key]; exists {
					continue
				}

				// Strip time + raw value
				seen[key] = Metric{
					Name:        metric.Name,
					Description: metric.Description,
					Namespace:   metric.Namespace,
					Type:        metric.Type,
					Value:       MetricValue{Unit: metric.Value.Unit},
				}
			}
		}
	}

	results = make([]Metric, 0, len(seen))
	for _, metric := range seen {
		results = append(results, metric)
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Name != results[j].Name {
			return results[i].Name < results[j].Name
		}
		iNS, jNS := strings.Join(results[i].Namespace, "/"), strings.Join(results[j].Namespace, "/")
		if iNS != jNS {
			return iNS < jNS
		}
		return results[i].Value.Unit < results[j].Value.Unit
	})
	return
}
