// Central registry for storing time-based metrics and their associated data
package metrics

import (
	"strings"
	"time"
)

// Creates new metric registry storage
func New() (new *Registry) {
	new = &Registry{
		metrics: make(map[time.Time]map[string]map[string]Metric),
	}
	return
}

// Setup metrics map for this collection interval
func (registry *Registry) NewTimeSlice(now time.Time, interval time.Duration) (timeSlice time.Time) {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	timeSlice = now
	if interval > 0 {
		// Round down for this interval
		timeSlice = now.Truncate(interval)
	}
	if registry.metrics[timeSlice] == nil {
		registry.metrics[timeSlice] = make(map[string]map[string]Metric)
	}
	return
}

// Adds batch of metrics to a time slice created by NewTimeSlice
func (registry *Registry) Add(timeSlice time.Time, metrics []Metric) {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	slice := registry.metrics[timeSlice]
	if slice == nil {
		return
	}

	for _, metric := range metrics {
		namespace := strings.Join(metric.Namespace, "/")
		if slice[namespace] == nil {
			slice[namespace] = make(map[string]Metric)
		}
		slice[namespace][metric.Name] = metric
	}
}

// Deletes metrics in registry older than max allowed metric age based on supplied current time
func (registry *Registry) Prune(currentTime time.Time, maxAge time.Duration) {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	for timeSlice := range registry.metrics {
		if currentTime.Sub(timeSlice) > maxAge {
			delete(registry.metrics, timeSlice)
		}
	}
}
