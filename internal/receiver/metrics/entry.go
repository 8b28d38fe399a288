// Gathers component metrics on an interval and saves them to the central registry
package metrics

import (
	"context"
	"runtime/debug"
	"sensorweb/internal/global"
	"sensorweb/internal/logctx"
	"sensorweb/internal/metrics"
	"slices"
	"time"
)

const pruneEveryTicks int = 30

// Creates gatherer with the system collector already registered
func New(namespace []string, interval time.Duration, maximumMetricAge time.Duration) (new *Gatherer) {
	new = &Gatherer{
		Registry:  metrics.New(),
		Interval:  interval,
		Retention: maximumMetricAge,
	}
	new.Register(&systemCollector{namespace: append(slices.Clone(namespace), global.NSmSystem)})
	return
}

// Adds components to be polled each interval. Nil collectors are ignored.
func (gatherer *Gatherer) Register(collectors ...metrics.Collector) {
	gatherer.mu.Lock()
	defer gatherer.mu.Unlock()
	for _, collector := range collectors {
		if collector == nil {
			continue
		}
		gatherer.collectors = append(gatherer.collectors, collector)
	}
}

func (gatherer *Gatherer) Run(ctx context.Context) {
	ctx = logctx.AppendCtxTag(ctx, global.NSMetric)

	lastRun := time.Now()

	ticker := time.NewTicker(gatherer.Interval / 2) // Use polling interval half of desired record interval
	defer ticker.Stop()

	// Counter to track how many ticks have passed (for retention)
	var tickCount int

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if now.Sub(lastRun) >= gatherer.Interval {
				lastRun = now
				go gatherer.Collect(ctx, now)
			}

			tickCount++
			if tickCount >= pruneEveryTicks {
				gatherer.Registry.Prune(now, gatherer.Retention)
				tickCount = 0
			}
		}
	}
}

// Reads every registered collector into the time slice containing now
func (gatherer *Gatherer) Collect(ctx context.Context, now time.Time) {
	// Record panics and continue on next interval
	defer func() {
		if fatalError := recover(); fatalError != nil {
			stack := debug.Stack()
			logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog,
				"panic in metric collector thread: %v\n%s", fatalError, stack)
		}
	}()

	timeSlice := gatherer.Registry.NewTimeSlice(now, gatherer.Interval)

	gatherer.mu.Lock()
	collectors := append([]metrics.Collector(nil), gatherer.collectors...)
	gatherer.mu.Unlock()

	var collection []metrics.Metric
	for _, collector := range collectors {
		collection = append(collection, collector.CollectMetrics(gatherer.Interval)...)
	}
	gatherer.Registry.Add(timeSlice, collection)

	logctx.LogEvent(ctx, global.VerbosityDebug, global.InfoLog,
		"recorded %d metrics from %d collectors\n", len(collection), len(collectors))
}
