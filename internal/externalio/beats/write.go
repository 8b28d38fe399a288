package beats

import (
	"context"
	"sensorweb/internal/global"
	"sensorweb/internal/logctx"
	"sensorweb/pkg/message"
	"time"
)

// Sends one decoded event to the configured beats server
func (mod *OutModule) Write(ctx context.Context, msg message.NetworkMessage) (eventsSent int, err error) {
	if mod == nil {
		return
	}

	events := []interface{}{newEvent(msg, time.Now())}

	eventsSent, err = mod.sink.Send(events)
	if err != nil {
		return
	}
	logctx.LogEvent(ctx, global.VerbosityDebug, global.InfoLog,
		"sent %s event from %s to beats server %s\n", msg.Kind(), msg.Host, mod.endpoint)
	return
}

// Builds the ECS-style document for one event. The node reports only uptime, so
// @timestamp is the collector's receive time.
func newEvent(msg message.NetworkMessage, received time.Time) (fields map[string]interface{}) {
	event := msg.Event()

	fields = map[string]interface{}{
		// Minimum required fields
		"@timestamp": received.UTC().Format(time.RFC3339Nano),
		"message":    msg.String(),

		"host": map[string]interface{}{
			"name":     event.Host,
			"hostname": event.Host,
		},
		"agent": map[string]interface{}{
			"name":    global.DefaultBeatsPrefix,
			"version": global.ProgVersion,
			"type":    "filebeat",
			"pid":     global.PID,
		},
		"event": map[string]interface{}{
			"kind":    "event",
			"dataset": global.DefaultBeatsPrefix + "." + event.Kind,
		},
		"sensor": map[string]interface{}{
			"kind":    event.Kind,
			"elapsed": event.Elapsed,
			"fields":  event.Fields,
		},
	}
	return
}
