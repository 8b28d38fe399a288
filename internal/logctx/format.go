package logctx

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Fixed width RFC3339 with nanoseconds, keeps columns aligned
const timestampLayout string = "2006-01-02T15:04:05.000000000Z07:00"

// Stringify full event, only the parts that are present
func (event Event) Format() (text string) {
	var parts []string
	if !event.Timestamp.IsZero() {
		parts = append(parts, "["+padTimestamp(event.Timestamp)+"]")
	}
	if len(event.Tags) > 0 {
		parts = append(parts, "["+strings.Join(event.Tags, "/")+"]")
	}
	if event.Severity != "" {
		parts = append(parts, "["+event.Severity+"]")
	}
	if event.Message != "" {
		parts = append(parts, event.Message)
	}

	// No newline, message creator determines newlines
	text = strings.Join(parts, " ")
	return
}

// Ensures fixed length strings for timestamps
func padTimestamp(timestamp time.Time) (formatted string) {
	formatted = timestamp.Format(timestampLayout)
	return
}

// Notice emitted in place of a run of identical messages
func suppressionNotice(event Event, severity string, count int) (text string) {
	text = fmt.Sprintf("[%s] [%s] [%s] Suppressed %d repeated messages: %s\n",
		padTimestamp(event.Timestamp),
		strings.Join(event.Tags, "/"),
		severity,
		count,
		strings.TrimSuffix(event.Message, "\n"))
	return
}

// Snapshot of queued events, oldest first, each terminated by a newline.
// Used by the decode command (no watcher) and by tests.
func (logger *Logger) GetFormattedLogLines() (formatted []string) {
	logger.mutex.Lock()
	events := make([]Event, len(logger.queue))
	copy(events, logger.queue)
	logger.mutex.Unlock()

	// Zero timestamps sort last
	sort.SliceStable(events, func(i, j int) bool {
		ti, tj := events[i].Timestamp, events[j].Timestamp
		if ti.IsZero() {
			return false
		}
		if tj.IsZero() {
			return true
		}
		return ti.Before(tj)
	})

	formatted = make([]string, 0, len(events))
	for _, event := range events {
		line := event.Format()
		if !strings.HasSuffix(line, "\n") {
			line += "\n"
		}
		formatted = append(formatted, line)
	}
	return
}
