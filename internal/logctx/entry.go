// Central logging system. Events are queued on a logger carried in the context
// and written out by a watcher goroutine.
package logctx

import (
	"context"
	"fmt"
	"sensorweb/internal/global"
	"strings"
	"sync"
	"time"
)

// Creates a logger and embeds it in a context derived from baseCtx
func New(baseCtx context.Context, id string, logLevel int, done <-chan struct{}) (ctxLogger context.Context) {
	logger := &Logger{
		ID:         id,
		CreatedAt:  time.Now(),
		PrintLevel: logLevel,
		Done:       done,
		queue:      make([]Event, 0, 64),
	}
	logger.cond = sync.NewCond(&logger.mutex)

	ctxLogger = context.WithValue(baseCtx, global.LoggerKey, logger)
	return
}

// Extracts Logger from context or returns nil
func GetLogger(ctx context.Context) (logger *Logger) {
	logger, ok := ctx.Value(global.LoggerKey).(*Logger)
	if !ok {
		logger = nil
	}
	return
}

// Change the loggers level (used after the config file overrides the CLI default)
func SetLogLevel(ctx context.Context, newLevel int) {
	logger := GetLogger(ctx)
	if logger == nil {
		return
	}
	logger.mutex.Lock()
	logger.PrintLevel = newLevel
	logger.mutex.Unlock()
}

// Entry for logging events. Contexts without a logger discard the event.
func LogEvent(ctx context.Context, eventLevel int, severity string, message string, vars ...any) {
	logger := GetLogger(ctx)
	if logger == nil {
		return
	}

	// Only format when there is something to substitute
	if len(vars) > 0 && strings.Contains(message, "%") {
		message = fmt.Sprintf(message, vars...)
	}

	logger.log(eventLevel, severity, GetTagList(ctx), message)
}

// Queues event if its level passes the filter
func (logger *Logger) log(eventLevel int, severity string, tags []string, message string) {
	logger.mutex.Lock()
	defer logger.mutex.Unlock()

	if eventLevel > logger.PrintLevel && severity != global.ErrorLog {
		return
	}

	logger.queue = append(logger.queue, Event{
		Timestamp: time.Now(),
		Severity:  severity,
		Tags:      tags,
		Message:   message,
	})
	logger.cond.Signal()
}

// Hold main thread exit until the watcher has written everything
func (logger *Logger) Wait() {
	logger.wg.Wait()
}

// Wakes the watcher so it can notice Done
func (logger *Logger) Wake() {
	logger.mutex.Lock()
	logger.cond.Broadcast()
	logger.mutex.Unlock()
}

// Number of events not yet written by a watcher
func (logger *Logger) Pending() (count int) {
	logger.mutex.Lock()
	count = len(logger.queue)
	logger.mutex.Unlock()
	return
}
