// Consumes decoded events from the dispatch sink and writes them to every enabled output (log, file, beats, nats, websocket)
package output

import (
	"context"
	"runtime/debug"
	"sensorweb/internal/global"
	"sensorweb/internal/logctx"
	"sensorweb/internal/queue/handoff"
	"sensorweb/pkg/message"
	"slices"
	"time"
)

const flushInterval time.Duration = 500 * time.Millisecond

// Creates new worker instance
func New(namespace []string, inbox *handoff.Sink[message.NetworkMessage]) (new *Instance) {
	new = &Instance{
		Namespace: append(slices.Clone(namespace), global.NSWorker),
		LogEvents: true,
		Inbox:     inbox,
	}
	return
}

// Takes events until ctx ends or the sink is closed and drained
func (instance *Instance) Run(ctx context.Context) {
	lastFlush := time.Now()

	for {
		// Bounded wait so the file buffer is flushed even when traffic stops
		waitCtx, cancel := context.WithTimeout(ctx, flushInterval)
		msg, ok := instance.Inbox.Pop(waitCtx)
		cancel()

		if ok {
			instance.handle(ctx, msg)
		}

		if time.Since(lastFlush) >= flushInterval {
			instance.flush(ctx)
			lastFlush = time.Now()
		}

		if !ok && (ctx.Err() != nil || instance.Inbox.Closed()) {
			instance.flush(ctx)
			return
		}
	}
}

// Writes one event to all outputs
func (instance *Instance) handle(ctx context.Context, msg message.NetworkMessage) {
	// Record panics and continue output
	defer func() {
		if fatalError := recover(); fatalError != nil {
			stack := debug.Stack()
			logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog,
				"panic in output worker thread: %v\n%s", fatalError, stack)
		}
	}()

	instance.Metrics.ReceivedEvents.Add(1)

	if instance.LogEvents {
		logctx.LogEvent(ctx, global.VerbosityData, global.InfoLog, "Received: %s\n", msg.String())
		instance.Metrics.LoggedEvents.Add(1)
	}

	n, err := instance.FileMod.Write(ctx, msg)
	if err != nil {
		instance.Metrics.FailedWrites.Add(1)
		logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog,
			"Failed to write event(s) to file output: %v\n", err)
	}
	instance.Metrics.SuccessfulFileWrites.Add(uint64(n))

	n, err = instance.BeatsMod.Write(ctx, msg)
	if err != nil {
		instance.Metrics.FailedWrites.Add(1)
		logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog,
			"Failed to send event to beats output: %v\n", err)
	}
	instance.Metrics.SuccessfulBeatsSends.Add(uint64(n))

	n, err = instance.NATSMod.Write(ctx, msg)
	if err != nil {
		instance.Metrics.FailedWrites.Add(1)
		logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog,
			"Failed to publish event to NATS output: %v\n", err)
	}
	instance.Metrics.SuccessfulNATSPubs.Add(uint64(n))

	n, err = instance.WebHub.Write(ctx, msg)
	if err != nil {
		instance.Metrics.FailedWrites.Add(1)
		logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog,
			"Failed to broadcast event to websocket clients: %v\n", err)
	}
	instance.Metrics.WebSocketDeliveries.Add(uint64(n))
}

// Periodic flush of file output buffer. It might never fill on a quiet network.
func (instance *Instance) flush(ctx context.Context) {
	if instance.FileMod == nil {
		return
	}
	n, err := instance.FileMod.FlushBuffer()
	if err != nil {
		instance.Metrics.FailedWrites.Add(1)
		logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog,
			"Failed to flush file output: %v\n", err)
	}
	instance.Metrics.SuccessfulFileWrites.Add(uint64(n))
}
