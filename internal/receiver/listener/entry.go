// Reads sensor datagrams from the multicast socket, decodes them, and hands them to the dispatch sink
//
// Unix only: truncated datagrams are detected with recvmsg and MSG_TRUNC (golang.org/x/sys/unix).
package listener

import (
	"context"
	"errors"
	"net"
	"runtime/debug"
	"sensorweb/internal/global"
	"sensorweb/internal/logctx"
	"sensorweb/internal/queue/handoff"
	"sensorweb/pkg/message"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/sys/unix"
)

func New(namespace []string, conn *net.UDPConn, bufferSize int, outbox *handoff.Sink[message.NetworkMessage]) (new *Instance) {
	if bufferSize <= 0 {
		bufferSize = global.DefaultReceiveBufferSize
	}
	new = &Instance{
		Namespace:  append(slices.Clone(namespace), global.NSListen),
		conn:       conn,
		bufferSize: bufferSize,
		Outbox:     outbox,
	}
	return
}

// Loops until ctx is cancelled or the socket is closed by the manager
func (instance *Instance) Run(ctx context.Context) {
	buffer := make([]byte, instance.bufferSize)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		stop := instance.receiveOne(ctx, buffer)
		if stop {
			return
		}
	}
}

// One receive-decode-dispatch pass. Returns true when the loop should end.
func (instance *Instance) receiveOne(ctx context.Context, buffer []byte) (stop bool) {
	defer func() {
		// Record panics and continue listening
		if fatalError := recover(); fatalError != nil {
			stack := debug.Stack()
			logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog,
				"panic in listener worker thread: %v\n%s", fatalError, stack)
		}
	}()

	// Blocking until data or connection is closed by manager
	n, _, flags, remoteAddr, err := instance.conn.ReadMsgUDP(buffer, nil)
	start := time.Now()
	defer func() { instance.Metrics.BusyNs.Add(uint64(time.Since(start))) }()

	if err != nil {
		if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
			// Graceful shutdown
			stop = true
			return
		}
		instance.Metrics.ReceiveErrors.Add(1)
		logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog,
			"Failed reading datagram from socket: %v\n", err)
		return
	}
	instance.Metrics.Datagrams.Add(1)
	instance.Metrics.Bytes.Add(uint64(n))

	if flags&unix.MSG_TRUNC != 0 {
		instance.Metrics.Truncated.Add(1)
		logctx.LogEvent(ctx, global.VerbosityProgress, global.WarnLog,
			"Datagram from %v exceeded %d byte receive buffer, decoding truncated line\n", remoteAddr, len(buffer))
	}

	line := instance.toLine(buffer[:n])
	logctx.LogEvent(ctx, global.VerbosityFullData, global.InfoLog, "Raw line from %v: %q\n", remoteAddr, line)

	msg := message.Decode(line)
	instance.Metrics.Kinds[msg.Kind()].Add(1)

	err = instance.Outbox.Push(ctx, msg)
	if err != nil {
		instance.Metrics.DispatchFails.Add(1)
		if ctx.Err() != nil {
			stop = true
			return
		}
		severity := global.WarnLog
		if errors.Is(err, handoff.ErrClosed) {
			severity = global.ErrorLog
		}
		logctx.LogEvent(ctx, global.VerbosityProgress, severity,
			"Failed dispatching %s event from %s: %v\n", msg.Kind(), msg.Host, err)
	}
	return
}

// Best effort UTF-8, invalid sequences become U+FFFD, surrounding whitespace removed
func (instance *Instance) toLine(data []byte) (line string) {
	line = string(data)
	if !utf8.ValidString(line) {
		instance.Metrics.InvalidUTF8.Add(1)
		line = strings.ToValidUTF8(line, string(utf8.RuneError))
	}
	line = strings.TrimSpace(line)
	return
}
