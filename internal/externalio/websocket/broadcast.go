package websocket

import (
	"context"
	"sensorweb/internal/global"
	"sensorweb/internal/logctx"
	"sensorweb/pkg/message"
	"time"

	gorilla "github.com/gorilla/websocket"
)

// Queues the event as a JSON text frame for every connected client. Never waits
// on a client: when a client's queue is full the event is dropped for that client only.
func (hub *Hub) Write(ctx context.Context, msg message.NetworkMessage) (queued int, err error) {
	if hub == nil {
		return
	}

	data, err := msg.MarshalJSON()
	if err != nil {
		return
	}

	hub.clientsMu.RLock()
	targets := make([]*client, 0, len(hub.clients))
	for _, cl := range hub.clients {
		targets = append(targets, cl)
	}
	hub.clientsMu.RUnlock()

	for _, cl := range targets {
		select {
		case <-cl.done:
			continue
		default:
		}

		select {
		case cl.send <- data:
			queued++
		default:
			hub.Metrics.BroadcastDropped.Add(1)
			logctx.LogEvent(ctx, global.VerbosityData, global.WarnLog,
				"websocket client %s is not keeping up, event dropped\n", cl.id)
		}
	}
	hub.Metrics.Queued.Add(uint64(queued))
	return
}

// Writes queued event frames to one client until it is removed.
// A failed write removes the client.
func (hub *Hub) writeLoop(ctx context.Context, cl *client) {
	defer hub.wg.Done()

	for {
		select {
		case <-cl.done:
			return
		case data := <-cl.send:
			err := cl.write(gorilla.TextMessage, data)
			if err != nil {
				hub.Metrics.BroadcastFailures.Add(1)
				logctx.LogEvent(ctx, global.VerbosityProgress, global.WarnLog,
					"dropping websocket client %s after failed send: %v\n", cl.id, err)
				hub.removeClient(ctx, cl)
				return
			}
			hub.Metrics.Broadcast.Add(1)
		}
	}
}

// Sends a close frame to every client and waits for their handlers to exit
func (hub *Hub) Shutdown(ctx context.Context) (err error) {
	if hub == nil {
		return
	}
	hub.closed.Store(true)

	hub.clientsMu.RLock()
	targets := make([]*client, 0, len(hub.clients))
	for _, cl := range hub.clients {
		targets = append(targets, cl)
	}
	hub.clientsMu.RUnlock()

	closeFrame := gorilla.FormatCloseMessage(gorilla.CloseGoingAway, "collector shutting down")
	for _, cl := range targets {
		_ = cl.conn.WriteControl(gorilla.CloseMessage, closeFrame, time.Now().Add(time.Second))
		hub.removeClient(ctx, cl)
	}

	waitDone := make(chan struct{})
	go func() {
		hub.wg.Wait()
		close(waitDone)
	}()
	select {
	case <-waitDone:
	case <-time.After(global.QueueDrainTimeout):
		err = context.DeadlineExceeded
	}
	return
}
