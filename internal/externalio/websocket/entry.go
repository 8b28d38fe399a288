// WebSocket endpoint: greets, echoes and answers pings for each client and
// additionally broadcasts decoded sensor events as JSON.
package websocket

import (
	"context"
	"errors"
	"net/http"
	"runtime/debug"
	"sensorweb/internal/global"
	"sensorweb/internal/logctx"
	"slices"
	"time"

	"github.com/google/uuid"
	gorilla "github.com/gorilla/websocket"
)

const (
	greeting     string        = "Hello"
	writeTimeout time.Duration = 10 * time.Second
	sendBuffer   int           = 64 // event frames queued per client before dropping
)

// Creates new hub with no clients
func New(namespace []string) (new *Hub) {
	new = &Hub{
		Namespace: append(slices.Clone(namespace), global.NSWebSocket),
		upgrader: gorilla.Upgrader{
			Subprotocols: []string{global.WebSocketProtocol},
			// Dashboard pages are served from a different port
			CheckOrigin: func(_ *http.Request) bool { return true },
		},
		clients: make(map[string]*client),
	}
	return
}

// HTTP server for the hub. Handlers log with ctx.
func SetupListener(ctx context.Context, bind string, hub *Hub) (server *http.Server) {
	server = &http.Server{
		Addr: bind,
		Handler: http.HandlerFunc(func(serverResponder http.ResponseWriter, clientRequest *http.Request) {
			hub.Serve(ctx, serverResponder, clientRequest)
		}),
		ReadHeaderTimeout: global.HTTPReadTimeout,
		IdleTimeout:       global.HTTPIdleTimeout,
	}
	return
}

// Upgrades one request and services the connection until the client leaves
func (hub *Hub) Serve(ctx context.Context, serverResponder http.ResponseWriter, clientRequest *http.Request) {
	ctx = logctx.AppendCtxTag(ctx, global.NSWebSocket)

	if hub.closed.Load() {
		serverResponder.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	if !slices.Contains(gorilla.Subprotocols(clientRequest), global.WebSocketProtocol) {
		hub.Metrics.Rejected.Add(1)
		logctx.LogEvent(ctx, global.VerbosityProgress, global.WarnLog,
			"rejected websocket request from %s: protocol %q not offered\n",
			clientRequest.RemoteAddr, global.WebSocketProtocol)
		http.Error(serverResponder, "unsupported websocket subprotocol", http.StatusBadRequest)
		return
	}

	conn, err := hub.upgrader.Upgrade(serverResponder, clientRequest, nil)
	if err != nil {
		// Upgrader already replied to the client
		hub.Metrics.Rejected.Add(1)
		logctx.LogEvent(ctx, global.VerbosityProgress, global.WarnLog,
			"websocket upgrade from %s failed: %v\n", clientRequest.RemoteAddr, err)
		return
	}

	cl := &client{
		id:     uuid.NewString(),
		remote: conn.RemoteAddr().String(),
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		done:   make(chan struct{}),
	}

	hub.wg.Add(1)
	defer hub.wg.Done()
	defer hub.removeClient(ctx, cl)

	hub.clientsMu.Lock()
	hub.clients[cl.id] = cl
	hub.clientsMu.Unlock()
	hub.Metrics.Accepted.Add(1)
	if hub.closed.Load() {
		// Raced with Shutdown
		return
	}

	logctx.LogEvent(ctx, global.VerbosityStandard, global.InfoLog,
		"websocket connection from %s (client %s)\n", cl.remote, cl.id)

	// Events queue up in cl.send until the write loop starts, so the greeting is always first
	err = cl.write(gorilla.TextMessage, []byte(greeting))
	if err != nil {
		logctx.LogEvent(ctx, global.VerbosityStandard, global.WarnLog,
			"failed greeting websocket client %s: %v\n", cl.id, err)
		return
	}

	hub.wg.Add(1)
	go hub.writeLoop(ctx, cl)

	hub.readLoop(ctx, cl)
}

// Echoes data frames back to the sender. Pings are answered and close frames are
// acknowledged by the connection's control handlers.
func (hub *Hub) readLoop(ctx context.Context, cl *client) {
	defer func() {
		if fatalError := recover(); fatalError != nil {
			stack := debug.Stack()
			logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog,
				"panic in websocket client %s: %v\n%s", cl.id, fatalError, stack)
		}
	}()

	cl.conn.SetPingHandler(func(appData string) (err error) {
		err = cl.conn.WriteControl(gorilla.PongMessage, []byte(appData), time.Now().Add(writeTimeout))
		if errors.Is(err, gorilla.ErrCloseSent) {
			err = nil
		}
		return
	})

	for {
		messageType, data, err := cl.conn.ReadMessage()
		if err != nil {
			if gorilla.IsCloseError(err, gorilla.CloseNormalClosure, gorilla.CloseGoingAway, gorilla.CloseNoStatusReceived) {
				logctx.LogEvent(ctx, global.VerbosityStandard, global.InfoLog,
					"websocket client %s (%s) disconnected\n", cl.id, cl.remote)
			} else if !hub.closed.Load() {
				logctx.LogEvent(ctx, global.VerbosityProgress, global.WarnLog,
					"websocket client %s read failed: %v\n", cl.id, err)
			}
			return
		}

		err = cl.write(messageType, data)
		if err != nil {
			logctx.LogEvent(ctx, global.VerbosityProgress, global.WarnLog,
				"websocket client %s echo failed: %v\n", cl.id, err)
			return
		}
		hub.Metrics.Echoed.Add(1)
	}
}

// Number of connected clients
func (hub *Hub) Clients() (count int) {
	hub.clientsMu.RLock()
	count = len(hub.clients)
	hub.clientsMu.RUnlock()
	return
}

func (cl *client) write(messageType int, data []byte) (err error) {
	cl.writeMutex.Lock()
	defer cl.writeMutex.Unlock()

	_ = cl.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	err = cl.conn.WriteMessage(messageType, data)
	return
}

func (hub *Hub) removeClient(ctx context.Context, cl *client) {
	cl.closeOnce.Do(func() {
		hub.clientsMu.Lock()
		delete(hub.clients, cl.id)
		hub.clientsMu.Unlock()

		hub.Metrics.Disconnected.Add(1)
		close(cl.done)
		_ = cl.conn.Close()
		logctx.LogEvent(ctx, global.VerbosityDebug, global.InfoLog,
			"removed websocket client %s\n", cl.id)
	})
}
