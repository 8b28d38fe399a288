package websocket

import (
	"sync"
	"sync/atomic"

	gorilla "github.com/gorilla/websocket"
)

// Accepts browser connections and pushes every decoded event to them
type Hub struct {
	Namespace []string
	upgrader  gorilla.Upgrader
	clientsMu sync.RWMutex
	clients   map[string]*client
	closed    atomic.Bool
	wg        sync.WaitGroup
	Metrics   MetricStorage
}

type client struct {
	id         string
	remote     string
	conn       *gorilla.Conn
	send       chan []byte   // pending event frames, drained by the client's write loop
	done       chan struct{} // closed on removal
	writeMutex sync.Mutex    // gorilla allows one concurrent writer
	closeOnce  sync.Once
}

type MetricStorage struct {
	Accepted          atomic.Uint64
	Rejected          atomic.Uint64
	Disconnected      atomic.Uint64
	Echoed            atomic.Uint64
	Queued            atomic.Uint64
	Broadcast         atomic.Uint64
	BroadcastDropped  atomic.Uint64
	BroadcastFailures atomic.Uint64
}
