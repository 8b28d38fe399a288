package listener

import (
	"net"
	"sensorweb/internal/queue/handoff"
	"sensorweb/pkg/message"
	"sync/atomic"
)

// Receive, decode, dispatch loop bound to one multicast socket
type Instance struct {
	Namespace  []string
	conn       *net.UDPConn
	bufferSize int
	Outbox     *handoff.Sink[message.NetworkMessage]
	Metrics    MetricStorage
}

type MetricStorage struct {
	BusyNs        atomic.Uint64 // sum of ns spent outside the blocking read
	Datagrams     atomic.Uint64 // successful reads
	Truncated     atomic.Uint64 // datagrams larger than the receive buffer
	InvalidUTF8   atomic.Uint64 // datagrams that needed byte replacement
	ReceiveErrors atomic.Uint64
	DispatchFails atomic.Uint64 // decoded but not accepted by the sink
	Bytes         atomic.Uint64
	Kinds         [message.KindAirCasting + 1]atomic.Uint64 // decoded events per kind
}
