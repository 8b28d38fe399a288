package output

import (
	"sensorweb/internal/externalio/beats"
	"sensorweb/internal/externalio/file"
	"sensorweb/internal/externalio/nats"
	"sensorweb/internal/externalio/websocket"
	"sensorweb/internal/queue/handoff"
	"sensorweb/pkg/message"
	"sync/atomic"
)

// Consumer end of the dispatch sink. Nil modules are skipped.
type Instance struct {
	Namespace []string
	LogEvents bool
	FileMod   *file.OutModule
	BeatsMod  *beats.OutModule
	NATSMod   *nats.OutModule
	WebHub    *websocket.Hub
	Inbox     *handoff.Sink[message.NetworkMessage]
	Metrics   MetricStorage
}

type MetricStorage struct {
	ReceivedEvents       atomic.Uint64
	LoggedEvents         atomic.Uint64
	SuccessfulFileWrites atomic.Uint64
	SuccessfulBeatsSends atomic.Uint64
	SuccessfulNATSPubs   atomic.Uint64
	WebSocketDeliveries  atomic.Uint64
	FailedWrites         atomic.Uint64
}
