package nats

import (
	natsio "github.com/nats-io/nats.go"
)

// Publishes decoded events as JSON on per-node, per-kind subjects
type OutModule struct {
	url           string
	subjectPrefix string
	conn          *natsio.Conn
}
