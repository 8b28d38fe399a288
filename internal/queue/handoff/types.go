package handoff

import (
	"errors"
	"sync"
	"sync/atomic"
)

// What Push does when no consumer is ready and the buffer is full
type Policy int

const (
	Block Policy = iota // backpressure onto the producer
	Drop                // fail immediately, producer never stalls
)

var (
	ErrFull   = errors.New("dispatch queue full")
	ErrClosed = errors.New("dispatch queue closed")
)

// Single producer hand-off between the socket loop and the output worker.
// Capacity 0 is a synchronous rendezvous.
type Sink[T any] struct {
	Namespace []string
	Capacity  int
	Policy    Policy
	ch        chan T
	closed    chan struct{}
	closeOnce sync.Once
	Metrics   *MetricStorage
}

type MetricStorage struct {
	Depth        atomic.Uint64 // accepted but not yet popped
	PushAttempts atomic.Uint64
	PushSuccess  atomic.Uint64
	PushDropped  atomic.Uint64 // full under Drop
	PushFailed   atomic.Uint64 // closed or cancelled
	PopSuccess   atomic.Uint64
}
