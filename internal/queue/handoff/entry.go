// Dispatch sink carrying decoded events from the listener to consumers
package handoff

import (
	"context"
	"fmt"
	"sensorweb/internal/atomics"
	"sensorweb/internal/global"
	"slices"
	"strings"
	"unsafe"

	"github.com/pbnjay/memory"
)

// Creates a new sink. Buffered capacity is refused when it could not fit in free memory.
func New[T any](namespace []string, capacity int, policy Policy) (new *Sink[T], err error) {
	if capacity < 0 {
		err = fmt.Errorf("queue size must not be negative (got %d)", capacity)
		return
	}
	if policy != Block && policy != Drop {
		err = fmt.Errorf("unknown overflow policy %d", policy)
		return
	}

	var zero T
	wantBytes := uint64(capacity) * uint64(unsafe.Sizeof(zero))
	freeMem := memory.FreeMemory()
	if freeMem > 0 && wantBytes > freeMem {
		err = fmt.Errorf("queue size %d needs %d bytes, only %d bytes free", capacity, wantBytes, freeMem)
		return
	}

	new = &Sink[T]{
		Namespace: append(slices.Clone(namespace), global.NSQueue),
		Capacity:  capacity,
		Policy:    policy,
		ch:        make(chan T, capacity),
		closed:    make(chan struct{}),
		Metrics:   &MetricStorage{},
	}
	return
}

// Maps config text to a policy
func ParsePolicy(name string) (policy Policy, err error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "block":
		policy = Block
	case "drop":
		policy = Drop
	default:
		err = fmt.Errorf("invalid overflow policy %q (expected block or drop)", name)
	}
	return
}

func (policy Policy) String() (name string) {
	switch policy {
	case Block:
		name = "block"
	case Drop:
		name = "drop"
	default:
		name = "unknown"
	}
	return
}

// Hands value to a consumer.
// Block waits for a consumer (or buffer space) until ctx ends or the sink closes.
// Drop returns ErrFull instead of waiting.
func (sink *Sink[T]) Push(ctx context.Context, value T) (err error) {
	sink.Metrics.PushAttempts.Add(1)

	select {
	case <-sink.closed:
		sink.Metrics.PushFailed.Add(1)
		err = ErrClosed
		return
	default:
	}

	// Counted before the send so a fast consumer never decrements first
	sink.Metrics.Depth.Add(1)

	if sink.Policy == Drop {
		select {
		case sink.ch <- value:
			sink.Metrics.PushSuccess.Add(1)
		default:
			atomics.Decrement(&sink.Metrics.Depth)
			sink.Metrics.PushDropped.Add(1)
			err = ErrFull
		}
		return
	}

	select {
	case sink.ch <- value:
		sink.Metrics.PushSuccess.Add(1)
	case <-sink.closed:
		atomics.Decrement(&sink.Metrics.Depth)
		sink.Metrics.PushFailed.Add(1)
		err = ErrClosed
	case <-ctx.Done():
		atomics.Decrement(&sink.Metrics.Depth)
		sink.Metrics.PushFailed.Add(1)
		// Wrapped so callers can tell cancellation apart from ErrClosed
		err = fmt.Errorf("push abandoned: %w", ctx.Err())
	}
	return
}

// Waits for the next value. Returns false when ctx ends, or the sink is closed and empty.
func (sink *Sink[T]) Pop(ctx context.Context) (value T, ok bool) {
	// Drain buffered values first so closing never loses accepted events
	select {
	case value = <-sink.ch:
		sink.popped()
		ok = true
		return
	default:
	}

	select {
	case value = <-sink.ch:
		sink.popped()
		ok = true
	case <-sink.closed:
		select {
		case value = <-sink.ch:
			sink.popped()
			ok = true
		default:
		}
	case <-ctx.Done():
	}
	return
}

func (sink *Sink[T]) popped() {
	atomics.Decrement(&sink.Metrics.Depth)
	sink.Metrics.PopSuccess.Add(1)
}

// Consumer side shutdown. Pending and future pushes fail with ErrClosed.
// The data channel is never closed so a racing producer cannot panic.
func (sink *Sink[T]) Close() {
	sink.closeOnce.Do(func() {
		close(sink.closed)
	})
}

// Reports whether Close has been called
func (sink *Sink[T]) Closed() (closed bool) {
	select {
	case <-sink.closed:
		closed = true
	default:
	}
	return
}

// Values accepted and not yet taken by a consumer
func (sink *Sink[T]) Depth() (depth uint64) {
	depth = sink.Metrics.Depth.Load()
	return
}
