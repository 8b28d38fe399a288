package logctx

import (
	"sync"
	"time"
)

// One queued log line
type Event struct {
	Timestamp time.Time
	Severity  string
	Tags      []string
	Message   string
}

// Context carried event queue, drained by a single watcher
type Logger struct {
	ID         string
	CreatedAt  time.Time
	PrintLevel int // events above this verbosity are discarded (errors always kept)
	Done       <-chan struct{}

	mutex sync.Mutex
	cond  *sync.Cond
	queue []Event
	wg    sync.WaitGroup
}

// Repeated message suppression state, owned by the watcher goroutine
type dedupState struct {
	lastMsg          string
	repeatCount      int
	lastSuppressTime time.Time
}
