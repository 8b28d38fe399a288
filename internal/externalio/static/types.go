package static

import (
	"sync/atomic"
)

// Serves the dashboard files from one directory
type Handler struct {
	Namespace []string
	rootDir   string
	Metrics   MetricStorage
}

type MetricStorage struct {
	Served           atomic.Uint64
	NotFound         atomic.Uint64
	MethodNotAllowed atomic.Uint64
	Redirected       atomic.Uint64
}
