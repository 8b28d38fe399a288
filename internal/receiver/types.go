package receiver

import (
	"context"
	"net/http"
	"sensorweb/internal/externalio/static"
	"sensorweb/internal/externalio/websocket"
	"sensorweb/internal/network"
	"sensorweb/internal/queue/handoff"
	"sensorweb/internal/receiver/listener"
	"sensorweb/internal/receiver/metrics"
	"sensorweb/internal/receiver/output"
	"sensorweb/pkg/message"
	"sync"
	"time"
)

type JSONConfig struct {
	Network struct {
		MulticastGroup    string `json:"multicastGroup"`
		Port              int    `json:"port"`
		Interface         string `json:"interface,omitempty"`
		ReceiveBufferSize int    `json:"receiveBufferSize,omitempty"`
		SocketBufferSize  int    `json:"socketBufferSize,omitempty"`
	} `json:"network"`
	Dispatch struct {
		QueueSize      int    `json:"queueSize"`
		OverflowPolicy string `json:"overflowPolicy"`
	} `json:"dispatch"`
	Outputs struct {
		Log          *bool  `json:"log,omitempty"`
		FilePath     string `json:"filePath,omitempty"`
		BeatsAddress string `json:"beatsAddress,omitempty"`
		NATS         struct {
			URL           string `json:"url,omitempty"`
			SubjectPrefix string `json:"subjectPrefix,omitempty"`
		} `json:"nats"`
	} `json:"outputs"`
	Web struct {
		Enabled   bool   `json:"enabled"`
		HTTPBind  string `json:"httpBind,omitempty"`
		StaticDir string `json:"staticDir,omitempty"`
		WSBind    string `json:"wsBind,omitempty"`
	} `json:"web"`
	Metrics struct {
		Interval          string `json:"collectionInterval"`
		MaxAge            string `json:"maximumRetention,omitempty"`
		EnableQueryServer bool   `json:"enableHTTPQueryServer"`
		QueryServerPort   int    `json:"queryServerPort,omitempty"`
	} `json:"metrics"`
}

type Config struct {
	// Ingestion
	MulticastGroup    string
	ListenPort        int
	Interface         string
	ReceiveBufferSize int
	SocketBufferSize  int // 0 = kernel default

	// Dispatch sink
	QueueSize      int
	OverflowPolicy handoff.Policy

	// Outputs
	LogEvents      bool
	OutputFilePath string
	BeatsAddress   string
	NATSURL        string
	NATSPrefix     string

	// Web front end
	WebEnabled bool
	HTTPBind   string
	StaticDir  string
	WSBind     string

	// Metrics
	MetricQueryServerEnabled bool
	MetricQueryServerPort    int
	MetricCollectionInterval time.Duration
	MetricMaxAge             time.Duration
}

type Daemon struct {
	cfg          Config
	ctx          context.Context
	cancel       context.CancelFunc
	wg           sync.WaitGroup
	shutdownOnce sync.Once

	listenerCancel context.CancelFunc
	listenerDone   chan struct{}
	workerDone     chan struct{}

	Membership *network.Membership
	Sink       *handoff.Sink[message.NetworkMessage]
	Listener   *listener.Instance
	Worker     *output.Instance
	Gatherer   *metrics.Gatherer
	WebHub     *websocket.Hub
	Static     *static.Handler

	StaticServer *http.Server
	WSServer     *http.Server
	MetricServer *http.Server
}
