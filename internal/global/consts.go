package global

import "time"

const (
	// Descriptive Names for available verbosity levels
	VerbosityNone int = iota
	VerbosityStandard
	VerbosityProgress
	VerbosityData
	VerbosityFullData
	VerbosityDebug

	// Descriptive names for available severity levels
	ErrorLog string = "Error"
	WarnLog  string = "Warn"
	InfoLog  string = "Info"
)

const (
	ProgVersion string = "v0.3.0"

	// Context keys
	LoggerKey  CtxKey = "logger"  // Event queue (mostly for variable log verbosity handling)
	LogTagsKey CtxKey = "logtags" // List of tags in order of broad->specific appended/popped at various parts of the program

	DefaultConfigPath string = "/etc/sensorweb.json"

	// Multicast ingestion
	DefaultMulticastGroup    string = "239.0.0.1"
	DefaultMulticastPort     int    = 8899
	DefaultReceiveBufferSize int    = 1024 // firmware lines are short, longer datagrams are truncated
	DefaultQueueSize         int    = 0    // synchronous hand-off
	MaxReceiveBufferSize     int    = 65535

	// Web front end
	DefaultHTTPBind    string = "0.0.0.0:8000"
	DefaultWSBind      string = "0.0.0.0:8001"
	DefaultStaticDir   string = "static"
	DefaultIndexPath   string = "/index.html"
	WebSocketProtocol  string = "sensorweb"
	DefaultNATSPrefix  string = "sensorweb"
	DefaultBeatsPrefix string = "sensorweb"

	// Timeout values
	ReceiveShutdownTimeout time.Duration = 20 * time.Second
	QueueDrainTimeout      time.Duration = 5 * time.Second
	OutputDialTimeout      time.Duration = 3 * time.Second

	// Metric HTTP server
	HTTPListenPortReceiver int           = 10000 + DefaultMulticastPort // Default listen port
	HTTPListenAddr         string        = "localhost"                  // Metric queries only exposed to local machine
	HTTPReadTimeout        time.Duration = 30 * time.Second
	HTTPWriteTimeout       time.Duration = 10 * time.Second
	HTTPIdleTimeout        time.Duration = 180 * time.Second
	DataPath               string        = "/data/"
	DiscoveryPath          string        = "/discover/"
	AggregationPath        string        = "/aggregate/"
	DefaultQueryWindow     time.Duration = 1 * time.Minute

	// Namespacing Name Components
	NSMetric    string = "Metrics"
	NSMetricSrv string = "Server"
	NSTest      string = "Test"
	NSCLI       string = "CLI"
	NSRecv      string = "Receiver"
	NSOut       string = "Output"
	NSQueue     string = "Queue"
	NSListen    string = "Listener"
	NSWorker    string = "Worker"
	NSDecode    string = "Decode"
	NSWeb       string = "Web"
	NSStatic    string = "Static"
	NSWebSocket string = "WebSocket"
	NSmIngest   string = "Ingest"
	NSmSystem   string = "System"
	NSoLog      string = "Log"
	NSoFile     string = "File"
	NSoBeats    string = "Beats"
	NSoNATS     string = "NATS"
)
