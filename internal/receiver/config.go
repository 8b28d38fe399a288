package receiver

import (
	"encoding/json"
	"fmt"
	"os"
	"sensorweb/internal/global"
	"sensorweb/internal/network"
	"sensorweb/internal/queue/handoff"
	"strconv"
	"time"

	"github.com/tidwall/jsonc"
)

// Loads JSON config from file. Comments and trailing commas are allowed.
func LoadConfig(path string) (cfg JSONConfig, err error) {
	configFile, err := os.ReadFile(path)
	if err != nil {
		err = fmt.Errorf("failed to read config file: %v", err)
		return
	}

	err = json.Unmarshal(jsonc.ToJSON(configFile), &cfg)
	if err != nil {
		err = fmt.Errorf("invalid config syntax in '%s': %v", path, err)
		return
	}

	return
}

// Parses JSON config into daemon config
func (cfg JSONConfig) NewDaemonConf() (config Config, err error) {
	// Network settings
	config.MulticastGroup = cfg.Network.MulticastGroup
	config.ListenPort = cfg.Network.Port
	config.Interface = cfg.Network.Interface
	config.ReceiveBufferSize = cfg.Network.ReceiveBufferSize
	config.SocketBufferSize = cfg.Network.SocketBufferSize

	// Dispatch settings
	if cfg.Dispatch.QueueSize < 0 {
		err = fmt.Errorf("dispatch queue size cannot be negative (got %d)", cfg.Dispatch.QueueSize)
		return
	}
	config.QueueSize = cfg.Dispatch.QueueSize
	config.OverflowPolicy, err = handoff.ParsePolicy(cfg.Dispatch.OverflowPolicy)
	if err != nil {
		err = fmt.Errorf("failed to parse dispatch overflow policy: %v", err)
		return
	}

	// Output settings
	config.LogEvents = true
	if cfg.Outputs.Log != nil {
		config.LogEvents = *cfg.Outputs.Log
	}
	config.OutputFilePath = cfg.Outputs.FilePath
	config.BeatsAddress = cfg.Outputs.BeatsAddress
	config.NATSURL = cfg.Outputs.NATS.URL
	config.NATSPrefix = cfg.Outputs.NATS.SubjectPrefix

	// Web settings
	config.WebEnabled = cfg.Web.Enabled
	config.HTTPBind = cfg.Web.HTTPBind
	config.StaticDir = cfg.Web.StaticDir
	config.WSBind = cfg.Web.WSBind

	// Metric settings
	config.MetricQueryServerEnabled = cfg.Metrics.EnableQueryServer
	config.MetricQueryServerPort = cfg.Metrics.QueryServerPort
	if cfg.Metrics.MaxAge != "" {
		config.MetricMaxAge, err = time.ParseDuration(cfg.Metrics.MaxAge)
		if err != nil {
			err = fmt.Errorf("failed to parse metric max age time: %v", err)
			return
		}
	}
	if cfg.Metrics.Interval != "" {
		config.MetricCollectionInterval, err = time.ParseDuration(cfg.Metrics.Interval)
		if err != nil {
			err = fmt.Errorf("failed to parse metric collection interval time: %v", err)
			return
		}
	}
	return
}

// Sets defaults for any missing/invalid values
func (cfg *Config) setDefaults() {
	// Network
	cfg.MulticastGroup = network.ParseGroupAddr(cfg.MulticastGroup).String()
	cfg.ListenPort = network.ParsePort(strconv.Itoa(cfg.ListenPort))
	if cfg.ReceiveBufferSize <= 0 {
		cfg.ReceiveBufferSize = global.DefaultReceiveBufferSize
	}
	if cfg.ReceiveBufferSize > global.MaxReceiveBufferSize {
		cfg.ReceiveBufferSize = global.MaxReceiveBufferSize
	}
	if cfg.SocketBufferSize < 0 {
		cfg.SocketBufferSize = 0
	}

	// Dispatch
	if cfg.QueueSize < 0 {
		cfg.QueueSize = global.DefaultQueueSize
	}

	// Outputs
	if cfg.NATSPrefix == "" {
		cfg.NATSPrefix = global.DefaultNATSPrefix
	}

	// Web
	if cfg.HTTPBind == "" {
		cfg.HTTPBind = global.DefaultHTTPBind
	}
	if cfg.WSBind == "" {
		cfg.WSBind = global.DefaultWSBind
	}
	if cfg.StaticDir == "" {
		cfg.StaticDir = global.DefaultStaticDir
	}

	// Metrics
	if cfg.MetricMaxAge <= 0 {
		cfg.MetricMaxAge = 1 * time.Hour
	}
	if cfg.MetricQueryServerPort == 0 {
		cfg.MetricQueryServerPort = global.HTTPListenPortReceiver
	}
	if cfg.MetricCollectionInterval <= 0 {
		cfg.MetricCollectionInterval = 15 * time.Second
	}
}
