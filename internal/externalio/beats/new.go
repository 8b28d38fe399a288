package beats

import (
	"fmt"
	"sensorweb/internal/global"

	lumberjack "github.com/elastic/go-lumber/client/v2"
)

// Creates new beats (lumberjack) output module. Returns nil nil if no address.
func NewOutput(endpoint string) (module *OutModule, err error) {
	if endpoint == "" {
		return
	}

	compression := lumberjack.CompressionLevel(0)
	timeout := lumberjack.Timeout(global.OutputDialTimeout)

	ljClient, err := lumberjack.SyncDial(endpoint, compression, timeout)
	if err != nil {
		err = fmt.Errorf("failed connection to beats server %s: %v", endpoint, err)
		return
	}

	module = &OutModule{
		endpoint: endpoint,
		sink:     ljClient,
	}
	return
}

// Closes the connection to the beats server
func (mod *OutModule) Shutdown() (err error) {
	if mod == nil || mod.sink == nil {
		return
	}
	err = mod.sink.Close()
	if err != nil {
		err = fmt.Errorf("failed closing beats connection to %s: %v", mod.endpoint, err)
	}
	return
}
