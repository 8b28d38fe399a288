package nats

import (
	"context"
	"fmt"
	"sensorweb/internal/global"
	"sensorweb/internal/logctx"
	"time"

	natsio "github.com/nats-io/nats.go"
)

const (
	reconnectWait time.Duration = 2 * time.Second
	flushTimeout  time.Duration = 2 * time.Second
)

// Connects to the NATS server. Returns nil nil if no url.
func NewOutput(ctx context.Context, url string, subjectPrefix string) (module *OutModule, err error) {
	if url == "" {
		return
	}
	if subjectPrefix == "" {
		subjectPrefix = global.DefaultNATSPrefix
	}

	opts := []natsio.Option{
		natsio.Name(global.DefaultNATSPrefix + "-" + global.Hostname),
		natsio.MaxReconnects(-1),
		natsio.ReconnectWait(reconnectWait),
		natsio.Timeout(global.OutputDialTimeout),
		natsio.DisconnectErrHandler(func(_ *natsio.Conn, disconnectErr error) {
			if disconnectErr == nil {
				return
			}
			logctx.LogEvent(ctx, global.VerbosityStandard, global.WarnLog,
				"disconnected from NATS server %s: %v\n", url, disconnectErr)
		}),
		natsio.ReconnectHandler(func(conn *natsio.Conn) {
			logctx.LogEvent(ctx, global.VerbosityStandard, global.InfoLog,
				"reconnected to NATS server %s\n", conn.ConnectedUrl())
		}),
	}

	conn, err := natsio.Connect(url, opts...)
	if err != nil {
		err = fmt.Errorf("failed connection to NATS server %s: %v", url, err)
		return
	}

	module = &OutModule{
		url:           url,
		subjectPrefix: subjectPrefix,
		conn:          conn,
	}
	return
}

// Flushes pending publishes then closes the connection
func (mod *OutModule) Shutdown() (err error) {
	if mod == nil || mod.conn == nil {
		return
	}
	err = mod.conn.FlushTimeout(flushTimeout)
	mod.conn.Close()
	if err != nil {
		err = fmt.Errorf("failed flushing NATS publishes to %s: %v", mod.url, err)
	}
	return
}
