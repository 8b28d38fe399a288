// Daemon for continuous reception of sensor datagrams, decoding, and delivery to configured output destinations
package receiver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sensorweb/internal/atomics"
	"sensorweb/internal/externalio/beats"
	"sensorweb/internal/externalio/file"
	"sensorweb/internal/externalio/nats"
	"sensorweb/internal/externalio/server"
	"sensorweb/internal/externalio/static"
	"sensorweb/internal/externalio/websocket"
	"sensorweb/internal/global"
	"sensorweb/internal/logctx"
	"sensorweb/internal/network"
	"sensorweb/internal/queue/handoff"
	"sensorweb/internal/receiver/listener"
	"sensorweb/internal/receiver/metrics"
	"sensorweb/internal/receiver/output"
	"sensorweb/pkg/message"
	"time"
)

// Create new receiver daemon instance
func NewDaemon(cfg Config) (new *Daemon) {
	ctx, cancel := context.WithCancel(context.Background())
	new = &Daemon{
		cfg:    cfg,
		ctx:    ctx,
		cancel: cancel,
	}
	return
}

// Starts pipeline worker threads in background - gracefully shuts down if startup error is encountered
func (daemon *Daemon) Start(globalCtx context.Context) (err error) {
	// New context for the daemon
	daemon.ctx, daemon.cancel = context.WithCancel(context.Background())
	daemon.ctx = context.WithValue(daemon.ctx, global.LoggerKey, logctx.GetLogger(globalCtx))

	// Top level tag for daemon logs
	ctx := logctx.AppendCtxTag(daemon.ctx, global.NSRecv)

	logctx.LogEvent(ctx, global.VerbosityStandard, global.InfoLog, "Starting...\n")

	daemon.cfg.setDefaults()

	global.Hostname, err = os.Hostname()
	if err != nil {
		err = fmt.Errorf("failed to determine local hostname: %v", err)
		return
	}
	global.PID = os.Getpid()

	namespace := []string{global.NSRecv}

	// Dispatch sink between the socket loop and the output worker
	daemon.Sink, err = handoff.New[message.NetworkMessage](namespace, daemon.cfg.QueueSize, daemon.cfg.OverflowPolicy)
	if err != nil {
		err = fmt.Errorf("failed creating dispatch sink: %v", err)
		return
	}

	// Outputs
	err = daemon.startOutputs(ctx, namespace)
	if err != nil {
		daemon.Shutdown()
		return
	}

	// Output worker runs before the socket exists so a synchronous sink always has a consumer
	daemon.workerDone = make(chan struct{})
	workerCtx := logctx.AppendCtxTag(ctx, global.NSWorker)
	go func() {
		defer close(daemon.workerDone)
		daemon.Worker.Run(workerCtx)
	}()

	// Listener
	err = daemon.startListener(ctx, namespace)
	if err != nil {
		daemon.Shutdown()
		return
	}

	// Metrics Collector
	daemon.Gatherer = metrics.New(namespace,
		daemon.cfg.MetricCollectionInterval,
		daemon.cfg.MetricMaxAge)
	daemon.Gatherer.Register(daemon.Listener, daemon.Sink, daemon.Worker)
	if daemon.WebHub != nil {
		daemon.Gatherer.Register(daemon.WebHub, daemon.Static)
	}
	gathererCtx := logctx.AppendCtxTag(ctx, global.NSMetric)
	daemon.wg.Add(1)
	go func() {
		defer daemon.wg.Done()
		daemon.Gatherer.Run(gathererCtx)
	}()

	// Web front end
	if daemon.cfg.WebEnabled {
		webCtx := logctx.AppendCtxTag(ctx, global.NSWeb)

		daemon.StaticServer = static.SetupListener(webCtx, daemon.cfg.HTTPBind, daemon.Static)
		err = daemon.serve(webCtx, daemon.StaticServer)
		if err != nil {
			daemon.Shutdown()
			return
		}

		daemon.WSServer = websocket.SetupListener(webCtx, daemon.cfg.WSBind, daemon.WebHub)
		err = daemon.serve(webCtx, daemon.WSServer)
		if err != nil {
			daemon.Shutdown()
			return
		}
	}

	// Metric Server
	if daemon.cfg.MetricQueryServerEnabled {
		// Top level tag for metric server logs (copy so return doesn't strip ns tags)
		serverCtx := logctx.AppendCtxTag(ctx, global.NSMetric)
		serverCtx = logctx.AppendCtxTag(serverCtx, global.NSMetricSrv)

		daemon.MetricServer, err = server.SetupListener(serverCtx,
			daemon.cfg.MetricQueryServerPort,
			daemon.Gatherer.Registry.Search,
			daemon.Gatherer.Registry.Discover,
			daemon.Gatherer.Registry.Aggregate)
		if err != nil {
			err = fmt.Errorf("failed setting up metric server: %v", err)
			daemon.Shutdown()
			return
		}
		err = daemon.serve(serverCtx, daemon.MetricServer)
		if err != nil {
			daemon.Shutdown()
			return
		}
	}

	logctx.LogEvent(ctx, global.VerbosityStandard, global.InfoLog,
		"Startup complete, listening on group %s port %d.\n", daemon.Membership.Group, daemon.Membership.Port)
	return
}

// Opens every configured output module and attaches them to a new output worker
func (daemon *Daemon) startOutputs(ctx context.Context, namespace []string) (err error) {
	daemon.Worker = output.New(namespace, daemon.Sink)
	daemon.Worker.LogEvents = daemon.cfg.LogEvents

	daemon.Worker.FileMod, err = file.NewOutput(daemon.cfg.OutputFilePath)
	if err != nil {
		err = fmt.Errorf("failed starting file output: %v", err)
		return
	}

	daemon.Worker.BeatsMod, err = beats.NewOutput(daemon.cfg.BeatsAddress)
	if err != nil {
		err = fmt.Errorf("failed starting beats output: %v", err)
		return
	}

	natsCtx := logctx.AppendCtxTag(ctx, global.NSoNATS)
	daemon.Worker.NATSMod, err = nats.NewOutput(natsCtx, daemon.cfg.NATSURL, daemon.cfg.NATSPrefix)
	if err != nil {
		err = fmt.Errorf("failed starting NATS output: %v", err)
		return
	}

	if daemon.cfg.WebEnabled {
		daemon.WebHub = websocket.New(namespace)
		daemon.Static = static.New(namespace, daemon.cfg.StaticDir)
		daemon.Worker.WebHub = daemon.WebHub
	}
	return
}

// Binds the multicast socket, joins the group, then starts the receive loop
func (daemon *Daemon) startListener(ctx context.Context, namespace []string) (err error) {
	iface, err := network.LookupInterface(daemon.cfg.Interface)
	if err != nil {
		err = fmt.Errorf("failed resolving multicast interface: %v", err)
		return
	}

	group := network.ParseGroupAddr(daemon.cfg.MulticastGroup)
	daemon.Membership, err = network.JoinMulticast(ctx, group, daemon.cfg.ListenPort, iface)
	if err != nil {
		err = fmt.Errorf("failed starting listener: %v", err)
		return
	}

	if daemon.cfg.SocketBufferSize > 0 {
		err = network.SetReadBuffer(daemon.Membership.Conn, daemon.cfg.SocketBufferSize)
		if err != nil {
			logctx.LogEvent(ctx, global.VerbosityStandard, global.WarnLog,
				"Failed to set socket receive buffer to %d bytes: %v\n", daemon.cfg.SocketBufferSize, err)
			err = nil
		}
	}

	daemon.Listener = listener.New(namespace, daemon.Membership.Conn, daemon.cfg.ReceiveBufferSize, daemon.Sink)

	var listenerCtx context.Context
	listenerCtx, daemon.listenerCancel = context.WithCancel(logctx.AppendCtxTag(ctx, global.NSListen))
	daemon.listenerDone = make(chan struct{})
	go func() {
		defer close(daemon.listenerDone)
		daemon.Listener.Run(listenerCtx)
	}()

	logctx.LogEvent(ctx, global.VerbosityProgress, global.InfoLog,
		"Joined multicast group %s on %v\n", group, daemon.Membership.LocalAddr())
	return
}

// Binds the server address now so a port conflict fails startup, then serves in the background
func (daemon *Daemon) serve(ctx context.Context, srv *http.Server) (err error) {
	listener, err := network.ListenReusedTCP(ctx, srv.Addr)
	if err != nil {
		return
	}

	logctx.LogEvent(ctx, global.VerbosityStandard, global.InfoLog,
		"HTTP server listening on http://%s/\n", listener.Addr())

	daemon.wg.Add(1)
	go func() {
		defer daemon.wg.Done()
		err := srv.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog,
				"HTTP server on %s failed: %v\n", srv.Addr, err)
		}
	}()
	return
}

// Blocking daemon waiter
func (daemon *Daemon) Run() {
	<-daemon.ctx.Done()
}

// Reopens the file output so rotated logs are released
func (daemon *Daemon) Reload(ctx context.Context) (err error) {
	if daemon.Worker == nil {
		return
	}
	err = daemon.Worker.FileMod.Reopen()
	return
}

// Gracefully shutdown pipeline worker threads (errors are printed to program log buffer).
// Order: listener, sink drain, outputs, servers.
func (daemon *Daemon) Shutdown() {
	daemon.shutdownOnce.Do(daemon.shutdown)
}

func (daemon *Daemon) shutdown() {
	ctx := logctx.AppendCtxTag(daemon.ctx, global.NSRecv)

	logctx.LogEvent(ctx, global.VerbosityStandard, global.InfoLog,
		"Daemon shutdown started...\n")

	// Stop listener: leave the group and release the socket to unblock the read
	if daemon.listenerCancel != nil {
		daemon.listenerCancel()
	}
	if daemon.Membership != nil {
		err := daemon.Membership.Leave()
		if err != nil {
			logctx.LogEvent(ctx, global.VerbosityStandard, global.WarnLog, "%v\n", err)
		}
	}
	if daemon.listenerDone != nil {
		select {
		case <-daemon.listenerDone:
		case <-time.After(global.ReceiveShutdownTimeout):
			logctx.LogEvent(ctx, global.VerbosityStandard, global.WarnLog,
				"listener did not stop within %v\n", global.ReceiveShutdownTimeout)
		}
	}

	// Drain sink
	if daemon.Sink != nil {
		success, last := atomics.WaitDrained(&daemon.Sink.Metrics.Depth, global.QueueDrainTimeout)
		if !success {
			logctx.LogEvent(ctx, global.VerbosityStandard, global.WarnLog,
				"dispatch queue did not empty in time: dropped %d events\n", last)
		}
		daemon.Sink.Close()
	}
	if daemon.workerDone != nil {
		select {
		case <-daemon.workerDone:
		case <-time.After(global.QueueDrainTimeout):
			logctx.LogEvent(ctx, global.VerbosityStandard, global.WarnLog,
				"output worker did not stop within %v\n", global.QueueDrainTimeout)
		}
	}

	// Stop outputs
	if daemon.Worker != nil {
		err := daemon.Worker.FileMod.Shutdown()
		if err != nil {
			logctx.LogEvent(ctx, global.VerbosityStandard, global.WarnLog, "file output shutdown: %v\n", err)
		}
		err = daemon.Worker.BeatsMod.Shutdown()
		if err != nil {
			logctx.LogEvent(ctx, global.VerbosityStandard, global.WarnLog, "beats output shutdown: %v\n", err)
		}
		err = daemon.Worker.NATSMod.Shutdown()
		if err != nil {
			logctx.LogEvent(ctx, global.VerbosityStandard, global.WarnLog, "NATS output shutdown: %v\n", err)
		}
	}
	err := daemon.WebHub.Shutdown(ctx)
	if err != nil {
		logctx.LogEvent(ctx, global.VerbosityStandard, global.WarnLog, "websocket clients did not close in time: %v\n", err)
	}

	// Stop servers
	serverCtx, cancel := context.WithTimeout(ctx, global.QueueDrainTimeout)
	defer cancel()
	for _, srv := range []*http.Server{daemon.StaticServer, daemon.WSServer, daemon.MetricServer} {
		if srv == nil {
			continue
		}
		err := srv.Shutdown(serverCtx)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logctx.LogEvent(ctx, global.VerbosityStandard, global.WarnLog,
				"HTTP server %s did not shutdown gracefully: %v\n", srv.Addr, err)
		}
	}

	// Stop the run loop after instances are drained and stopped
	daemon.cancel()

	// Wait for all workers to finish (with timeout)
	done := make(chan struct{})
	go func() {
		daemon.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logctx.LogEvent(ctx, global.VerbosityStandard, global.InfoLog,
			"Daemon shutdown completed successfully\n")
	case <-time.After(global.ReceiveShutdownTimeout):
		logctx.LogEvent(ctx, global.VerbosityStandard, global.WarnLog,
			"Timeout: receive daemon did not shutdown within %v seconds\n",
			global.ReceiveShutdownTimeout.Seconds())
	}
}
