package cli

import (
	"context"
	"fmt"
	"os"
	"sensorweb/internal/global"
	"sensorweb/internal/lifecycle"
	"sensorweb/internal/logctx"
	"sensorweb/internal/network"
	"sensorweb/internal/receiver"
	"strconv"

	"github.com/spf13/pflag"
)

type listenOptions struct {
	configPath string
	mcast      string
	port       string
	httpBind   string
	wsBind     string
}

func ListenMode(ctx context.Context, commandname string, args []string) (err error) {
	var opts listenOptions
	commandFlags := listenFlags(commandname, &opts)

	handled, err := parseArgs(commandFlags, commandname, args)
	if err != nil || handled {
		return
	}
	logctx.SetLogLevel(ctx, global.Verbosity)

	daemonConfig, err := loadListenConfig(commandFlags, opts)
	if err != nil {
		return
	}

	recvDaemon := receiver.NewDaemon(daemonConfig)
	err = recvDaemon.Start(ctx)
	if err != nil {
		err = fmt.Errorf("failed starting listener daemon: %v", err)
		return
	}

	go lifecycle.SignalHandler(ctx, recvDaemon)

	notifyErr := lifecycle.NotifyReady(ctx)
	if notifyErr != nil {
		logctx.LogEvent(ctx, global.VerbosityStandard, global.WarnLog, "Systemd notify ready failed: %v\n", notifyErr)
	}

	recvDaemon.Run()
	return
}

func listenFlags(commandname string, opts *listenOptions) (commandFlags *pflag.FlagSet) {
	commandFlags = pflag.NewFlagSet(commandname, pflag.ContinueOnError)
	SetGlobalArguments(commandFlags)
	SetCommon(commandFlags, &opts.configPath)
	commandFlags.StringVarP(&opts.mcast, "mcast", "m", global.DefaultMulticastGroup, "Multicast group address to join (IPv4 or IPv6)")
	commandFlags.StringVarP(&opts.port, "port", "p", strconv.Itoa(global.DefaultMulticastPort), "UDP port to receive on")
	commandFlags.StringVar(&opts.httpBind, "http-bind", global.DefaultHTTPBind, "Static web server bind address")
	commandFlags.StringVar(&opts.wsBind, "ws-bind", global.DefaultWSBind, "WebSocket server bind address")
	return
}

// Reads the config file (a missing default file means built-in defaults) and
// applies any flags given on the command line on top.
func loadListenConfig(commandFlags *pflag.FlagSet, opts listenOptions) (daemonConfig receiver.Config, err error) {
	var jsonCfg receiver.JSONConfig

	_, statErr := os.Stat(opts.configPath)
	if statErr == nil || commandFlags.Changed("config") {
		jsonCfg, err = receiver.LoadConfig(opts.configPath)
		if err != nil {
			return
		}
	}

	daemonConfig, err = jsonCfg.NewDaemonConf()
	if err != nil {
		return
	}

	if commandFlags.Changed("mcast") {
		daemonConfig.MulticastGroup = network.ParseGroupAddr(opts.mcast).String()
	}
	if commandFlags.Changed("port") {
		daemonConfig.ListenPort = network.ParsePort(opts.port)
	}
	if commandFlags.Changed("http-bind") {
		daemonConfig.HTTPBind = opts.httpBind
		daemonConfig.WebEnabled = true
	}
	if commandFlags.Changed("ws-bind") {
		daemonConfig.WSBind = opts.wsBind
		daemonConfig.WebEnabled = true
	}
	return
}
