package main

import (
	"context"
	"fmt"
	"os"
	"sensorweb/internal/cli"
	"sensorweb/internal/global"
	"sensorweb/internal/logctx"

	"github.com/spf13/pflag"
)

func main() {
	global.CmdOpts = cli.DefineOptions()

	args := os.Args
	if len(args) < 2 || args[1] == "-h" || args[1] == "--help" {
		rootFlags := pflag.NewFlagSet(cli.RootCLICommand, pflag.ContinueOnError)
		cli.SetGlobalArguments(rootFlags)
		cli.PrintHelpMenu(os.Stdout, rootFlags, cli.RootCLICommand, global.CmdOpts)
		if len(args) < 2 {
			os.Exit(1)
		}
		return
	}

	// Retrieve command and args
	command := args[1]
	args = args[2:]

	// Setting global logging, commands raise the level after parsing -v
	logDone := make(chan struct{})
	ctx := logctx.New(context.Background(), global.NSCLI, global.VerbosityStandard, logDone)
	logger := logctx.GetLogger(ctx)
	logctx.StartWatcher(logger, os.Stdout)

	// Process commands
	var err error
	switch command {
	case "listen":
		err = cli.ListenMode(ctx, command, args)
	case "decode":
		err = cli.DecodeMode(ctx, command, args)
	case "configure":
		err = cli.ConfigureMode(ctx, command, args)
	case "version":
		err = cli.VersionMode(command, args)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		cli.PrintHelpMenu(os.Stderr, pflag.NewFlagSet(cli.RootCLICommand, pflag.ContinueOnError), cli.RootCLICommand, global.CmdOpts)
		err = fmt.Errorf("unknown command %q", command)
	}

	// Finish up any stdout writes for global logger
	close(logDone)
	logger.Wake()
	logger.Wait()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
