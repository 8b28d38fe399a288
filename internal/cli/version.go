package cli

import (
	"fmt"
	"runtime"
	"sensorweb/internal/global"

	"github.com/spf13/pflag"
)

func VersionMode(commandname string, args []string) (err error) {
	var verbose bool
	commandFlags := pflag.NewFlagSet(commandname, pflag.ContinueOnError)
	commandFlags.BoolVarP(&verbose, "verbosity", "v", false, "Show build details")

	handled, err := parseArgs(commandFlags, commandname, args)
	if err != nil || handled {
		return
	}

	if !verbose {
		fmt.Fprintln(stdout, global.ProgVersion)
		return
	}
	fmt.Fprintf(stdout, "sensorweb %s\n", global.ProgVersion)
	fmt.Fprintf(stdout, "Built using %s(%s) for %s on %s\n", runtime.Version(), runtime.Compiler, runtime.GOOS, runtime.GOARCH)
	return
}
