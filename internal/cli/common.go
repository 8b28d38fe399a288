package cli

import (
	"sensorweb/internal/global"

	"github.com/spf13/pflag"
)

func SetGlobalArguments(fs *pflag.FlagSet) {
	fs.IntVarP(&global.Verbosity, "verbosity", "v", global.VerbosityStandard, "Increase detailed progress messages (Higher is more verbose) <0...5>")
}

func SetCommon(fs *pflag.FlagSet, configPath *string) {
	fs.StringVarP(configPath, "config", "c", global.DefaultConfigPath, "Path to the configuration file")
}

// Parses args into fs. Help requests print the menu and report handled=true.
func parseArgs(fs *pflag.FlagSet, commandname string, args []string) (handled bool, err error) {
	fs.Usage = func() {}
	err = fs.Parse(args)
	if err == pflag.ErrHelp {
		PrintHelpMenu(stdout, fs, commandname, global.CmdOpts)
		handled = true
		err = nil
	}
	return
}
