package cli

import (
	"context"
	"sensorweb/internal/install"

	"github.com/spf13/pflag"
)

func ConfigureMode(ctx context.Context, commandname string, args []string) (err error) {
	var configPath string
	commandFlags := pflag.NewFlagSet(commandname, pflag.ContinueOnError)
	SetCommon(commandFlags, &configPath)

	handled, err := parseArgs(commandFlags, commandname, args)
	if err != nil || handled {
		return
	}

	err = install.WriteTemplateConfig(configPath)
	return
}
