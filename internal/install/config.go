// Template configuration file generation
package install

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sensorweb/internal/global"
	"sensorweb/internal/receiver"
	"strings"

	"golang.org/x/term"
)

const templateHeader string = `// sensorweb collector configuration (comments and trailing commas are allowed)
// Empty values fall back to built-in defaults.
`

// Writes a template config to path. An existing file is only replaced after
// confirmation on an interactive terminal.
func WriteTemplateConfig(path string) (err error) {
	interactive := term.IsTerminal(int(os.Stdout.Fd()))
	_, err = writeTemplateConfig(path, os.Stdin, os.Stdout, interactive)
	return
}

func writeTemplateConfig(path string, input io.Reader, output io.Writer, interactive bool) (written bool, err error) {
	if path == "" {
		err = fmt.Errorf("specify template file path via the --config/-c arguments")
		return
	}

	// Don't overwrite existing
	_, err = os.Stat(path)
	if err == nil {
		// No terminal - no overwrite
		if !interactive {
			fmt.Fprintf(output, "Existing configuration file present, not overwriting\n")
			return
		}

		// File exists, prompt user for confirmation to overwrite
		fmt.Fprintf(output, "Configuration file already exists at '%s'. Are you SURE you want to overwrite it? (yes/no): ", path)
		reader := bufio.NewReader(input)
		answer, _ := reader.ReadString('\n')
		answer = strings.TrimSpace(answer)

		if strings.ToLower(answer) != "yes" {
			fmt.Fprintf(output, "Not overwriting configuration file\n")
			return
		}
	} else if !os.IsNotExist(err) {
		err = fmt.Errorf("failed checking config file existence: %v", err)
		return
	}

	confBytes, err := templateConfig()
	if err != nil {
		return
	}

	err = os.WriteFile(path, confBytes, 0640)
	if err != nil {
		err = fmt.Errorf("failed to write config to file: %v", err)
		return
	}
	written = true

	fmt.Fprintf(output, "Successfully wrote template configuration file to '%s'\n", path)
	return
}

func templateConfig() (confBytes []byte, err error) {
	var newCfg receiver.JSONConfig

	newCfg.Network.MulticastGroup = global.DefaultMulticastGroup
	newCfg.Network.Port = global.DefaultMulticastPort
	newCfg.Network.ReceiveBufferSize = global.DefaultReceiveBufferSize

	newCfg.Dispatch.QueueSize = global.DefaultQueueSize
	newCfg.Dispatch.OverflowPolicy = "block"

	logEvents := true
	newCfg.Outputs.Log = &logEvents
	newCfg.Outputs.FilePath = "/var/log/sensorweb/events.jsonl"
	newCfg.Outputs.NATS.SubjectPrefix = global.DefaultNATSPrefix

	newCfg.Web.Enabled = true
	newCfg.Web.HTTPBind = global.DefaultHTTPBind
	newCfg.Web.StaticDir = global.DefaultStaticDir
	newCfg.Web.WSBind = global.DefaultWSBind

	newCfg.Metrics.Interval = "15s"
	newCfg.Metrics.MaxAge = "1h"
	newCfg.Metrics.QueryServerPort = global.HTTPListenPortReceiver

	body, err := json.MarshalIndent(newCfg, "", "  ")
	if err != nil {
		err = fmt.Errorf("error marshaling new config: %v", err)
		return
	}

	confBytes = append([]byte(templateHeader), body...)
	confBytes = append(confBytes, '\n')
	return
}
