package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sensorweb/internal/global"
	"sensorweb/internal/logctx"
	"sensorweb/pkg/message"
	"strings"

	"github.com/spf13/pflag"
)

// Decodes lines from arguments, or stdin when none are given, printing JSON lines
func DecodeMode(ctx context.Context, commandname string, args []string) (err error) {
	var text bool
	commandFlags := pflag.NewFlagSet(commandname, pflag.ContinueOnError)
	SetGlobalArguments(commandFlags)
	commandFlags.BoolVarP(&text, "text", "t", false, "Print events as single-line text instead of JSON")

	handled, err := parseArgs(commandFlags, commandname, args)
	if err != nil || handled {
		return
	}
	logctx.SetLogLevel(ctx, global.Verbosity)

	var input io.Reader = os.Stdin
	if commandFlags.NArg() > 0 {
		input = strings.NewReader(strings.Join(commandFlags.Args(), "\n"))
	}

	decoded, err := decodeLines(ctx, input, stdout, text)
	if err != nil {
		return
	}
	logctx.LogEvent(ctx, global.VerbosityProgress, global.InfoLog, "Decoded %d lines\n", decoded)
	return
}

func decodeLines(ctx context.Context, input io.Reader, output io.Writer, text bool) (decoded int, err error) {
	scanner := bufio.NewScanner(input)
	scanner.Buffer(make([]byte, 0, global.DefaultReceiveBufferSize), global.MaxReceiveBufferSize)

	writer := bufio.NewWriter(output)
	defer func() {
		flushErr := writer.Flush()
		if err == nil && flushErr != nil {
			err = fmt.Errorf("failed writing decoded events: %v", flushErr)
		}
	}()

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		logctx.LogEvent(ctx, global.VerbosityFullData, global.InfoLog, "Raw line: %q\n", line)

		msg := message.Decode(line)
		decoded++

		var out []byte
		if text {
			out = []byte(msg.String())
		} else {
			out, err = msg.MarshalJSON()
			if err != nil {
				err = fmt.Errorf("failed encoding line %d: %v", decoded, err)
				return
			}
		}
		out = append(out, '\n')

		_, err = writer.Write(out)
		if err != nil {
			err = fmt.Errorf("failed writing decoded events: %v", err)
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		err = fmt.Errorf("failed reading input: %v", err)
	}
	return
}
