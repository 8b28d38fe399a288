package cli

import (
	"fmt"
	"io"
	"os"
	"sensorweb/internal/global"
	"sort"
	"strings"

	"github.com/spf13/pflag"
)

const (
	RootCLICommand  string = "root"
	helpMenuTrailer string = `
Verbosity levels: 0 errors only, 1 standard, 2 progress, 3 decoded events, 4 raw lines, 5 debug
`
)

// Help and version output, replaced in tests
var stdout io.Writer = os.Stdout

// Full standardized help menu (wraps option printer as well)
func PrintHelpMenu(output io.Writer, fs *pflag.FlagSet, command string, rootCmd *global.CommandSet) {
	const baseIndentSpaces = 2

	var curCmdSet *global.CommandSet
	var parentStack []*global.CommandSet

	// Find the command in tree
	if command == "" || command == RootCLICommand {
		curCmdSet = rootCmd
	} else if cmd, ok := rootCmd.ChildCommands[command]; ok {
		curCmdSet = cmd
		parentStack = append(parentStack, rootCmd)
	} else {
		// Search in all subcommands
		found := false
		for _, topCmd := range rootCmd.ChildCommands {
			if sub, ok := topCmd.ChildCommands[command]; ok {
				curCmdSet = sub
				parentStack = append(parentStack, rootCmd, topCmd)
				found = true
				break
			}
		}
		if !found {
			fmt.Fprintf(output, "Unknown command: %s\n", command)
			return
		}
	}

	// Build full usage path
	usageParts := []string{progName()}
	// Append parent commands
	for _, p := range parentStack {
		usageParts = append(usageParts, p.CommandName)
	}
	usageParts = append(usageParts, curCmdSet.CommandName)

	// Don't actually include the root name
	if len(usageParts) > 1 && usageParts[1] == RootCLICommand {
		usageParts = append(usageParts[:1], usageParts[2:]...)
	}

	// Add child commands or usage options
	if len(curCmdSet.ChildCommands) > 1 {
		usageParts = append(usageParts, "[subcommand]")
	} else if len(curCmdSet.ChildCommands) == 1 {
		for name := range curCmdSet.ChildCommands {
			usageParts = append(usageParts, name)
		}
	}
	if curCmdSet.UsageOption != "" {
		usageParts = append(usageParts, curCmdSet.UsageOption)
	}

	fmt.Fprintf(output, "Usage: %s\n\n", strings.Join(usageParts, " "))

	// Description
	if curCmdSet == rootCmd {
		fmt.Fprintln(output, curCmdSet.Description)
		fmt.Fprintln(output, curCmdSet.FullDescription)
		fmt.Fprintln(output)
	} else if curCmdSet.FullDescription != "" {
		fmt.Fprintln(output, "  Description:")
		fmt.Fprintf(output, "    %s\n\n", curCmdSet.FullDescription)
	}

	// Subcommands
	if len(curCmdSet.ChildCommands) > 0 {
		indent := strings.Repeat(" ", baseIndentSpaces)
		fmt.Fprintf(output, "%sSubcommands:\n", indent)

		// Compute max length for padding
		maxLen := 0
		for name := range curCmdSet.ChildCommands {
			if len(name) > maxLen {
				maxLen = len(name)
			}
		}

		// Sort subcommand names
		subNames := make([]string, 0, len(curCmdSet.ChildCommands))
		for name := range curCmdSet.ChildCommands {
			subNames = append(subNames, name)
		}
		sort.Strings(subNames)

		cmdIndent := strings.Repeat(" ", baseIndentSpaces+2)
		for _, name := range subNames {
			sub := curCmdSet.ChildCommands[name]
			padding := strings.Repeat(" ", maxLen-len(name)+2)
			fmt.Fprintf(output, "%s%s%s - %s\n", cmdIndent, name, padding, sub.Description)
		}
		fmt.Fprintln(output)
	}

	// Flag
	printFlagOptions(output, fs, baseIndentSpaces)

	// Top-level trailer
	if curCmdSet == rootCmd {
		fmt.Fprint(output, helpMenuTrailer)
	}
}

func progName() (name string) {
	name = "sensorweb"
	if len(os.Args) > 0 && os.Args[0] != "" {
		name = os.Args[0]
	}
	return
}

// Custom printer aligning short and long names and indenting automatically
func printFlagOptions(output io.Writer, fs *pflag.FlagSet, baseIndentSpaces int) {
	const shortArgPrefix string = "-"      // like "  [-]t, --test  Some usage text"
	const shortLongArgJoiner string = ", " // like "  -t[, ]--test  Some usage text"
	const longArgPrefix string = "--"      // like "  -t, [--]test  Some usage text"
	const argToUsageSpaces int = 2         // like "  -t, --test[  ]Some usage text"

	type optInfo struct {
		names      []string
		usage      string
		defaultVal string
		hasShort   bool
	}

	opts := []*optInfo{}
	fs.VisitAll(func(arg *pflag.Flag) {
		if arg.Hidden {
			return
		}

		opt := &optInfo{
			usage:      arg.Usage,
			defaultVal: arg.DefValue,
			hasShort:   arg.Shorthand != "",
		}
		if opt.hasShort {
			opt.names = append(opt.names, shortArgPrefix+arg.Shorthand)
		}
		opt.names = append(opt.names, longArgPrefix+arg.Name)
		opts = append(opts, opt)
	})
	if len(opts) == 0 {
		return
	}

	// Sort by long name so short/long pairs stay together
	sort.Slice(opts, func(indexA, indexB int) bool {
		nameA := strings.ToLower(opts[indexA].names[len(opts[indexA].names)-1])
		nameB := strings.ToLower(opts[indexB].names[len(opts[indexB].names)-1])
		return nameA < nameB
	})

	// accounts for short arg prefix length, short arg default len (1), and joiner length
	longShortArgOffset := len(shortLongArgJoiner) + len(shortArgPrefix) + 1

	// Calculate max length flags for alignment
	maxLen := 0
	for _, opt := range opts {
		leftLen := len(strings.Join(opt.names, shortLongArgJoiner))
		if !opt.hasShort {
			leftLen += longShortArgOffset
		}
		if leftLen > maxLen {
			maxLen = leftLen
		}
	}

	// Print option list
	fmt.Fprintf(output, "%sOptions:\n", strings.Repeat(" ", baseIndentSpaces))
	for _, opt := range opts {
		left := strings.Join(opt.names, shortLongArgJoiner)

		// Indent based on short/long
		indentSpaces := baseIndentSpaces
		leftLen := len(left)
		if !opt.hasShort {
			indentSpaces += longShortArgOffset
			leftLen += longShortArgOffset
		}
		indent := strings.Repeat(" ", indentSpaces)

		// Padding for this line to offset usage text
		paddingSpaces := maxLen - leftLen + argToUsageSpaces
		if paddingSpaces < argToUsageSpaces {
			paddingSpaces = argToUsageSpaces
		}
		padding := strings.Repeat(" ", paddingSpaces)

		// Skip printing any "empty" defaults
		desc := opt.usage
		if opt.defaultVal != "" && opt.defaultVal != "false" && opt.defaultVal != "0" {
			desc += fmt.Sprintf(" [default: %s]", opt.defaultVal)
		}

		fmt.Fprintf(output, "%s%s%s%s\n", indent, left, padding, desc)
	}
}
