package cli

import "sensorweb/internal/global"

func DefineOptions() (cmdOpts *global.CommandSet) {
	// Root level
	root := &global.CommandSet{
		Description:     "Sensor Network Multicast Collector (sensorweb)",
		FullDescription: "  Receives status lines multicast by sensor nodes, decodes them, and forwards typed events to outputs",
		CommandName:     RootCLICommand,
		ChildCommands:   make(map[string]*global.CommandSet),
	}

	// Receiving
	root.ChildCommands["listen"] = &global.CommandSet{
		CommandName:     "listen",
		Description:     "Collect Sensor Events",
		FullDescription: "Joins the multicast group, decodes every datagram, and sends events to configured outputs",
	}

	// Offline decoding
	root.ChildCommands["decode"] = &global.CommandSet{
		CommandName:     "decode",
		UsageOption:     "[line ...]",
		Description:     "Decode Lines",
		FullDescription: "Decodes lines given as arguments (or read from stdin) and prints one JSON event per line",
	}

	// Setup
	root.ChildCommands["configure"] = &global.CommandSet{
		CommandName:     "configure",
		Description:     "Write Template Config",
		FullDescription: "Writes a commented template configuration file to the --config path",
	}

	// Version Info
	root.ChildCommands["version"] = &global.CommandSet{
		CommandName:     "version",
		Description:     "Show Version Information",
		FullDescription: "Display meta information about program",
	}

	cmdOpts = root
	return
}
