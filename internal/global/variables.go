package global

var (
	CmdOpts  *CommandSet // Holds CLI command definition
	Hostname string      // local machine name
	PID      int         // self

	// Integer for printing increasingly detailed information as program progresses
	//
	//	0 - None: quiet (prints nothing but errors)
	//	1 - Standard: normal progress messages
	//	2 - Progress: more progress messages (no decoded data)
	//	3 - Data: every decoded sensor event
	//	4 - FullData: raw datagram text
	//	5 - Debug: socket and queue internals
	Verbosity int
)
