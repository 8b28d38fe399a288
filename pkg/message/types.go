package message

// Message kind selected by the payload identifier token
type Kind int

const (
	KindUnknown Kind = iota
	KindNodeUp
	KindNtp
	KindLoop
	KindNtpSync
	KindSession
	KindAirCasting
)

// Sentinel for a missing or unparseable bracketed timestamp
const NoElapsed float64 = -1.0

// Loop actions
const (
	ActionDeepSleep string = "deepsleep"
	ActionWaitNtp   string = "waitntp"
)

// Field names as exposed to consumers
const (
	FieldVersion           string = "version"
	FieldBuildDate         string = "builddate"
	FieldIPAddr            string = "ip_addr"
	FieldDateTime          string = "datetime"
	FieldPM25              string = "pm2.5"
	FieldUUID              string = "UUID"
	FieldSent              string = "sent"
	FieldAction            string = "action"
	FieldSlowDownFactor    string = "slowdownfactor"
	FieldDeepSleepDuration string = "deepsleepduration"
	FieldSleepWakeCycles   string = "sleepwakecycles"
	FieldNtpErrors         string = "ntperrors"
	FieldNtpDate           string = "ntpdate"
	FieldCommand           string = "command"
	FieldHTTPCode          string = "http_code"
)

// One decoded datagram. Always produced, even for garbage input.
type NetworkMessage struct {
	Host           string
	ElapsedSeconds float64 // firmware uptime, NoElapsed when absent
	Content        Content
}

// Kind specific payload of a message. Implemented only by the types in this package.
type Content interface {
	Kind() Kind
	Fields() map[string]string // only fields present in the source line
	isContent()
}

// Payload identifier did not match any known kind (or was empty)
type Unknown struct{}

// "UP: <version>:<builddate>@<ip>"
type NodeUp struct {
	Version   *string
	BuildDate *string
	IPAddr    *string
}

// "NTP: <datetime> PM2.5: <value> UUID:<uuid> sent:<n>"
type Ntp struct {
	DateTime *string
	PM25     *string
	UUID     *string
	Sent     *string
}

// "Loop: deepSleep: ..." or "Loop: no NTP initial sync ..."
type Loop struct {
	Action            *string
	SlowDownFactor    *string
	DeepSleepDuration *string
	SleepWakeCycles   *string
	NtpErrors         *string
}

// "NTPSyncEvent: <date>"
type NtpSync struct {
	NtpDate *string
}

// "SessionUUID: <uuid>"
type Session struct {
	UUID *string
}

// "AC:<command>: ..."
type AirCasting struct {
	Command  *string
	HTTPCode *string
}
