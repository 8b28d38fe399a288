package message

import "strings"

var kindNames = map[Kind]string{
	KindUnknown:    "unknown",
	KindNodeUp:     "nodeup",
	KindNtp:        "ntp",
	KindLoop:       "loop",
	KindNtpSync:    "ntpsync",
	KindSession:    "session",
	KindAirCasting: "aircasting",
}

func (kind Kind) String() (name string) {
	name, ok := kindNames[kind]
	if !ok {
		name = kindNames[KindUnknown]
	}
	return
}

// Reverse of Kind.String, case-insensitive. Unrecognized names map to KindUnknown.
func ParseKind(name string) (kind Kind) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, v := range kindNames {
		if v == name {
			kind = k
			return
		}
	}
	kind = KindUnknown
	return
}

func (Unknown) Kind() Kind    { return KindUnknown }
func (NodeUp) Kind() Kind     { return KindNodeUp }
func (Ntp) Kind() Kind        { return KindNtp }
func (Loop) Kind() Kind       { return KindLoop }
func (NtpSync) Kind() Kind    { return KindNtpSync }
func (Session) Kind() Kind    { return KindSession }
func (AirCasting) Kind() Kind { return KindAirCasting }

func (Unknown) isContent()    {}
func (NodeUp) isContent()     {}
func (Ntp) isContent()        {}
func (Loop) isContent()       {}
func (NtpSync) isContent()    {}
func (Session) isContent()    {}
func (AirCasting) isContent() {}

func (Unknown) Fields() (fields map[string]string) {
	fields = map[string]string{}
	return
}

func (content NodeUp) Fields() (fields map[string]string) {
	fields = map[string]string{}
	putField(fields, FieldVersion, content.Version)
	putField(fields, FieldBuildDate, content.BuildDate)
	putField(fields, FieldIPAddr, content.IPAddr)
	return
}

func (content Ntp) Fields() (fields map[string]string) {
	fields = map[string]string{}
	putField(fields, FieldDateTime, content.DateTime)
	putField(fields, FieldPM25, content.PM25)
	putField(fields, FieldUUID, content.UUID)
	putField(fields, FieldSent, content.Sent)
	return
}

func (content Loop) Fields() (fields map[string]string) {
	fields = map[string]string{}
	putField(fields, FieldAction, content.Action)
	putField(fields, FieldSlowDownFactor, content.SlowDownFactor)
	putField(fields, FieldDeepSleepDuration, content.DeepSleepDuration)
	putField(fields, FieldSleepWakeCycles, content.SleepWakeCycles)
	putField(fields, FieldNtpErrors, content.NtpErrors)
	return
}

func (content NtpSync) Fields() (fields map[string]string) {
	fields = map[string]string{}
	putField(fields, FieldNtpDate, content.NtpDate)
	return
}

func (content Session) Fields() (fields map[string]string) {
	fields = map[string]string{}
	putField(fields, FieldUUID, content.UUID)
	return
}

func (content AirCasting) Fields() (fields map[string]string) {
	fields = map[string]string{}
	putField(fields, FieldCommand, content.Command)
	putField(fields, FieldHTTPCode, content.HTTPCode)
	return
}

// Kind of the message content (Unknown when content was never set)
func (msg NetworkMessage) Kind() (kind Kind) {
	if msg.Content == nil {
		kind = KindUnknown
		return
	}
	kind = msg.Content.Kind()
	return
}

// Field mapping of the message content
func (msg NetworkMessage) Fields() (fields map[string]string) {
	if msg.Content == nil {
		fields = map[string]string{}
		return
	}
	fields = msg.Content.Fields()
	return
}

func putField(fields map[string]string, name string, value *string) {
	if value != nil {
		fields[name] = *value
	}
}

// Pointer to a copy of the value, for optional fields
func str(value string) *string {
	return &value
}
