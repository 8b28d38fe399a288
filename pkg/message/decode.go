// Decodes status lines broadcast by sensor nodes into typed messages
//
// Wire format (one datagram, one line):
//
//	<host>: [<elapsedSeconds>] <identifier>:<kind specific remainder>
//
// Decoding never fails. Anything that cannot be understood ends up as an empty
// host, NoElapsed, or Unknown content.
package message

import (
	"math"
	"strconv"
	"strings"
)

// Decodes one trimmed line into a message
func Decode(line string) (msg NetworkMessage) {
	msg = NetworkMessage{
		Host:           "",
		ElapsedSeconds: NoElapsed,
		Content:        Unknown{},
	}

	host, rest, found := strings.Cut(line, ":")
	msg.Host = host
	if !found {
		// Host only
		return
	}

	msg.ElapsedSeconds = parseElapsed(rest)
	msg.Content = Classify(extractPayload(line))
	return
}

// Reads the float between the first '[' and the first ']' after it
func parseElapsed(text string) (elapsed float64) {
	elapsed = NoElapsed

	start := strings.IndexByte(text, '[')
	if start < 0 {
		return
	}
	stop := strings.IndexByte(text[start+1:], ']')
	if stop < 0 {
		return
	}

	value, err := strconv.ParseFloat(text[start+1:start+1+stop], 64)
	if err != nil {
		// Malformed firmware output, same as missing
		return
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		// ParseFloat accepts "nan" and "inf", neither is representable in JSON
		return
	}
	elapsed = value
	return
}

// Payload is located by word position, not by the host/timestamp split:
// whatever follows the second space of the full line
func extractPayload(line string) (payload string) {
	parts := strings.SplitN(line, " ", 3)
	payload = parts[len(parts)-1]
	return
}

// Selects the message kind from the identifier before the first colon and
// extracts the kind specific fields from the remainder
func Classify(payload string) (content Content) {
	identifier, remainder, found := strings.Cut(payload, ":")

	var kind Kind
	switch strings.ToLower(identifier) {
	case "up":
		kind = KindNodeUp
	case "ntp":
		kind = KindNtp
	case "loop":
		kind = KindLoop
	case "ntpsyncevent":
		kind = KindNtpSync
	case "sessionuuid":
		kind = KindSession
	case "ac":
		kind = KindAirCasting
	default:
		content = Unknown{}
		return
	}

	if !found {
		// Known identifier without any data
		remainder = ""
	}
	content = Extract(kind, remainder)
	return
}
