package message

import "strings"

// Builds the content of the given kind from the payload remainder (text after the identifier colon).
// Missing delimiters leave the corresponding fields unset.
func Extract(kind Kind, remainder string) (content Content) {
	remainder = strings.TrimSpace(remainder)

	switch kind {
	case KindNodeUp:
		content = extractNodeUp(remainder)
	case KindNtp:
		content = extractNtp(remainder)
	case KindLoop:
		content = extractLoop(remainder)
	case KindNtpSync:
		content = extractNtpSync(remainder)
	case KindSession:
		content = extractSession(remainder)
	case KindAirCasting:
		content = extractAirCasting(remainder)
	default:
		content = Unknown{}
	}
	return
}

// "<version>:<builddate>@<ip>", build date may contain colons
func extractNodeUp(text string) (content NodeUp) {
	version, rest, found := strings.Cut(text, ":")
	content.Version = str(version)
	if !found {
		return
	}

	buildDate, ipAddr, found := strings.Cut(rest, "@")
	content.BuildDate = str(buildDate)
	if found {
		content.IPAddr = str(ipAddr)
	}
	return
}

// "<datetime> PM2.5: <value> UUID:<uuid> sent:<n>"
func extractNtp(text string) (content Ntp) {
	if !strings.Contains(text, "PM2.5") {
		return
	}

	parts := strings.SplitN(text, " ", 5)
	content.DateTime = str(strings.TrimSpace(parts[0]))

	// parts[1] is the "PM2.5:" label
	if len(parts) > 2 {
		content.PM25 = str(parts[2])
	}
	if len(parts) > 3 {
		_, uuid, found := strings.Cut(parts[3], ":")
		if found {
			content.UUID = str(uuid)
		}
	}
	if len(parts) > 4 {
		_, sent, found := strings.Cut(parts[4], ":")
		if found {
			content.Sent = str(sent)
		}
	}
	return
}

// "deepSleep: <a>; <b> ; slowDownFactor=<f>; deepSleep(<d>)" or
// "no NTP initial sync, ... sleepWakeCycles=<n> ntpErrors=<n>"
func extractLoop(text string) (content Loop) {
	token, rest, _ := strings.Cut(text, " ")
	action := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(token)), ":", "")

	switch action {
	case ActionDeepSleep:
		content.Action = str(ActionDeepSleep)

		parts := strings.SplitN(strings.TrimSpace(rest), ";", 5)
		if len(parts) > 2 {
			_, factor, found := strings.Cut(parts[2], "=")
			if found {
				content.SlowDownFactor = str(strings.TrimSpace(factor))
			}
		}
		if len(parts) > 3 {
			_, duration, found := strings.Cut(parts[3], "(")
			if found {
				duration, _, _ = strings.Cut(duration, ")")
				content.DeepSleepDuration = str(strings.TrimSpace(duration))
			}
		}
	case "no":
		content.Action = str(ActionWaitNtp)

		for _, field := range strings.Split(strings.TrimSpace(rest), " ") {
			if strings.Contains(field, "sleepWakeCycles=") {
				_, value, _ := strings.Cut(field, "=")
				content.SleepWakeCycles = str(value)
			} else if strings.Contains(field, "ntpErrors=") {
				_, value, _ := strings.Cut(field, "=")
				content.NtpErrors = str(value)
			}
		}
	}
	return
}

// Rejects the " -- " and " => " formats the node also emits under this identifier
func extractNtpSync(text string) (content NtpSync) {
	if strings.Contains(text, " -- ") || strings.Contains(text, " => ") {
		return
	}
	content.NtpDate = str(text)
	return
}

func extractSession(text string) (content Session) {
	if strings.Contains(text, "-") {
		content.UUID = str(text)
	}
	return
}

// "<command>: <text> <code>", code only for push
func extractAirCasting(text string) (content AirCasting) {
	command, rest, found := strings.Cut(text, ":")
	command = strings.ToLower(strings.TrimSpace(command))
	content.Command = str(command)

	if command != "push" || !found {
		return
	}

	parts := strings.SplitN(strings.TrimSpace(rest), " ", 2)
	code := strings.TrimSpace(parts[len(parts)-1])
	if code != "" {
		content.HTTPCode = str(code)
	}
	return
}
