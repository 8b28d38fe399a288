package server

import (
	"fmt"
	"net/http"
	"sensorweb/internal/global"
	"strings"
	"time"
)

// Reads starttime/endtime query values. Start defaults to one window ago and end defaults to now.
func parseWindow(clientRequest *http.Request, now time.Time) (start time.Time, end time.Time, err error) {
	rawStart := clientRequest.FormValue("starttime")
	switch {
	case rawStart == "":
		start = now.Add(-global.DefaultQueryWindow)
	case rawStart[0] == '-' || rawStart[0] == '+':
		offset, parseErr := time.ParseDuration(rawStart)
		if parseErr != nil {
			start = now.Add(-global.DefaultQueryWindow)
			break
		}
		if offset > 0 {
			err = fmt.Errorf("start time %q is in the future", rawStart)
			return
		}
		start = now.Add(offset)
	default:
		start, err = time.Parse(time.RFC3339Nano, rawStart)
		if err != nil {
			return
		}
	}

	rawEnd := clientRequest.FormValue("endtime")
	switch {
	case rawEnd == "" || strings.EqualFold(rawEnd, "now"):
		end = now
	case rawEnd[0] == '-' || rawEnd[0] == '+':
		var offset time.Duration
		offset, err = time.ParseDuration(rawEnd)
		if err != nil {
			return
		}
		end = now.Add(offset)
	default:
		end, err = time.Parse(time.RFC3339Nano, rawEnd)
		if err != nil {
			return
		}
	}
	return
}

// Namespace components following the route prefix, nil when none given
func namespaceFromPath(path string, prefix string) (namespace []string) {
	raw := strings.Trim(strings.TrimPrefix(path, prefix), "/")
	if raw == "" {
		return
	}
	namespace = strings.Split(raw, "/")
	return
}
