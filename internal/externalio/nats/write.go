package nats

import (
	"context"
	"sensorweb/internal/global"
	"sensorweb/internal/logctx"
	"sensorweb/pkg/message"
	"strings"
)

// Publishes one event on <prefix>.<host>.<kind>
func (mod *OutModule) Write(ctx context.Context, msg message.NetworkMessage) (published int, err error) {
	if mod == nil {
		return
	}

	data, err := msg.MarshalJSON()
	if err != nil {
		return
	}

	subject := Subject(mod.subjectPrefix, msg)
	err = mod.conn.Publish(subject, data)
	if err != nil {
		return
	}
	published = 1

	logctx.LogEvent(ctx, global.VerbosityDebug, global.InfoLog,
		"published %d bytes on %s\n", len(data), subject)
	return
}

// Subject for an event. Host text is reduced to a single valid subject token.
func Subject(prefix string, msg message.NetworkMessage) (subject string) {
	subject = prefix + "." + subjectToken(msg.Host) + "." + msg.Kind().String()
	return
}

func subjectToken(text string) (token string) {
	token = strings.Map(func(r rune) rune {
		switch r {
		case '.', '*', '>', ' ', '\t', '\r', '\n':
			return '_'
		}
		return r
	}, text)
	if token == "" {
		token = "_"
	}
	return
}
