package message

import (
	"encoding/json"
	"strconv"
)

// Flat representation handed to outputs (file, websocket, nats, beats)
type Event struct {
	Host    string            `json:"host"`
	Elapsed float64           `json:"elapsed"`
	Kind    string            `json:"kind"`
	Fields  map[string]string `json:"fields"`
}

// Flattens the message for serialization
func (msg NetworkMessage) Event() (event Event) {
	event = Event{
		Host:    msg.Host,
		Elapsed: msg.ElapsedSeconds,
		Kind:    msg.Kind().String(),
		Fields:  msg.Fields(),
	}
	return
}

func (msg NetworkMessage) MarshalJSON() (data []byte, err error) {
	data, err = json.Marshal(msg.Event())
	return
}

// Single line summary used by the log consumer
func (msg NetworkMessage) String() (text string) {
	data, err := json.Marshal(msg.Fields())
	if err != nil {
		data = []byte("{}")
	}
	text = msg.Host + " [" + strconv.FormatFloat(msg.ElapsedSeconds, 'f', -1, 64) + "] " + msg.Kind().String() + " " + string(data)
	return
}
