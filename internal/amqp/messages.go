package amqp

import (
	"encoding/json"
	"fmt"

	"freela/internal/ports"
)

// MessageType tags published status messages.
const MessageType = "event.status_changed"

// EncodeStatusChanged serializes msg as {eventId, from, to, timestamp}.
func EncodeStatusChanged(msg ports.StatusChanged) ([]byte, error) {
	return json.Marshal(msg)
}

// DecodeStatusChanged parses and checks a message body.
func DecodeStatusChanged(data []byte) (ports.StatusChanged, error) {
	var msg ports.StatusChanged
	if err := json.Unmarshal(data, &msg); err != nil {
		return ports.StatusChanged{}, fmt.Errorf("unmarshal %s: %w", MessageType, err)
	}
	if msg.EventID == "" {
		return ports.StatusChanged{}, fmt.Errorf("%s without eventId", MessageType)
	}
	if !msg.To.Valid() {
		return ports.StatusChanged{}, fmt.Errorf("%s with unknown status %q", MessageType, msg.To)
	}
	if msg.From != "" && !msg.From.Valid() {
		return ports.StatusChanged{}, fmt.Errorf("%s with unknown status %q", MessageType, msg.From)
	}
	return msg, nil
}
