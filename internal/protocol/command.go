package protocol

import (
	"encoding/json"
	"fmt"
)

// Command is the decoded kind of an inbound client message.
type Command string

// Client command kinds. CommandUnknown covers any well-formed message whose
// type tag the relay does not recognize.
const (
	CommandStart   Command = "start"
	CommandStop    Command = "stop"
	CommandUnknown Command = ""
)

// clientMessage is the raw inbound envelope; only the tag is inspected.
type clientMessage struct {
	Type string `json:"type"`
}

// ParseCommand decodes one inbound client frame. Malformed JSON returns an
// error; callers are expected to log it and keep the session alive.
func ParseCommand(data []byte) (Command, error) {
	var msg clientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return CommandUnknown, fmt.Errorf("decode client message: %w", err)
	}

	switch msg.Type {
	case "start":
		return CommandStart, nil
	case "stop":
		return CommandStop, nil
	default:
		return CommandUnknown, nil
	}
}
