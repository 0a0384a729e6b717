// internal/message/message.go
// Contains the chat envelope exchanged between the browser and the chat socket.
package message

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Kind discriminates who produced a message.
type Kind string

const (
	KindUser  Kind = "user"
	KindBot   Kind = "bot"
	KindError Kind = "error"
)

// InvalidFormatText is sent back when a client frame cannot be decoded.
const InvalidFormatText = "Invalid message format"

var ErrInvalidFormat = errors.New("invalid message format")

// Message is one chat frame. It is never mutated after construction.
type Message struct {
	Type      Kind      `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// New stamps a message with the current UTC time.
func New(kind Kind, text string) Message {
	return Message{Type: kind, Message: text, Timestamp: time.Now().UTC()}
}

func Bot(text string) Message   { return New(KindBot, text) }
func Error(text string) Message { return New(KindError, text) }

type inbound struct {
	Type      Kind            `json:"type"`
	Message   string          `json:"message"`
	Timestamp json.RawMessage `json:"timestamp"`
}

// Parse decodes a client frame. The frame must be a JSON object whose message
// field, if present, is a string. The client timestamp is kept when it parses
// and dropped otherwise; the server stamps its own replies.
func Parse(data []byte) (Message, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Message{}, ErrInvalidFormat
	}

	var in inbound
	if err := json.Unmarshal(trimmed, &in); err != nil {
		return Message{}, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	msg := Message{Type: in.Type, Message: in.Message}
	if len(in.Timestamp) > 0 {
		var ts time.Time
		if err := json.Unmarshal(in.Timestamp, &ts); err == nil {
			msg.Timestamp = ts
		}
	}
	return msg, nil
}
