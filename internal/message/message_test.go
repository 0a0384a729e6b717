// internal/message/message_test.go
package message

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantErr   bool
		wantType  Kind
		wantText  string
		wantStamp time.Time
	}{
		{
			name:      "User frame from the browser",
			input:     `{"type":"user","message":"Can you recommend a book?","timestamp":"2024-01-01T00:00:00Z"}`,
			wantType:  KindUser,
			wantText:  "Can you recommend a book?",
			wantStamp: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "Missing timestamp",
			input:    `{"type":"user","message":"hello"}`,
			wantType: KindUser,
			wantText: "hello",
		},
		{
			name:     "Unparseable timestamp is dropped",
			input:    `{"type":"user","message":"hello","timestamp":12}`,
			wantType: KindUser,
			wantText: "hello",
		},
		{
			name:     "Surrounding whitespace",
			input:    "  {\"message\":\"stock?\"}\n",
			wantText: "stock?",
		},
		{name: "Plain text", input: "not json", wantErr: true},
		{name: "Empty frame", input: "", wantErr: true},
		{name: "JSON null", input: "null", wantErr: true},
		{name: "JSON array", input: `[{"message":"hi"}]`, wantErr: true},
		{name: "Truncated object", input: `{"type":"user","message":"hi"`, wantErr: true},
		{name: "Non string message", input: `{"type":"user","message":42}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			msg, err := Parse([]byte(tt.input))
			if tt.wantErr {
				req.ErrorIs(err, ErrInvalidFormat)
				return
			}
			req.NoError(err)
			req.Equal(tt.wantType, msg.Type)
			req.Equal(tt.wantText, msg.Message)
			req.True(tt.wantStamp.Equal(msg.Timestamp), "timestamp = %v, want %v", msg.Timestamp, tt.wantStamp)
		})
	}
}

func TestBotMessageWireFormat(t *testing.T) {
	req := require.New(t)
	before := time.Now().UTC()

	msg := Bot("hello")
	data, err := json.Marshal(msg)
	req.NoError(err)

	var wire map[string]string
	req.NoError(json.Unmarshal(data, &wire))
	req.Equal("bot", wire["type"])
	req.Equal("hello", wire["message"])

	ts, err := time.Parse(time.RFC3339Nano, wire["timestamp"])
	req.NoError(err)
	req.False(ts.Before(before.Truncate(time.Second)))
}

func TestErrorMessage(t *testing.T) {
	msg := Error(InvalidFormatText)
	require.Equal(t, KindError, msg.Type)
	require.Equal(t, "Invalid message format", msg.Message)
	require.False(t, msg.Timestamp.IsZero())
}
