// internal/events/bus_test.go
package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/bookmanager/internal/logger"
	"github.com/stretchr/testify/require"
)

func TestSubject(t *testing.T) {
	tests := []struct {
		bookID int64
		action Action
		want   string
	}{
		{bookID: 1, action: ActionCreated, want: "books.1.created"},
		{bookID: 24, action: ActionUpdated, want: "books.24.updated"},
		{bookID: 7, action: ActionAvailability, want: "books.7.availability"},
		{bookID: 300, action: ActionDeleted, want: "books.300.deleted"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			require.Equal(t, tt.want, Subject(tt.bookID, tt.action))
		})
	}
	require.Equal(t, "books.5.*", bookFilter(5))
}

func TestDisabledBus(t *testing.T) {
	req := require.New(t)
	bus := Disabled(logger.Nop())

	req.False(bus.Enabled())
	bus.Publish(BookEvent{BookID: 1, Action: ActionCreated})

	_, err := bus.History(1)
	req.ErrorIs(err, ErrUnavailable)
	req.ErrorIs(bus.EnsureStreams(), ErrUnavailable)
	req.Equal("disconnected", bus.Status()["nats"])
	bus.Close()
}

func TestNilBus(t *testing.T) {
	var bus *Bus
	require.False(t, bus.Enabled())
	require.Equal(t, "disconnected", bus.Status()["nats"])
	bus.Close()
}

func TestConnect_UnreachableServerDegrades(t *testing.T) {
	bus := Connect("nats://127.0.0.1:1", logger.Nop())
	require.False(t, bus.Enabled())
}

func TestBookEvent_JSON(t *testing.T) {
	req := require.New(t)
	available := false
	event := BookEvent{
		BookID:      14,
		Action:      ActionAvailability,
		IsAvailable: &available,
		Actor:       "admin@bookmanager.local",
		Timestamp:   time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	data, err := json.Marshal(event)
	req.NoError(err)
	req.JSONEq(`{"bookId":14,"action":"availability","isAvailable":false,"actor":"admin@bookmanager.local","timestamp":"2024-05-01T12:00:00Z"}`, string(data))
}
