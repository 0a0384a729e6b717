// internal/hub/session.go
package hub

import (
	"errors"

	"github.com/bookmanager/internal/logger"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// State is the lifecycle position of a Session.
type State int

const (
	StateConnecting State = iota
	StateOpen
	StateClosing
	StateClosed
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

var errNotOpen = errors.New("session is not open")

// Session owns one chat socket for its whole life. Only the goroutine running
// Serve touches it, so nothing here is locked.
type Session struct {
	ID     string
	conn   *websocket.Conn
	hub    *Hub
	logger *logger.Logger
	state  State
	done   chan struct{}
}

func newSession(h *Hub, conn *websocket.Conn) *Session {
	id := uuid.NewString()
	return &Session{
		ID:     id,
		conn:   conn,
		hub:    h,
		logger: h.Logger.WithField("session", id),
		state:  StateConnecting,
		done:   make(chan struct{}),
	}
}

func (s *Session) transition(next State) {
	if s.state == next {
		return
	}
	s.logger.Debugf("state %s -> %s", s.state, next)
	s.state = next
}
