// internal/hub/websocket.go
package hub

import (
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/bookmanager/internal/message"
	"github.com/gorilla/websocket"
)

const closedByClientText = "Connection closed by client"

// ServeWs upgrades the HTTP connection to a WebSocket and serves the chat
// session on the calling goroutine until the socket is released.
func (h *Hub) ServeWs(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Logger.Errorf("WebSocket upgrade error: %v", err)
		return
	}
	newSession(h, conn).Serve()
}

// Serve runs the session: greet, then read, answer, repeat until the peer
// closes or the transport fails. It returns the final state.
func (s *Session) Serve() (final State) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Errorf("Unexpected fault in chat session: %v", r)
			s.transition(StateFailed)
		}
		close(s.done)
		s.conn.Close()
		final = s.state
		s.logger.LogEvent("info", "session_closed", s.ID, final.String())
		if s.hub.OnSessionEnd != nil {
			s.hub.OnSessionEnd(s.ID, final)
		}
	}()

	s.configure()
	s.transition(StateOpen)
	s.logger.LogEvent("info", "session_opened", s.ID, "")

	if err := s.send(message.Bot(s.hub.Greeting)); err != nil {
		s.fail(err)
		return
	}
	if s.hub.Config.ReadTimeout > 0 {
		go s.keepalive()
	}

	for s.state == StateOpen {
		kind, data, err := s.conn.ReadMessage()
		if err != nil {
			s.handleReadError(err)
			return
		}
		s.extendReadDeadline()

		if kind != websocket.TextMessage {
			s.logger.Debugf("Ignoring non-text frame of type %d", kind)
			continue
		}
		if err := s.handleText(data); err != nil {
			s.fail(err)
			return
		}
	}
	return
}

func (s *Session) configure() {
	if s.hub.Config.ReadLimit > 0 {
		s.conn.SetReadLimit(s.hub.Config.ReadLimit)
	}
	if s.hub.Config.ReadTimeout > 0 {
		s.extendReadDeadline()
		s.conn.SetPongHandler(func(string) error {
			s.extendReadDeadline()
			return nil
		})
	}
	s.conn.SetCloseHandler(s.onPeerClose)
}

func (s *Session) extendReadDeadline() {
	if s.hub.Config.ReadTimeout > 0 {
		_ = s.conn.SetReadDeadline(time.Now().Add(s.hub.Config.ReadTimeout))
	}
}

func (s *Session) writeDeadline() time.Time {
	if s.hub.Config.WriteTimeout <= 0 {
		return time.Time{}
	}
	return time.Now().Add(s.hub.Config.WriteTimeout)
}

// onPeerClose runs inside ReadMessage when the peer sends a close frame. It
// answers with a normal closure; ReadMessage then returns a *CloseError.
func (s *Session) onPeerClose(code int, text string) error {
	s.transition(StateClosing)
	s.logger.Debugf("Peer closed with status %d %q", code, text)
	return s.writeClose(websocket.CloseNormalClosure, closedByClientText)
}

func (s *Session) writeClose(code int, text string) error {
	msg := websocket.FormatCloseMessage(code, text)
	err := s.conn.WriteControl(websocket.CloseMessage, msg, s.writeDeadline())
	if err != nil && !errors.Is(err, websocket.ErrCloseSent) {
		return err
	}
	return nil
}

func (s *Session) handleReadError(err error) {
	var closeErr *websocket.CloseError
	var netErr net.Error

	switch {
	case s.state == StateClosing && errors.As(err, &closeErr):
		s.transition(StateClosed)
	case errors.As(err, &netErr) && netErr.Timeout():
		s.logger.Info("Closing idle chat session")
		s.transition(StateClosing)
		if werr := s.writeClose(websocket.CloseGoingAway, "idle timeout"); werr != nil {
			s.logger.Debugf("Idle close frame not sent: %v", werr)
		}
		s.transition(StateClosed)
	default:
		s.fail(err)
	}
}

// fail marks a transport fault. The peer is not told; it already lost the socket.
func (s *Session) fail(err error) {
	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		s.logger.WithError(err).Debug("Chat transport ended")
	} else {
		s.logger.WithError(err).Warn("Chat transport failed")
	}
	s.transition(StateFailed)
}

// keepalive pings the peer until the session ends. WriteControl is safe to
// call alongside the session's own writes.
func (s *Session) keepalive() {
	period := s.hub.Config.pingPeriod()
	if period <= 0 {
		return
	}
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			if err := s.conn.WriteControl(websocket.PingMessage, nil, s.writeDeadline()); err != nil {
				return
			}
		}
	}
}
