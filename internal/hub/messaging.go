// internal/hub/messaging.go
package hub

import (
	"time"

	"github.com/bookmanager/internal/message"
)

// handleText answers one client frame. A malformed envelope gets an error
// frame and the session keeps going; only a failed write is returned.
func (s *Session) handleText(data []byte) error {
	msg, err := message.Parse(data)
	if err != nil {
		s.logger.Debugf("Rejecting client frame: %v", err)
		return s.send(message.Error(message.InvalidFormatText))
	}

	reply := s.hub.Engine.Reply(msg.Message)
	return s.send(message.Bot(reply))
}

// send writes one envelope. Nothing is written once the session left Open.
func (s *Session) send(msg message.Message) error {
	if s.state != StateOpen {
		return errNotOpen
	}
	if s.hub.Config.WriteTimeout > 0 {
		_ = s.conn.SetWriteDeadline(time.Now().Add(s.hub.Config.WriteTimeout))
	}
	return s.conn.WriteJSON(msg)
}
