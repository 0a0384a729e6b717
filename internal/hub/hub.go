// internal/hub/hub.go
// Provides the Hub that accepts chat sockets and runs one Session per socket.
package hub

import (
	"net/http"
	"time"

	"github.com/bookmanager/internal/chatbot"
	"github.com/bookmanager/internal/logger"
	"github.com/gorilla/websocket"
	"github.com/samber/lo"
)

// Replier produces the bot answer for one user message.
type Replier interface {
	Reply(input string) string
}

// Config bounds a single chat socket.
type Config struct {
	ReadLimit      int64         // max inbound frame size in bytes, 0 = unlimited
	ReadTimeout    time.Duration // idle-close deadline, 0 disables keepalive
	WriteTimeout   time.Duration
	AllowedOrigins []string // "*" or empty allows any origin
}

// DefaultConfig mirrors the defaults of the application config.
func DefaultConfig() Config {
	return Config{
		ReadLimit:      4096,
		ReadTimeout:    60 * time.Second,
		WriteTimeout:   10 * time.Second,
		AllowedOrigins: []string{"*"},
	}
}

// pingPeriod must stay below the read deadline.
func (c Config) pingPeriod() time.Duration {
	return (c.ReadTimeout * 9) / 10
}

// Hub holds what sessions share: the read-only reply engine, the socket
// limits and the logger. Sessions never share mutable state.
type Hub struct {
	Engine   Replier
	Greeting string // first bot frame of every session
	Config   Config
	Logger   *logger.Logger

	// OnSessionEnd, when set, is called from the session goroutine with the
	// final state once the socket is released.
	OnSessionEnd func(id string, final State)

	upgrader websocket.Upgrader
}

// NewHub creates a Hub answering with engine.
func NewHub(engine Replier, config Config, logger *logger.Logger) *Hub {
	h := &Hub{
		Engine:   engine,
		Greeting: chatbot.GreetingText,
		Config:   config,
		Logger:   logger,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

func (h *Hub) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(h.Config.AllowedOrigins) == 0 || lo.Contains(h.Config.AllowedOrigins, "*") {
		return true
	}
	return lo.Contains(h.Config.AllowedOrigins, origin)
}
