// internal/api/api.go
// Provides StartServer and the HTTP routing for the catalog API and chat socket.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/bookmanager/internal/auth"
	"github.com/bookmanager/internal/catalog"
	"github.com/bookmanager/internal/chatbot"
	"github.com/bookmanager/internal/events"
	"github.com/bookmanager/internal/hub"
	"github.com/bookmanager/internal/logger"
	"github.com/bookmanager/internal/storage/memory"
	"github.com/bookmanager/internal/storage/sqlite"
	"github.com/bookmanager/internal/util"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

const (
	version           = "1.0.0"
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 15 * time.Second
)

// Store is what the API needs from a storage backend.
type Store interface {
	catalog.Repository
	auth.UserStore
}

// Deps are the collaborators the router serves from.
type Deps struct {
	Store          Store
	Bus            *events.Bus
	Hub            *hub.Hub
	Logger         *logger.Logger
	AllowedOrigins []string
	StorageKind    string // reported by /health
}

type server struct {
	store       Store
	bus         *events.Bus
	log         *logger.Logger
	storageKind string
}

// NewRouter wires every route onto a chi router.
func NewRouter(deps Deps) http.Handler {
	s := &server{
		store:       deps.Store,
		bus:         deps.Bus,
		log:         deps.Logger,
		storageKind: deps.StorageKind,
	}
	if s.bus == nil {
		s.bus = events.Disabled(deps.Logger)
	}
	origins := deps.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(deps.Logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"Location"},
		MaxAge:         300,
	}))

	r.Get("/HelloWorld", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("Hello World!"))
	})
	r.Get("/health", s.health)
	if deps.Hub != nil {
		r.Get("/ws/chat", deps.Hub.ServeWs)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/books", s.listBooks)
		r.Get("/books/{id}", s.getBook)
		r.Get("/books/{id}/history", s.bookHistory)
		r.Get("/publisherbooks", s.listBooksWithPublishers)
		r.Get("/publishers", s.listPublishers)

		r.Group(func(r chi.Router) {
			r.Use(auth.BasicAuth(auth.NewAuthenticator(deps.Store), deps.Logger))
			r.Post("/books", s.createBook)
			r.Put("/books/{id}", s.updateBook)
			r.Patch("/books/{id}/availability", s.setAvailability)
			r.Delete("/books/{id}", s.deleteBook)
			r.Get("/auth/me", s.me)
		})
	})
	return r
}

func (s *server) health(w http.ResponseWriter, r *http.Request) {
	health := map[string]any{
		"status":  "ok",
		"version": version,
		"storage": s.storageKind,
	}
	for k, v := range s.bus.Status() {
		health[k] = v
	}
	writeJSON(w, http.StatusOK, health)
}

func openStore(cfg util.Config, log *logger.Logger) (Store, string, error) {
	if cfg.DatabasePath == "" {
		log.Info("Using in-memory catalog store")
		return memory.NewSeeded(), "memory", nil
	}
	store, err := sqlite.Open(cfg.DatabasePath)
	if err != nil {
		return nil, "", fmt.Errorf("open sqlite store: %w", err)
	}
	log.Infof("Using SQLite catalog store at %s", cfg.DatabasePath)
	return store, "sqlite", nil
}

// StartServer opens storage and NATS, seeds the admin account and serves HTTP
// until SIGINT or SIGTERM.
func StartServer(cfg util.Config, serverLogger *logger.Logger) error {
	store, storageKind, err := openStore(cfg, serverLogger)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if _, err := auth.EnsureUser(ctx, store, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		return fmt.Errorf("seed admin user: %w", err)
	}

	bus := events.Connect(cfg.NatsURL, logger.NewLogger("events"))
	defer bus.Close()
	if bus.Enabled() {
		if err := bus.EnsureStreams(); err != nil {
			serverLogger.Errorf("Error setting up JetStream streams: %v", err)
		}
	}

	chatHub := hub.NewHub(chatbot.NewDefaultEngine(), hub.Config{
		ReadLimit:      int64(cfg.WSReadLimit),
		ReadTimeout:    cfg.ReadTimeout(),
		WriteTimeout:   cfg.WriteTimeout(),
		AllowedOrigins: cfg.Origins(),
	}, logger.NewLogger("hub"))

	srv := &http.Server{
		Addr: cfg.Addr,
		Handler: NewRouter(Deps{
			Store:          store,
			Bus:            bus,
			Hub:            chatHub,
			Logger:         logger.NewLogger("http"),
			AllowedOrigins: cfg.Origins(),
			StorageKind:    storageKind,
		}),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		serverLogger.Infof("Server started at %s", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen and serve: %w", err)
	case <-ctx.Done():
	}

	serverLogger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
