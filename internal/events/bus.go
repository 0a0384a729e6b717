// internal/events/bus.go
// Publishes catalog changes to NATS JetStream and reads them back per book.
package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bookmanager/internal/logger"
	"github.com/nats-io/nats.go"
)

const (
	// StreamName is the JetStream stream holding book events.
	StreamName = "BOOKS"

	streamSubjects       = "books.>"
	streamRetention      = 7 * 24 * time.Hour
	historyConsumerPref  = "HISTORY_"
	historyFetchBatch    = 100
	historyFetchMaxWait  = 2 * time.Second
	historyMaxDeliveries = 1
)

// ErrUnavailable is returned when the bus runs without NATS.
var ErrUnavailable = errors.New("event bus unavailable")

// Action names what happened to a book.
type Action string

const (
	ActionCreated      Action = "created"
	ActionUpdated      Action = "updated"
	ActionAvailability Action = "availability"
	ActionDeleted      Action = "deleted"
)

// BookEvent is the payload stored on the stream.
type BookEvent struct {
	BookID      int64     `json:"bookId"`
	Action      Action    `json:"action"`
	Title       string    `json:"title,omitempty"`
	IsAvailable *bool     `json:"isAvailable,omitempty"`
	Actor       string    `json:"actor,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// Subject returns the subject an event for bookID and action is published on.
func Subject(bookID int64, action Action) string {
	return fmt.Sprintf("books.%d.%s", bookID, action)
}

func bookFilter(bookID int64) string {
	return fmt.Sprintf("books.%d.*", bookID)
}

// Bus wraps the NATS connection. A Bus with no connection is disabled: Publish
// is a no-op and History returns ErrUnavailable.
type Bus struct {
	nc     *nats.Conn
	js     nats.JetStreamContext
	logger *logger.Logger
}

// Disabled returns a bus that never talks to NATS.
func Disabled(log *logger.Logger) *Bus {
	return &Bus{logger: log}
}

// Connect dials NATS at url. Connection failures are logged and yield a
// disabled bus so the catalog keeps working without event history.
func Connect(url string, log *logger.Logger) *Bus {
	log.Infof("Connecting to NATS at %s", url)
	nc, err := nats.Connect(url, nats.Name("bookmanager"), nats.Timeout(2*time.Second))
	if err != nil {
		log.Errorf("Error connecting to NATS: %v", err)
		log.Warn("Running without NATS connection. Book history will be disabled.")
		return Disabled(log)
	}
	log.Info("Successfully connected to NATS")

	js, err := nc.JetStream()
	if err != nil {
		log.Errorf("Error getting JetStream context: %v", err)
		log.Warn("Running without JetStream. Book history will be disabled.")
		nc.Close()
		return Disabled(log)
	}
	log.Info("Successfully connected to JetStream")
	return &Bus{nc: nc, js: js, logger: log}
}

// Enabled reports whether the bus has a JetStream context.
func (b *Bus) Enabled() bool {
	return b != nil && b.js != nil
}

// EnsureStreams creates or updates the BOOKS stream.
func (b *Bus) EnsureStreams() error {
	if !b.Enabled() {
		return ErrUnavailable
	}
	cfg := &nats.StreamConfig{
		Name:     StreamName,
		Subjects: []string{streamSubjects},
		Storage:  nats.FileStorage,
		MaxAge:   streamRetention,
	}
	if _, err := b.js.StreamInfo(cfg.Name); err != nil {
		if _, err := b.js.AddStream(cfg); err != nil {
			return fmt.Errorf("create stream %s: %w", cfg.Name, err)
		}
		b.logger.Infof("Created stream: %s", cfg.Name)
		return nil
	}
	if _, err := b.js.UpdateStream(cfg); err != nil {
		return fmt.Errorf("update stream %s: %w", cfg.Name, err)
	}
	b.logger.Infof("Updated stream: %s", cfg.Name)
	return nil
}

// Publish stores event on the stream. Failures are logged, never returned:
// the catalog change has already happened.
func (b *Bus) Publish(event BookEvent) {
	if !b.Enabled() {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	data, err := json.Marshal(event)
	if err != nil {
		b.logger.Errorf("Failed to marshal book event: %v", err)
		return
	}
	subject := Subject(event.BookID, event.Action)
	if _, err := b.js.Publish(subject, data); err != nil {
		b.logger.Errorf("Failed to publish %s to NATS: %v", subject, err)
		return
	}
	b.logger.LogEvent("debug", "book_changed", fmt.Sprint(event.BookID), string(event.Action))
}

// History returns every stored event of bookID, oldest first.
func (b *Bus) History(bookID int64) ([]BookEvent, error) {
	if !b.Enabled() {
		return nil, ErrUnavailable
	}
	subject := bookFilter(bookID)
	consumerName := fmt.Sprintf("%s%d_%d", historyConsumerPref, bookID, time.Now().UnixNano())

	_, err := b.js.AddConsumer(StreamName, &nats.ConsumerConfig{
		Name:          consumerName,
		DeliverPolicy: nats.DeliverAllPolicy,
		AckPolicy:     nats.AckExplicitPolicy,
		FilterSubject: subject,
		MaxDeliver:    historyMaxDeliveries,
	})
	if err != nil {
		return nil, fmt.Errorf("create consumer %s: %w", consumerName, err)
	}
	defer func() {
		if err := b.js.DeleteConsumer(StreamName, consumerName); err != nil {
			b.logger.Warnf("Error deleting history consumer %s: %v", consumerName, err)
		}
	}()

	sub, err := b.js.PullSubscribe(subject, consumerName, nats.Bind(StreamName, consumerName))
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", subject, err)
	}
	defer func() {
		if err := sub.Unsubscribe(); err != nil {
			b.logger.Warnf("Error unsubscribing history consumer %s: %v", consumerName, err)
		}
	}()

	msgs, err := sub.Fetch(historyFetchBatch, nats.MaxWait(historyFetchMaxWait))
	if err != nil && !errors.Is(err, nats.ErrTimeout) {
		return nil, fmt.Errorf("fetch %s: %w", subject, err)
	}

	history := make([]BookEvent, 0, len(msgs))
	for _, msg := range msgs {
		var event BookEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			b.logger.Errorf("Error unmarshaling book event: %v", err)
			continue
		}
		history = append(history, event)
		_ = msg.Ack()
	}
	return history, nil
}

// Status describes the bus for the health endpoint.
func (b *Bus) Status() map[string]any {
	status := map[string]any{"nats": "disconnected"}
	if b == nil || b.nc == nil {
		return status
	}
	if b.nc.Status() == nats.CONNECTED {
		status["nats"] = "connected"
	}
	if b.js == nil {
		return status
	}
	info, err := b.js.StreamInfo(StreamName)
	if err != nil {
		status["stream"] = map[string]any{"error": err.Error()}
		return status
	}
	status["stream"] = map[string]any{
		"name":      StreamName,
		"messages":  info.State.Msgs,
		"bytes":     info.State.Bytes,
		"subjects":  info.Config.Subjects,
		"retention": info.Config.MaxAge.String(),
	}
	return status
}

// Close drains the NATS connection.
func (b *Bus) Close() {
	if b == nil || b.nc == nil {
		return
	}
	if err := b.nc.Drain(); err != nil {
		b.logger.Warnf("Error draining NATS connection: %v", err)
		b.nc.Close()
	}
}
