// internal/api/books.go
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/bookmanager/internal/auth"
	"github.com/bookmanager/internal/catalog"
	"github.com/bookmanager/internal/events"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeStoreError maps repository errors to status codes.
func (s *server) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		writeError(w, http.StatusNotFound, "Book not found")
	case errors.Is(err, catalog.ErrUnknownPublisher):
		writeError(w, http.StatusBadRequest, "Unknown publisher")
	default:
		s.log.WithError(err).Error("Catalog store failed")
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func bookID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid book id %q", chi.URLParam(r, "id"))
	}
	return id, nil
}

// decodeBook reads, normalizes and validates a book body.
func decodeBook(w http.ResponseWriter, r *http.Request) (catalog.Book, error) {
	var book catalog.Book
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&book); err != nil {
		return catalog.Book{}, errors.New("invalid book payload")
	}
	book = book.Normalize()
	if err := book.Validate(); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := lo.Map(verrs, func(fe validator.FieldError, _ int) string {
				return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
			})
			return catalog.Book{}, fmt.Errorf("invalid book: %v", fields)
		}
		return catalog.Book{}, err
	}
	return book, nil
}

func actor(r *http.Request) string {
	user, _ := auth.UserFromContext(r.Context())
	return user.Email
}

func (s *server) listBooks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := catalog.Filter{Query: q.Get("q"), Genre: q.Get("genre")}
	if raw := q.Get("available"); raw != "" {
		available, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "available must be true or false")
			return
		}
		filter.Available = &available
	}

	books, err := s.store.ListBooks(r.Context(), filter)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, books)
}

func (s *server) listBooksWithPublishers(w http.ResponseWriter, r *http.Request) {
	books, err := s.store.ListBooksWithPublishers(r.Context())
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, books)
}

func (s *server) listPublishers(w http.ResponseWriter, r *http.Request) {
	publishers, err := s.store.ListPublishers(r.Context())
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, publishers)
}

func (s *server) getBook(w http.ResponseWriter, r *http.Request) {
	id, err := bookID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	book, err := s.store.GetBook(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, book)
}

func (s *server) bookHistory(w http.ResponseWriter, r *http.Request) {
	id, err := bookID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	history, err := s.bus.History(id)
	if err != nil {
		if errors.Is(err, events.ErrUnavailable) {
			writeError(w, http.StatusServiceUnavailable, "JetStream not available")
			return
		}
		s.log.WithError(err).Error("Error retrieving book history")
		writeError(w, http.StatusInternalServerError, "Error retrieving book history")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"bookId": id,
		"events": history,
		"count":  len(history),
	})
}

func (s *server) createBook(w http.ResponseWriter, r *http.Request) {
	book, err := decodeBook(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	created, err := s.store.CreateBook(r.Context(), book)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.bus.Publish(events.BookEvent{BookID: created.ID, Action: events.ActionCreated, Title: created.Title, Actor: actor(r)})

	w.Header().Set("Location", fmt.Sprintf("/api/books/%d", created.ID))
	writeJSON(w, http.StatusCreated, created)
}

func (s *server) updateBook(w http.ResponseWriter, r *http.Request) {
	id, err := bookID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	book, err := decodeBook(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.store.UpdateBook(r.Context(), id, book); err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.bus.Publish(events.BookEvent{BookID: id, Action: events.ActionUpdated, Title: book.Title, Actor: actor(r)})
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) setAvailability(w http.ResponseWriter, r *http.Request) {
	id, err := bookID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	available, err := strconv.ParseBool(r.URL.Query().Get("isAvailable"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "isAvailable must be true or false")
		return
	}
	if err := s.store.SetAvailability(r.Context(), id, available); err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.bus.Publish(events.BookEvent{BookID: id, Action: events.ActionAvailability, IsAvailable: &available, Actor: actor(r)})
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) deleteBook(w http.ResponseWriter, r *http.Request) {
	id, err := bookID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.store.DeleteBook(r.Context(), id); err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.bus.Publish(events.BookEvent{BookID: id, Action: events.ActionDeleted, Actor: actor(r)})
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) me(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	writeJSON(w, http.StatusOK, user)
}
