// internal/catalog/catalog.go
// Package catalog defines the books and publishers served by the REST API and
// the repository contract their stores implement.
package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrUnknownPublisher = errors.New("unknown publisher")
)

var validate = validator.New()

type Publisher struct {
	ID       int64  `json:"id"`
	Name     string `json:"name" validate:"required,max=200"`
	Location string `json:"location" validate:"max=200"`
}

type Book struct {
	ID                 int64      `json:"id"`
	Title              string     `json:"title" validate:"required,max=200"`
	Author             string     `json:"author" validate:"required,max=100"`
	Year               int        `json:"year"`
	Genre              string     `json:"genre" validate:"max=100"`
	IsAvailable        bool       `json:"isAvailable"`
	AudioBookAvailable bool       `json:"audioBookAvailable"`
	PublisherID        int64      `json:"publisherId" validate:"gte=0"`
	Publisher          *Publisher `json:"publisher,omitempty"`
}

// Validate checks the fields a client may set.
func (b Book) Validate() error {
	return validate.Struct(b)
}

// Normalize trims the free-text fields and drops any embedded publisher.
func (b Book) Normalize() Book {
	b.Title = strings.TrimSpace(b.Title)
	b.Author = strings.TrimSpace(b.Author)
	b.Genre = strings.TrimSpace(b.Genre)
	b.Publisher = nil
	return b
}

// Filter narrows a book listing. Zero values match everything.
type Filter struct {
	Query     string // title or author substring
	Genre     string
	Available *bool
}

// Matches reports whether b passes the filter. Comparisons ignore case.
func (f Filter) Matches(b Book) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		if !strings.Contains(strings.ToLower(b.Title), q) && !strings.Contains(strings.ToLower(b.Author), q) {
			return false
		}
	}
	if g := strings.TrimSpace(f.Genre); g != "" && !strings.EqualFold(b.Genre, g) {
		return false
	}
	if f.Available != nil && b.IsAvailable != *f.Available {
		return false
	}
	return true
}

// Repository stores the catalog. Implementations return ErrNotFound for a
// missing book and ErrUnknownPublisher when a new book references a publisher
// that does not exist; a zero PublisherID means "no publisher". UpdateBook
// only changes title, author, year, genre and availability.
type Repository interface {
	ListBooks(ctx context.Context, filter Filter) ([]Book, error)
	ListBooksWithPublishers(ctx context.Context) ([]Book, error)
	GetBook(ctx context.Context, id int64) (Book, error)
	CreateBook(ctx context.Context, book Book) (Book, error)
	UpdateBook(ctx context.Context, id int64, book Book) error
	SetAvailability(ctx context.Context, id int64, available bool) error
	DeleteBook(ctx context.Context, id int64) error
	ListPublishers(ctx context.Context) ([]Publisher, error)
	Close() error
}
