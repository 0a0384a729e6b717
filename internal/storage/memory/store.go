// internal/storage/memory/store.go
// Package memory provides an in-process catalog and user store, seeded on
// creation and discarded on Close.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/bookmanager/internal/auth"
	"github.com/bookmanager/internal/catalog"
)

// Store is safe for concurrent use.
type Store struct {
	mu         sync.RWMutex
	books      map[int64]catalog.Book
	publishers map[int64]catalog.Publisher
	users      map[string]auth.User
	nextBookID int64
	nextUserID int64
}

// New returns a store holding the given seed data.
func New(publishers []catalog.Publisher, books []catalog.Book) *Store {
	s := &Store{
		books:      make(map[int64]catalog.Book, len(books)),
		publishers: make(map[int64]catalog.Publisher, len(publishers)),
		users:      make(map[string]auth.User),
	}
	for _, p := range publishers {
		s.publishers[p.ID] = p
	}
	for _, b := range books {
		b.Publisher = nil
		s.books[b.ID] = b
		if b.ID > s.nextBookID {
			s.nextBookID = b.ID
		}
	}
	return s
}

// NewSeeded returns a store holding the default catalog.
func NewSeeded() *Store {
	return New(catalog.SeedPublishers(), catalog.SeedBooks())
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.books = map[int64]catalog.Book{}
	s.publishers = map[int64]catalog.Publisher{}
	s.users = map[string]auth.User{}
	return nil
}

func (s *Store) sortedBooks(keep func(catalog.Book) bool) []catalog.Book {
	out := make([]catalog.Book, 0, len(s.books))
	for _, b := range s.books {
		if keep(b) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) ListBooks(ctx context.Context, filter catalog.Filter) ([]catalog.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedBooks(filter.Matches), nil
}

func (s *Store) ListBooksWithPublishers(ctx context.Context) ([]catalog.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	books := s.sortedBooks(func(catalog.Book) bool { return true })
	for i := range books {
		if p, ok := s.publishers[books[i].PublisherID]; ok {
			books[i].Publisher = &p
		}
	}
	return books, nil
}

func (s *Store) GetBook(ctx context.Context, id int64) (catalog.Book, error) {
	if err := ctx.Err(); err != nil {
		return catalog.Book{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.books[id]
	if !ok {
		return catalog.Book{}, catalog.ErrNotFound
	}
	return b, nil
}

func (s *Store) checkPublisher(id int64) error {
	if id == 0 {
		return nil
	}
	if _, ok := s.publishers[id]; !ok {
		return catalog.ErrUnknownPublisher
	}
	return nil
}

// CreateBook assigns the next id; any id on the input is ignored.
func (s *Store) CreateBook(ctx context.Context, book catalog.Book) (catalog.Book, error) {
	if err := ctx.Err(); err != nil {
		return catalog.Book{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkPublisher(book.PublisherID); err != nil {
		return catalog.Book{}, err
	}
	s.nextBookID++
	book.ID = s.nextBookID
	book.Publisher = nil
	s.books[book.ID] = book
	return book, nil
}

func (s *Store) UpdateBook(ctx context.Context, id int64, book catalog.Book) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.books[id]
	if !ok {
		return catalog.ErrNotFound
	}
	current.Title = book.Title
	current.Author = book.Author
	current.Year = book.Year
	current.Genre = book.Genre
	current.IsAvailable = book.IsAvailable
	s.books[id] = current
	return nil
}

func (s *Store) SetAvailability(ctx context.Context, id int64, available bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.books[id]
	if !ok {
		return catalog.ErrNotFound
	}
	b.IsAvailable = available
	s.books[id] = b
	return nil
}

func (s *Store) DeleteBook(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.books[id]; !ok {
		return catalog.ErrNotFound
	}
	delete(s.books, id)
	return nil
}

func (s *Store) ListPublishers(ctx context.Context) ([]catalog.Publisher, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]catalog.Publisher, 0, len(s.publishers))
	for _, p := range s.publishers {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) UserByEmail(ctx context.Context, email string) (auth.User, error) {
	if err := ctx.Err(); err != nil {
		return auth.User{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[auth.NormalizeEmail(email)]
	if !ok {
		return auth.User{}, auth.ErrUserNotFound
	}
	return u, nil
}

func (s *Store) CreateUser(ctx context.Context, user auth.User) (auth.User, error) {
	if err := ctx.Err(); err != nil {
		return auth.User{}, err
	}
	user.Email = auth.NormalizeEmail(user.Email)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.Email]; ok {
		return auth.User{}, auth.ErrUserExists
	}
	s.nextUserID++
	user.ID = s.nextUserID
	s.users[user.Email] = user
	return user, nil
}
