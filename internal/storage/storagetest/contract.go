// internal/storage/storagetest/contract.go
// Package storagetest holds the behaviour every catalog store must share.
package storagetest

import (
	"context"
	"testing"
	"time"

	"github.com/bookmanager/internal/auth"
	"github.com/bookmanager/internal/catalog"
	"github.com/stretchr/testify/require"
)

// Store is what the application needs from a storage backend.
type Store interface {
	catalog.Repository
	auth.UserStore
}

// Run exercises a store created by open, which must hold the default seed.
func Run(t *testing.T, open func(t *testing.T) Store) {
	t.Run("Seeded listing", func(t *testing.T) {
		req := require.New(t)
		store := open(t)

		books, err := store.ListBooks(context.Background(), catalog.Filter{})
		req.NoError(err)
		req.Len(books, len(catalog.SeedBooks()))
		req.Equal("The Great Gatsby", books[0].Title)
		for i := 1; i < len(books); i++ {
			req.Less(books[i-1].ID, books[i].ID)
		}

		publishers, err := store.ListPublishers(context.Background())
		req.NoError(err)
		req.Len(publishers, len(catalog.SeedPublishers()))
	})

	t.Run("Filtered listing", func(t *testing.T) {
		req := require.New(t)
		store := open(t)
		unavailable := false

		books, err := store.ListBooks(context.Background(), catalog.Filter{Query: "orwell"})
		req.NoError(err)
		req.Len(books, 2)

		books, err = store.ListBooks(context.Background(), catalog.Filter{Genre: "gothic fiction", Available: &unavailable})
		req.NoError(err)
		req.Len(books, 1)
		req.Equal("Frankenstein", books[0].Title)
	})

	t.Run("Filtered listing folds non-ASCII case", func(t *testing.T) {
		req := require.New(t)
		ctx := context.Background()
		store := open(t)

		created, err := store.CreateBook(ctx, catalog.Book{Title: "Émile", Author: "Jean-Jacques Rousseau", Genre: "Ästhetik", IsAvailable: true})
		req.NoError(err)

		tests := []struct {
			name   string
			filter catalog.Filter
		}{
			{name: "Lower-case title query", filter: catalog.Filter{Query: "émile"}},
			{name: "Upper-case title query", filter: catalog.Filter{Query: "ÉMILE"}},
			{name: "Lower-case genre", filter: catalog.Filter{Genre: "ästhetik"}},
			{name: "Upper-case genre", filter: catalog.Filter{Genre: "ÄSTHETIK"}},
		}
		for _, tt := range tests {
			books, err := store.ListBooks(ctx, tt.filter)
			req.NoError(err, tt.name)
			req.Len(books, 1, tt.name)
			req.Equal(created.ID, books[0].ID, tt.name)
		}
	})

	t.Run("Books with publishers", func(t *testing.T) {
		req := require.New(t)
		store := open(t)

		books, err := store.ListBooksWithPublishers(context.Background())
		req.NoError(err)
		req.NotEmpty(books)
		req.NotNil(books[0].Publisher)
		req.Equal("Macmillan Publishers", books[0].Publisher.Name)
	})

	t.Run("Create, get, update, delete", func(t *testing.T) {
		req := require.New(t)
		ctx := context.Background()
		store := open(t)

		created, err := store.CreateBook(ctx, catalog.Book{
			ID:                 999,
			Title:              "Dune",
			Author:             "Frank Herbert",
			Year:               1965,
			Genre:              "Science Fiction",
			IsAvailable:        true,
			AudioBookAvailable: true,
			PublisherID:        4,
		})
		req.NoError(err)
		req.Greater(created.ID, int64(len(catalog.SeedBooks())))
		req.NotEqual(int64(999), created.ID)

		got, err := store.GetBook(ctx, created.ID)
		req.NoError(err)
		req.Equal("Dune", got.Title)
		req.Equal(int64(4), got.PublisherID)
		req.True(got.IsAvailable)

		got.Title = "Dune Messiah"
		got.Year = 1969
		req.NoError(store.UpdateBook(ctx, created.ID, got))
		got, err = store.GetBook(ctx, created.ID)
		req.NoError(err)
		req.Equal("Dune Messiah", got.Title)
		req.Equal(1969, got.Year)

		req.NoError(store.UpdateBook(ctx, created.ID, catalog.Book{Title: "Children of Dune", Author: "Frank Herbert", Year: 1976, IsAvailable: true}))
		got, err = store.GetBook(ctx, created.ID)
		req.NoError(err)
		req.Equal("Children of Dune", got.Title)
		req.Empty(got.Genre)
		req.Equal(int64(4), got.PublisherID, "update keeps the publisher")
		req.True(got.AudioBookAvailable, "update keeps the audiobook flag")

		req.NoError(store.SetAvailability(ctx, created.ID, false))
		got, err = store.GetBook(ctx, created.ID)
		req.NoError(err)
		req.False(got.IsAvailable)

		req.NoError(store.DeleteBook(ctx, created.ID))
		_, err = store.GetBook(ctx, created.ID)
		req.ErrorIs(err, catalog.ErrNotFound)
	})

	t.Run("Book without publisher", func(t *testing.T) {
		req := require.New(t)
		ctx := context.Background()
		store := open(t)

		created, err := store.CreateBook(ctx, catalog.Book{Title: "Zine", Author: "Anon"})
		req.NoError(err)
		got, err := store.GetBook(ctx, created.ID)
		req.NoError(err)
		req.Zero(got.PublisherID)
	})

	t.Run("Missing rows", func(t *testing.T) {
		req := require.New(t)
		ctx := context.Background()
		store := open(t)

		_, err := store.GetBook(ctx, 4242)
		req.ErrorIs(err, catalog.ErrNotFound)
		req.ErrorIs(store.UpdateBook(ctx, 4242, catalog.Book{Title: "x", Author: "y"}), catalog.ErrNotFound)
		req.ErrorIs(store.SetAvailability(ctx, 4242, true), catalog.ErrNotFound)
		req.ErrorIs(store.DeleteBook(ctx, 4242), catalog.ErrNotFound)
	})

	t.Run("Unknown publisher", func(t *testing.T) {
		req := require.New(t)
		ctx := context.Background()
		store := open(t)

		_, err := store.CreateBook(ctx, catalog.Book{Title: "x", Author: "y", PublisherID: 77})
		req.ErrorIs(err, catalog.ErrUnknownPublisher)

		req.NoError(store.UpdateBook(ctx, 1, catalog.Book{Title: "x", Author: "y", PublisherID: 77}))
		got, err := store.GetBook(ctx, 1)
		req.NoError(err)
		req.Equal(int64(3), got.PublisherID)
	})

	t.Run("Users", func(t *testing.T) {
		req := require.New(t)
		ctx := context.Background()
		store := open(t)

		_, err := store.UserByEmail(ctx, "reader@example.com")
		req.ErrorIs(err, auth.ErrUserNotFound)

		created, err := store.CreateUser(ctx, auth.User{
			Name:         "Reader",
			Email:        "Reader@Example.com",
			PasswordHash: "hash",
			CreatedAt:    time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		})
		req.NoError(err)
		req.NotZero(created.ID)

		got, err := store.UserByEmail(ctx, "reader@example.com")
		req.NoError(err)
		req.Equal(created.ID, got.ID)
		req.Equal("Reader", got.Name)
		req.Equal("hash", got.PasswordHash)
		req.True(got.CreatedAt.Equal(created.CreatedAt))

		_, err = store.CreateUser(ctx, auth.User{Name: "Dup", Email: "reader@example.com", PasswordHash: "x"})
		req.ErrorIs(err, auth.ErrUserExists)
	})

	t.Run("Cancelled context", func(t *testing.T) {
		store := open(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := store.ListBooks(ctx, catalog.Filter{})
		require.ErrorIs(t, err, context.Canceled)
	})
}
