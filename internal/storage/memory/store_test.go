// internal/storage/memory/store_test.go
package memory

import (
	"context"
	"testing"

	"github.com/bookmanager/internal/catalog"
	"github.com/bookmanager/internal/storage/storagetest"
	"github.com/stretchr/testify/require"
)

func TestStoreContract(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storagetest.Store {
		store := NewSeeded()
		t.Cleanup(func() { _ = store.Close() })
		return store
	})
}

func TestStore_SeedIsCopied(t *testing.T) {
	req := require.New(t)
	books := catalog.SeedBooks()
	store := New(catalog.SeedPublishers(), books)

	books[0].Title = "mutated"
	got, err := store.GetBook(context.Background(), books[0].ID)
	req.NoError(err)
	req.Equal("The Great Gatsby", got.Title)
}

func TestStore_PublisherIsNotShared(t *testing.T) {
	req := require.New(t)
	store := NewSeeded()

	books, err := store.ListBooksWithPublishers(context.Background())
	req.NoError(err)
	books[0].Publisher.Name = "mutated"

	publishers, err := store.ListPublishers(context.Background())
	req.NoError(err)
	req.NotEqual("mutated", publishers[books[0].PublisherID-1].Name)
}
