// internal/catalog/service.go
package catalog

import (
	"context"

	"librarium/internal/store"
)

// Service defines the interface for the catalog service.
type Service interface {
	// AddBook validates and inserts a new book, returning the
	// confirmation message shown to the librarian.
	AddBook(ctx context.Context, title, author, isbn string, totalCopies int) (string, error)
	GetBook(ctx context.Context, id int64) (*store.Book, error)
	SearchBooks(ctx context.Context, term, searchType string) ([]store.Book, error)
}
