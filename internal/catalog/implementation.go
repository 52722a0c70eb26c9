// internal/catalog/implementation.go
package catalog

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"librarium/internal/fault"
	"librarium/internal/store"
)

const (
	maxTitleLength  = 200
	maxAuthorLength = 100
	isbnLength      = 13
)

// service implements the Service interface.
type service struct {
	store store.Store
}

// NewService creates a new catalog service instance.
func NewService(st store.Store) Service {
	return &service{store: st}
}

// AddBook validates the new entry and inserts it with all copies available.
// Validation is fail-fast: the first failing rule decides the message.
func (s *service) AddBook(ctx context.Context, title, author, isbn string, totalCopies int) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", fault.Validation("Title is required.")
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return "", fault.Validation("Title must be less than 200 characters.")
	}

	author = strings.TrimSpace(author)
	if author == "" {
		return "", fault.Validation("Author is required.")
	}
	if utf8.RuneCountInString(author) > maxAuthorLength {
		return "", fault.Validation("Author must be less than 100 characters.")
	}

	if !isValidISBN(isbn) {
		return "", fault.Validation("ISBN must be exactly 13 digits.")
	}

	if totalCopies <= 0 {
		return "", fault.Validation("Total copies must be a positive integer.")
	}

	existing, err := s.store.FindBookByISBN(ctx, isbn)
	if err != nil {
		return "", fault.Persistence("Database error occurred while adding the book.", err)
	}
	if existing != nil {
		return "", fault.Conflict("A book with this ISBN already exists.")
	}

	book := &store.Book{
		Title:           title,
		Author:          author,
		ISBN:            isbn,
		TotalCopies:     totalCopies,
		AvailableCopies: totalCopies,
	}
	if err := s.store.InsertBook(ctx, book); err != nil {
		return "", fault.Persistence("Database error occurred while adding the book.", err)
	}

	return fmt.Sprintf("Book %q has been successfully added to the catalog.", title), nil
}

// GetBook retrieves a book by its ID.
func (s *service) GetBook(ctx context.Context, id int64) (*store.Book, error) {
	book, err := s.store.FindBook(ctx, id)
	if err != nil {
		return nil, fault.Persistence("Database error occurred while loading the book.", err)
	}
	if book == nil {
		return nil, fault.NotFound("Book not found.")
	}
	return book, nil
}

// SearchBooks runs a case-insensitive substring search over one field.
// An empty term matches the whole catalog.
func (s *service) SearchBooks(ctx context.Context, term, searchType string) ([]store.Book, error) {
	books, err := s.store.SearchBooks(ctx, term, store.NormalizeSearchField(searchType))
	if err != nil {
		return nil, fault.Persistence("Database error occurred while searching the catalog.", err)
	}
	return books, nil
}

func isValidISBN(isbn string) bool {
	if len(isbn) != isbnLength {
		return false
	}
	for _, r := range isbn {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
