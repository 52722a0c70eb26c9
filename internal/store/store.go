// internal/store/store.go
package store

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	// ErrNoActiveLoan is returned when closing a borrow record that does not exist.
	ErrNoActiveLoan = errors.New("no active borrow record")

	// ErrNoAvailability is returned when a decrement would push available copies below zero.
	ErrNoAvailability = errors.New("no available copies")

	// ErrBookNotFound is returned by mutations targeting a missing book.
	ErrBookNotFound = errors.New("book not found")
)

// Search fields accepted by SearchBooks. Anything else falls back to title.
const (
	SearchByTitle  = "title"
	SearchByAuthor = "author"
	SearchByISBN   = "isbn"
)

// Store is the record store consumed by the services. Point lookups
// return (nil, nil) when the entity is absent; mutations report the
// sentinel errors above so callers can produce distinct outcomes.
type Store interface {
	FindBook(ctx context.Context, id int64) (*Book, error)
	FindBookByISBN(ctx context.Context, isbn string) (*Book, error)
	InsertBook(ctx context.Context, book *Book) error
	// AdjustBookAvailability moves available copies by delta. Increments
	// are clamped at TotalCopies so duplicate returns cannot overflow
	// inventory; a decrement below zero fails with ErrNoAvailability.
	AdjustBookAvailability(ctx context.Context, id int64, delta int) error
	SearchBooks(ctx context.Context, term, field string) ([]Book, error)

	InsertBorrowRecord(ctx context.Context, patronID string, bookID int64, borrowDate, dueDate time.Time) error
	// CloseBorrowRecord sets the return date on the most recent open
	// record for the pair, or fails with ErrNoActiveLoan.
	CloseBorrowRecord(ctx context.Context, patronID string, bookID int64, returnDate time.Time) error
	ActiveBorrowCount(ctx context.Context, patronID string) (int, error)
	// ActiveBorrowDueDate returns the due date of the latest open record
	// for the pair, or (nil, nil) when the patron has no open loan on it.
	ActiveBorrowDueDate(ctx context.Context, patronID string, bookID int64) (*time.Time, error)
	ActiveLoans(ctx context.Context, patronID string) ([]ActiveLoan, error)
	History(ctx context.Context, patronID string) ([]BorrowRecord, error)
}

// NormalizeSearchField maps arbitrary input onto a supported search field.
func NormalizeSearchField(field string) string {
	switch strings.ToLower(field) {
	case SearchByAuthor:
		return SearchByAuthor
	case SearchByISBN:
		return SearchByISBN
	default:
		return SearchByTitle
	}
}
