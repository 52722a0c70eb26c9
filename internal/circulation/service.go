// internal/circulation/service.go
package circulation

import "context"

// Service defines the interface for the circulation service.
type Service interface {
	// Borrow lends one copy of a book to a patron and returns the
	// confirmation message with the due date.
	Borrow(ctx context.Context, patronID string, bookID int64) (string, error)
	// Return closes the patron's most recent open loan on the book and
	// restores one copy to inventory.
	Return(ctx context.Context, patronID string, bookID int64) (string, error)
}
