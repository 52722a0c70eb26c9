// internal/circulation/implementation.go
package circulation

import (
	"context"
	"errors"
	"fmt"
	"log"

	"librarium/internal/fault"
	"librarium/internal/fees"
	"librarium/internal/store"
)

const loanPeriodDays = 14

// maxActiveLoans is compared strictly, so a patron holding exactly five
// loans is still allowed a sixth. That boundary is long-standing product
// behavior; do not tighten it without a product decision.
const maxActiveLoans = 5

// service implements the Service interface.
type service struct {
	store store.Store
	clock fees.Clock
}

// NewService creates a new circulation service instance.
func NewService(st store.Store) Service {
	return &service{store: st, clock: fees.SystemClock{}}
}

// NewServiceWithClock is used by tests that need a fixed borrow date.
func NewServiceWithClock(st store.Store, clock fees.Clock) Service {
	return &service{store: st, clock: clock}
}

// Borrow checks patron and stock constraints, then records the loan and
// decrements availability. The two mutations are not one transaction;
// a failed decrement is compensated by closing the just-created record.
func (s *service) Borrow(ctx context.Context, patronID string, bookID int64) (string, error) {
	if !validPatronID(patronID) {
		return "", fault.Validation("Invalid patron ID. Must be exactly 6 digits.")
	}

	book, err := s.store.FindBook(ctx, bookID)
	if err != nil {
		return "", fault.Persistence("Database error occurred while loading the book.", err)
	}
	if book == nil {
		return "", fault.NotFound("Book not found.")
	}
	if book.AvailableCopies <= 0 {
		return "", fault.Conflict("This book is currently not available.")
	}

	current, err := s.store.ActiveBorrowCount(ctx, patronID)
	if err != nil {
		return "", fault.Persistence("Database error occurred while checking the borrowing limit.", err)
	}
	if current > maxActiveLoans {
		return "", fault.Conflict("You have reached the maximum borrowing limit of 5 books.")
	}

	borrowDate := s.clock.Now()
	dueDate := borrowDate.AddDate(0, 0, loanPeriodDays)

	if err := s.store.InsertBorrowRecord(ctx, patronID, bookID, borrowDate, dueDate); err != nil {
		return "", fault.Persistence("Database error occurred while creating borrow record.", err)
	}

	if err := s.store.AdjustBookAvailability(ctx, bookID, -1); err != nil {
		// Compensate the orphaned record so the loan does not exist
		// without a copy being taken off the shelf.
		if compErr := s.store.CloseBorrowRecord(ctx, patronID, bookID, s.clock.Now()); compErr != nil {
			log.Printf("failed to compensate borrow record for patron %s, book %d: %v", patronID, bookID, compErr)
		}
		return "", fault.Persistence("Database error occurred while updating book availability.", err)
	}

	return fmt.Sprintf("Successfully borrowed %q. Due date: %s.", book.Title, dueDate.Format("2006-01-02")), nil
}

// Return closes the most recent open loan and puts the copy back.
// If restoring inventory fails the loan stays closed; the distinct
// failure message surfaces the inconsistency instead of hiding it.
func (s *service) Return(ctx context.Context, patronID string, bookID int64) (string, error) {
	if err := s.store.CloseBorrowRecord(ctx, patronID, bookID, s.clock.Now()); err != nil {
		if errors.Is(err, store.ErrNoActiveLoan) {
			return "", fault.NotFound("No active loan.")
		}
		return "", fault.Persistence("No active loan.", err)
	}

	if err := s.store.AdjustBookAvailability(ctx, bookID, +1); err != nil {
		log.Printf("loan closed but inventory not restored for patron %s, book %d: %v", patronID, bookID, err)
		return "", fault.Persistence("Failed to restore inventory.", err)
	}

	return "Return successful.", nil
}

func validPatronID(patronID string) bool {
	if len(patronID) != 6 {
		return false
	}
	for _, r := range patronID {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
