// internal/reporting/implementation.go
package reporting

import (
	"context"

	"github.com/shopspring/decimal"

	"librarium/internal/fault"
	"librarium/internal/fees"
	"librarium/internal/store"
)

// service implements the Service interface.
type service struct {
	store store.Store
	calc  *fees.Calculator
	clock fees.Clock
}

// NewService creates a new reporting service instance.
func NewService(st store.Store, calc *fees.Calculator) Service {
	return &service{store: st, calc: calc, clock: fees.SystemClock{}}
}

// NewServiceWithClock pins the overdue flag to a fixed time in tests.
func NewServiceWithClock(st store.Store, calc *fees.Calculator, clock fees.Clock) Service {
	return &service{store: st, calc: calc, clock: clock}
}

// PatronStatus aggregates active loans, owed fees and borrow history.
// Fees are rounded once, on the sum, not per loan.
func (s *service) PatronStatus(ctx context.Context, patronID string) (*Status, error) {
	loans, err := s.store.ActiveLoans(ctx, patronID)
	if err != nil {
		return nil, fault.Persistence("Database error occurred while loading patron status.", err)
	}
	history, err := s.store.History(ctx, patronID)
	if err != nil {
		return nil, fault.Persistence("Database error occurred while loading patron status.", err)
	}

	now := s.clock.Now()
	borrowed := make([]int64, 0, len(loans))
	total := decimal.Zero
	for i := range loans {
		loans[i].IsOverdue = now.After(loans[i].DueDate)
		borrowed = append(borrowed, loans[i].BookID)
		total = total.Add(s.calc.LateFee(loans[i].DueDate))
	}

	return &Status{
		PatronID:      patronID,
		BorrowedBooks: borrowed,
		TotalLateFees: total.Round(2),
		ActiveLoans:   len(loans),
		Loans:         loans,
		History:       history,
	}, nil
}

func (s *service) LateFeeForBook(ctx context.Context, patronID string, bookID int64) (decimal.Decimal, error) {
	due, err := s.store.ActiveBorrowDueDate(ctx, patronID, bookID)
	if err != nil {
		return decimal.Zero, fault.Persistence("Database error occurred while computing the late fee.", err)
	}
	if due == nil {
		return decimal.Zero, nil
	}
	return s.calc.LateFee(*due), nil
}
