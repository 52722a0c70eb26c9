// internal/reporting/domain.go
package reporting

import (
	"github.com/shopspring/decimal"

	"librarium/internal/store"
)

// Status is a patron's circulation snapshot: active loans in borrow
// order, fees summed across them, and the full borrow history.
type Status struct {
	PatronID      string               `json:"patron_id"`
	BorrowedBooks []int64              `json:"borrowed_books"`
	TotalLateFees decimal.Decimal      `json:"total_late_fees"`
	ActiveLoans   int                  `json:"active_loans"`
	Loans         []store.ActiveLoan   `json:"loans"`
	History       []store.BorrowRecord `json:"history"`
}
