// internal/reporting/service.go
package reporting

import (
	"context"

	"github.com/shopspring/decimal"
)

// Service defines the interface for the reporting service.
type Service interface {
	PatronStatus(ctx context.Context, patronID string) (*Status, error)
	// LateFeeForBook computes the fee on the patron's latest open loan
	// of the book; zero when there is no open loan.
	LateFeeForBook(ctx context.Context, patronID string, bookID int64) (decimal.Decimal, error)
}
