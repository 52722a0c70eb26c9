// internal/payments/service.go
package payments

import (
	"context"

	"github.com/shopspring/decimal"
)

// FeeSource provides the fee owed on a patron's active loan of a book.
// The reporting service is the production implementation.
type FeeSource interface {
	LateFeeForBook(ctx context.Context, patronID string, bookID int64) (decimal.Decimal, error)
}

// Service defines the interface for the payment orchestrator.
type Service interface {
	PayLateFees(ctx context.Context, patronID string, bookID int64) (*PaymentResult, error)
	RefundLateFeePayment(ctx context.Context, transactionID string, amount decimal.Decimal) (*RefundResult, error)
}
