// tests/integration/circulation_flow_test.go
package integration

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"librarium/internal/catalog"
	"librarium/internal/circulation"
	"librarium/internal/fees"
	"librarium/internal/payments"
	"librarium/internal/reporting"
	"librarium/internal/store"
)

// movableClock lets the test fast-forward through the loan period.
type movableClock struct {
	now time.Time
}

func (c *movableClock) Now() time.Time { return c.now }

type recordingGateway struct {
	charged decimal.Decimal
}

func (g *recordingGateway) ProcessPayment(_ context.Context, _ string, amount decimal.Decimal) (*payments.PaymentResponse, error) {
	g.charged = amount
	return &payments.PaymentResponse{TransactionID: "TXN123456"}, nil
}

func (g *recordingGateway) RefundPayment(context.Context, string, decimal.Decimal) (*payments.RefundResponse, error) {
	return &payments.RefundResponse{RefundID: "REF987654"}, nil
}

func TestBorrowReturnAndFeePaymentFlow(t *testing.T) {
	ctx := context.Background()
	clock := &movableClock{now: time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC)}

	mem := store.NewMemoryStore()
	calc := fees.NewCalculatorWithClock(clock)
	catalogSvc := catalog.NewService(mem)
	circulationSvc := circulation.NewServiceWithClock(mem, clock)
	reportingSvc := reporting.NewServiceWithClock(mem, calc, clock)
	gateway := &recordingGateway{}
	paymentsSvc := payments.NewOrchestrator(reportingSvc, gateway)

	// Add a single-copy book.
	msg, err := catalogSvc.AddBook(ctx, "Station Eleven", "Emily St. John Mandel", "1234567890123", 1)
	require.NoError(t, err)
	assert.Equal(t, `Book "Station Eleven" has been successfully added to the catalog.`, msg)

	// Borrow it.
	msg, err = circulationSvc.Borrow(ctx, "123456", 1)
	require.NoError(t, err)
	assert.Equal(t, `Successfully borrowed "Station Eleven". Due date: 2025-06-15.`, msg)

	// The only copy is out, a second borrow must fail.
	_, err = circulationSvc.Borrow(ctx, "123456", 1)
	require.EqualError(t, err, "This book is currently not available.")

	// Return it and borrow again.
	msg, err = circulationSvc.Return(ctx, "123456", 1)
	require.NoError(t, err)
	assert.Equal(t, "Return successful.", msg)

	_, err = circulationSvc.Borrow(ctx, "123456", 1)
	require.NoError(t, err)

	// Ten days past the due date the fee is 7*0.50 + 3*1.00 = 6.50.
	clock.now = clock.now.AddDate(0, 0, 24)

	fee, err := reportingSvc.LateFeeForBook(ctx, "123456", 1)
	require.NoError(t, err)
	assert.True(t, fee.Equal(decimal.RequireFromString("6.5")), "got %s", fee)

	status, err := reportingSvc.PatronStatus(ctx, "123456")
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, status.BorrowedBooks)
	assert.Equal(t, 1, status.ActiveLoans)
	assert.True(t, status.TotalLateFees.Equal(decimal.RequireFromString("6.5")))
	assert.Len(t, status.History, 2)
	require.Len(t, status.Loans, 1)
	assert.True(t, status.Loans[0].IsOverdue)

	// Pay the fee through the gateway.
	result, err := paymentsSvc.PayLateFees(ctx, "123456", 1)
	require.NoError(t, err)
	assert.Equal(t, "TXN123456", result.TransactionID)
	assert.True(t, result.Amount.Equal(decimal.RequireFromString("6.5")))
	assert.True(t, gateway.charged.Equal(decimal.RequireFromString("6.5")))

	// And refund it.
	refund, err := paymentsSvc.RefundLateFeePayment(ctx, result.TransactionID, result.Amount)
	require.NoError(t, err)
	assert.Equal(t, "REF987654", refund.RefundID)
	assert.True(t, refund.Amount.Equal(decimal.RequireFromString("6.5")))
}
