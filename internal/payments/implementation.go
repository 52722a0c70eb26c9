// internal/payments/implementation.go
package payments

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"librarium/internal/fault"
	"librarium/internal/fees"
)

// orchestrator implements the Service interface.
type orchestrator struct {
	fees    FeeSource
	gateway Gateway
}

// NewOrchestrator creates a new payment orchestrator instance.
func NewOrchestrator(feeSource FeeSource, gateway Gateway) Service {
	return &orchestrator{fees: feeSource, gateway: gateway}
}

// PayLateFees charges the patron's outstanding fee on one book.
// The gateway is only reached with a positive fee, clamped at the cap.
//
// If the gateway answers without a transaction id the charge is
// reported as failed and no compensating action is taken: the gateway
// is assumed not to capture funds without issuing a transaction id.
func (o *orchestrator) PayLateFees(ctx context.Context, patronID string, bookID int64) (*PaymentResult, error) {
	if !validPatronID(patronID) {
		return nil, fault.Validation("Invalid patron ID. Must be exactly 6 digits.")
	}
	if bookID <= 0 {
		return nil, fault.Validation("Invalid book_id.")
	}

	fee, err := o.fees.LateFeeForBook(ctx, patronID, bookID)
	if err != nil {
		return nil, fault.Persistence("Failed to compute late fee.", err)
	}
	if fee.Sign() <= 0 {
		return nil, fault.Validation("No late fee to pay.")
	}
	if fee.GreaterThan(fees.FeeCap) {
		fee = fees.FeeCap
	}
	fee = fee.Round(2)

	if o.gateway == nil {
		return nil, fault.Validation("Payment gateway not available.")
	}

	resp, err := o.gateway.ProcessPayment(ctx, patronID, fee)
	if err != nil {
		return nil, fault.Gateway(fmt.Sprintf("Payment failed: %v", err), err)
	}
	if resp == nil || resp.ID() == "" {
		return nil, fault.Gateway("Payment gateway did not return a transaction id.", nil)
	}

	return &PaymentResult{TransactionID: resp.ID(), Amount: fee}, nil
}

// RefundLateFeePayment refunds a previous late-fee charge, bounded by
// the same per-book cap that limits charges.
func (o *orchestrator) RefundLateFeePayment(ctx context.Context, transactionID string, amount decimal.Decimal) (*RefundResult, error) {
	if strings.TrimSpace(transactionID) == "" {
		return nil, fault.Validation("Invalid transaction id.")
	}
	if amount.Sign() <= 0 {
		return nil, fault.Validation("Refund amount must be positive.")
	}
	if amount.GreaterThan(fees.FeeCap) {
		return nil, fault.Validation("Refund amount exceeds cap ($15.00).")
	}

	if o.gateway == nil {
		return nil, fault.Validation("Payment gateway not available.")
	}

	resp, err := o.gateway.RefundPayment(ctx, transactionID, amount)
	if err != nil {
		return nil, fault.Gateway(fmt.Sprintf("Refund failed: %v", err), err)
	}
	if resp == nil || resp.ID() == "" {
		return nil, fault.Gateway("Payment gateway did not return a refund id.", nil)
	}

	return &RefundResult{RefundID: resp.ID(), Amount: amount.Round(2)}, nil
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
