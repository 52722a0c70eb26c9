// internal/payments/domain.go
package payments

import "github.com/shopspring/decimal"

// PaymentResponse is the gateway's reply to a charge. Gateways in the
// wild disagree on the key carrying the transaction identifier, so both
// accepted spellings are decoded and normalized through ID() exactly
// once at this boundary.
type PaymentResponse struct {
	TransactionID string `json:"transaction_id"`
	TxID          string `json:"txid"`
	Status        string `json:"status"`
}

// ID returns the transaction identifier under either accepted key,
// or empty when the gateway returned none.
func (r PaymentResponse) ID() string {
	if r.TransactionID != "" {
		return r.TransactionID
	}
	return r.TxID
}

// RefundResponse is the gateway's reply to a refund.
type RefundResponse struct {
	RefundID string `json:"refund_id"`
	AltID    string `json:"id"`
	Status   string `json:"status"`
}

// ID returns the refund identifier under either accepted key.
func (r RefundResponse) ID() string {
	if r.RefundID != "" {
		return r.RefundID
	}
	return r.AltID
}

// PaymentResult is returned to the caller after a successful charge.
// It is never persisted.
type PaymentResult struct {
	TransactionID string          `json:"transaction_id"`
	Amount        decimal.Decimal `json:"amount"`
}

// RefundResult is returned to the caller after a successful refund.
type RefundResult struct {
	RefundID string          `json:"refund_id"`
	Amount   decimal.Decimal `json:"amount"`
}
