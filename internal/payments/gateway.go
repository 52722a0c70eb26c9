// internal/payments/gateway.go
package payments

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Gateway is the external payment collaborator. Either call may fail;
// the orchestrator converts failures into caller-safe messages.
type Gateway interface {
	ProcessPayment(ctx context.Context, patronID string, amount decimal.Decimal) (*PaymentResponse, error)
	RefundPayment(ctx context.Context, transactionID string, amount decimal.Decimal) (*RefundResponse, error)
}

// HTTPGateway talks to the payment provider over HTTP. Calls are rate
// limited and carry an idempotency key, so an accidental double submit
// cannot double charge.
type HTTPGateway struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
	tracer  trace.Tracer
}

func NewHTTPGateway(baseURL string) *HTTPGateway {
	return &HTTPGateway{
		baseURL: baseURL,
		client:  &http.Client{},
		limiter: rate.NewLimiter(rate.Limit(10), 20),
		tracer:  otel.Tracer("librarium/payments"),
	}
}

func (g *HTTPGateway) ProcessPayment(ctx context.Context, patronID string, amount decimal.Decimal) (*PaymentResponse, error) {
	ctx, span := g.tracer.Start(ctx, "gateway.process_payment",
		trace.WithAttributes(attribute.String("payment.amount", amount.String())))
	defer span.End()

	body := struct {
		PatronID string          `json:"patron_id"`
		Amount   decimal.Decimal `json:"amount"`
	}{PatronID: patronID, Amount: amount}

	var resp PaymentResponse
	if err := g.post(ctx, "/payments", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (g *HTTPGateway) RefundPayment(ctx context.Context, transactionID string, amount decimal.Decimal) (*RefundResponse, error) {
	ctx, span := g.tracer.Start(ctx, "gateway.refund_payment",
		trace.WithAttributes(attribute.String("refund.amount", amount.String())))
	defer span.End()

	body := struct {
		TransactionID string          `json:"transaction_id"`
		Amount        decimal.Decimal `json:"amount"`
	}{TransactionID: transactionID, Amount: amount}

	var resp RefundResponse
	if err := g.post(ctx, "/refunds", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (g *HTTPGateway) post(ctx context.Context, path string, body, out any) error {
	if err := g.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", uuid.NewString())

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("gateway call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("gateway returned %d: %s", resp.StatusCode, bytes.TrimSpace(detail))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
