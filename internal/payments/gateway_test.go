// internal/payments/gateway_test.go
package payments

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPGatewayProcessPayment(t *testing.T) {
	var gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/payments", r.URL.Path)
		gotKey = r.Header.Get("Idempotency-Key")

		var req struct {
			PatronID string          `json:"patron_id"`
			Amount   decimal.Decimal `json:"amount"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "123456", req.PatronID)
		assert.True(t, req.Amount.Equal(decimal.RequireFromString("6.5")))

		json.NewEncoder(w).Encode(map[string]string{"transaction_id": "TXN-15"})
	}))
	defer server.Close()

	gw := NewHTTPGateway(server.URL)
	resp, err := gw.ProcessPayment(context.Background(), "123456", decimal.RequireFromString("6.5"))
	require.NoError(t, err)
	assert.Equal(t, "TXN-15", resp.ID())

	_, err = uuid.Parse(gotKey)
	assert.NoError(t, err, "idempotency key should be a UUID, got %q", gotKey)
}

func TestHTTPGatewayRefundPayment(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/refunds", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{"id": "REF-7"})
	}))
	defer server.Close()

	gw := NewHTTPGateway(server.URL)
	resp, err := gw.RefundPayment(context.Background(), "TXN-15", decimal.RequireFromString("6.5"))
	require.NoError(t, err)
	assert.Equal(t, "REF-7", resp.ID(), "refund id under the alternate key")
}

func TestHTTPGatewayNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "insufficient funds", http.StatusPaymentRequired)
	}))
	defer server.Close()

	gw := NewHTTPGateway(server.URL)
	_, err := gw.ProcessPayment(context.Background(), "123456", decimal.RequireFromString("3"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "402")
	assert.Contains(t, err.Error(), "insufficient funds")
}
