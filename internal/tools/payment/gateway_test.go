// internal/tools/payment/gateway_test.go
package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bizauto-agents/internal/common/config"
	stderrors "bizauto-agents/internal/common/errors"
	"bizauto-agents/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func testConfig() config.PaymentConfig {
	return config.PaymentConfig{
		Enabled:  true,
		Provider: "razorpay",
		Razorpay: config.RazorpayConfig{
			KeyID:         "rzp_test_key",
			KeySecret:     "test_secret",
			WebhookSecret: "webhook_secret",
		},
		MerchantUPIID: "merchant@upi",
	}
}

func createTestGateway(t *testing.T) *Gateway {
	g, err := NewGateway(testConfig(), logger.NewTestLogger(t))
	require.NoError(t, err)
	g.now = func() time.Time {
		return time.Date(2026, 8, 29, 10, 30, 45, 0, time.UTC)
	}
	return g
}

func sign(secret, message string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(message))
	return hex.EncodeToString(mac.Sum(nil))
}

// ==========================
// Order Creation
// ==========================

func TestGateway_CreateOrder_OfflineUPI(t *testing.T) {
	cfg := testConfig()
	cfg.Razorpay.KeyID = "" // no provider registration
	g, err := NewGateway(cfg, logger.NewTestLogger(t))
	require.NoError(t, err)
	g.now = func() time.Time {
		return time.Date(2026, 8, 29, 10, 30, 45, 0, time.UTC)
	}

	order, err := g.CreateOrder(context.Background(), 499.50, "website package")
	require.NoError(t, err)

	assert.Equal(t, "ORDER_20260829103045", order.OrderID)
	assert.Equal(t, int64(49950), order.AmountPaisa)
	assert.Equal(t, "INR", order.Currency)
	assert.Equal(t, "created", order.Status)
	assert.Contains(t, order.UPIString, "upi://pay?")
	assert.Contains(t, order.UPIString, "pa=merchant%40upi")
	assert.Contains(t, order.UPIString, "am=499.50")
	assert.Contains(t, order.UPIString, "tr=ORDER_20260829103045")
}

func TestGateway_CreateOrder_RegistersWithProvider(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orders", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "rzp_test_key", user)
		assert.Equal(t, "test_secret", pass)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(10000), body["amount"])

		json.NewEncoder(w).Encode(map[string]string{"id": "order_ABC123"})
	}))
	defer server.Close()

	g := createTestGateway(t)
	g.baseURL = server.URL

	order, err := g.CreateOrder(context.Background(), 100, "test")
	require.NoError(t, err)
	assert.Equal(t, "order_ABC123", order.ProviderRef)
}

func TestGateway_CreateOrder_RejectsNonPositiveAmount(t *testing.T) {
	g := createTestGateway(t)

	_, err := g.CreateOrder(context.Background(), 0, "test")
	require.Error(t, err)

	stdErr, ok := err.(*stderrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, stderrors.ErrCodeInvalidRequest, stdErr.Code)
}

func TestGateway_CreateOrder_ProviderErrorSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"bad key"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	g := createTestGateway(t)
	g.baseURL = server.URL

	_, err := g.CreateOrder(context.Background(), 100, "test")
	require.Error(t, err)

	stdErr, ok := err.(*stderrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, stderrors.ErrCodePaymentOrderFailed, stdErr.Code)
	assert.True(t, stdErr.Retryable)
}

func TestNewGateway_UnsupportedProvider(t *testing.T) {
	cfg := testConfig()
	cfg.Provider = "stripe"

	_, err := NewGateway(cfg, logger.NewNoOpLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported payment provider")
}

// ==========================
// Signature Verification
// ==========================

func TestGateway_VerifyPayment(t *testing.T) {
	g := createTestGateway(t)

	orderID := "order_ABC"
	paymentID := "pay_XYZ"
	valid := sign("test_secret", orderID+"|"+paymentID)

	assert.NoError(t, g.VerifyPayment(orderID, paymentID, valid))

	err := g.VerifyPayment(orderID, paymentID, "tampered")
	require.Error(t, err)
	stdErr, ok := err.(*stderrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, stderrors.ErrCodePaymentSignatureInvalid, stdErr.Code)
}

func TestGateway_HandleWebhook(t *testing.T) {
	g := createTestGateway(t)

	body := []byte(`{
		"event": "payment.captured",
		"payload": {
			"payment": {
				"entity": {
					"id": "pay_123",
					"order_id": "order_456",
					"amount": 49950,
					"status": "captured",
					"method": "upi"
				}
			}
		}
	}`)

	event, err := g.HandleWebhook(body, sign("webhook_secret", string(body)))
	require.NoError(t, err)

	assert.Equal(t, "payment.captured", event.Event)
	assert.Equal(t, "pay_123", event.PaymentID)
	assert.Equal(t, "order_456", event.OrderID)
	assert.Equal(t, 499.50, event.AmountINR)
	assert.Equal(t, "upi", event.Method)
}

func TestGateway_HandleWebhook_BadSignature(t *testing.T) {
	g := createTestGateway(t)

	_, err := g.HandleWebhook([]byte(`{"event":"payment.captured"}`), "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PAYMENT_SIGNATURE_INVALID")
}

// ==========================
// Refunds and Status
// ==========================

func TestGateway_CreateRefund(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/payments/pay_123/refund"))
		json.NewEncoder(w).Encode(map[string]string{"id": "rfnd_1", "status": "processed"})
	}))
	defer server.Close()

	g := createTestGateway(t)
	g.baseURL = server.URL

	refund, err := g.CreateRefund(context.Background(), "pay_123", 100)
	require.NoError(t, err)
	assert.Equal(t, "rfnd_1", refund.RefundID)
	assert.Equal(t, "processed", refund.Status)
}

func TestGateway_GetPaymentStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "captured"})
	}))
	defer server.Close()

	g := createTestGateway(t)
	g.baseURL = server.URL

	status, err := g.GetPaymentStatus(context.Background(), "pay_123")
	require.NoError(t, err)
	assert.Equal(t, "captured", status)
}

// ==========================
// GST
// ==========================

func TestCalculateGST(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		category string
		rate     float64
		total    float64
	}{
		{name: "restaurant rate", amount: 1000, category: "restaurant", rate: 0.05, total: 1050},
		{name: "goods rate", amount: 1000, category: "goods", rate: 0.12, total: 1120},
		{name: "services rate", amount: 1000, category: "services", rate: 0.18, total: 1180},
		{name: "luxury rate", amount: 1000, category: "luxury", rate: 0.28, total: 1280},
		{name: "unknown defaults to services", amount: 1000, category: "other", rate: 0.18, total: 1180},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := CalculateGST(tt.amount, tt.category)
			assert.Equal(t, tt.rate, b.GSTRate)
			assert.Equal(t, tt.total, b.TotalAmount)
			assert.Equal(t, b.TotalGST, b.CGST+b.SGST)
		})
	}
}
