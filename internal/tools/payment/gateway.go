// Package payment wraps UPI payment collection for Indian providers.
// Razorpay is the fully supported provider; the others are accepted for
// configuration but only offline UPI QR collection works with them.
package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"bizauto-agents/internal/common/config"
	stderrors "bizauto-agents/internal/common/errors"
	httpclient "bizauto-agents/internal/common/http"
	"bizauto-agents/internal/common/logger"
)

const razorpayBaseURL = "https://api.razorpay.com/v1"

var supportedProviders = map[string]bool{
	"razorpay": true,
	"cashfree": true,
	"paytm":    true,
	"phonepe":  true,
}

// GST rates by supply category, CGST and SGST each take half.
var gstRates = map[string]float64{
	"restaurant": 0.05,
	"goods":      0.12,
	"services":   0.18,
	"luxury":     0.28,
}

type Gateway struct {
	cfg      config.PaymentConfig
	client   *httpclient.Client
	logger   logger.Logger
	baseURL  string
	now      func() time.Time
}

func NewGateway(cfg config.PaymentConfig, log logger.Logger) (*Gateway, error) {
	if !supportedProviders[cfg.Provider] {
		return nil, fmt.Errorf("unsupported payment provider: %s", cfg.Provider)
	}
	return &Gateway{
		cfg:     cfg,
		client:  httpclient.NewClient(15 * time.Second),
		logger:  log.WithFields(map[string]interface{}{"component": "payment", "provider": cfg.Provider}),
		baseURL: razorpayBaseURL,
		now:     time.Now,
	}, nil
}

// CreateOrder registers an order with the provider and returns it with a
// UPI intent string for offline collection. Amounts are rupees in and
// paisa on the wire.
func (g *Gateway) CreateOrder(ctx context.Context, amountINR float64, description string) (*Order, error) {
	if amountINR <= 0 {
		return nil, stderrors.NewInvalidRequestError("order amount must be positive")
	}

	now := g.now().UTC()
	order := &Order{
		OrderID:     "ORDER_" + now.Format("20060102150405"),
		AmountINR:   amountINR,
		AmountPaisa: int64(amountINR*100 + 0.5),
		Currency:    "INR",
		Description: description,
		Status:      "created",
		CreatedAt:   now.Format(time.RFC3339),
	}
	order.UPIString = g.BuildUPIString(amountINR, order.OrderID)

	if g.cfg.Provider == "razorpay" && g.cfg.Razorpay.KeyID != "" {
		ref, err := g.registerRazorpayOrder(ctx, order)
		if err != nil {
			g.logger.Error("provider order registration failed", map[string]interface{}{
				"orderId": order.OrderID,
				"error":   err.Error(),
			})
			return nil, &stderrors.StandardError{
				Code:      stderrors.ErrCodePaymentOrderFailed,
				Message:   "Failed to register order with provider",
				Details:   err.Error(),
				Retryable: true,
				Timestamp: time.Now().UTC(),
			}
		}
		order.ProviderRef = ref
	}

	g.logger.Info("order created", map[string]interface{}{
		"orderId":     order.OrderID,
		"amountPaisa": order.AmountPaisa,
	})
	return order, nil
}

func (g *Gateway) registerRazorpayOrder(ctx context.Context, order *Order) (string, error) {
	payload := map[string]interface{}{
		"amount":   order.AmountPaisa,
		"currency": order.Currency,
		"receipt":  order.OrderID,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(g.cfg.Razorpay.KeyID, g.cfg.Razorpay.KeySecret)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("provider returned %d: %s", resp.StatusCode, string(data))
	}

	var out struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	return out.ID, nil
}

// VerifyPayment checks the checkout callback signature: HMAC-SHA256 of
// "order_id|payment_id" keyed with the key secret, hex encoded.
func (g *Gateway) VerifyPayment(orderID, paymentID, signature string) error {
	expected := hmacHex([]byte(g.cfg.Razorpay.KeySecret), []byte(orderID+"|"+paymentID))
	if subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) != 1 {
		return stderrors.NewPaymentSignatureError(fmt.Sprintf("payment %s signature mismatch", paymentID))
	}
	return nil
}

// VerifyWebhookSignature checks the raw webhook body against the
// X-Razorpay-Signature header value.
func (g *Gateway) VerifyWebhookSignature(body []byte, signature string) error {
	expected := hmacHex([]byte(g.cfg.Razorpay.WebhookSecret), body)
	if subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) != 1 {
		return stderrors.NewPaymentSignatureError("webhook signature mismatch")
	}
	return nil
}

// HandleWebhook verifies and normalizes a provider webhook payload.
func (g *Gateway) HandleWebhook(body []byte, signature string) (*WebhookEvent, error) {
	if err := g.VerifyWebhookSignature(body, signature); err != nil {
		return nil, err
	}

	var payload struct {
		Event   string `json:"event"`
		Payload struct {
			Payment struct {
				Entity struct {
					ID      string `json:"id"`
					OrderID string `json:"order_id"`
					Amount  int64  `json:"amount"`
					Status  string `json:"status"`
					Method  string `json:"method"`
				} `json:"entity"`
			} `json:"payment"`
		} `json:"payload"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("parse webhook body: %w", err)
	}

	entity := payload.Payload.Payment.Entity
	event := &WebhookEvent{
		Event:     payload.Event,
		OrderID:   entity.OrderID,
		PaymentID: entity.ID,
		AmountINR: float64(entity.Amount) / 100,
		Status:    entity.Status,
		Method:    entity.Method,
	}

	g.logger.Info("webhook received", map[string]interface{}{
		"event":     event.Event,
		"paymentId": event.PaymentID,
	})
	return event, nil
}

// CreateRefund requests a refund for a captured payment.
func (g *Gateway) CreateRefund(ctx context.Context, paymentID string, amountINR float64) (*Refund, error) {
	if amountINR <= 0 {
		return nil, stderrors.NewInvalidRequestError("refund amount must be positive")
	}

	payload := map[string]interface{}{
		"amount": int64(amountINR*100 + 0.5),
	}
	body, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/payments/%s/refund", g.baseURL, url.PathEscape(paymentID)), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(g.cfg.Razorpay.KeyID, g.cfg.Razorpay.KeySecret)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("refund failed with %d: %s", resp.StatusCode, string(data))
	}

	var out struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}

	return &Refund{
		RefundID:  out.ID,
		PaymentID: paymentID,
		AmountINR: amountINR,
		Status:    out.Status,
		CreatedAt: g.now().UTC().Format(time.RFC3339),
	}, nil
}

// GetPaymentStatus fetches the current status of a payment from the provider.
func (g *Gateway) GetPaymentStatus(ctx context.Context, paymentID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/payments/%s", g.baseURL, url.PathEscape(paymentID)), nil)
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(g.cfg.Razorpay.KeyID, g.cfg.Razorpay.KeySecret)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status lookup failed with %d", resp.StatusCode)
	}

	var out struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	return out.Status, nil
}

// BuildUPIString produces a upi:// intent link for QR collection.
func (g *Gateway) BuildUPIString(amountINR float64, orderID string) string {
	if g.cfg.MerchantUPIID == "" {
		return ""
	}
	params := url.Values{}
	params.Set("pa", g.cfg.MerchantUPIID)
	params.Set("pn", "Merchant")
	params.Set("am", fmt.Sprintf("%.2f", amountINR))
	params.Set("cu", "INR")
	params.Set("tr", orderID)
	return "upi://pay?" + params.Encode()
}

// CalculateGST splits a base amount into CGST and SGST for the category.
// Unknown categories are taxed as services.
func CalculateGST(baseAmount float64, category string) GSTBreakdown {
	rate, ok := gstRates[category]
	if !ok {
		rate = gstRates["services"]
	}

	totalGST := round2(baseAmount * rate)
	half := round2(totalGST / 2)
	return GSTBreakdown{
		BaseAmount:  round2(baseAmount),
		GSTRate:     rate,
		CGST:        half,
		SGST:        half,
		TotalGST:    totalGST,
		TotalAmount: round2(baseAmount + totalGST),
	}
}

func hmacHex(key, message []byte) string {
	mac := hmac.New(sha256.New, key)
	mac.Write(message)
	return hex.EncodeToString(mac.Sum(nil))
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
