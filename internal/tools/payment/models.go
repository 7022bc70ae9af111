// internal/tools/payment/models.go
package payment

// Order is a payment order awaiting collection.
type Order struct {
	OrderID     string  `json:"orderId"`
	ProviderRef string  `json:"providerRef,omitempty"`
	AmountINR   float64 `json:"amountInr"`
	AmountPaisa int64   `json:"amountPaisa"`
	Currency    string  `json:"currency"`
	Description string  `json:"description,omitempty"`
	UPIString   string  `json:"upiString,omitempty"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"createdAt"`
}

// GSTBreakdown splits an amount into base and tax components.
type GSTBreakdown struct {
	BaseAmount  float64 `json:"baseAmount"`
	GSTRate     float64 `json:"gstRate"`
	CGST        float64 `json:"cgst"`
	SGST        float64 `json:"sgst"`
	TotalGST    float64 `json:"totalGst"`
	TotalAmount float64 `json:"totalAmount"`
}

// WebhookEvent is the normalized form of a provider webhook.
type WebhookEvent struct {
	Event     string  `json:"event"`
	OrderID   string  `json:"orderId"`
	PaymentID string  `json:"paymentId"`
	AmountINR float64 `json:"amountInr"`
	Status    string  `json:"status"`
	Method    string  `json:"method,omitempty"`
}

// Refund records a refund request against a payment.
type Refund struct {
	RefundID  string  `json:"refundId"`
	PaymentID string  `json:"paymentId"`
	AmountINR float64 `json:"amountInr"`
	Status    string  `json:"status"`
	CreatedAt string  `json:"createdAt"`
}
