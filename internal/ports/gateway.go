package ports

import (
	"context"
	"time"
)

// GatewayOrder is an order as reported by the payment gateway.
type GatewayOrder struct {
	ID        string
	Amount    int64 // minor units
	Currency  string
	Receipt   string
	Status    string
	CreatedAt time.Time
}

// GatewayPayment is the authoritative payment record held by the gateway.
type GatewayPayment struct {
	ID               string
	OrderID          string
	Amount           int64 // minor units
	Currency         string
	Status           string
	Method           string
	Email            string
	Contact          string
	ErrorCode        string
	ErrorDescription string
	CreatedAt        time.Time
}

// GatewayRefund is the authoritative refund record held by the gateway.
type GatewayRefund struct {
	ID        string
	PaymentID string
	Amount    int64 // minor units
	Currency  string
	Status    string
	CreatedAt time.Time
}

// PaymentGateway is the outbound port to the payment provider. The gateway
// owns the order/payment/refund lifecycle; local state is a projection.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string, notes map[string]interface{}) (*GatewayOrder, error)
	FetchPayment(ctx context.Context, paymentID string) (*GatewayPayment, error)
	// RefundPayment requests a refund; amount 0 means a full refund.
	RefundPayment(ctx context.Context, paymentID string, amount int64, notes map[string]interface{}) (*GatewayRefund, error)
	FetchRefund(ctx context.Context, refundID string) (*GatewayRefund, error)
	CancelPayment(ctx context.Context, paymentID string) (*GatewayPayment, error)
}

// SignatureVerifier validates the authenticity of payment confirmations and
// webhook payloads. A mismatch is an expected outcome, not an error.
type SignatureVerifier interface {
	// VerifyPaymentSignature checks the provider's two-field confirmation
	// scheme (order id and payment id signed with the key secret).
	VerifyPaymentSignature(orderID, paymentID, signature string) bool
	// VerifyWebhookSignature checks the full-payload scheme over the exact
	// body bytes, signed with the webhook secret.
	VerifyWebhookSignature(body []byte, signature string) bool
	// WebhookVerificationEnabled reports whether a webhook secret is
	// configured. When false, deliveries bypass verification explicitly.
	WebhookVerificationEnabled() bool
}
