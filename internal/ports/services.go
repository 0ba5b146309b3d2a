package ports

import (
	"context"
	"time"

	"github.com/groupcart/payments-service/internal/domain"
)

// CreateOrderInput carries a client order-creation request. Amount is in
// major currency units (rupees).
type CreateOrderInput struct {
	Amount   float64
	Currency string
	Receipt  string
	Notes    map[string]interface{}
}

// VerifyInput carries the client-submitted payment confirmation.
type VerifyInput struct {
	OrderID   string
	PaymentID string
	Signature string
	CycleID   string
	UserID    string
}

// PaymentSummary is the caller-facing view of a payment, amounts in major
// units.
type PaymentSummary struct {
	ID        string    `json:"id"`
	OrderID   string    `json:"orderId"`
	Amount    float64   `json:"amount"`
	Currency  string    `json:"currency"`
	Status    string    `json:"status"`
	Method    string    `json:"method,omitempty"`
	Email     string    `json:"email,omitempty"`
	Contact   string    `json:"contact,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// RefundSummary is the caller-facing view of a refund, amount in major units.
type RefundSummary struct {
	ID        string    `json:"id"`
	PaymentID string    `json:"paymentId"`
	Amount    float64   `json:"amount"`
	Currency  string    `json:"currency"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// OrderService creates gateway orders and records their projections.
type OrderService interface {
	Create(ctx context.Context, in CreateOrderInput) (*domain.Order, error)
}

// PaymentService reconciles client confirmations with gateway state and
// handles refunds and cancellations.
type PaymentService interface {
	VerifyAndRecord(ctx context.Context, in VerifyInput) (*PaymentSummary, error)
	Fetch(ctx context.Context, paymentID string) (*PaymentSummary, error)
	Refund(ctx context.Context, paymentID string, amount float64, notes map[string]interface{}) (*RefundSummary, error)
	FetchRefund(ctx context.Context, refundID string) (*RefundSummary, error)
	Cancel(ctx context.Context, paymentID string) (*PaymentSummary, error)
}

// WebhookService verifies and dispatches inbound gateway deliveries.
type WebhookService interface {
	Process(ctx context.Context, body []byte, signature, eventID string) error
}

// ReceiptSender notifies a payer after a successful capture.
type ReceiptSender interface {
	SendPaymentReceipt(ctx context.Context, payment *domain.Payment) error
}
