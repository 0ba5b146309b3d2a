package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// OrderStatus represents the lifecycle status of a gateway order
type OrderStatus string

const (
	OrderStatusCreated   OrderStatus = "created"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// PaymentStatus represents the status of a gateway payment
type PaymentStatus string

const (
	PaymentStatusAuthorized PaymentStatus = "authorized"
	PaymentStatusCaptured   PaymentStatus = "captured"
	PaymentStatusFailed     PaymentStatus = "failed"
	PaymentStatusCancelled  PaymentStatus = "cancelled"
)

// RefundStatus represents the status of a gateway refund
type RefundStatus string

const (
	RefundStatusCreated   RefundStatus = "created"
	RefundStatusProcessed RefundStatus = "processed"
)

// Order is the local projection of a Razorpay order. The gateway is the
// source of truth; this row is updated on confirmation or webhook delivery.
type Order struct {
	ID          string      `json:"id" gorm:"primaryKey;column:order_id"`
	Amount      int64       `json:"amount"` // minor units (paise)
	AmountMajor float64     `json:"amountInRupees" gorm:"column:amount_major"`
	Currency    string      `json:"currency"`
	Receipt     string      `json:"receipt"` // client-assigned, advisory only
	Status      OrderStatus `json:"status"`
	Notes       JSONMap     `json:"notes,omitempty" gorm:"type:jsonb"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// TableName keeps the collection name earlier deployments used.
func (Order) TableName() string { return "razorpay_orders" }

// Payment is the local projection of a Razorpay payment, keyed by the
// gateway-issued payment id. Verified is set only after a successful
// signature check; status transitions may still arrive via webhooks.
type Payment struct {
	ID          string        `json:"id" gorm:"primaryKey;column:payment_id"`
	OrderID     string        `json:"order_id" gorm:"index"`
	CycleID     string        `json:"cycle_id,omitempty"`
	UserID      string        `json:"user_id,omitempty"`
	Amount      int64         `json:"amount"` // minor units
	AmountMajor float64       `json:"amountInRupees" gorm:"column:amount_major"`
	Currency    string        `json:"currency"`
	Status      PaymentStatus `json:"status"`
	Method      string        `json:"method"`
	Email       string        `json:"email,omitempty"`
	Contact     string        `json:"contact,omitempty"`
	Verified    bool          `json:"verified"`
	CreatedAt   time.Time     `json:"created_at"`
	VerifiedAt  *time.Time    `json:"verified_at,omitempty"`
	CapturedAt  *time.Time    `json:"captured_at,omitempty"`
	CancelledAt *time.Time    `json:"cancelled_at,omitempty"`
}

// Refund is the local projection of a Razorpay refund, keyed by the
// gateway-issued refund id.
type Refund struct {
	ID          string       `json:"id" gorm:"primaryKey;column:refund_id"`
	PaymentID   string       `json:"payment_id" gorm:"index"`
	Amount      int64        `json:"amount"` // minor units
	AmountMajor float64      `json:"amountInRupees" gorm:"column:amount_major"`
	Currency    string       `json:"currency"`
	Status      RefundStatus `json:"status"`
	Notes       JSONMap      `json:"notes,omitempty" gorm:"type:jsonb"`
	CreatedAt   time.Time    `json:"created_at"`
	ProcessedAt *time.Time   `json:"processed_at,omitempty"`
}

// WebhookEvent is an append-only log entry for every accepted webhook
// delivery. Rows are write-once and never mutated.
type WebhookEvent struct {
	ID               string    `json:"id" gorm:"primaryKey"`
	EventID          string    `json:"event_id" gorm:"index"` // gateway delivery id, may be empty
	Event            string    `json:"event"`
	PaymentID        string    `json:"payment_id,omitempty" gorm:"index"`
	RefundID         string    `json:"refund_id,omitempty"`
	AmountMajor      float64   `json:"amount,omitempty" gorm:"column:amount_major"`
	Status           string    `json:"status,omitempty"`
	ErrorCode        string    `json:"error_code,omitempty"`
	ErrorDescription string    `json:"error_description,omitempty"`
	ReceivedAt       time.Time `json:"received_at"`
}

// JSONMap is a helper type for JSONB columns
type JSONMap map[string]interface{}

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("unsupported type for JSONMap: %T", value)
	}
}
