package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Participant payment status within an order cycle. Transitions only move
// forward: pending -> paid.
const (
	ParticipantPending = "pending"
	ParticipantPaid    = "paid"
)

// Participant JSON keys. Participants are kept as raw maps so fields owned
// by the cycle service (shares, addresses, ...) survive our partial updates.
const (
	ParticipantKeyUserID        = "userId"
	ParticipantKeyPaymentStatus = "paymentStatus"
	ParticipantKeyPaymentID     = "razorpayPaymentId"
	ParticipantKeyPaidAt        = "paidAt"
)

// OrderCycle is an externally-owned aggregate grouping multiple users'
// payments toward one shared purchase. This system only flips a
// participant's payment fields; everything else belongs to the cycle service.
type OrderCycle struct {
	ID           string    `json:"id" gorm:"primaryKey;column:cycle_id"`
	Participants JSONArray `json:"participants" gorm:"type:jsonb"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (OrderCycle) TableName() string { return "order_cycles" }

// MarkParticipantPaid flips the participant matching userID to paid and
// attaches the payment id and timestamp. Other participants, and unrelated
// fields of the matching participant, are left untouched. Returns false when
// no participant matches.
func (c *OrderCycle) MarkParticipantPaid(userID, paymentID string, paidAt time.Time) bool {
	for _, p := range c.Participants {
		if id, _ := p[ParticipantKeyUserID].(string); id == userID {
			p[ParticipantKeyPaymentStatus] = ParticipantPaid
			p[ParticipantKeyPaymentID] = paymentID
			p[ParticipantKeyPaidAt] = paidAt.UTC().Format(time.RFC3339Nano)
			return true
		}
	}
	return false
}

// JSONArray is a helper type for JSONB array columns
type JSONArray []map[string]interface{}

func (a JSONArray) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	return json.Marshal(a)
}

func (a *JSONArray) Scan(value interface{}) error {
	if value == nil {
		*a = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	default:
		return fmt.Errorf("unsupported type for JSONArray: %T", value)
	}
}
