package ports

import (
	"context"

	"github.com/groupcart/payments-service/internal/domain"
)

// Repositories return (nil, nil) when an entity does not exist. Save performs
// a merge-write keyed by the gateway-issued id: create when absent, update in
// place on every later observation, so duplicate confirmations and redelivered
// webhooks converge on a single row.

type OrderRepository interface {
	Save(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id string) (*domain.Order, error)
}

type PaymentRepository interface {
	Save(ctx context.Context, payment *domain.Payment) error
	FindByID(ctx context.Context, id string) (*domain.Payment, error)
}

type RefundRepository interface {
	Save(ctx context.Context, refund *domain.Refund) error
	FindByID(ctx context.Context, id string) (*domain.Refund, error)
}

// WebhookEventRepository is append-only; accepted deliveries are logged and
// never mutated.
type WebhookEventRepository interface {
	Append(ctx context.Context, event *domain.WebhookEvent) error
}

// CycleRepository accesses the externally-owned order cycle aggregate. This
// system only rewrites the participants column.
type CycleRepository interface {
	FindByID(ctx context.Context, id string) (*domain.OrderCycle, error)
	SaveParticipants(ctx context.Context, cycle *domain.OrderCycle) error
}
