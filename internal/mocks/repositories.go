package mocks

import (
	"context"

	"github.com/groupcart/payments-service/internal/domain"
)

// MockOrderRepository is a mock implementation of OrderRepository
type MockOrderRepository struct {
	SaveFunc     func(ctx context.Context, order *domain.Order) error
	FindByIDFunc func(ctx context.Context, id string) (*domain.Order, error)
}

func (m *MockOrderRepository) Save(ctx context.Context, order *domain.Order) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, order)
	}
	return nil
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

// MockPaymentRepository is a mock implementation of PaymentRepository
type MockPaymentRepository struct {
	SaveFunc     func(ctx context.Context, payment *domain.Payment) error
	FindByIDFunc func(ctx context.Context, id string) (*domain.Payment, error)
}

func (m *MockPaymentRepository) Save(ctx context.Context, payment *domain.Payment) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, payment)
	}
	return nil
}

func (m *MockPaymentRepository) FindByID(ctx context.Context, id string) (*domain.Payment, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

// MockRefundRepository is a mock implementation of RefundRepository
type MockRefundRepository struct {
	SaveFunc     func(ctx context.Context, refund *domain.Refund) error
	FindByIDFunc func(ctx context.Context, id string) (*domain.Refund, error)
}

func (m *MockRefundRepository) Save(ctx context.Context, refund *domain.Refund) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, refund)
	}
	return nil
}

func (m *MockRefundRepository) FindByID(ctx context.Context, id string) (*domain.Refund, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

// MockWebhookEventRepository is a mock implementation of WebhookEventRepository
type MockWebhookEventRepository struct {
	AppendFunc func(ctx context.Context, event *domain.WebhookEvent) error
}

func (m *MockWebhookEventRepository) Append(ctx context.Context, event *domain.WebhookEvent) error {
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, event)
	}
	return nil
}

// MockCycleRepository is a mock implementation of CycleRepository
type MockCycleRepository struct {
	FindByIDFunc         func(ctx context.Context, id string) (*domain.OrderCycle, error)
	SaveParticipantsFunc func(ctx context.Context, cycle *domain.OrderCycle) error
}

func (m *MockCycleRepository) FindByID(ctx context.Context, id string) (*domain.OrderCycle, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockCycleRepository) SaveParticipants(ctx context.Context, cycle *domain.OrderCycle) error {
	if m.SaveParticipantsFunc != nil {
		return m.SaveParticipantsFunc(ctx, cycle)
	}
	return nil
}
