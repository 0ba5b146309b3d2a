package mocks

import (
	"context"

	"github.com/groupcart/payments-service/internal/domain"
	"github.com/groupcart/payments-service/internal/ports"
)

// MockOrderService is a mock implementation of OrderService
type MockOrderService struct {
	CreateFunc func(ctx context.Context, in ports.CreateOrderInput) (*domain.Order, error)
}

func (m *MockOrderService) Create(ctx context.Context, in ports.CreateOrderInput) (*domain.Order, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, in)
	}
	return nil, nil
}

// MockPaymentService is a mock implementation of PaymentService
type MockPaymentService struct {
	VerifyAndRecordFunc func(ctx context.Context, in ports.VerifyInput) (*ports.PaymentSummary, error)
	FetchFunc           func(ctx context.Context, paymentID string) (*ports.PaymentSummary, error)
	RefundFunc          func(ctx context.Context, paymentID string, amount float64, notes map[string]interface{}) (*ports.RefundSummary, error)
	FetchRefundFunc     func(ctx context.Context, refundID string) (*ports.RefundSummary, error)
	CancelFunc          func(ctx context.Context, paymentID string) (*ports.PaymentSummary, error)
}

func (m *MockPaymentService) VerifyAndRecord(ctx context.Context, in ports.VerifyInput) (*ports.PaymentSummary, error) {
	if m.VerifyAndRecordFunc != nil {
		return m.VerifyAndRecordFunc(ctx, in)
	}
	return nil, nil
}

func (m *MockPaymentService) Fetch(ctx context.Context, paymentID string) (*ports.PaymentSummary, error) {
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, paymentID)
	}
	return nil, nil
}

func (m *MockPaymentService) Refund(ctx context.Context, paymentID string, amount float64, notes map[string]interface{}) (*ports.RefundSummary, error) {
	if m.RefundFunc != nil {
		return m.RefundFunc(ctx, paymentID, amount, notes)
	}
	return nil, nil
}

func (m *MockPaymentService) FetchRefund(ctx context.Context, refundID string) (*ports.RefundSummary, error) {
	if m.FetchRefundFunc != nil {
		return m.FetchRefundFunc(ctx, refundID)
	}
	return nil, nil
}

func (m *MockPaymentService) Cancel(ctx context.Context, paymentID string) (*ports.PaymentSummary, error) {
	if m.CancelFunc != nil {
		return m.CancelFunc(ctx, paymentID)
	}
	return nil, nil
}

// MockWebhookService is a mock implementation of WebhookService
type MockWebhookService struct {
	ProcessFunc func(ctx context.Context, body []byte, signature, eventID string) error
}

func (m *MockWebhookService) Process(ctx context.Context, body []byte, signature, eventID string) error {
	if m.ProcessFunc != nil {
		return m.ProcessFunc(ctx, body, signature, eventID)
	}
	return nil
}
