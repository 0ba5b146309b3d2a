package mocks

import (
	"context"

	"github.com/groupcart/payments-service/internal/ports"
)

// MockPaymentGateway is a mock implementation of PaymentGateway
type MockPaymentGateway struct {
	CreateOrderFunc   func(ctx context.Context, amount int64, currency, receipt string, notes map[string]interface{}) (*ports.GatewayOrder, error)
	FetchPaymentFunc  func(ctx context.Context, paymentID string) (*ports.GatewayPayment, error)
	RefundPaymentFunc func(ctx context.Context, paymentID string, amount int64, notes map[string]interface{}) (*ports.GatewayRefund, error)
	FetchRefundFunc   func(ctx context.Context, refundID string) (*ports.GatewayRefund, error)
	CancelPaymentFunc func(ctx context.Context, paymentID string) (*ports.GatewayPayment, error)
}

func (m *MockPaymentGateway) CreateOrder(ctx context.Context, amount int64, currency, receipt string, notes map[string]interface{}) (*ports.GatewayOrder, error) {
	if m.CreateOrderFunc != nil {
		return m.CreateOrderFunc(ctx, amount, currency, receipt, notes)
	}
	return nil, nil
}

func (m *MockPaymentGateway) FetchPayment(ctx context.Context, paymentID string) (*ports.GatewayPayment, error) {
	if m.FetchPaymentFunc != nil {
		return m.FetchPaymentFunc(ctx, paymentID)
	}
	return nil, nil
}

func (m *MockPaymentGateway) RefundPayment(ctx context.Context, paymentID string, amount int64, notes map[string]interface{}) (*ports.GatewayRefund, error) {
	if m.RefundPaymentFunc != nil {
		return m.RefundPaymentFunc(ctx, paymentID, amount, notes)
	}
	return nil, nil
}

func (m *MockPaymentGateway) FetchRefund(ctx context.Context, refundID string) (*ports.GatewayRefund, error) {
	if m.FetchRefundFunc != nil {
		return m.FetchRefundFunc(ctx, refundID)
	}
	return nil, nil
}

func (m *MockPaymentGateway) CancelPayment(ctx context.Context, paymentID string) (*ports.GatewayPayment, error) {
	if m.CancelPaymentFunc != nil {
		return m.CancelPaymentFunc(ctx, paymentID)
	}
	return nil, nil
}

// MockSignatureVerifier is a mock implementation of SignatureVerifier
type MockSignatureVerifier struct {
	VerifyPaymentSignatureFunc     func(orderID, paymentID, signature string) bool
	VerifyWebhookSignatureFunc     func(body []byte, signature string) bool
	WebhookVerificationEnabledFunc func() bool
}

func (m *MockSignatureVerifier) VerifyPaymentSignature(orderID, paymentID, signature string) bool {
	if m.VerifyPaymentSignatureFunc != nil {
		return m.VerifyPaymentSignatureFunc(orderID, paymentID, signature)
	}
	return true
}

func (m *MockSignatureVerifier) VerifyWebhookSignature(body []byte, signature string) bool {
	if m.VerifyWebhookSignatureFunc != nil {
		return m.VerifyWebhookSignatureFunc(body, signature)
	}
	return true
}

func (m *MockSignatureVerifier) WebhookVerificationEnabled() bool {
	if m.WebhookVerificationEnabledFunc != nil {
		return m.WebhookVerificationEnabledFunc()
	}
	return true
}
