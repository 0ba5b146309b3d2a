package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/groupcart/payments-service/internal/adapter/queue"
	"github.com/groupcart/payments-service/internal/domain"
	"github.com/groupcart/payments-service/internal/mocks"
	"github.com/groupcart/payments-service/internal/ports"
)

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

func capturedEnvelope(paymentID string) []byte {
	body, _ := json.Marshal(map[string]interface{}{
		"event": EventPaymentCaptured,
		"payload": map[string]interface{}{
			"payment": map[string]interface{}{
				"entity": map[string]interface{}{
					"id":         paymentID,
					"order_id":   "order_abc",
					"amount":     50000,
					"currency":   "INR",
					"status":     "captured",
					"method":     "upi",
					"email":      "payer@example.com",
					"created_at": 1700000000,
				},
			},
		},
	})
	return body
}

func refundProcessedEnvelope(refundID string) []byte {
	body, _ := json.Marshal(map[string]interface{}{
		"event": EventRefundProcessed,
		"payload": map[string]interface{}{
			"refund": map[string]interface{}{
				"entity": map[string]interface{}{
					"id":         refundID,
					"payment_id": "pay_xyz",
					"amount":     50000,
					"currency":   "INR",
					"status":     "processed",
					"created_at": 1700000000,
				},
			},
		},
	})
	return body
}

func newDispatcher(
	verifier *mocks.MockSignatureVerifier,
	events *mocks.MockWebhookEventRepository,
	payments *mocks.MockPaymentRepository,
	refunds *mocks.MockRefundRepository,
	cache *mocks.MockCache,
	mq *mocks.MockMessageQueue,
) *Dispatcher {
	if verifier == nil {
		verifier = &mocks.MockSignatureVerifier{}
	}
	if events == nil {
		events = &mocks.MockWebhookEventRepository{}
	}
	if payments == nil {
		payments = &mocks.MockPaymentRepository{}
	}
	if refunds == nil {
		refunds = &mocks.MockRefundRepository{}
	}

	// Assign through interface variables so an absent mock stays a nil
	// interface instead of a typed nil.
	var cachePort ports.Cache
	if cache != nil {
		cachePort = cache
	}
	var mqPort queue.MessageQueue
	if mq != nil {
		mqPort = mq
	}

	return NewDispatcher(verifier, events, payments, refunds, cachePort, mqPort, nil, newTestLogger())
}

func TestProcess_InvalidSignature(t *testing.T) {
	var appends, saves int
	events := &mocks.MockWebhookEventRepository{
		AppendFunc: func(ctx context.Context, event *domain.WebhookEvent) error {
			appends++
			return nil
		},
	}
	payments := &mocks.MockPaymentRepository{
		SaveFunc: func(ctx context.Context, p *domain.Payment) error {
			saves++
			return nil
		},
	}
	verifier := &mocks.MockSignatureVerifier{
		VerifyWebhookSignatureFunc: func(body []byte, signature string) bool {
			return false
		},
	}

	d := newDispatcher(verifier, events, payments, nil, nil, nil)

	err := d.Process(context.Background(), capturedEnvelope("pay_xyz"), "forged", "")
	if domain.KindOf(err) != domain.KindVerification {
		t.Fatalf("expected verification error, got %v", err)
	}
	if appends != 0 {
		t.Errorf("expected no event log on rejected delivery, got %d", appends)
	}
	if saves != 0 {
		t.Errorf("expected no payment write on rejected delivery, got %d", saves)
	}
}

func TestProcess_VerificationDisabledBypasses(t *testing.T) {
	var appends int
	events := &mocks.MockWebhookEventRepository{
		AppendFunc: func(ctx context.Context, event *domain.WebhookEvent) error {
			appends++
			return nil
		},
	}
	verifier := &mocks.MockSignatureVerifier{
		WebhookVerificationEnabledFunc: func() bool { return false },
		VerifyWebhookSignatureFunc: func(body []byte, signature string) bool {
			t.Error("verification must not run when disabled")
			return false
		},
	}

	d := newDispatcher(verifier, events, nil, nil, nil, nil)

	if err := d.Process(context.Background(), capturedEnvelope("pay_xyz"), "", ""); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if appends != 1 {
		t.Errorf("expected event logged, got %d appends", appends)
	}
}

func TestProcess_CapturedCreatesMissingProjection(t *testing.T) {
	var saved *domain.Payment
	payments := &mocks.MockPaymentRepository{
		FindByIDFunc: func(ctx context.Context, id string) (*domain.Payment, error) {
			return nil, nil // capture arrived before the confirmation
		},
		SaveFunc: func(ctx context.Context, p *domain.Payment) error {
			saved = p
			return nil
		},
	}

	d := newDispatcher(nil, nil, payments, nil, nil, nil)

	if err := d.Process(context.Background(), capturedEnvelope("pay_early"), "sig", ""); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if saved == nil {
		t.Fatal("expected a projection to be created")
	}
	if saved.ID != "pay_early" {
		t.Errorf("expected projection keyed by gateway id, got '%s'", saved.ID)
	}
	if saved.Status != domain.PaymentStatusCaptured {
		t.Errorf("expected status 'captured', got '%s'", saved.Status)
	}
	if saved.CapturedAt == nil {
		t.Error("expected capture timestamp")
	}
	if saved.AmountMajor != 500 {
		t.Errorf("expected 500 rupees, got %v", saved.AmountMajor)
	}
}

func TestProcess_CapturedUpdatesExistingProjection(t *testing.T) {
	existing := &domain.Payment{
		ID:       "pay_xyz",
		Status:   domain.PaymentStatusAuthorized,
		Verified: true,
	}

	var saved *domain.Payment
	payments := &mocks.MockPaymentRepository{
		FindByIDFunc: func(ctx context.Context, id string) (*domain.Payment, error) {
			return existing, nil
		},
		SaveFunc: func(ctx context.Context, p *domain.Payment) error {
			saved = p
			return nil
		},
	}

	d := newDispatcher(nil, nil, payments, nil, nil, nil)

	if err := d.Process(context.Background(), capturedEnvelope("pay_xyz"), "sig", ""); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if saved == nil {
		t.Fatal("expected projection update")
	}
	if !saved.Verified {
		t.Error("expected verification flag to survive the status transition")
	}
	if saved.Status != domain.PaymentStatusCaptured {
		t.Errorf("expected status 'captured', got '%s'", saved.Status)
	}
}

func TestProcess_RefundProcessedReplayConverges(t *testing.T) {
	// The store is keyed by the gateway refund id, so replays rewrite the
	// same row. Simulate with a map standing in for the table.
	rows := map[string]*domain.Refund{}
	refunds := &mocks.MockRefundRepository{
		FindByIDFunc: func(ctx context.Context, id string) (*domain.Refund, error) {
			return rows[id], nil
		},
		SaveFunc: func(ctx context.Context, r *domain.Refund) error {
			copied := *r
			rows[r.ID] = &copied
			return nil
		},
	}

	d := newDispatcher(nil, nil, nil, refunds, nil, nil)

	body := refundProcessedEnvelope("rfnd_1")
	if err := d.Process(context.Background(), body, "sig", ""); err != nil {
		t.Fatalf("first delivery: %v", err)
	}
	if err := d.Process(context.Background(), body, "sig", ""); err != nil {
		t.Fatalf("replayed delivery: %v", err)
	}

	if len(rows) != 1 {
		t.Fatalf("expected exactly one refund row, got %d", len(rows))
	}
	if rows["rfnd_1"].Status != domain.RefundStatusProcessed {
		t.Errorf("expected status 'processed', got '%s'", rows["rfnd_1"].Status)
	}
	if rows["rfnd_1"].ProcessedAt == nil {
		t.Error("expected processing timestamp")
	}
}

func TestProcess_DuplicateEventIDSkipped(t *testing.T) {
	var appends int
	events := &mocks.MockWebhookEventRepository{
		AppendFunc: func(ctx context.Context, event *domain.WebhookEvent) error {
			appends++
			return nil
		},
	}
	cache := &mocks.MockCache{
		SetNXFunc: func(ctx context.Context, key string, value string, expiration time.Duration) (bool, error) {
			return false, nil // already seen
		},
	}

	d := newDispatcher(nil, events, nil, nil, cache, nil)

	if err := d.Process(context.Background(), capturedEnvelope("pay_xyz"), "sig", "evt_1"); err != nil {
		t.Fatalf("expected duplicate to be acknowledged, got %v", err)
	}
	if appends != 0 {
		t.Errorf("expected no event log for duplicate delivery, got %d", appends)
	}
}

func TestProcess_RedeliveredAfterFailureConverges(t *testing.T) {
	// A transient store failure bounces the delivery; the gateway redelivers
	// with the same event id. The redelivery must not be swallowed as a
	// duplicate, or the projection update would be lost for good.
	seen := map[string]string{}
	cache := &mocks.MockCache{
		SetNXFunc: func(ctx context.Context, key string, value string, expiration time.Duration) (bool, error) {
			if _, ok := seen[key]; ok {
				return false, nil
			}
			seen[key] = value
			return true, nil
		},
		DeleteFunc: func(ctx context.Context, key string) error {
			delete(seen, key)
			return nil
		},
	}

	rows := map[string]*domain.Refund{}
	failures := 1
	refunds := &mocks.MockRefundRepository{
		FindByIDFunc: func(ctx context.Context, id string) (*domain.Refund, error) {
			return rows[id], nil
		},
		SaveFunc: func(ctx context.Context, r *domain.Refund) error {
			if failures > 0 {
				failures--
				return errors.New("connection reset by peer")
			}
			copied := *r
			rows[r.ID] = &copied
			return nil
		},
	}

	d := newDispatcher(nil, nil, nil, refunds, cache, nil)

	body := refundProcessedEnvelope("rfnd_1")
	if err := d.Process(context.Background(), body, "sig", "evt_1"); err == nil {
		t.Fatal("expected first delivery to fail on the store error")
	}
	if err := d.Process(context.Background(), body, "sig", "evt_1"); err != nil {
		t.Fatalf("redelivered event: %v", err)
	}

	row := rows["rfnd_1"]
	if row == nil {
		t.Fatal("expected refund projection after redelivery")
	}
	if row.Status != domain.RefundStatusProcessed {
		t.Errorf("expected status 'processed', got '%s'", row.Status)
	}
	if _, ok := seen[dedupKeyspace+"evt_1"]; !ok {
		t.Error("expected dedup key to stay claimed after the successful delivery")
	}
}

func TestProcess_UnknownEventAcknowledged(t *testing.T) {
	var appends int
	events := &mocks.MockWebhookEventRepository{
		AppendFunc: func(ctx context.Context, event *domain.WebhookEvent) error {
			appends++
			return nil
		},
	}

	d := newDispatcher(nil, events, nil, nil, nil, nil)

	body := []byte(`{"event":"order.paid","payload":{}}`)
	if err := d.Process(context.Background(), body, "sig", ""); err != nil {
		t.Fatalf("expected unknown event to be acknowledged, got %v", err)
	}
	if appends != 0 {
		t.Errorf("expected no event log for unhandled type, got %d", appends)
	}
}

func TestProcess_PublishesAcceptedEvents(t *testing.T) {
	var gotSubject string
	mq := &mocks.MockMessageQueue{
		PublishFunc: func(subject string, data []byte) error {
			gotSubject = subject
			return nil
		},
	}

	d := newDispatcher(nil, nil, nil, nil, nil, mq)

	if err := d.Process(context.Background(), capturedEnvelope("pay_xyz"), "sig", ""); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if gotSubject != "payments.webhook.payment.captured" {
		t.Errorf("expected fan-out subject 'payments.webhook.payment.captured', got '%s'", gotSubject)
	}
}
