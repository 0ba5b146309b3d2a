package webhook

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/groupcart/payments-service/internal/adapter/queue"
	"github.com/groupcart/payments-service/internal/domain"
	"github.com/groupcart/payments-service/internal/observability/telemetry"
	"github.com/groupcart/payments-service/internal/ports"
)

const (
	EventPaymentCaptured = "payment.captured"
	EventPaymentFailed   = "payment.failed"
	EventRefundCreated   = "refund.created"
	EventRefundProcessed = "refund.processed"

	dedupTTL      = 24 * time.Hour
	queueSubject  = "payments.webhook."
	dedupKeyspace = "webhook:event:"
)

// Dispatcher verifies inbound gateway deliveries and routes them to
// idempotent handlers. Handlers write absolute states, so a redelivered
// event converges on the same end state regardless of arrival order relative
// to the synchronous confirmation path.
type Dispatcher struct {
	verifier ports.SignatureVerifier
	events   ports.WebhookEventRepository
	payments ports.PaymentRepository
	refunds  ports.RefundRepository
	cache    ports.Cache         // optional event-id dedup
	mq       queue.MessageQueue  // optional downstream fan-out
	receipts ports.ReceiptSender // optional capture receipts
	log      *zap.Logger
}

func NewDispatcher(
	verifier ports.SignatureVerifier,
	events ports.WebhookEventRepository,
	payments ports.PaymentRepository,
	refunds ports.RefundRepository,
	cache ports.Cache,
	mq queue.MessageQueue,
	receipts ports.ReceiptSender,
	log *zap.Logger,
) *Dispatcher {
	return &Dispatcher{
		verifier: verifier,
		events:   events,
		payments: payments,
		refunds:  refunds,
		cache:    cache,
		mq:       mq,
		receipts: receipts,
		log:      log,
	}
}

var _ ports.WebhookService = (*Dispatcher)(nil)

type paymentPayload struct {
	ID               string `json:"id"`
	OrderID          string `json:"order_id"`
	Amount           int64  `json:"amount"`
	Currency         string `json:"currency"`
	Status           string `json:"status"`
	Method           string `json:"method"`
	Email            string `json:"email"`
	Contact          string `json:"contact"`
	ErrorCode        string `json:"error_code"`
	ErrorDescription string `json:"error_description"`
	CreatedAt        int64  `json:"created_at"`
}

type refundPayload struct {
	ID        string `json:"id"`
	PaymentID string `json:"payment_id"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Status    string `json:"status"`
	CreatedAt int64  `json:"created_at"`
}

type eventEnvelope struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity paymentPayload `json:"entity"`
		} `json:"payment"`
		Refund struct {
			Entity refundPayload `json:"entity"`
		} `json:"refund"`
	} `json:"payload"`
}

// Process handles one inbound delivery. The signature is checked over the
// exact body bytes before anything is parsed or written; with no webhook
// secret configured, verification is an explicit bypass, never a pass on a
// forged empty signature.
func (d *Dispatcher) Process(ctx context.Context, body []byte, signature, eventID string) error {
	if d.verifier.WebhookVerificationEnabled() {
		if !d.verifier.VerifyWebhookSignature(body, signature) {
			d.log.Warn("Invalid webhook signature")
			telemetry.WebhookEventsTotal.WithLabelValues("unknown", "rejected").Inc()
			return domain.Verification("Invalid signature")
		}
	} else {
		d.log.Warn("Webhook verification disabled, accepting unverified delivery")
	}

	var envelope eventEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return domain.Validation("Invalid webhook payload")
	}

	claimed := false
	if eventID != "" && d.cache != nil {
		fresh, err := d.cache.SetNX(ctx, dedupKeyspace+eventID, "1", dedupTTL)
		if err == nil {
			if !fresh {
				d.log.Info("Duplicate webhook delivery skipped",
					zap.String("event_id", eventID),
					zap.String("event", envelope.Event))
				telemetry.WebhookEventsTotal.WithLabelValues(envelope.Event, "duplicate").Inc()
				return nil
			}
			claimed = true
		}
	}

	d.log.Info("Webhook event received", zap.String("event", envelope.Event))

	var err error
	switch envelope.Event {
	case EventPaymentCaptured:
		err = d.handlePaymentCaptured(ctx, eventID, &envelope.Payload.Payment.Entity)
	case EventPaymentFailed:
		err = d.handlePaymentFailed(ctx, eventID, &envelope.Payload.Payment.Entity)
	case EventRefundCreated:
		err = d.handleRefundCreated(ctx, eventID, &envelope.Payload.Refund.Entity)
	case EventRefundProcessed:
		err = d.handleRefundProcessed(ctx, eventID, &envelope.Payload.Refund.Entity)
	default:
		d.log.Info("Unhandled webhook event type", zap.String("event", envelope.Event))
		telemetry.WebhookEventsTotal.WithLabelValues(envelope.Event, "ignored").Inc()
		return nil
	}
	if err != nil {
		// Release the claim so the gateway's redelivery gets processed
		// instead of short-circuiting as a duplicate.
		if claimed {
			if delErr := d.cache.Delete(ctx, dedupKeyspace+eventID); delErr != nil {
				d.log.Error("Failed to release webhook dedup key",
					zap.String("event_id", eventID),
					zap.Error(delErr))
			}
		}
		return err
	}

	telemetry.WebhookEventsTotal.WithLabelValues(envelope.Event, "accepted").Inc()
	d.publish(envelope.Event, body)
	return nil
}

// publish fans the accepted envelope out to downstream consumers. Failures
// are logged, not surfaced; the gateway must not redeliver for our own
// plumbing.
func (d *Dispatcher) publish(event string, body []byte) {
	if d.mq == nil {
		return
	}
	if err := d.mq.Publish(queueSubject+event, body); err != nil {
		d.log.Error("Failed to publish webhook event",
			zap.String("event", event),
			zap.Error(err))
	}
}

func (d *Dispatcher) handlePaymentCaptured(ctx context.Context, eventID string, p *paymentPayload) error {
	d.log.Info("Payment captured", zap.String("payment_id", p.ID))

	if err := d.appendEvent(ctx, &domain.WebhookEvent{
		EventID:     eventID,
		Event:       EventPaymentCaptured,
		PaymentID:   p.ID,
		AmountMajor: float64(p.Amount) / 100,
		Status:      p.Status,
	}); err != nil {
		return err
	}

	now := time.Now()
	projection, err := d.payments.FindByID(ctx, p.ID)
	if err != nil {
		return domain.Upstream("failed to load payment", err)
	}
	if projection == nil {
		// Capture arrived before the synchronous confirmation; create the
		// projection so state converges regardless of ordering.
		projection = &domain.Payment{
			ID:          p.ID,
			OrderID:     p.OrderID,
			Amount:      p.Amount,
			AmountMajor: float64(p.Amount) / 100,
			Currency:    p.Currency,
			Method:      p.Method,
			Email:       p.Email,
			Contact:     p.Contact,
			CreatedAt:   time.Unix(p.CreatedAt, 0),
		}
	}
	projection.Status = domain.PaymentStatusCaptured
	projection.CapturedAt = &now

	if err := d.payments.Save(ctx, projection); err != nil {
		return domain.Upstream("failed to update payment", err)
	}

	d.sendReceipt(ctx, projection)
	return nil
}

func (d *Dispatcher) handlePaymentFailed(ctx context.Context, eventID string, p *paymentPayload) error {
	d.log.Info("Payment failed",
		zap.String("payment_id", p.ID),
		zap.String("error_code", p.ErrorCode))

	return d.appendEvent(ctx, &domain.WebhookEvent{
		EventID:          eventID,
		Event:            EventPaymentFailed,
		PaymentID:        p.ID,
		ErrorCode:        p.ErrorCode,
		ErrorDescription: p.ErrorDescription,
	})
}

func (d *Dispatcher) handleRefundCreated(ctx context.Context, eventID string, r *refundPayload) error {
	d.log.Info("Refund created", zap.String("refund_id", r.ID))

	return d.appendEvent(ctx, &domain.WebhookEvent{
		EventID:     eventID,
		Event:       EventRefundCreated,
		RefundID:    r.ID,
		PaymentID:   r.PaymentID,
		AmountMajor: float64(r.Amount) / 100,
	})
}

func (d *Dispatcher) handleRefundProcessed(ctx context.Context, eventID string, r *refundPayload) error {
	d.log.Info("Refund processed", zap.String("refund_id", r.ID))

	if err := d.appendEvent(ctx, &domain.WebhookEvent{
		EventID:   eventID,
		Event:     EventRefundProcessed,
		RefundID:  r.ID,
		PaymentID: r.PaymentID,
		Status:    r.Status,
	}); err != nil {
		return err
	}

	now := time.Now()
	projection, err := d.refunds.FindByID(ctx, r.ID)
	if err != nil {
		return domain.Upstream("failed to load refund", err)
	}
	if projection == nil {
		projection = &domain.Refund{
			ID:          r.ID,
			PaymentID:   r.PaymentID,
			Amount:      r.Amount,
			AmountMajor: float64(r.Amount) / 100,
			Currency:    r.Currency,
			CreatedAt:   time.Unix(r.CreatedAt, 0),
		}
	}
	projection.Status = domain.RefundStatusProcessed
	projection.ProcessedAt = &now

	if err := d.refunds.Save(ctx, projection); err != nil {
		return domain.Upstream("failed to update refund", err)
	}
	return nil
}

func (d *Dispatcher) appendEvent(ctx context.Context, event *domain.WebhookEvent) error {
	event.ID = uuid.NewString()
	event.ReceivedAt = time.Now()
	if err := d.events.Append(ctx, event); err != nil {
		return domain.Upstream("failed to log webhook event", err)
	}
	return nil
}

// sendReceipt is best effort; a mail failure never bounces the delivery.
func (d *Dispatcher) sendReceipt(ctx context.Context, payment *domain.Payment) {
	if d.receipts == nil || payment.Email == "" {
		return
	}
	if err := d.receipts.SendPaymentReceipt(ctx, payment); err != nil {
		d.log.Error("Failed to send payment receipt",
			zap.String("payment_id", payment.ID),
			zap.Error(err))
	}
}
