package payment

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/groupcart/payments-service/internal/domain"
	"github.com/groupcart/payments-service/internal/observability/telemetry"
	"github.com/groupcart/payments-service/internal/ports"
)

const fetchCacheTTL = 30 * time.Second

// Service reconciles client-submitted payment confirmations with the
// gateway's authoritative records and keeps the local projections current.
type Service struct {
	gateway  ports.PaymentGateway
	verifier ports.SignatureVerifier
	payments ports.PaymentRepository
	refunds  ports.RefundRepository
	cycles   ports.CycleRepository
	cache    ports.Cache // optional read cache for gateway fetches
	log      *zap.Logger
}

func NewService(
	gateway ports.PaymentGateway,
	verifier ports.SignatureVerifier,
	payments ports.PaymentRepository,
	refunds ports.RefundRepository,
	cycles ports.CycleRepository,
	cache ports.Cache,
	log *zap.Logger,
) *Service {
	return &Service{
		gateway:  gateway,
		verifier: verifier,
		payments: payments,
		refunds:  refunds,
		cycles:   cycles,
		cache:    cache,
		log:      log,
	}
}

var _ ports.PaymentService = (*Service)(nil)

// VerifyAndRecord checks the two-field confirmation signature, fetches the
// authoritative payment and upserts the verified projection. No write
// happens before the signature check passes.
func (s *Service) VerifyAndRecord(ctx context.Context, in ports.VerifyInput) (*ports.PaymentSummary, error) {
	if in.OrderID == "" || in.PaymentID == "" || in.Signature == "" {
		return nil, domain.Validation("Missing required payment parameters")
	}

	if !s.verifier.VerifyPaymentSignature(in.OrderID, in.PaymentID, in.Signature) {
		s.log.Warn("Invalid payment signature", zap.String("payment_id", in.PaymentID))
		telemetry.VerificationsTotal.WithLabelValues("rejected").Inc()
		return nil, domain.Verification("Payment verification failed")
	}

	s.log.Info("Payment signature verified", zap.String("payment_id", in.PaymentID))
	telemetry.VerificationsTotal.WithLabelValues("verified").Inc()

	gwPayment, err := s.gateway.FetchPayment(ctx, in.PaymentID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	projection := &domain.Payment{
		ID:          gwPayment.ID,
		OrderID:     in.OrderID,
		CycleID:     in.CycleID,
		UserID:      in.UserID,
		Amount:      gwPayment.Amount,
		AmountMajor: float64(gwPayment.Amount) / 100,
		Currency:    gwPayment.Currency,
		Status:      domain.PaymentStatus(gwPayment.Status),
		Method:      gwPayment.Method,
		Email:       gwPayment.Email,
		Contact:     gwPayment.Contact,
		Verified:    true,
		CreatedAt:   gwPayment.CreatedAt,
		VerifiedAt:  &now,
	}

	if err := s.payments.Save(ctx, projection); err != nil {
		return nil, domain.Upstream("failed to save payment", err)
	}

	if in.CycleID != "" && in.UserID != "" {
		if err := s.markParticipantPaid(ctx, in.CycleID, in.UserID, in.PaymentID, now); err != nil {
			return nil, err
		}
	}

	return &ports.PaymentSummary{
		ID:       gwPayment.ID,
		OrderID:  in.OrderID,
		Amount:   float64(gwPayment.Amount) / 100,
		Currency: gwPayment.Currency,
		Status:   gwPayment.Status,
		Method:   gwPayment.Method,
	}, nil
}

// markParticipantPaid flips the matching participant to paid. A missing
// cycle is not a fault; the confirmation may arrive before the cycle exists.
func (s *Service) markParticipantPaid(ctx context.Context, cycleID, userID, paymentID string, paidAt time.Time) error {
	cycle, err := s.cycles.FindByID(ctx, cycleID)
	if err != nil {
		return domain.Upstream("failed to load order cycle", err)
	}
	if cycle == nil {
		s.log.Debug("Order cycle not found, skipping participant update",
			zap.String("cycle_id", cycleID))
		return nil
	}

	if !cycle.MarkParticipantPaid(userID, paymentID, paidAt) {
		s.log.Debug("No matching participant in cycle",
			zap.String("cycle_id", cycleID),
			zap.String("user_id", userID))
		return nil
	}

	if err := s.cycles.SaveParticipants(ctx, cycle); err != nil {
		return domain.Upstream("failed to update order cycle", err)
	}

	s.log.Info("Order cycle updated with payment",
		zap.String("cycle_id", cycleID),
		zap.String("payment_id", paymentID))
	return nil
}

// Fetch is a gateway read-through with a short-lived cache; no local write.
func (s *Service) Fetch(ctx context.Context, paymentID string) (*ports.PaymentSummary, error) {
	if paymentID == "" {
		return nil, domain.Validation("Payment ID is required")
	}

	cacheKey := "payment:" + paymentID
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey); err == nil && cached != "" {
			var summary ports.PaymentSummary
			if err := json.Unmarshal([]byte(cached), &summary); err == nil {
				return &summary, nil
			}
		}
	}

	gwPayment, err := s.gateway.FetchPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	summary := &ports.PaymentSummary{
		ID:        gwPayment.ID,
		OrderID:   gwPayment.OrderID,
		Amount:    float64(gwPayment.Amount) / 100,
		Currency:  gwPayment.Currency,
		Status:    gwPayment.Status,
		Method:    gwPayment.Method,
		Email:     gwPayment.Email,
		Contact:   gwPayment.Contact,
		CreatedAt: gwPayment.CreatedAt,
	}

	if s.cache != nil {
		if data, err := json.Marshal(summary); err == nil {
			// best effort; a cold cache only costs a gateway round trip
			_ = s.cache.Set(ctx, cacheKey, string(data), fetchCacheTTL)
		}
	}

	return summary, nil
}

// Refund requests a full or partial refund and upserts the projection keyed
// by the gateway refund id. Amount is in major units; zero means full.
func (s *Service) Refund(ctx context.Context, paymentID string, amount float64, notes map[string]interface{}) (*ports.RefundSummary, error) {
	if paymentID == "" {
		return nil, domain.Validation("Payment ID is required")
	}

	// Existence check; the gateway enforces the refundable balance.
	if _, err := s.gateway.FetchPayment(ctx, paymentID); err != nil {
		return nil, err
	}

	var amountMinor int64
	if amount > 0 {
		amountMinor = int64(math.Round(amount * 100))
	}

	gwRefund, err := s.gateway.RefundPayment(ctx, paymentID, amountMinor, notes)
	if err != nil {
		return nil, err
	}

	s.log.Info("Refund created",
		zap.String("refund_id", gwRefund.ID),
		zap.String("payment_id", paymentID))
	telemetry.RefundsTotal.Inc()

	projection := &domain.Refund{
		ID:          gwRefund.ID,
		PaymentID:   paymentID,
		Amount:      gwRefund.Amount,
		AmountMajor: float64(gwRefund.Amount) / 100,
		Currency:    gwRefund.Currency,
		Status:      domain.RefundStatus(gwRefund.Status),
		Notes:       notes,
		CreatedAt:   gwRefund.CreatedAt,
	}
	if err := s.refunds.Save(ctx, projection); err != nil {
		return nil, domain.Upstream("failed to save refund", err)
	}

	return &ports.RefundSummary{
		ID:        gwRefund.ID,
		PaymentID: gwRefund.PaymentID,
		Amount:    float64(gwRefund.Amount) / 100,
		Currency:  gwRefund.Currency,
		Status:    gwRefund.Status,
	}, nil
}

// FetchRefund is a gateway read-through; no local write.
func (s *Service) FetchRefund(ctx context.Context, refundID string) (*ports.RefundSummary, error) {
	if refundID == "" {
		return nil, domain.Validation("Refund ID is required")
	}

	gwRefund, err := s.gateway.FetchRefund(ctx, refundID)
	if err != nil {
		return nil, err
	}

	return &ports.RefundSummary{
		ID:        gwRefund.ID,
		PaymentID: gwRefund.PaymentID,
		Amount:    float64(gwRefund.Amount) / 100,
		Currency:  gwRefund.Currency,
		Status:    gwRefund.Status,
		CreatedAt: gwRefund.CreatedAt,
	}, nil
}

// Cancel voids an authorized payment. Any other authoritative status is a
// domain conflict naming the current state; no projection write happens.
func (s *Service) Cancel(ctx context.Context, paymentID string) (*ports.PaymentSummary, error) {
	if paymentID == "" {
		return nil, domain.Validation("Payment ID is required")
	}

	gwPayment, err := s.gateway.FetchPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	if gwPayment.Status != string(domain.PaymentStatusAuthorized) {
		return nil, domain.Conflictf("Cannot cancel payment with status: %s", gwPayment.Status)
	}

	cancelled, err := s.gateway.CancelPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	s.log.Info("Payment cancelled", zap.String("payment_id", paymentID))

	projection, err := s.payments.FindByID(ctx, paymentID)
	if err != nil {
		return nil, domain.Upstream("failed to load payment", err)
	}
	if projection != nil {
		now := time.Now()
		projection.Status = domain.PaymentStatusCancelled
		projection.CancelledAt = &now
		if err := s.payments.Save(ctx, projection); err != nil {
			return nil, domain.Upstream("failed to update payment", err)
		}
	}

	return &ports.PaymentSummary{
		ID:     cancelled.ID,
		Status: cancelled.Status,
	}, nil
}
