package order

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/groupcart/payments-service/internal/domain"
	"github.com/groupcart/payments-service/internal/observability/telemetry"
	"github.com/groupcart/payments-service/internal/ports"
)

// Service creates gateway orders and records pending projections. Orders are
// never updated or deleted here; status changes flow through the reconciler
// and the webhook dispatcher.
type Service struct {
	gateway ports.PaymentGateway
	orders  ports.OrderRepository
	log     *zap.Logger
}

func NewService(gateway ports.PaymentGateway, orders ports.OrderRepository, log *zap.Logger) *Service {
	return &Service{
		gateway: gateway,
		orders:  orders,
		log:     log,
	}
}

var _ ports.OrderService = (*Service)(nil)

func (s *Service) Create(ctx context.Context, in ports.CreateOrderInput) (*domain.Order, error) {
	if in.Amount <= 0 {
		return nil, domain.Validation("Invalid amount")
	}

	// Rupees to paise. Rounded, not truncated: 19.999 is 2000 paise.
	amount := int64(math.Round(in.Amount * 100))

	currency := in.Currency
	if currency == "" {
		currency = "INR"
	}
	receipt := in.Receipt
	if receipt == "" {
		receipt = fmt.Sprintf("rcpt_%s", uuid.NewString())
	}

	gwOrder, err := s.gateway.CreateOrder(ctx, amount, currency, receipt, in.Notes)
	if err != nil {
		return nil, err
	}

	s.log.Info("Razorpay order created", zap.String("order_id", gwOrder.ID))
	telemetry.OrdersCreatedTotal.Inc()

	now := time.Now()
	order := &domain.Order{
		ID:          gwOrder.ID,
		Amount:      gwOrder.Amount,
		AmountMajor: in.Amount,
		Currency:    gwOrder.Currency,
		Receipt:     gwOrder.Receipt,
		Status:      domain.OrderStatus(gwOrder.Status),
		Notes:       in.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.orders.Save(ctx, order); err != nil {
		return nil, domain.Upstream("failed to save order", err)
	}

	return order, nil
}
