package postgres

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/groupcart/payments-service/internal/domain"
	"github.com/groupcart/payments-service/internal/ports"
)

type PaymentRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewPaymentRepository(db *gorm.DB, log *zap.Logger) ports.PaymentRepository {
	return &PaymentRepository{db: db, log: log}
}

// Save merge-writes the projection keyed by the gateway payment id, so a
// duplicate verification call or a redelivered webhook converges on one row.
func (r *PaymentRepository) Save(ctx context.Context, payment *domain.Payment) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "payment_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"order_id", "cycle_id", "user_id", "amount", "amount_major",
			"currency", "status", "method", "email", "contact", "verified",
			"verified_at", "captured_at", "cancelled_at",
		}),
	}).Create(payment).Error
}

func (r *PaymentRepository) FindByID(ctx context.Context, id string) (*domain.Payment, error) {
	var payment domain.Payment
	err := r.db.WithContext(ctx).First(&payment, "payment_id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}
