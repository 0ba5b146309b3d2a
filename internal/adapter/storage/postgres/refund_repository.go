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

type RefundRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewRefundRepository(db *gorm.DB, log *zap.Logger) ports.RefundRepository {
	return &RefundRepository{db: db, log: log}
}

// Save merge-writes the projection keyed by the gateway refund id.
func (r *RefundRepository) Save(ctx context.Context, refund *domain.Refund) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "refund_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"payment_id", "amount", "amount_major", "currency", "status",
			"notes", "processed_at",
		}),
	}).Create(refund).Error
}

func (r *RefundRepository) FindByID(ctx context.Context, id string) (*domain.Refund, error) {
	var refund domain.Refund
	err := r.db.WithContext(ctx).First(&refund, "refund_id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &refund, nil
}
