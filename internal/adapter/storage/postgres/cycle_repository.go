package postgres

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/groupcart/payments-service/internal/domain"
	"github.com/groupcart/payments-service/internal/ports"
)

type CycleRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewCycleRepository(db *gorm.DB, log *zap.Logger) ports.CycleRepository {
	return &CycleRepository{db: db, log: log}
}

func (r *CycleRepository) FindByID(ctx context.Context, id string) (*domain.OrderCycle, error) {
	var cycle domain.OrderCycle
	err := r.db.WithContext(ctx).First(&cycle, "cycle_id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cycle, nil
}

// SaveParticipants rewrites only the participants column. The cycle row is
// owned by the cycle service; last writer wins, which is safe because a
// participant's payment status only moves forward.
func (r *CycleRepository) SaveParticipants(ctx context.Context, cycle *domain.OrderCycle) error {
	return r.db.WithContext(ctx).Model(&domain.OrderCycle{}).
		Where("cycle_id = ?", cycle.ID).
		Updates(map[string]interface{}{
			"participants": cycle.Participants,
			"updated_at":   time.Now(),
		}).Error
}
