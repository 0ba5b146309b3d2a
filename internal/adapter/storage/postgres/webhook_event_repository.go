package postgres

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/groupcart/payments-service/internal/domain"
	"github.com/groupcart/payments-service/internal/ports"
)

type WebhookEventRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewWebhookEventRepository(db *gorm.DB, log *zap.Logger) ports.WebhookEventRepository {
	return &WebhookEventRepository{db: db, log: log}
}

// Append writes one log row per accepted delivery. Rows are never updated.
func (r *WebhookEventRepository) Append(ctx context.Context, event *domain.WebhookEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}
