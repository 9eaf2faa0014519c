package ai

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurlan2209/undeme/pkg/db/models"
)

// Repository persists assistant exchanges.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an AI chat log repo bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create appends one chat log row.
func (r *Repository) Create(ctx context.Context, log *models.AiChatLog) error {
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(log).Error
}

// ListForUser returns the user's exchanges newest-first, bounded by limit.
func (r *Repository) ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.AiChatLog, error) {
	var logs []models.AiChatLog
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}
