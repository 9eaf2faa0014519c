package sos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurlan2209/undeme/pkg/db/models"
	"github.com/nurlan2209/undeme/pkg/enums"
)

// Repository persists alert events and their append-only attempt history.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, event *models.SosEvent) error
	FindByID(ctx context.Context, userID, eventID uuid.UUID) (*models.SosEvent, error)
	LatestForUser(ctx context.Context, userID uuid.UUID) (*models.SosEvent, error)
	ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.SosEvent, error)
	AppendRound(ctx context.Context, eventID uuid.UUID, attempts []models.SosAttempt, status enums.SosStatus, dispatchedAt time.Time) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a SOS repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, event *models.SosEvent) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *repository) FindByID(ctx context.Context, userID, eventID uuid.UUID) (*models.SosEvent, error) {
	var event models.SosEvent
	err := r.db.WithContext(ctx).
		Preload("Attempts", func(db *gorm.DB) *gorm.DB {
			return db.Order("at ASC, created_at ASC")
		}).
		Where("id = ? AND user_id = ?", eventID, userID).
		First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// LatestForUser returns the most recent event for the cooldown check, or
// nil when the user has never triggered.
func (r *repository) LatestForUser(ctx context.Context, userID uuid.UUID) (*models.SosEvent, error) {
	var event models.SosEvent
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &event, nil
}

func (r *repository) ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.SosEvent, error) {
	var events []models.SosEvent
	err := r.db.WithContext(ctx).
		Preload("Attempts", func(db *gorm.DB) *gorm.DB {
			return db.Order("at ASC, created_at ASC")
		}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

// AppendRound atomically appends one attempt batch and overwrites the
// event's rollup status and dispatch time. Prior attempt rows are never
// touched.
func (r *repository) AppendRound(ctx context.Context, eventID uuid.UUID, attempts []models.SosAttempt, status enums.SosStatus, dispatchedAt time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range attempts {
			if attempts[i].ID == uuid.Nil {
				attempts[i].ID = uuid.New()
			}
			attempts[i].EventID = eventID
		}
		if len(attempts) > 0 {
			if err := tx.Create(&attempts).Error; err != nil {
				return err
			}
		}
		return tx.Model(&models.SosEvent{}).
			Where("id = ?", eventID).
			Updates(map[string]any{
				"status":        status,
				"dispatched_at": dispatchedAt,
			}).Error
	})
}
