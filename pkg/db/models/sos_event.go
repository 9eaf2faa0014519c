package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/nurlan2209/undeme/pkg/enums"
)

// SosEvent is one triggered alert together with its dispatch state.
type SosEvent struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	Reason          *string         `gorm:"type:text"`
	Status          enums.SosStatus `gorm:"type:text;not null;default:'queued';index"`
	Location        Location        `gorm:"embedded;embeddedPrefix:location_"`
	RecipientsCount int             `gorm:"column:recipients_count;not null;default:0"`
	DispatchedAt    *time.Time      `gorm:"column:dispatched_at"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`

	Attempts []SosAttempt `gorm:"foreignKey:EventID"`
}

// Location is the device position captured when the alert fired.
type Location struct {
	Latitude   float64    `gorm:"column:latitude;not null"`
	Longitude  float64    `gorm:"column:longitude;not null"`
	Accuracy   *float64   `gorm:"column:accuracy"`
	Provider   *string    `gorm:"type:text"`
	CapturedAt *time.Time `gorm:"column:captured_at"`
}
