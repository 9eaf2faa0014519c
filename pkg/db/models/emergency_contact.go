package models

import (
	"time"

	"github.com/google/uuid"
)

// EmergencyContact is a person notified during an SOS dispatch.
type EmergencyContact struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Name      string    `gorm:"type:text;not null"`
	Phone     string    `gorm:"type:text;not null"`
	Relation  *string   `gorm:"type:text"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
