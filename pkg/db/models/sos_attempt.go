package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/nurlan2209/undeme/pkg/enums"
)

// SosAttempt is one per-channel delivery record inside a dispatch round.
// Rows are append-only: retries add new rows and never rewrite old ones.
type SosAttempt struct {
	ID        uuid.UUID     `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	EventID   uuid.UUID     `gorm:"type:uuid;not null;index"`
	Channel   enums.Channel `gorm:"type:text;not null"`
	Success   bool          `gorm:"column:success;not null"`
	Error     *string       `gorm:"type:text"`
	At        time.Time     `gorm:"column:at;not null"`
	CreatedAt time.Time     `gorm:"column:created_at;autoCreateTime"`
}
