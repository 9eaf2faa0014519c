package models

import (
	"time"

	"github.com/google/uuid"

	dbtypes "github.com/nurlan2209/undeme/pkg/db/types"
	"github.com/nurlan2209/undeme/pkg/enums"
)

// AiChatLog records one assistant exchange for audit and history replay.
type AiChatLog struct {
	ID              uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID          uuid.UUID           `gorm:"type:uuid;not null;index"`
	Message         string              `gorm:"type:text;not null"`
	Context         enums.ChatContext   `gorm:"type:text;not null;default:'general'"`
	Response        string              `gorm:"type:text;not null"`
	Model           *string             `gorm:"type:text"`
	UsedFallback    bool                `gorm:"column:used_fallback;not null;default:false"`
	SafetyFlags     dbtypes.StringList  `gorm:"type:text;column:safety_flags"`
	DisclaimerShown bool                `gorm:"column:disclaimer_shown;not null;default:true"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
}
