package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents the canonical identity entity.
type User struct {
	ID           uuid.UUID    `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string       `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string       `gorm:"column:password_hash;not null"`
	FullName     string       `gorm:"column:full_name;not null"`
	Phone        string       `gorm:"column:phone;not null"`
	Settings     UserSettings `gorm:"embedded;embeddedPrefix:settings_"`
	IsDeleted    bool         `gorm:"column:is_deleted;not null;default:false;index"`
	DeletedAt    *time.Time   `gorm:"column:deleted_at"`
	LastLoginAt  *time.Time   `gorm:"column:last_login_at"`
	CreatedAt    time.Time    `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time    `gorm:"column:updated_at;autoUpdateTime"`

	EmergencyContacts []EmergencyContact `gorm:"foreignKey:UserID"`
}

// UserSettings carries per-user app preferences flattened into the users table.
type UserSettings struct {
	SosVibration           bool `gorm:"column:sos_vibration;not null;default:true"`
	AutoLocation           bool `gorm:"column:auto_location;not null;default:true"`
	EmergencyNotifications bool `gorm:"column:emergency_notifications;not null;default:true"`
	SoundAlerts            bool `gorm:"column:sound_alerts;not null;default:false"`
}
