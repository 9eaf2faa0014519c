package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/nurlan2209/undeme/pkg/db/models"
)

// UserDTO is the transport shape that omits credentials.
type UserDTO struct {
	ID          uuid.UUID    `json:"id"`
	Email       string       `json:"email"`
	FullName    string       `json:"fullName"`
	Phone       string       `json:"phone"`
	Settings    SettingsDTO  `json:"settings"`
	Contacts    []ContactDTO `json:"contacts"`
	LastLoginAt *time.Time   `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// SettingsDTO mirrors the per-user app preferences.
type SettingsDTO struct {
	SosVibration           bool `json:"sosVibration"`
	AutoLocation           bool `json:"autoLocation"`
	EmergencyNotifications bool `json:"emergencyNotifications"`
	SoundAlerts            bool `json:"soundAlerts"`
}

// ContactDTO is one emergency contact entry.
type ContactDTO struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Phone    string    `json:"phone"`
	Relation *string   `json:"relation,omitempty"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Email        string
	PasswordHash string
	FullName     string
	Phone        string
}

// UpdateProfileInput carries the mutable profile fields.
type UpdateProfileInput struct {
	FullName *string      `json:"fullName" validate:"omitempty,min=1,max=120"`
	Phone    *string      `json:"phone" validate:"omitempty,min=5,max=32"`
	Settings *SettingsDTO `json:"settings"`
}

// DeleteAccountInput confirms account deletion with the current password.
type DeleteAccountInput struct {
	Password string `json:"password" validate:"required"`
}

// ContactInput is the create/update body for one emergency contact.
type ContactInput struct {
	Name     string  `json:"name" validate:"required,max=120"`
	Phone    string  `json:"phone" validate:"required,min=5,max=32"`
	Relation *string `json:"relation" validate:"omitempty,max=60"`
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	contacts := make([]ContactDTO, 0, len(u.EmergencyContacts))
	for _, contact := range u.EmergencyContacts {
		contacts = append(contacts, ContactFromModel(contact))
	}

	return &UserDTO{
		ID:       u.ID,
		Email:    u.Email,
		FullName: u.FullName,
		Phone:    u.Phone,
		Settings: SettingsDTO{
			SosVibration:           u.Settings.SosVibration,
			AutoLocation:           u.Settings.AutoLocation,
			EmergencyNotifications: u.Settings.EmergencyNotifications,
			SoundAlerts:            u.Settings.SoundAlerts,
		},
		Contacts:    contacts,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// ContactFromModel converts one stored contact row.
func ContactFromModel(c models.EmergencyContact) ContactDTO {
	return ContactDTO{
		ID:       c.ID,
		Name:     c.Name,
		Phone:    c.Phone,
		Relation: c.Relation,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	return &models.User{
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
		FullName:     c.FullName,
		Phone:        c.Phone,
		Settings: models.UserSettings{
			SosVibration:           true,
			AutoLocation:           true,
			EmergencyNotifications: true,
		},
	}
}
