package sos

import (
	"time"

	"github.com/nurlan2209/undeme/pkg/db/models"
)

// LocationInput is the caller-supplied device position.
type LocationInput struct {
	Latitude   float64    `json:"latitude" validate:"min=-90,max=90"`
	Longitude  float64    `json:"longitude" validate:"min=-180,max=180"`
	Accuracy   *float64   `json:"accuracy,omitempty" validate:"omitempty,gte=0,lte=5000"`
	Provider   *string    `json:"provider,omitempty" validate:"omitempty,max=50"`
	CapturedAt *time.Time `json:"capturedAt,omitempty"`
}

// TriggerInput is the inbound trigger request body.
type TriggerInput struct {
	Reason   string        `json:"reason" validate:"max=500"`
	Location LocationInput `json:"location" validate:"required"`
	Force    bool          `json:"force"`
}

// AttemptDTO is one channel outcome as exposed to clients.
type AttemptDTO struct {
	Channel string    `json:"channel"`
	Success bool      `json:"success"`
	Error   *string   `json:"error"`
	At      time.Time `json:"at"`
}

// LocationDTO mirrors the stored alert position.
type LocationDTO struct {
	Latitude   float64    `json:"latitude"`
	Longitude  float64    `json:"longitude"`
	Accuracy   *float64   `json:"accuracy,omitempty"`
	Provider   *string    `json:"provider,omitempty"`
	CapturedAt *time.Time `json:"capturedAt,omitempty"`
}

// EventDTO is the alert snapshot returned from trigger, retry and history.
type EventDTO struct {
	EventID         string       `json:"eventId"`
	Status          string       `json:"status"`
	Reason          *string      `json:"reason,omitempty"`
	Location        LocationDTO  `json:"location"`
	RecipientsCount int          `json:"recipientsCount"`
	Attempts        []AttemptDTO `json:"attempts"`
	DispatchedAt    *time.Time   `json:"dispatchedAt"`
	CreatedAt       time.Time    `json:"createdAt"`
}

func attemptToDTO(attempt models.SosAttempt) AttemptDTO {
	return AttemptDTO{
		Channel: attempt.Channel.String(),
		Success: attempt.Success,
		Error:   attempt.Error,
		At:      attempt.At,
	}
}

func eventToDTO(event models.SosEvent) EventDTO {
	attempts := make([]AttemptDTO, 0, len(event.Attempts))
	for _, attempt := range event.Attempts {
		attempts = append(attempts, attemptToDTO(attempt))
	}
	return EventDTO{
		EventID: event.ID.String(),
		Status:  event.Status.String(),
		Reason:  event.Reason,
		Location: LocationDTO{
			Latitude:   event.Location.Latitude,
			Longitude:  event.Location.Longitude,
			Accuracy:   event.Location.Accuracy,
			Provider:   event.Location.Provider,
			CapturedAt: event.Location.CapturedAt,
		},
		RecipientsCount: event.RecipientsCount,
		Attempts:        attempts,
		DispatchedAt:    event.DispatchedAt,
		CreatedAt:       event.CreatedAt,
	}
}
