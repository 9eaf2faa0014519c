// Package notify implements the delivery channels used by SOS dispatch.
package notify

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nurlan2209/undeme/pkg/enums"
)

// Recipient is one emergency contact targeted by the fan-out.
type Recipient struct {
	Name  string
	Phone string
}

// Alert is the structured payload handed to every channel sender for one
// dispatch round. Message holds the rendered human-readable body shared
// verbatim by all channels.
type Alert struct {
	EventID    uuid.UUID
	UserID     uuid.UUID
	FullName   string
	Phone      string
	Reason     string
	Latitude   float64
	Longitude  float64
	OccurredAt time.Time
	Recipients []Recipient
	Message    string
}

// Outcome is the result of one channel's delivery attempt within a round.
// Error may be non-empty alongside Success=true when only some recipients
// could be reached.
type Outcome struct {
	Channel enums.Channel
	Success bool
	Error   string
}

// Sender delivers one alert over a single channel. Implementations never
// return a Go error: every failure is folded into the Outcome so one broken
// channel cannot abort the round.
type Sender interface {
	Channel() enums.Channel
	Send(ctx context.Context, alert Alert) Outcome
}

func successOutcome(channel enums.Channel) Outcome {
	return Outcome{Channel: channel, Success: true}
}

func failureOutcome(channel enums.Channel, detail string) Outcome {
	return Outcome{Channel: channel, Success: false, Error: detail}
}
