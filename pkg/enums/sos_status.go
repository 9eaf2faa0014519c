package enums

import "fmt"

// SosStatus tracks the delivery state of an SOS event across dispatch rounds.
type SosStatus string

const (
	SosStatusQueued        SosStatus = "queued"
	SosStatusSent          SosStatus = "sent"
	SosStatusPartiallySent SosStatus = "partially_sent"
	SosStatusFailed        SosStatus = "failed"
)

var validSosStatuses = []SosStatus{
	SosStatusQueued,
	SosStatusSent,
	SosStatusPartiallySent,
	SosStatusFailed,
}

// String implements fmt.Stringer.
func (s SosStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SosStatus.
func (s SosStatus) IsValid() bool {
	for _, candidate := range validSosStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSosStatus converts raw input into a SosStatus.
func ParseSosStatus(value string) (SosStatus, error) {
	for _, candidate := range validSosStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid sos status %q", value)
}
