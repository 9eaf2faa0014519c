package sos

import (
	"fmt"
	"strings"
	"time"
)

const messageHeader = "[SOS ALERT]"

// RenderMessage builds the human-readable alert body. The same text is
// shared verbatim by every delivery channel in a round.
func RenderMessage(fullName, phone string, latitude, longitude float64, reason string, at time.Time) string {
	var b strings.Builder
	b.WriteString(messageHeader)
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s needs help.\n", fullName)
	fmt.Fprintf(&b, "Phone: %s\n", phone)
	fmt.Fprintf(&b, "Location: https://maps.google.com/?q=%.6f,%.6f\n", latitude, longitude)
	if reason != "" {
		fmt.Fprintf(&b, "Reason: %s\n", reason)
	}
	fmt.Fprintf(&b, "Time: %s", at.UTC().Format(time.RFC3339))
	return b.String()
}
