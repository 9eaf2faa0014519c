package sos

import (
	"math"
	"time"
)

// Admission is the gate decision for one trigger request.
type Admission struct {
	Allowed           bool
	RetryAfterSeconds int
}

// CheckAdmission decides whether a new trigger may start a dispatch round.
// force bypasses the cooldown entirely and a user with no prior event is
// always admitted. Pure function of its inputs; two callers racing through
// the read-then-decide window may both be admitted, which is an accepted
// limitation.
func CheckAdmission(now time.Time, lastEventAt *time.Time, cooldown time.Duration, force bool) Admission {
	if force || lastEventAt == nil {
		return Admission{Allowed: true}
	}

	elapsed := now.Sub(*lastEventAt)
	if elapsed >= cooldown {
		return Admission{Allowed: true}
	}

	wait := int(math.Ceil((cooldown - elapsed).Seconds()))
	return Admission{Allowed: false, RetryAfterSeconds: wait}
}
