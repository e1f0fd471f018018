package idle

import "time"

// State of a session with respect to the inactivity policy.
type State int

const (
	StateActive  State = iota // within the timeout window
	StateWarning              // inside the warning lead, not yet expired
	StateExpired              // idle longer than the timeout
)

// Clock abstracts wall-clock time so idle checks can be driven by a fake
// clock in tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func SystemClock() Clock { return systemClock{} }

// Policy holds the inactivity thresholds shared by the server-side timeout
// evaluator, the session sweeper and the client idle monitor. The sliding
// window is authoritative on both sides only through these two values.
type Policy struct {
	Timeout     time.Duration // inactivity duration after which the session expires
	WarningLead time.Duration // how long before expiry the warning state begins
}

// State classifies the elapsed idle time. A zero lastActivity is treated as
// fresh activity so brand-new sessions never start expired.
func (p Policy) State(lastActivity, now time.Time) State {
	if lastActivity.IsZero() {
		return StateActive
	}
	idle := now.Sub(lastActivity)
	switch {
	case idle > p.Timeout:
		return StateExpired
	case idle >= p.Timeout-p.WarningLead:
		return StateWarning
	default:
		return StateActive
	}
}

// Remaining returns the time left until expiry, never negative.
func (p Policy) Remaining(lastActivity, now time.Time) time.Duration {
	remaining := p.Timeout - now.Sub(lastActivity)
	if remaining < 0 {
		return 0
	}
	return remaining
}
