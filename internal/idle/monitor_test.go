package idle

import (
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func testPolicy() Policy {
	return Policy{Timeout: 15 * time.Minute, WarningLead: 2 * time.Minute}
}

func TestPolicyState(t *testing.T) {
	policy := testPolicy()
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

	if got := policy.State(time.Time{}, now); got != StateActive {
		t.Fatalf("zero lastActivity: got state %v, want StateActive", got)
	}
	if got := policy.State(now.Add(-10*time.Minute), now); got != StateActive {
		t.Fatalf("10m idle: got state %v, want StateActive", got)
	}
	if got := policy.State(now.Add(-13*time.Minute), now); got != StateWarning {
		t.Fatalf("13m idle: got state %v, want StateWarning", got)
	}
	// Exactly at the timeout the session is still alive; expiry is strict.
	if got := policy.State(now.Add(-15*time.Minute), now); got != StateWarning {
		t.Fatalf("15m idle: got state %v, want StateWarning", got)
	}
	if got := policy.State(now.Add(-15*time.Minute-time.Second), now); got != StateExpired {
		t.Fatalf("15m1s idle: got state %v, want StateExpired", got)
	}
}

func TestPolicyRemaining(t *testing.T) {
	policy := testPolicy()
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

	if got := policy.Remaining(now.Add(-5*time.Minute), now); got != 10*time.Minute {
		t.Fatalf("got remaining %v, want 10m", got)
	}
	if got := policy.Remaining(now.Add(-20*time.Minute), now); got != 0 {
		t.Fatalf("past expiry: got remaining %v, want 0", got)
	}
}

// TestMonitorWarningOnce verifies the warning hook fires exactly once per
// idle cycle, at timeout minus the warning lead.
func TestMonitorWarningOnce(t *testing.T) {
	clock := newFakeClock()
	var warnings []time.Duration
	m := NewMonitor(testPolicy(), 30*time.Second, Hooks{
		OnWarning: func(remaining time.Duration) { warnings = append(warnings, remaining) },
	}, WithClock(clock))

	clock.Advance(12 * time.Minute)
	m.Check()
	if len(warnings) != 0 {
		t.Fatalf("warning fired at 12m idle, before the lead window")
	}

	clock.Advance(1 * time.Minute)
	m.Check()
	if len(warnings) != 1 {
		t.Fatalf("got %d warnings at 13m idle, want 1", len(warnings))
	}
	if warnings[0] != 2*time.Minute {
		t.Fatalf("warning remaining = %v, want 2m", warnings[0])
	}

	// Further checks inside the same cycle must not repeat the warning.
	clock.Advance(30 * time.Second)
	m.Check()
	m.Check()
	if len(warnings) != 1 {
		t.Fatalf("warning repeated within one idle cycle: %d", len(warnings))
	}
}

// TestMonitorTimeoutOnce verifies the timeout hook fires exactly once and
// that subsequent checks stay quiet until activity starts a new cycle.
func TestMonitorTimeoutOnce(t *testing.T) {
	clock := newFakeClock()
	var timeouts int
	m := NewMonitor(testPolicy(), 30*time.Second, Hooks{
		OnTimeout: func() { timeouts++ },
	}, WithClock(clock))

	clock.Advance(15 * time.Minute)
	m.Check()
	if timeouts != 1 {
		t.Fatalf("got %d timeouts at 15m idle, want 1", timeouts)
	}

	clock.Advance(5 * time.Minute)
	m.Check()
	m.Check()
	if timeouts != 1 {
		t.Fatalf("timeout repeated after firing: %d", timeouts)
	}

	m.Activity()
	clock.Advance(15 * time.Minute)
	m.Check()
	if timeouts != 2 {
		t.Fatalf("new idle cycle did not re-arm the timeout: %d", timeouts)
	}
}

// TestMonitorActivityResets verifies qualifying activity resets the idle
// clock and re-arms the warning.
func TestMonitorActivityResets(t *testing.T) {
	clock := newFakeClock()
	var warnings, timeouts int
	m := NewMonitor(testPolicy(), 30*time.Second, Hooks{
		OnWarning: func(time.Duration) { warnings++ },
		OnTimeout: func() { timeouts++ },
	}, WithClock(clock))

	clock.Advance(14 * time.Minute)
	m.Check()
	if warnings != 1 {
		t.Fatalf("got %d warnings, want 1", warnings)
	}

	m.ExtendSession()
	if got := m.IdleFor(); got != 0 {
		t.Fatalf("IdleFor after extend = %v, want 0", got)
	}

	clock.Advance(10 * time.Minute)
	m.Check()
	if warnings != 1 || timeouts != 0 {
		t.Fatalf("monitor fired after reset: warnings=%d timeouts=%d", warnings, timeouts)
	}

	clock.Advance(4 * time.Minute)
	m.Check()
	if warnings != 2 {
		t.Fatalf("warning not re-armed after reset: %d", warnings)
	}
}

// TestMonitorLoop drives the poll loop through an injected tick source and
// checks that Stop tears it down.
func TestMonitorLoop(t *testing.T) {
	clock := newFakeClock()
	ticks := make(chan time.Time)
	timedOut := make(chan struct{}, 1)
	m := NewMonitor(testPolicy(), 30*time.Second, Hooks{
		OnTimeout: func() { timedOut <- struct{}{} },
	}, WithClock(clock), WithTickSource(ticks))

	m.Start()
	defer m.Stop()

	clock.Advance(16 * time.Minute)
	ticks <- clock.Now()

	select {
	case <-timedOut:
	case <-time.After(2 * time.Second):
		t.Fatalf("timeout hook did not fire from the poll loop")
	}

	m.Stop()
	// After Stop the loop must no longer consume ticks.
	select {
	case ticks <- clock.Now():
		t.Fatalf("poll loop still consuming ticks after Stop")
	default:
	}
}

// TestMonitorStopWithoutStart verifies Stop is safe when the loop was never
// launched.
func TestMonitorStopWithoutStart(t *testing.T) {
	m := NewMonitor(testPolicy(), 30*time.Second, Hooks{})
	m.Stop()
	m.Stop()
}

// TestMonitorLogoutGrace verifies the logout hook fires after the grace
// delay following the timeout notice.
func TestMonitorLogoutGrace(t *testing.T) {
	clock := newFakeClock()
	timedOut := make(chan struct{}, 1)
	loggedOut := make(chan struct{}, 1)
	m := NewMonitor(testPolicy(), 30*time.Second, Hooks{
		OnTimeout: func() { timedOut <- struct{}{} },
		OnLogout:  func() { loggedOut <- struct{}{} },
	}, WithClock(clock), WithLogoutGrace(10*time.Millisecond))
	defer m.Stop()

	clock.Advance(16 * time.Minute)
	m.Check()

	select {
	case <-timedOut:
	default:
		t.Fatalf("timeout notice did not fire")
	}
	select {
	case <-loggedOut:
		t.Fatalf("logout fired before the grace elapsed")
	default:
	}
	select {
	case <-loggedOut:
	case <-time.After(2 * time.Second):
		t.Fatalf("logout did not fire after the grace")
	}
}

// TestMonitorLogoutCancelledByActivity verifies activity inside the grace
// window cancels the pending logout.
func TestMonitorLogoutCancelledByActivity(t *testing.T) {
	clock := newFakeClock()
	var loggedOut int
	m := NewMonitor(testPolicy(), 30*time.Second, Hooks{
		OnLogout: func() { loggedOut++ },
	}, WithClock(clock), WithLogoutGrace(50*time.Millisecond))
	defer m.Stop()

	clock.Advance(16 * time.Minute)
	m.Check()
	m.ExtendSession()

	time.Sleep(150 * time.Millisecond)
	if loggedOut != 0 {
		t.Fatalf("logout fired despite activity inside the grace: %d", loggedOut)
	}
}
