package idle

import (
	"sync"
	"time"

	"github.com/ngocbd/coopfarm/params"
)

// Hooks are the monitor's outbound notifications. OnWarning fires once per
// idle cycle when the remaining time drops inside the warning lead; OnTimeout
// fires once per idle cycle when the session has been idle for the full
// timeout and is where the consumer shows its notice. OnLogout fires the
// logout grace after OnTimeout and is where the logout request goes; the
// server side may have expired the session already, so that call must
// tolerate an already deactivated session. Activity within the grace cancels
// the pending OnLogout.
type Hooks struct {
	OnWarning func(remaining time.Duration)
	OnTimeout func()
	OnLogout  func()
}

// Monitor tracks user idle time independently of server round-trips. It is an
// explicit poll loop: a tick source drives periodic checks, qualifying
// activity resets the idle clock via Activity, and Stop tears the loop down.
type Monitor struct {
	policy        Policy
	checkInterval time.Duration
	clock         Clock
	ticks         <-chan time.Time // injected tick source; nil means real ticker
	hooks         Hooks

	mu           sync.Mutex
	lastActivity time.Time
	warningShown bool
	timedOut     bool
	logoutGrace  time.Duration
	logoutTimer  *time.Timer

	startOnce sync.Once
	stopOnce  sync.Once
	started   bool
	stopCh    chan struct{}
	doneCh    chan struct{}
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithClock replaces the wall clock, for tests.
func WithClock(clock Clock) Option {
	return func(m *Monitor) { m.clock = clock }
}

// WithTickSource replaces the internal ticker with an external channel, so
// tests can drive checks without real timers.
func WithTickSource(ticks <-chan time.Time) Option {
	return func(m *Monitor) { m.ticks = ticks }
}

// WithLogoutGrace overrides the delay between OnTimeout and OnLogout.
func WithLogoutGrace(grace time.Duration) Option {
	return func(m *Monitor) { m.logoutGrace = grace }
}

func NewMonitor(policy Policy, checkInterval time.Duration, hooks Hooks, opts ...Option) *Monitor {
	m := &Monitor{
		policy:        policy,
		checkInterval: checkInterval,
		clock:         SystemClock(),
		hooks:         hooks,
		logoutGrace:   params.SessionLogoutGrace,
		stopCh:        make(chan struct{}),
		doneCh:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.lastActivity = m.clock.Now()
	return m
}

// Start launches the poll loop. It returns immediately; use Stop to tear the
// loop down. Calling Start more than once is a no-op.
func (m *Monitor) Start() {
	m.startOnce.Do(func() {
		m.started = true
		go m.loop()
	})
}

// Stop cancels the poll loop, any pending logout timer and releases the
// ticker. Safe to call multiple times and required on teardown so timers do
// not leak.
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopCh)
	})
	m.mu.Lock()
	if m.logoutTimer != nil {
		m.logoutTimer.Stop()
		m.logoutTimer = nil
	}
	m.mu.Unlock()
	if m.started {
		<-m.doneCh
	}
}

func (m *Monitor) loop() {
	defer close(m.doneCh)

	ticks := m.ticks
	if ticks == nil {
		ticker := time.NewTicker(m.checkInterval)
		defer ticker.Stop()
		ticks = ticker.C
	}

	for {
		select {
		case <-m.stopCh:
			return
		case <-ticks:
			m.Check()
		}
	}
}

// Activity resets the idle clock and clears the warning state, beginning a
// new idle cycle. Wire it to every qualifying user interaction. Activity
// inside the logout grace cancels the pending logout.
func (m *Monitor) Activity() {
	m.mu.Lock()
	m.lastActivity = m.clock.Now()
	m.warningShown = false
	m.timedOut = false
	if m.logoutTimer != nil {
		m.logoutTimer.Stop()
		m.logoutTimer = nil
	}
	m.mu.Unlock()
}

// ExtendSession is the explicit "stay logged in" entry point. It is the same
// reset the activity listeners perform.
func (m *Monitor) ExtendSession() {
	m.Activity()
}

// Check evaluates the idle state immediately, outside the tick schedule.
// Call it when the tab regains visibility: a backgrounded timer may have
// missed an arbitrarily long idle gap.
func (m *Monitor) Check() {
	m.mu.Lock()
	if m.timedOut {
		m.mu.Unlock()
		return
	}

	now := m.clock.Now()
	remaining := m.policy.Remaining(m.lastActivity, now)

	var fireWarning, fireTimeout bool
	switch {
	case remaining <= 0:
		m.timedOut = true
		fireTimeout = true
	case remaining <= m.policy.WarningLead:
		if !m.warningShown {
			m.warningShown = true
			fireWarning = true
		}
	}
	m.mu.Unlock()

	// Hooks run outside the lock so they may call Activity/ExtendSession.
	if fireWarning && m.hooks.OnWarning != nil {
		m.hooks.OnWarning(remaining)
	}
	if fireTimeout {
		if m.hooks.OnTimeout != nil {
			m.hooks.OnTimeout()
		}
		if m.hooks.OnLogout != nil {
			m.mu.Lock()
			// Still timed out: the OnTimeout hook may have extended the session.
			if m.timedOut {
				m.logoutTimer = time.AfterFunc(m.logoutGrace, m.hooks.OnLogout)
			}
			m.mu.Unlock()
		}
	}
}

// IdleFor reports how long the monitor has currently been without activity.
func (m *Monitor) IdleFor() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clock.Now().Sub(m.lastActivity)
}
