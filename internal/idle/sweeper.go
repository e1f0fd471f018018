package idle

import (
	"context"
	"log/slog"
	"time"

	"github.com/ngocbd/coopfarm/internal/audit"
	"github.com/ngocbd/coopfarm/model"
)

const sweepBatchSize = 200

// SessionReaper is the slice of the login-session store the sweeper needs.
type SessionReaper interface {
	FindExpired(ctx context.Context, cutoff time.Time, limit int) ([]*model.LoginSession, error)
	Deactivate(ctx context.Context, userID uint, token string, at time.Time) error
}

// Sweeper deactivates login session records whose owner never came back: the
// request-path timeout evaluator only runs when a request arrives, so without
// the sweeper an abandoned session would stay active in the table forever.
// Deactivation is idempotent, so racing the evaluator (or a client-initiated
// logout) is harmless.
type Sweeper struct {
	policy   Policy
	interval time.Duration
	clock    Clock
	sessions SessionReaper
}

func NewSweeper(policy Policy, interval time.Duration, sessions SessionReaper) *Sweeper {
	return &Sweeper{
		policy:   policy,
		interval: interval,
		clock:    SystemClock(),
		sessions: sessions,
	}
}

// Run sweeps until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.SweepOnce(ctx)
		}
	}
}

// SweepOnce deactivates every active session idle longer than the timeout and
// records a session_timeout audit event for each.
func (s *Sweeper) SweepOnce(ctx context.Context) int {
	now := s.clock.Now()
	cutoff := now.Add(-s.policy.Timeout)
	expired, err := s.sessions.FindExpired(ctx, cutoff, sweepBatchSize)
	if err != nil {
		slog.Warn("Session sweep query failed", "error", err)
		return 0
	}

	swept := 0
	for _, sess := range expired {
		if err := s.sessions.Deactivate(ctx, sess.UserID, sess.Token, now); err != nil {
			slog.Warn("Could not deactivate expired session", "user", sess.UserID, "error", err)
			continue
		}
		audit.RecordSessionTimeout(ctx, sess.UserID, audit.RequestContext{
			IP:        sess.IP,
			UserAgent: sess.DeviceInfo,
		})
		swept++
	}
	return swept
}
