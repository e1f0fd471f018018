package middlewares

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/ngocbd/coopfarm/internal/audit"
	"github.com/ngocbd/coopfarm/internal/idle"
	"github.com/ngocbd/coopfarm/internal/middlewares/sessions"
)

// ActivityRecorder is the slice of the account service the timeout evaluator
// writes through. All three operations are best effort.
type ActivityRecorder interface {
	TouchUser(ctx context.Context, userID uint, at time.Time) error
	TouchSession(ctx context.Context, userID uint, token string, at time.Time) error
	EndSession(ctx context.Context, userID uint, token string, at time.Time) error
}

// TimeoutConfig configures the timeout evaluator.
type TimeoutConfig struct {
	Policy      idle.Policy
	WriteWindow time.Duration // minimum gap between persisted activity writes
	Clock       idle.Clock
	Accounts    ActivityRecorder
}

// EnforceTimeout gates every authenticated request on the session's sliding
// inactivity window. An expired session is audited, its persisted record
// deactivated and the session bag destroyed before the request reaches any
// business logic; an alive request always refreshes the window and, at most
// once per write window, persists the user's and the session record's
// last-activity columns through two independent throttle markers.
func EnforceTimeout(config TimeoutConfig) fiber.Handler {
	if config.Clock == nil {
		config.Clock = idle.SystemClock()
	}
	return func(ctx *fiber.Ctx) error {
		sess := sessions.Get(ctx)
		if !sess.IsAuthenticated() {
			return ctx.Next()
		}

		now := config.Clock.Now()
		data := sess.SessionData

		// A missing marker means request #1 of this session: never expire it.
		if !data.LastActivity.IsZero() && now.Sub(data.LastActivity) > config.Policy.Timeout {
			reqCtx := RequestContext(ctx)
			audit.RecordSessionTimeout(ctx.Context(), data.UserID, reqCtx)
			if err := config.Accounts.EndSession(ctx.Context(), data.UserID, data.Token, now); err != nil {
				slog.Warn("Could not deactivate expired session", "user", data.UserID, "error", err)
			}
			if err := sess.Destroy(); err != nil {
				slog.Warn("Could not destroy expired session", "user", data.UserID, "error", err)
			}
			return ErrSessionExpired
		}

		// Sliding window: every alive request refreshes the marker, whether or
		// not it triggers a persisted write below.
		data.LastActivity = now

		if data.LastUserUpdate.IsZero() || now.Sub(data.LastUserUpdate) >= config.WriteWindow {
			if err := config.Accounts.TouchUser(ctx.Context(), data.UserID, now); err != nil {
				slog.Warn("Could not persist user activity", "user", data.UserID, "error", err)
			}
			data.LastUserUpdate = now
		}
		if data.LastSessionUpdate.IsZero() || now.Sub(data.LastSessionUpdate) >= config.WriteWindow {
			if err := config.Accounts.TouchSession(ctx.Context(), data.UserID, data.Token, now); err != nil {
				slog.Warn("Could not persist session activity", "user", data.UserID, "error", err)
			}
			data.LastSessionUpdate = now
		}

		sess.Save(data)
		return ctx.Next()
	}
}
