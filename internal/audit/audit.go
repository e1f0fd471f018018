package audit

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ngocbd/coopfarm/model"
)

var auditRepo AuditEventRepository
var initOnce sync.Once

func Initialize(repo AuditEventRepository) {
	initOnce.Do(func() {
		auditRepo = repo
	})
}

const (
	EventTypeLogin          = "login"
	EventTypeLogout         = "logout"
	EventTypeSessionTimeout = "session_timeout"
	EventTypeUnauthorized   = "unauthorized_access"
	EventTypeForbidden      = "forbidden_access"
	EventTypeHTTPError      = "http_error"
	EventTypeSlowQuery      = "slow_query"
)

// RequestContext is the request-scoped information attached to every event.
type RequestContext struct {
	URL       string
	IP        string
	UserAgent string
}

// Record appends an audit event. Logging is best effort: a write failure is
// reported on the diagnostic log and never propagated to the caller, so the
// triggering request succeeds or fails independently of the audit trail.
func Record(ctx context.Context, eventType string, userID uint, description string, reqCtx RequestContext) {
	if auditRepo == nil {
		return
	}
	event := &model.AuditEvent{
		UserID:      userID,
		EventType:   eventType,
		Description: description,
		URL:         reqCtx.URL,
		IP:          reqCtx.IP,
		UserAgent:   reqCtx.UserAgent,
	}
	if err := auditRepo.RecordEvent(ctx, event); err != nil {
		slog.Warn("Could not record audit event", "type", eventType, "user", userID, "error", err)
	}
}

func RecordLogin(ctx context.Context, userID uint, username string, reqCtx RequestContext) {
	Record(ctx, EventTypeLogin, userID, fmt.Sprintf("User %s logged in", username), reqCtx)
}

func RecordLogout(ctx context.Context, userID uint, reqCtx RequestContext) {
	Record(ctx, EventTypeLogout, userID, "User logged out", reqCtx)
}

func RecordSessionTimeout(ctx context.Context, userID uint, reqCtx RequestContext) {
	Record(ctx, EventTypeSessionTimeout, userID, "Session expired due to inactivity", reqCtx)
}

func RecordUnauthorized(ctx context.Context, reqCtx RequestContext) {
	Record(ctx, EventTypeUnauthorized, 0, "Unauthenticated access to protected resource", reqCtx)
}

func RecordForbidden(ctx context.Context, userID uint, reqCtx RequestContext) {
	Record(ctx, EventTypeForbidden, userID, "Access denied by role policy", reqCtx)
}

func RecordHTTPError(ctx context.Context, userID uint, status int, method string, reqCtx RequestContext) {
	Record(ctx, EventTypeHTTPError, userID, fmt.Sprintf("HTTP %d on %s", status, method), reqCtx)
}

func RecordSlowQuery(ctx context.Context, sql string, elapsed time.Duration) {
	Record(ctx, EventTypeSlowQuery, 0, fmt.Sprintf("Slow query (%s): %s", elapsed, sql), RequestContext{})
}
