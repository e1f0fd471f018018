package middlewares

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/ngocbd/coopfarm/internal/audit"
	"github.com/ngocbd/coopfarm/internal/middlewares/sessions"
	"github.com/ngocbd/coopfarm/model"
)

// RequestContext captures the request fields attached to audit events.
func RequestContext(ctx *fiber.Ctx) audit.RequestContext {
	return audit.RequestContext{
		URL:       ctx.OriginalURL(),
		IP:        ctx.IP(),
		UserAgent: ctx.Get(fiber.HeaderUserAgent),
	}
}

// RequireAuth rejects anonymous requests to protected routes with the
// unauthenticated contract and records the attempt.
func RequireAuth() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		sess := sessions.Get(ctx)
		if sess.IsAuthenticated() {
			return ctx.Next()
		}
		reqCtx := RequestContext(ctx)
		if referer := ctx.Get(fiber.HeaderReferer); referer != "" {
			reqCtx.URL = fmt.Sprintf("%s (referer: %s)", reqCtx.URL, referer)
		}
		audit.RecordUnauthorized(ctx.Context(), reqCtx)
		return ErrUnauthenticated
	}
}

// RequireRole rejects authenticated requests below the given role rank and
// records the attempt with the acting user id.
func RequireRole(role string) fiber.Handler {
	minRank := model.RoleRank(role)
	return func(ctx *fiber.Ctx) error {
		sess := sessions.Get(ctx)
		if !sess.IsAuthenticated() {
			audit.RecordUnauthorized(ctx.Context(), RequestContext(ctx))
			return ErrUnauthenticated
		}
		if model.RoleRank(sess.Role) < minRank {
			audit.RecordForbidden(ctx.Context(), sess.UserID, RequestContext(ctx))
			return ErrForbidden
		}
		return ctx.Next()
	}
}
