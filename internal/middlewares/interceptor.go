package middlewares

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/ngocbd/coopfarm/internal/audit"
	"github.com/ngocbd/coopfarm/internal/middlewares/sessions"
)

// isTerminalOutcome reports whether the error belongs to the expected-terminal
// taxonomy. Those paths record their own dedicated audit events, so the
// interceptor leaves them alone instead of double-logging an http_error.
func isTerminalOutcome(err error) bool {
	return errors.Is(err, ErrSessionExpired) ||
		errors.Is(err, ErrUnauthenticated) ||
		errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrAccessDenied)
}

// DiagnosticsInterceptor observes outgoing responses and records an
// http_error audit event for every response with status >= 400. Purely
// observational: the response and the error, if any, pass through untouched.
func DiagnosticsInterceptor() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()

		status := ctx.Response().StatusCode()
		if err != nil {
			if isTerminalOutcome(err) {
				return err
			}
			status = fiber.StatusInternalServerError
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				status = fiberErr.Code
			}
		}
		if status < fiber.StatusBadRequest {
			return err
		}

		var userID uint
		if sess := sessions.Peek(ctx); sess != nil {
			userID = sess.UserID
		}
		audit.RecordHTTPError(ctx.Context(), userID, status, ctx.Method(), RequestContext(ctx))
		return err
	}
}
