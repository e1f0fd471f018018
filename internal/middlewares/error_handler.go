package middlewares

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/ngocbd/coopfarm/internal/render"
)

// APIResponse is the envelope every JSON consumer receives: a success flag
// plus a stable code for programmatic branching.
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Code    string      `json:"code,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

const (
	CodeSessionExpired   = "SESSION_EXPIRED"
	CodeUnauthenticated  = "UNAUTHENTICATED"
	CodeForbidden        = "FORBIDDEN"
	CodeAccessDenied     = "ACCESS_DENIED"
	CodeLoginFailed      = "LOGIN_FAILED"
	CodeBadRequest       = "BAD_REQUEST"
	CodeNotFound         = "NOT_FOUND"
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	CodeInternal         = "INTERNAL"
)

// codeForStatus maps non-taxonomy HTTP failures onto stable codes so JSON
// consumers can always branch on the code field.
func codeForStatus(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return CodeBadRequest
	case fiber.StatusNotFound:
		return CodeNotFound
	case fiber.StatusMethodNotAllowed:
		return CodeMethodNotAllowed
	case fiber.StatusUnauthorized:
		return CodeUnauthenticated
	case fiber.StatusForbidden:
		return CodeForbidden
	default:
		return CodeInternal
	}
}

const (
	msgSessionExpired  = "Session expired. Please login again."
	msgUnauthenticated = "Unauthenticated. Please login to continue."
	msgForbidden       = "You do not have permission to perform this action."
	msgAccessDenied    = "Access denied."
)

// WantsJSON reports whether the client negotiated the JSON contract: API
// routes, XHR requests and explicit Accept headers all qualify.
func WantsJSON(ctx *fiber.Ctx) bool {
	if strings.HasPrefix(ctx.Path(), "/api/") {
		return true
	}
	if ctx.Get("X-Requested-With") == "XMLHttpRequest" {
		return true
	}
	return strings.Contains(ctx.Get(fiber.HeaderAccept), fiber.MIMEApplicationJSON)
}

func failJSON(ctx *fiber.Ctx, status int, message, code string) error {
	return ctx.Status(status).JSON(APIResponse{
		Success: false,
		Message: message,
		Code:    code,
	})
}

// ErrorHandler is the single dispatch point mapping terminal outcomes to
// their response contracts. JSON clients get a success flag and a stable
// code; browser clients get redirects or rendered pages, never raw codes.
func ErrorHandler(ctx *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrSessionExpired):
		if WantsJSON(ctx) {
			return failJSON(ctx, fiber.StatusUnauthorized, msgSessionExpired, CodeSessionExpired)
		}
		return ctx.Redirect("/login?msg=session_expired")
	case errors.Is(err, ErrUnauthenticated):
		if WantsJSON(ctx) {
			return failJSON(ctx, fiber.StatusUnauthorized, msgUnauthenticated, CodeUnauthenticated)
		}
		return render.RenderUnauthorizedPage(ctx, fiber.StatusUnauthorized)
	case errors.Is(err, ErrForbidden):
		if WantsJSON(ctx) {
			return failJSON(ctx, fiber.StatusForbidden, msgForbidden, CodeForbidden)
		}
		return render.RenderUnauthorizedPage(ctx, fiber.StatusForbidden)
	case errors.Is(err, ErrAccessDenied):
		if WantsJSON(ctx) {
			return failJSON(ctx, fiber.StatusForbidden, msgAccessDenied, CodeAccessDenied)
		}
		return render.RenderUnauthorizedPage(ctx, fiber.StatusForbidden)
	}

	code := fiber.StatusInternalServerError
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
	}
	if WantsJSON(ctx) {
		if code == fiber.StatusInternalServerError {
			slog.Error("unhandled error", "path", ctx.Path(), "error", err)
			return failJSON(ctx, code, "Internal server error.", CodeInternal)
		}
		return failJSON(ctx, code, fiberErr.Message, codeForStatus(code))
	}
	switch code {
	case fiber.StatusBadRequest:
		return render.RenderBadRequestErrorPage(ctx)
	case fiber.StatusNotFound, fiber.StatusMethodNotAllowed:
		return render.RenderNotFoundErrorPage(ctx)
	default:
		slog.Error("unhandled error", "path", ctx.Path(), "code", code, "error", err)
		return render.RenderInternalServerErrorPage(ctx)
	}
}
