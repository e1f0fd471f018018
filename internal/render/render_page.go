package render

import (
	"github.com/gofiber/fiber/v2"
)

type LoginPageData struct {
	Username string
	ErrorMsg string
	FlashMsg string
}

func RenderLoginPage(ctx *fiber.Ctx, data LoginPageData) error {
	body, err := RenderHTML("login", map[string]interface{}{
		"username": data.Username,
		"errorMsg": data.ErrorMsg,
		"flashMsg": data.FlashMsg,
	})
	if err != nil {
		return err
	}
	ctx.Set("Content-Type", "text/html; charset=utf-8")
	statusCode := fiber.StatusOK
	if data.ErrorMsg != "" {
		statusCode = fiber.StatusUnauthorized
	}
	return ctx.Status(statusCode).SendString(body)
}

// RenderUnauthorizedPage renders the access-denied page with the caller's
// status, so unauthenticated (401) and forbidden (403) failures keep their
// distinct statuses while sharing one page.
func RenderUnauthorizedPage(ctx *fiber.Ctx, status int) error {
	body, err := RenderHTML("error-unauthorized", nil)
	if err != nil {
		return err
	}
	ctx.Set("Content-Type", "text/html; charset=utf-8")
	return ctx.Status(status).SendString(body)
}

func RenderInternalServerErrorPage(ctx *fiber.Ctx) error {
	body, err := RenderHTML("error-internal", nil)
	if err != nil {
		return err
	}
	ctx.Set("Content-Type", "text/html; charset=utf-8")
	return ctx.Status(fiber.StatusInternalServerError).SendString(body)
}

func RenderNotFoundErrorPage(ctx *fiber.Ctx) error {
	body, err := RenderHTML("error-not-found", nil)
	if err != nil {
		return err
	}
	ctx.Set("Content-Type", "text/html; charset=utf-8")
	return ctx.Status(fiber.StatusNotFound).SendString(body)
}

func RenderBadRequestErrorPage(ctx *fiber.Ctx) error {
	body, err := RenderHTML("error-bad-request", nil)
	if err != nil {
		return err
	}
	ctx.Set("Content-Type", "text/html; charset=utf-8")
	return ctx.Status(fiber.StatusBadRequest).SendString(body)
}
