package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/ngocbd/coopfarm/internal/middlewares"
)

func jsonOK(ctx *fiber.Ctx, data interface{}) error {
	return ctx.JSON(middlewares.APIResponse{
		Success: true,
		Data:    data,
	})
}

func jsonFail(ctx *fiber.Ctx, status int, message, code string) error {
	return ctx.Status(status).JSON(middlewares.APIResponse{
		Success: false,
		Message: message,
		Code:    code,
	})
}
