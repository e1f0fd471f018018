package web

import (
	"fmt"
	"log/slog"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/ngocbd/coopfarm/internal/middlewares/sessions"
)

func redirect(ctx *fiber.Ctx, location string, values ...any) error {
	url, err := url.Parse(location)
	if err != nil {
		return err
	}

	query := url.Query()
	for i := 0; i < len(values); i += 2 {
		key, ok := values[i].(string)
		if !ok {
			slog.Error("invalid query parameter", "key", i)
			continue
		}
		if v := values[i+1]; v != nil {
			if s, ok := v.(string); ok && s == "" {
				continue
			}
			query.Set(key, fmt.Sprint(values[i+1]))
		}
	}

	url.RawQuery = query.Encode()
	return ctx.Redirect(url.String())
}

// forceLogout drops the session bag and sends the browser back to the login
// page, optionally carrying a flash code.
func forceLogout(ctx *fiber.Ctx, flashCode string) error {
	if err := sessions.Destroy(ctx); err != nil {
		slog.Warn("Could not destroy session", "error", err)
	}
	if flashCode != "" {
		return redirect(ctx, "/login", "msg", flashCode)
	}
	return redirect(ctx, "/login")
}
