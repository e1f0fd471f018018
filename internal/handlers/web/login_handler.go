package web

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/mileusna/useragent"
	"github.com/ngocbd/coopfarm/internal/accounts"
	"github.com/ngocbd/coopfarm/internal/audit"
	"github.com/ngocbd/coopfarm/internal/middlewares"
	"github.com/ngocbd/coopfarm/internal/middlewares/sessions"
	"github.com/ngocbd/coopfarm/internal/render"
)

// LoginHandler handles authentication and the session JSON probe.
type LoginHandler struct {
	accountService AccountService
}

// deviceInfo condenses the user agent into a short display string stored on
// the login session record.
func deviceInfo(userAgent string) string {
	ua := useragent.Parse(userAgent)
	if ua.Name == "" {
		return "unknown device"
	}
	device := "desktop"
	switch {
	case ua.Mobile:
		device = "mobile"
	case ua.Tablet:
		device = "tablet"
	case ua.Bot:
		device = "bot"
	}
	return fmt.Sprintf("%s on %s (%s)", ua.Name, ua.OS, device)
}

func (h *LoginHandler) GetHome(ctx *fiber.Ctx) error {
	session := sessions.Get(ctx)
	if session.IsAuthenticated() {
		return ctx.Redirect("/dashboard")
	}
	return ctx.Redirect("/login")
}

func (h *LoginHandler) GetLogin(ctx *fiber.Ctx) error {
	session := sessions.Get(ctx)
	if session.IsAuthenticated() {
		return ctx.Redirect("/dashboard")
	}
	return render.RenderLoginPage(ctx, render.LoginPageData{
		FlashMsg: mapFlash(ctx.Query("msg")),
	})
}

func (h *LoginHandler) PostLogin(ctx *fiber.Ctx) error {
	username := ctx.FormValue("username")
	password := ctx.FormValue("password")

	session := sessions.Get(ctx)
	if session.IsAuthenticated() {
		if middlewares.WantsJSON(ctx) {
			return jsonOK(ctx, fiber.Map{"userId": session.UserID})
		}
		return ctx.Redirect("/dashboard")
	}

	user, err := h.accountService.Authenticate(ctx.Context(), username, password)
	if err != nil {
		errorMsg := MsgLoginWrongCredentials
		if errors.Is(err, accounts.ErrUserDisabled) {
			errorMsg = MsgLoginUserDisabled
		} else if !errors.Is(err, accounts.ErrWrongCredentials) {
			return err
		}
		if middlewares.WantsJSON(ctx) {
			return jsonFail(ctx, fiber.StatusUnauthorized, errorMsg, middlewares.CodeLoginFailed)
		}
		return render.RenderLoginPage(ctx, render.LoginPageData{
			Username: username,
			ErrorMsg: errorMsg,
		})
	}

	record, err := h.accountService.StartSession(ctx.Context(), user, deviceInfo(ctx.Get(fiber.HeaderUserAgent)), ctx.IP())
	if err != nil {
		return err
	}

	now := time.Now()
	// Rotate the session id on privilege change; the login counts as the
	// session's first activity, both throttle markers start unset.
	if err := session.Reset(sessions.SessionData{
		IP:           ctx.IP(),
		UserID:       user.ID,
		Role:         user.Role,
		Token:        record.Token,
		LoginTime:    now,
		LastActivity: now,
	}); err != nil {
		return err
	}

	audit.RecordLogin(ctx.Context(), user.ID, user.Username, middlewares.RequestContext(ctx))

	if middlewares.WantsJSON(ctx) {
		return jsonOK(ctx, fiber.Map{
			"userId":   user.ID,
			"username": user.Username,
			"role":     user.Role,
		})
	}
	return ctx.Redirect("/dashboard")
}

// PostLogout ends the session. It is safe against races with the server-side
// timeout evaluator and the idle monitor: deactivating an already inactive
// session record is a no-op, and logging out an anonymous session succeeds.
func (h *LoginHandler) PostLogout(ctx *fiber.Ctx) error {
	session := sessions.Get(ctx)
	if session.IsAuthenticated() {
		if err := h.accountService.EndSession(ctx.Context(), session.UserID, session.Token, time.Now()); err != nil {
			return err
		}
		audit.RecordLogout(ctx.Context(), session.UserID, middlewares.RequestContext(ctx))
	}
	if middlewares.WantsJSON(ctx) {
		if err := session.Destroy(); err != nil {
			return err
		}
		return jsonOK(ctx, nil)
	}
	return forceLogout(ctx, "logged_out")
}

// GetSession is the JSON liveness probe: who is logged in and how long the
// session has been idle.
func (h *LoginHandler) GetSession(ctx *fiber.Ctx) error {
	session := sessions.Get(ctx)
	idleSeconds := int64(time.Since(session.LastActivity).Seconds())
	if idleSeconds < 0 {
		idleSeconds = 0
	}
	activeSessions, err := h.accountService.CountActiveSessions(ctx.Context(), session.UserID)
	if err != nil {
		return err
	}
	return jsonOK(ctx, fiber.Map{
		"userId":         session.UserID,
		"role":           session.Role,
		"idleSeconds":    idleSeconds,
		"activeSessions": activeSessions,
	})
}

func NewLoginHandler(accountService AccountService) *LoginHandler {
	return &LoginHandler{accountService: accountService}
}
