package web

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/ngocbd/coopfarm/internal/audit"
	"github.com/ngocbd/coopfarm/internal/coop"
	"github.com/ngocbd/coopfarm/internal/middlewares"
	"github.com/ngocbd/coopfarm/internal/middlewares/sessions"
	"github.com/ngocbd/coopfarm/model"
)

const recentAuditEvents = 20

type DashboardHandler struct {
	coopService CoopService
	auditRepo   audit.AuditEventRepository
}

func (h *DashboardHandler) GetDashboard(ctx *fiber.Ctx) error {
	period := ctx.Query("period")
	if period == "" {
		period = coop.CurrentPeriod(time.Now())
	}
	stats, err := h.coopService.Dashboard(ctx.Context(), period)
	if err != nil {
		return err
	}

	// The security feed is admin-only; other roles get the plain aggregates.
	var events []*model.AuditEvent
	session := sessions.Get(ctx)
	if session.Role == model.RoleAdmin {
		if events, err = h.auditRepo.FindRecent(ctx.Context(), recentAuditEvents); err != nil {
			return err
		}
	}

	if middlewares.WantsJSON(ctx) {
		return jsonOK(ctx, fiber.Map{
			"stats":  stats,
			"events": events,
		})
	}
	return ctx.Render("dashboard", fiber.Map{
		"siteName": ctx.Locals("siteName"),
		"stats":    stats,
		"events":   events,
		"role":     session.Role,
	})
}

func NewDashboardHandler(coopService CoopService, auditRepo audit.AuditEventRepository) *DashboardHandler {
	return &DashboardHandler{
		coopService: coopService,
		auditRepo:   auditRepo,
	}
}
