package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/ngocbd/coopfarm/internal/middlewares"
	"github.com/ngocbd/coopfarm/model"
)

type ZoneHandler struct {
	coopService CoopService
}

type zoneForm struct {
	Code         string `form:"code" json:"code"`
	Name         string `form:"name" json:"name"`
	LeaderUserID uint   `form:"leaderUserId" json:"leaderUserId"`
}

func (h *ZoneHandler) GetZones(ctx *fiber.Ctx) error {
	zones, err := h.coopService.ListZones(ctx.Context())
	if err != nil {
		return err
	}
	if middlewares.WantsJSON(ctx) {
		return jsonOK(ctx, zones)
	}
	return ctx.Render("zones", fiber.Map{
		"siteName": ctx.Locals("siteName"),
		"zones":    zones,
	})
}

func (h *ZoneHandler) PostZone(ctx *fiber.Ctx) error {
	var form zoneForm
	if err := ctx.BodyParser(&form); err != nil || form.Code == "" || form.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, MsgInvalidRequest)
	}
	zone := &model.Zone{
		Code:         form.Code,
		Name:         form.Name,
		LeaderUserID: form.LeaderUserID,
	}
	if err := h.coopService.CreateZone(ctx.Context(), actor(ctx), zone); err != nil {
		return mapCoopError(ctx, err)
	}
	if middlewares.WantsJSON(ctx) {
		return jsonOK(ctx, zone)
	}
	return ctx.Redirect("/zones")
}

func (h *ZoneHandler) PostZoneUpdate(ctx *fiber.Ctx) error {
	zoneID, err := parseIDParam(ctx, "id")
	if err != nil {
		return err
	}
	var form zoneForm
	if err := ctx.BodyParser(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, MsgInvalidRequest)
	}
	columns := map[string]interface{}{}
	if form.Code != "" {
		columns["code"] = form.Code
	}
	if form.Name != "" {
		columns["name"] = form.Name
	}
	if form.LeaderUserID != 0 {
		columns["leader_user_id"] = form.LeaderUserID
	}
	if err := h.coopService.UpdateZone(ctx.Context(), actor(ctx), zoneID, columns); err != nil {
		return mapCoopError(ctx, err)
	}
	if middlewares.WantsJSON(ctx) {
		return jsonOK(ctx, nil)
	}
	return ctx.Redirect("/zones")
}

func (h *ZoneHandler) PostZoneDelete(ctx *fiber.Ctx) error {
	zoneID, err := parseIDParam(ctx, "id")
	if err != nil {
		return err
	}
	if err := h.coopService.DeleteZone(ctx.Context(), actor(ctx), zoneID); err != nil {
		return mapCoopError(ctx, err)
	}
	if middlewares.WantsJSON(ctx) {
		return jsonOK(ctx, nil)
	}
	return ctx.Redirect("/zones")
}

func NewZoneHandler(coopService CoopService) *ZoneHandler {
	return &ZoneHandler{coopService: coopService}
}
