package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/ngocbd/coopfarm/internal/middlewares"
	"github.com/ngocbd/coopfarm/model"
)

type UnitHandler struct {
	coopService CoopService
}

type unitForm struct {
	ZoneID       uint   `form:"zoneId" json:"zoneId"`
	Code         string `form:"code" json:"code"`
	Name         string `form:"name" json:"name"`
	LeaderUserID uint   `form:"leaderUserId" json:"leaderUserId"`
}

func (h *UnitHandler) GetUnits(ctx *fiber.Ctx) error {
	units, err := h.coopService.ListUnits(ctx.Context(), parseIDQuery(ctx, "zoneId"))
	if err != nil {
		return err
	}
	if middlewares.WantsJSON(ctx) {
		return jsonOK(ctx, units)
	}
	return ctx.Render("units", fiber.Map{
		"siteName": ctx.Locals("siteName"),
		"units":    units,
	})
}

func (h *UnitHandler) PostUnit(ctx *fiber.Ctx) error {
	var form unitForm
	if err := ctx.BodyParser(&form); err != nil || form.ZoneID == 0 || form.Code == "" || form.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, MsgInvalidRequest)
	}
	unit := &model.Unit{
		ZoneID:       form.ZoneID,
		Code:         form.Code,
		Name:         form.Name,
		LeaderUserID: form.LeaderUserID,
	}
	if err := h.coopService.CreateUnit(ctx.Context(), actor(ctx), unit); err != nil {
		return mapCoopError(ctx, err)
	}
	if middlewares.WantsJSON(ctx) {
		return jsonOK(ctx, unit)
	}
	return ctx.Redirect("/units")
}

func (h *UnitHandler) PostUnitUpdate(ctx *fiber.Ctx) error {
	unitID, err := parseIDParam(ctx, "id")
	if err != nil {
		return err
	}
	var form unitForm
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
	if err := h.coopService.UpdateUnit(ctx.Context(), actor(ctx), unitID, columns); err != nil {
		return mapCoopError(ctx, err)
	}
	if middlewares.WantsJSON(ctx) {
		return jsonOK(ctx, nil)
	}
	return ctx.Redirect("/units")
}

func (h *UnitHandler) PostUnitDelete(ctx *fiber.Ctx) error {
	unitID, err := parseIDParam(ctx, "id")
	if err != nil {
		return err
	}
	if err := h.coopService.DeleteUnit(ctx.Context(), actor(ctx), unitID); err != nil {
		return mapCoopError(ctx, err)
	}
	if middlewares.WantsJSON(ctx) {
		return jsonOK(ctx, nil)
	}
	return ctx.Redirect("/units")
}

func NewUnitHandler(coopService CoopService) *UnitHandler {
	return &UnitHandler{coopService: coopService}
}
