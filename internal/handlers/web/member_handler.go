package web

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/ngocbd/coopfarm/internal/middlewares"
	"github.com/ngocbd/coopfarm/model"
)

type MemberHandler struct {
	coopService CoopService
}

type memberForm struct {
	UnitID   uint   `form:"unitId" json:"unitId"`
	UserID   uint   `form:"userId" json:"userId"`
	FullName string `form:"fullName" json:"fullName"`
	Phone    string `form:"phone" json:"phone"`
}

func (h *MemberHandler) GetMembers(ctx *fiber.Ctx) error {
	members, err := h.coopService.ListMembers(ctx.Context(), parseIDQuery(ctx, "unitId"))
	if err != nil {
		return err
	}
	if middlewares.WantsJSON(ctx) {
		return jsonOK(ctx, members)
	}
	return ctx.Render("members", fiber.Map{
		"siteName": ctx.Locals("siteName"),
		"members":  members,
	})
}

func (h *MemberHandler) PostMember(ctx *fiber.Ctx) error {
	var form memberForm
	if err := ctx.BodyParser(&form); err != nil || form.UnitID == 0 || form.FullName == "" {
		return fiber.NewError(fiber.StatusBadRequest, MsgInvalidRequest)
	}
	member := &model.Member{
		UnitID:   form.UnitID,
		UserID:   form.UserID,
		FullName: form.FullName,
		Phone:    form.Phone,
		JoinedAt: time.Now(),
	}
	if err := h.coopService.CreateMember(ctx.Context(), actor(ctx), member); err != nil {
		return mapCoopError(ctx, err)
	}
	if middlewares.WantsJSON(ctx) {
		return jsonOK(ctx, member)
	}
	return ctx.Redirect("/members")
}

func (h *MemberHandler) PostMemberUpdate(ctx *fiber.Ctx) error {
	memberID, err := parseIDParam(ctx, "id")
	if err != nil {
		return err
	}
	var form memberForm
	if err := ctx.BodyParser(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, MsgInvalidRequest)
	}
	columns := map[string]interface{}{}
	if form.FullName != "" {
		columns["full_name"] = form.FullName
	}
	if form.Phone != "" {
		columns["phone"] = form.Phone
	}
	if form.UnitID != 0 {
		columns["unit_id"] = form.UnitID
	}
	if err := h.coopService.UpdateMember(ctx.Context(), actor(ctx), memberID, columns); err != nil {
		return mapCoopError(ctx, err)
	}
	if middlewares.WantsJSON(ctx) {
		return jsonOK(ctx, nil)
	}
	return ctx.Redirect("/members")
}

func (h *MemberHandler) PostMemberDelete(ctx *fiber.Ctx) error {
	memberID, err := parseIDParam(ctx, "id")
	if err != nil {
		return err
	}
	if err := h.coopService.DeleteMember(ctx.Context(), actor(ctx), memberID); err != nil {
		return mapCoopError(ctx, err)
	}
	if middlewares.WantsJSON(ctx) {
		return jsonOK(ctx, nil)
	}
	return ctx.Redirect("/members")
}

func NewMemberHandler(coopService CoopService) *MemberHandler {
	return &MemberHandler{coopService: coopService}
}
