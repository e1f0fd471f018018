package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/ngocbd/coopfarm/internal/middlewares"
	"github.com/ngocbd/coopfarm/model"
)

type ReportHandler struct {
	coopService CoopService
}

type reportForm struct {
	UnitID    uint    `form:"unitId" json:"unitId"`
	Period    string  `form:"period" json:"period"`
	ProduceKg float64 `form:"produceKg" json:"produceKg"`
	Revenue   float64 `form:"revenue" json:"revenue"`
	Note      string  `form:"note" json:"note"`
}

func (h *ReportHandler) GetReports(ctx *fiber.Ctx) error {
	reports, err := h.coopService.ListReports(ctx.Context(), parseIDQuery(ctx, "unitId"), ctx.Query("period"))
	if err != nil {
		return err
	}
	if middlewares.WantsJSON(ctx) {
		return jsonOK(ctx, reports)
	}
	return ctx.Render("reports", fiber.Map{
		"siteName": ctx.Locals("siteName"),
		"reports":  reports,
	})
}

func (h *ReportHandler) PostReport(ctx *fiber.Ctx) error {
	var form reportForm
	if err := ctx.BodyParser(&form); err != nil || form.UnitID == 0 || form.Period == "" {
		return fiber.NewError(fiber.StatusBadRequest, MsgInvalidRequest)
	}
	report := &model.Report{
		UnitID:    form.UnitID,
		Period:    form.Period,
		ProduceKg: form.ProduceKg,
		Revenue:   form.Revenue,
		Note:      form.Note,
	}
	if err := h.coopService.FileReport(ctx.Context(), actor(ctx), report); err != nil {
		return mapCoopError(ctx, err)
	}
	if middlewares.WantsJSON(ctx) {
		return jsonOK(ctx, report)
	}
	return ctx.Redirect("/reports")
}

func (h *ReportHandler) PostReportUpdate(ctx *fiber.Ctx) error {
	reportID, err := parseIDParam(ctx, "id")
	if err != nil {
		return err
	}
	var form reportForm
	if err := ctx.BodyParser(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, MsgInvalidRequest)
	}
	columns := map[string]interface{}{}
	if form.ProduceKg != 0 {
		columns["produce_kg"] = form.ProduceKg
	}
	if form.Revenue != 0 {
		columns["revenue"] = form.Revenue
	}
	if form.Note != "" {
		columns["note"] = form.Note
	}
	if err := h.coopService.UpdateReport(ctx.Context(), actor(ctx), reportID, columns); err != nil {
		return mapCoopError(ctx, err)
	}
	if middlewares.WantsJSON(ctx) {
		return jsonOK(ctx, nil)
	}
	return ctx.Redirect("/reports")
}

func (h *ReportHandler) PostReportDelete(ctx *fiber.Ctx) error {
	reportID, err := parseIDParam(ctx, "id")
	if err != nil {
		return err
	}
	if err := h.coopService.DeleteReport(ctx.Context(), actor(ctx), reportID); err != nil {
		return mapCoopError(ctx, err)
	}
	if middlewares.WantsJSON(ctx) {
		return jsonOK(ctx, nil)
	}
	return ctx.Redirect("/reports")
}

func NewReportHandler(coopService CoopService) *ReportHandler {
	return &ReportHandler{coopService: coopService}
}
