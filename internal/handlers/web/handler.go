package web

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/ngocbd/coopfarm/internal/coop"
	"github.com/ngocbd/coopfarm/internal/middlewares"
	"github.com/ngocbd/coopfarm/internal/middlewares/sessions"
)

// actor extracts the acting principal from the session bag. Guards upstream
// guarantee the session is authenticated by the time handlers run.
func actor(ctx *fiber.Ctx) coop.Actor {
	session := sessions.Get(ctx)
	return coop.Actor{
		UserID: session.UserID,
		Role:   session.Role,
	}
}

func parseIDParam(ctx *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(ctx.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, MsgInvalidRequest)
	}
	return uint(id), nil
}

func parseIDQuery(ctx *fiber.Ctx, name string) uint {
	id, _ := strconv.ParseUint(ctx.Query(name), 10, 64)
	return uint(id)
}

// mapCoopError translates domain errors into terminal outcomes or
// client-visible validation failures.
func mapCoopError(ctx *fiber.Ctx, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, coop.ErrNotAllowed):
		return middlewares.ErrAccessDenied
	case errors.Is(err, coop.ErrCodeTaken):
		return fiber.NewError(fiber.StatusBadRequest, MsgCodeTaken)
	case errors.Is(err, coop.ErrPeriodReported):
		return fiber.NewError(fiber.StatusBadRequest, MsgPeriodReported)
	case errors.Is(err, coop.ErrZoneNotFound),
		errors.Is(err, coop.ErrUnitNotFound),
		errors.Is(err, coop.ErrMemberNotFound),
		errors.Is(err, coop.ErrReportNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	default:
		return err
	}
}
