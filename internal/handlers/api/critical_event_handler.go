package api

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/khanghh/kaudit/internal/detector"
	"github.com/khanghh/kaudit/internal/middlewares"
	"github.com/khanghh/kaudit/model"
	"github.com/khanghh/kaudit/params"
	"github.com/spf13/cast"
)

type CriticalEventHandler struct {
	investigations InvestigationService
}

func (h *CriticalEventHandler) GetCriticalEvents(ctx *fiber.Ctx) error {
	page := max(cast.ToInt(ctx.Query("page")), 1)
	pageSize := cast.ToInt(ctx.Query("pageSize"))
	if pageSize <= 0 {
		pageSize = params.QueryDefaultPageSize
	}
	pageSize = min(pageSize, params.QueryMaxPageSize)
	since, err := parseTime(ctx.Query("since"))
	if err != nil {
		return badRequest(ctx, "Invalid since time")
	}

	items, total, err := h.investigations.List(ctx.UserContext(), detector.ListOptions{
		Status: model.CriticalStatus(ctx.Query("status")),
		Rule:   ctx.Query("rule"),
		Since:  since,
		Offset: (page - 1) * pageSize,
		Limit:  pageSize,
	})
	if err != nil {
		return sendError(ctx, err)
	}
	return ok(ctx, ListResponse[*model.CriticalEvent]{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

func criticalEventID(ctx *fiber.Ctx) (uint64, error) {
	id, err := cast.ToUint64E(ctx.Params("id"))
	if err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid critical event id")
	}
	return id, nil
}

func (h *CriticalEventHandler) GetCriticalEvent(ctx *fiber.Ctx) error {
	id, err := criticalEventID(ctx)
	if err != nil {
		return err
	}
	ce, err := h.investigations.Get(ctx.UserContext(), id)
	if err != nil {
		return sendError(ctx, err)
	}
	return ok(ctx, ce)
}

func (h *CriticalEventHandler) PostAcknowledge(ctx *fiber.Ctx) error {
	id, err := criticalEventID(ctx)
	if err != nil {
		return err
	}
	ce, err := h.investigations.Acknowledge(ctx.UserContext(), id, middlewares.GetPrincipal(ctx).Subject)
	if err != nil {
		return sendError(ctx, err)
	}
	return ok(ctx, ce)
}

func (h *CriticalEventHandler) PostResolve(ctx *fiber.Ctx) error {
	return h.close(ctx, h.investigations.Resolve)
}

func (h *CriticalEventHandler) PostFalsePositive(ctx *fiber.Ctx) error {
	return h.close(ctx, h.investigations.MarkFalsePositive)
}

type closeFunc func(ctx context.Context, id uint64, investigator, notes string) (*model.CriticalEvent, error)

func (h *CriticalEventHandler) close(ctx *fiber.Ctx, fn closeFunc) error {
	id, err := criticalEventID(ctx)
	if err != nil {
		return err
	}
	var req InvestigationRequest
	if err := ctx.BodyParser(&req); err != nil {
		return badRequest(ctx, "Malformed request")
	}
	ce, err := fn(ctx.UserContext(), id, middlewares.GetPrincipal(ctx).Subject, req.Notes)
	if err != nil {
		return sendError(ctx, err)
	}
	return ok(ctx, ce)
}

func NewCriticalEventHandler(investigations InvestigationService) *CriticalEventHandler {
	return &CriticalEventHandler{investigations: investigations}
}
