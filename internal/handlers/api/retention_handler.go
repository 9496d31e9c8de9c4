package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/khanghh/kaudit/internal/middlewares"
	"github.com/khanghh/kaudit/model"
	"github.com/spf13/cast"
)

type RetentionHandler struct {
	retention RetentionService
}

func (h *RetentionHandler) GetPolicies(ctx *fiber.Ctx) error {
	policies, err := h.retention.Policies(ctx.UserContext())
	if err != nil {
		return sendError(ctx, err)
	}
	return ok(ctx, policies)
}

// PostPolicy creates or replaces the policy with the same name.
func (h *RetentionHandler) PostPolicy(ctx *fiber.Ctx) error {
	policy := model.RetentionPolicy{Active: true}
	if err := ctx.BodyParser(&policy); err != nil {
		return badRequest(ctx, "Malformed policy")
	}
	policy.ID = 0
	if err := h.retention.SavePolicy(ctx.UserContext(), &policy, middlewares.GetPrincipal(ctx).Subject); err != nil {
		return sendError(ctx, err)
	}
	return ok(ctx, policy)
}

func (h *RetentionHandler) DeletePolicy(ctx *fiber.Ctx) error {
	id, err := cast.ToUint64E(ctx.Params("id"))
	if err != nil || id == 0 {
		return badRequest(ctx, "Invalid policy id")
	}
	if err := h.retention.DeletePolicy(ctx.UserContext(), id, middlewares.GetPrincipal(ctx).Subject); err != nil {
		return sendError(ctx, err)
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

func NewRetentionHandler(retention RetentionService) *RetentionHandler {
	return &RetentionHandler{retention: retention}
}
