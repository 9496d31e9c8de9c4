package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/khanghh/kaudit/internal/query"
	"github.com/spf13/cast"
)

type IntegrityHandler struct {
	engine QueryEngine
}

// GetIntegrity verifies one chain range, the span between two events
// (fromId, toId) or every chain (all=true).
func (h *IntegrityHandler) GetIntegrity(ctx *fiber.Ctx) error {
	if cast.ToBool(ctx.Query("all")) {
		reports, err := h.engine.VerifyAll(ctx.UserContext())
		if err != nil {
			return sendError(ctx, err)
		}
		return ok(ctx, reports)
	}

	if fromID, toID := ctx.Query("fromId"), ctx.Query("toId"); fromID != "" || toID != "" {
		if fromID == "" || toID == "" {
			return badRequest(ctx, "Both fromId and toId are required")
		}
		report, err := h.engine.VerifyEvents(ctx.UserContext(), fromID, toID)
		if err != nil {
			return sendError(ctx, err)
		}
		return ok(ctx, report)
	}

	from, err := cast.ToUint64E(ctx.Query("from", "0"))
	if err != nil {
		return badRequest(ctx, "Invalid from sequence")
	}
	to, err := cast.ToUint64E(ctx.Query("to", "0"))
	if err != nil {
		return badRequest(ctx, "Invalid to sequence")
	}
	report, err := h.engine.VerifyIntegrity(ctx.UserContext(), query.Range{
		Chain:   ctx.Query("chain"),
		FromSeq: from,
		ToSeq:   to,
	})
	if err != nil {
		return sendError(ctx, err)
	}
	return ok(ctx, report)
}

func NewIntegrityHandler(engine QueryEngine) *IntegrityHandler {
	return &IntegrityHandler{engine: engine}
}
