package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/khanghh/kaudit/internal/middlewares"
	"github.com/spf13/cast"
)

type ReportHandler struct {
	engine QueryEngine
}

func (h *ReportHandler) PostReport(ctx *fiber.Ctx) error {
	var req ReportRequest
	if err := ctx.BodyParser(&req); err != nil {
		return badRequest(ctx, "Malformed request")
	}
	start, err := parseTime(req.Start)
	if err != nil || start.IsZero() {
		return badRequest(ctx, "Invalid start time")
	}
	end, err := parseTime(req.End)
	if err != nil || end.IsZero() {
		return badRequest(ctx, "Invalid end time")
	}

	principal := middlewares.GetPrincipal(ctx)
	report, err := h.engine.GenerateReport(ctx.UserContext(), req.Framework, start, end, principal.Subject)
	if err != nil {
		return sendError(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(NewDataResponse(report))
}

// GetReport returns the report as JSON, or as an HTML page with format=html.
func (h *ReportHandler) GetReport(ctx *fiber.Ctx) error {
	id, err := cast.ToUint64E(ctx.Params("id"))
	if err != nil {
		return badRequest(ctx, "Invalid report id")
	}
	report, err := h.engine.GetReport(ctx.UserContext(), id)
	if err != nil {
		return sendError(ctx, err)
	}
	if ctx.Query("format") == "html" {
		return ctx.Render("report", fiber.Map{
			"Report":  report,
			"Summary": report.Summary.Data(),
		})
	}
	return ok(ctx, report)
}

func NewReportHandler(engine QueryEngine) *ReportHandler {
	return &ReportHandler{engine: engine}
}
