package api

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/khanghh/kaudit/internal/audit"
	"github.com/khanghh/kaudit/internal/middlewares"
	"github.com/khanghh/kaudit/internal/query"
	"github.com/khanghh/kaudit/model"
	"github.com/spf13/cast"
)

type EventHandler struct {
	recorder  audit.Recorder
	engine    QueryEngine
	retention RetentionService
}

// PostEvents accepts a single draft or an array of drafts. Drafts are
// submitted in order, the first rejection stops the batch.
func (h *EventHandler) PostEvents(ctx *fiber.Ctx) error {
	body := bytes.TrimSpace(ctx.Body())
	var drafts []*audit.Draft
	if len(body) > 0 && body[0] == '[' {
		if err := json.Unmarshal(body, &drafts); err != nil {
			return badRequest(ctx, "Malformed event batch")
		}
	} else {
		var d audit.Draft
		if err := json.Unmarshal(body, &d); err != nil {
			return badRequest(ctx, "Malformed event")
		}
		drafts = append(drafts, &d)
	}
	if len(drafts) == 0 {
		return badRequest(ctx, "No events given")
	}

	ids := make([]string, 0, len(drafts))
	for _, d := range drafts {
		id, err := h.recorder.Submit(ctx.UserContext(), d)
		if err != nil {
			return sendError(ctx, err)
		}
		ids = append(ids, id)
	}
	return ctx.Status(fiber.StatusAccepted).JSON(NewDataResponse(SubmitResponse{EventIDs: ids}))
}

func parseTime(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return cast.ToTimeE(value)
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func parseFilter(ctx *fiber.Ctx) (query.Filter, error) {
	var (
		f   query.Filter
		err error
	)
	if f.From, err = parseTime(ctx.Query("from")); err != nil {
		return f, fiber.NewError(fiber.StatusBadRequest, "Invalid from time")
	}
	if f.To, err = parseTime(ctx.Query("to")); err != nil {
		return f, fiber.NewError(fiber.StatusBadRequest, "Invalid to time")
	}
	for _, t := range splitList(ctx.Query("eventType")) {
		et := model.EventType(t)
		if !et.Valid() {
			return f, fiber.NewError(fiber.StatusBadRequest, "Unknown event type "+t)
		}
		f.EventTypes = append(f.EventTypes, et)
	}
	if s := ctx.Query("minSeverity"); s != "" {
		sev, err := model.ParseSeverity(s)
		if err != nil {
			return f, fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		f.MinSeverity = &sev
	}
	f.ActorID = ctx.Query("actorId")
	f.ActorType = model.ActorType(ctx.Query("actorType"))
	f.Category = ctx.Query("category")
	f.Result = model.Result(ctx.Query("result"))
	f.Chain = ctx.Query("chain")
	f.Text = ctx.Query("q")
	f.Page = cast.ToInt(ctx.Query("page"))
	f.PageSize = cast.ToInt(ctx.Query("pageSize"))
	f.Ascending = cast.ToBool(ctx.Query("asc"))
	f.Verify = cast.ToBool(ctx.Query("verify"))
	f.Archive = cast.ToBool(ctx.Query("archive"))
	return f, nil
}

func (h *EventHandler) GetEvents(ctx *fiber.Ctx) error {
	f, err := parseFilter(ctx)
	if err != nil {
		return err
	}
	page, err := h.engine.Search(ctx.UserContext(), f)
	if err != nil {
		return sendError(ctx, err)
	}
	return ok(ctx, ListResponse[*query.Result]{
		Items:    page.Items,
		Total:    page.Total,
		Page:     page.Page,
		PageSize: page.PageSize,
	})
}

func (h *EventHandler) PostLegalHold(ctx *fiber.Ctx) error {
	var req LegalHoldRequest
	if err := ctx.BodyParser(&req); err != nil {
		return badRequest(ctx, "Malformed request")
	}
	actor := middlewares.GetPrincipal(ctx)
	updated, err := h.retention.SetLegalHold(ctx.UserContext(), req.EventIDs, req.Hold, actor.Subject)
	if err != nil {
		return sendError(ctx, err)
	}
	return ok(ctx, LegalHoldResponse{Updated: updated})
}

func NewEventHandler(recorder audit.Recorder, engine QueryEngine, retention RetentionService) *EventHandler {
	return &EventHandler{
		recorder:  recorder,
		engine:    engine,
		retention: retention,
	}
}
