package api

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/khanghh/kaudit/internal/audit"
	"github.com/khanghh/kaudit/internal/chain"
	"github.com/khanghh/kaudit/internal/detector"
	"github.com/khanghh/kaudit/internal/query"
	"github.com/khanghh/kaudit/internal/retention"
)

const retryAfterSeconds = 1

// sendError maps domain errors to status codes. Anything unknown goes to the
// fiber error handler as a 500.
func sendError(ctx *fiber.Ctx, err error) error {
	var (
		invalid    *audit.InvalidEventError
		transition *detector.TransitionError
	)
	switch {
	case errors.As(err, &invalid):
		return ctx.Status(fiber.StatusBadRequest).JSON(NewErrorResponse(fiber.StatusBadRequest, "Invalid event",
			APIErrorDetail{Domain: "event", Reason: invalid.Field, Message: invalid.Reason}))
	case errors.Is(err, audit.ErrDuplicateEvent):
		return ctx.Status(fiber.StatusConflict).JSON(NewErrorResponse(fiber.StatusConflict, err.Error()))
	case errors.Is(err, audit.ErrOverloaded), errors.Is(err, chain.ErrChainLocked):
		ctx.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfterSeconds))
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(NewErrorResponse(fiber.StatusServiceUnavailable, err.Error()))
	case errors.As(err, &transition):
		return ctx.Status(fiber.StatusConflict).JSON(NewErrorResponse(fiber.StatusConflict, transition.Error()))
	case errors.Is(err, audit.ErrEventNotFound),
		errors.Is(err, detector.ErrCriticalEventNotFound),
		errors.Is(err, query.ErrReportNotFound),
		errors.Is(err, retention.ErrPolicyNotFound):
		return ctx.Status(fiber.StatusNotFound).JSON(NewErrorResponse(fiber.StatusNotFound, err.Error()))
	case errors.Is(err, detector.ErrInvestigatorRequired),
		errors.Is(err, detector.ErrNotesRequired),
		errors.Is(err, query.ErrUnknownFramework),
		errors.Is(err, query.ErrInvalidPeriod),
		errors.Is(err, query.ErrInvalidRange),
		errors.Is(err, query.ErrChainMismatch),
		errors.Is(err, retention.ErrInvalidPolicy),
		errors.Is(err, retention.ErrNoEventIDs):
		return ctx.Status(fiber.StatusBadRequest).JSON(NewErrorResponse(fiber.StatusBadRequest, err.Error()))
	}
	return err
}

func badRequest(ctx *fiber.Ctx, message string) error {
	return ctx.Status(fiber.StatusBadRequest).JSON(NewErrorResponse(fiber.StatusBadRequest, message))
}

func ok(ctx *fiber.Ctx, data any) error {
	return ctx.Status(fiber.StatusOK).JSON(NewDataResponse(data))
}
