package middlewares

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/khanghh/kaudit/internal/render"
	"github.com/khanghh/kaudit/params"
)

const apiPrefix = "/api/"

// ErrorHandler answers API paths with the JSON error envelope and everything
// else with the HTML error page.
func ErrorHandler(ctx *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := ""
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}
	if code >= fiber.StatusInternalServerError {
		slog.Error("unhandled error", "path", ctx.Path(), "code", code, "error", err)
		message = "Internal server error"
	}

	if strings.HasPrefix(ctx.Path(), apiPrefix) {
		return ctx.Status(code).JSON(fiber.Map{
			"apiVersion": params.APIVersion,
			"error": fiber.Map{
				"code":    code,
				"message": message,
			},
		})
	}
	switch code {
	case fiber.StatusNotFound, fiber.StatusMethodNotAllowed:
		return render.RenderNotFoundErrorPage(ctx)
	case fiber.StatusInternalServerError:
		return render.RenderInternalServerErrorPage(ctx)
	default:
		return render.RenderErrorPage(ctx, code, message)
	}
}
