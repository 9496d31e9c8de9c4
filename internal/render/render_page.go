package render

import (
	"github.com/gofiber/fiber/v2"
)

var errorTitles = map[int]string{
	fiber.StatusBadRequest:          "Bad request",
	fiber.StatusUnauthorized:        "Unauthorized",
	fiber.StatusForbidden:           "Access denied",
	fiber.StatusNotFound:            "Page not found",
	fiber.StatusTooManyRequests:     "Too many requests",
	fiber.StatusServiceUnavailable:  "Service unavailable",
	fiber.StatusInternalServerError: "Internal server error",
}

// RenderErrorPage writes the HTML error page for status code.
func RenderErrorPage(ctx *fiber.Ctx, code int, message string) error {
	title, ok := errorTitles[code]
	if !ok {
		title = errorTitles[fiber.StatusInternalServerError]
	}
	body, err := RenderHTML("error", fiber.Map{
		"siteName": globalVars["siteName"],
		"code":     code,
		"title":    title,
		"message":  message,
	})
	if err != nil {
		return err
	}
	ctx.Set("Content-Type", "text/html; charset=utf-8")
	return ctx.Status(code).SendString(body)
}

func RenderNotFoundErrorPage(ctx *fiber.Ctx) error {
	return RenderErrorPage(ctx, fiber.StatusNotFound, "")
}

func RenderInternalServerErrorPage(ctx *fiber.Ctx) error {
	return RenderErrorPage(ctx, fiber.StatusInternalServerError, "")
}
