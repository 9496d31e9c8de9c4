package middlewares

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// InjectGlobalVars exposes vars to rendered views through Locals. API
// requests only render views when they ask for html.
func InjectGlobalVars(vars fiber.Map) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if strings.HasPrefix(ctx.Path(), apiPrefix) && ctx.Query("format") != "html" {
			return ctx.Next()
		}
		for key, val := range vars {
			ctx.Locals(key, val)
		}
		return ctx.Next()
	}
}
