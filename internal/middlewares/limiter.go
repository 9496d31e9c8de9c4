package middlewares

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/khanghh/kaudit/params"
)

// RateLimiter throttles per principal, falling back to the client IP. The
// counters live in storage so they are shared across instances.
func RateLimiter(storage fiber.Storage) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        params.RateLimitMax,
		Expiration: params.RateLimitExpiration,
		Storage:    storage,
		KeyGenerator: func(ctx *fiber.Ctx) string {
			if p := GetPrincipal(ctx); p != nil {
				return "rl:sub:" + p.Subject
			}
			return "rl:ip:" + ctx.IP()
		},
		LimitReached: func(ctx *fiber.Ctx) error {
			return fiber.NewError(fiber.StatusTooManyRequests, "Rate limit exceeded")
		},
	})
}
