package middlewares

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/khanghh/kaudit/internal/audit"
)

const (
	HeaderRequestID     = "X-Request-ID"
	HeaderSessionID     = "X-Session-ID"
	HeaderCorrelationID = "X-Correlation-ID"
	HeaderDeviceID      = "X-Device-ID"
	HeaderGeoLocation   = "X-Geo-Location"
)

// RequestContext attaches the request's network and correlation attributes to
// the user context, producers inherit them for events they leave blank.
func RequestContext() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		requestID := ctx.Get(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		ctx.Set(HeaderRequestID, requestID)

		rc := audit.RequestContext{
			RequestID:     requestID,
			SessionID:     ctx.Get(HeaderSessionID),
			CorrelationID: ctx.Get(HeaderCorrelationID),
			IP:            ctx.IP(),
			UserAgent:     ctx.Get(fiber.HeaderUserAgent),
			DeviceID:      ctx.Get(HeaderDeviceID),
			GeoLocation:   ctx.Get(HeaderGeoLocation),
		}
		ctx.SetUserContext(audit.WithRequestContext(ctx.UserContext(), rc))
		return ctx.Next()
	}
}
