package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/khanghh/kaudit/internal/middlewares"
)

type Handlers struct {
	Events         *EventHandler
	Integrity      *IntegrityHandler
	Reports        *ReportHandler
	CriticalEvents *CriticalEventHandler
	Retention      *RetentionHandler
}

// SetupRoutes mounts the v1 API under router. limiter may be nil.
func SetupRoutes(router fiber.Router, authCfg middlewares.AuthConfig, limiter fiber.Handler, h Handlers) {
	v1 := router.Group("/api/v1", middlewares.RequestContext(), middlewares.Authenticate(authCfg))
	if limiter != nil {
		v1.Use(limiter)
	}

	var (
		producers      = middlewares.RequireRoles(middlewares.RoleProducer)
		readers        = middlewares.RequireRoles(middlewares.RoleAuditor, middlewares.RoleInvestigator)
		auditors       = middlewares.RequireRoles(middlewares.RoleAuditor)
		investigators  = middlewares.RequireRoles(middlewares.RoleInvestigator)
		administrators = middlewares.RequireRoles(middlewares.RoleAdmin)
	)

	v1.Post("/events", producers, h.Events.PostEvents)
	v1.Get("/events", readers, h.Events.GetEvents)
	v1.Post("/events/legal-hold", auditors, h.Events.PostLegalHold)
	v1.Get("/integrity", readers, h.Integrity.GetIntegrity)
	v1.Post("/reports", auditors, h.Reports.PostReport)
	v1.Get("/reports/:id", auditors, h.Reports.GetReport)
	v1.Get("/critical-events", readers, h.CriticalEvents.GetCriticalEvents)
	v1.Get("/critical-events/:id", readers, h.CriticalEvents.GetCriticalEvent)
	v1.Post("/critical-events/:id/acknowledge", investigators, h.CriticalEvents.PostAcknowledge)
	v1.Post("/critical-events/:id/resolve", investigators, h.CriticalEvents.PostResolve)
	v1.Post("/critical-events/:id/false-positive", investigators, h.CriticalEvents.PostFalsePositive)
	v1.Get("/retention/policies", auditors, h.Retention.GetPolicies)
	v1.Post("/retention/policies", administrators, h.Retention.PostPolicy)
	v1.Delete("/retention/policies/:id", administrators, h.Retention.DeletePolicy)
}
