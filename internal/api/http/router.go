package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/certidao-digital/atendimento/internal/api/http/handlers"
	"github.com/certidao-digital/atendimento/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health  *handlers.HealthHandler
	Metrics *handlers.MetricsHandler
	Tickets *handlers.TicketsHandler
	APIKey  *auth.APIKeyMiddleware
}

// RegisterRoutes wires HTTP routes. The health probe and the token-gated
// certificate download bypass the shared-secret gate.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health", cfg.Health.Live)
	app.Get("/metrics", cfg.APIKey.Handle, cfg.Metrics.Stats)
	app.Get("/tickets/:id/certificado", cfg.Tickets.DownloadCertificado)

	tickets := app.Group("/tickets", cfg.APIKey.Handle)
	tickets.Get("/generate-code", cfg.Tickets.GenerateCode)
	tickets.Post("/", cfg.Tickets.CreateTicket)
	tickets.Get("/", cfg.Tickets.ListTickets)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Put("/:id", cfg.Tickets.UpdateTicket)
	tickets.Post("/:id/send-completion", cfg.Tickets.SendCompletion)
}
