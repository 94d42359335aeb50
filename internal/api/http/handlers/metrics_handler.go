package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/certidao-digital/atendimento/internal/observability"
)

// MetricsHandler exposes the in-memory request counters for operators.
type MetricsHandler struct {
	metrics *observability.Metrics
}

// NewMetricsHandler returns a new handler instance.
func NewMetricsHandler(metrics *observability.Metrics) *MetricsHandler {
	return &MetricsHandler{metrics: metrics}
}

// Stats GET /metrics.
func (h *MetricsHandler) Stats(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"requests":        h.metrics.Requests(),
		"errors":          h.metrics.Errors(),
		"totalDurationMs": h.metrics.Timings(),
	})
}
