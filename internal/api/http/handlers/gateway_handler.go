package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/access-gateway/internal/observability"
)

// GatewayHandler exposes gateway internals to administrators.
type GatewayHandler struct {
	metrics *observability.Metrics
}

// NewGatewayHandler constructs handler.
func NewGatewayHandler(metrics *observability.Metrics) *GatewayHandler {
	return &GatewayHandler{metrics: metrics}
}

// Decisions returns guard outcome counters.
func (h *GatewayHandler) Decisions(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"decisions": h.metrics.Decisions()})
}
