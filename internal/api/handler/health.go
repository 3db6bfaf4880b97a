package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler answers liveness probes. It reports process liveness
// only; the database and model backends have their own failure modes
// (degraded compliance, per-frame resolver errors) and are not gated
// here.
type HealthHandler struct {
	started time.Time
}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{started: time.Now()}
}

type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Uptime  string `json:"uptime"`
}

// Health GET / and GET /health
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status:  "ok",
		Message: "Safety AI Server is running.",
		Uptime:  time.Since(h.started).Round(time.Second).String(),
	})
}
