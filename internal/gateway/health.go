package gateway

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/andretaki/amazon-ads-project2024/internal/config"
)

// ServiceName identifies the gateway in health payloads
const ServiceName = "amazon-ads-reports"

// HealthHandler handles health check requests
type HealthHandler struct {
	config    *config.Config
	startTime time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(cfg *config.Config) *HealthHandler {
	return &HealthHandler{
		config:    cfg,
		startTime: time.Now(),
	}
}

// HandleHealth returns liveness and configuration status
func (h *HealthHandler) HandleHealth(c *fiber.Ctx) error {
	uptime := time.Since(h.startTime)

	return c.JSON(fiber.Map{
		"status":         "healthy",
		"service":        ServiceName,
		"uptime_seconds": int64(uptime.Seconds()),
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
		"region":         h.config.AWS.Region,
		"report_mode":    h.config.ReportMode(),
		"lookback_days":  h.config.Report.LookbackDays,
	})
}

// HandleReady reports whether report requests can be submitted
func (h *HealthHandler) HandleReady(c *fiber.Ctx) error {
	ready := fiber.Map{
		"ready":      true,
		"service":    ServiceName,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"profile_id": h.config.HasProfileID(),
	}

	if !h.config.HasProfileID() {
		ready["ready"] = false
		ready["reason"] = "Advertising profile not configured"
		return c.Status(fiber.StatusServiceUnavailable).JSON(ready)
	}

	return c.JSON(ready)
}
