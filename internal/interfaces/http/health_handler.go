package http

import (
	"context"
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Pinger dependencia externa verificable (pgxpool.Pool, cache.RedisCache).
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler GET /health.
type HealthHandler struct {
	service string
	checks  map[string]Pinger
	timeout time.Duration
}

// NewHealthHandler construye el handler. checks puede ser nil.
func NewHealthHandler(service string, checks map[string]Pinger) *HealthHandler {
	return &HealthHandler{service: service, checks: checks, timeout: 2 * time.Second}
}

// Check godoc
// @Summary      Estado del servicio y sus dependencias
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]interface{}  "degraded"
// @Router       /health [get]
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), h.timeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := "ok"
	deps := make(fiber.Map, len(names))
	for _, name := range names {
		if err := h.checks[name].Ping(ctx); err != nil {
			deps[name] = err.Error()
			status = "degraded"
			continue
		}
		deps[name] = "ok"
	}

	code := fiber.StatusOK
	if status != "ok" {
		code = fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(fiber.Map{"status": status, "service": h.service, "checks": deps})
}
