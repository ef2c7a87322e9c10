package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/artikelin/api/internal/client"
)

// Pinger is satisfied by the store
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db       Pinger
	registry *client.ProviderRegistry
}

func NewHealthHandler(db Pinger, registry *client.ProviderRegistry) *HealthHandler {
	return &HealthHandler{db: db, registry: registry}
}

// Check handles GET /health
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	status, database := "ok", "ok"
	code := fiber.StatusOK
	if err := h.db.Ping(ctx); err != nil {
		status, database = "degraded", "unavailable"
		code = fiber.StatusServiceUnavailable
	}

	return c.Status(code).JSON(fiber.Map{
		"status":   status,
		"database": database,
		"services": h.registry.Status(),
	})
}
