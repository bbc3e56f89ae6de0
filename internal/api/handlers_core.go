package api

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

const healthPingTimeout = 2 * time.Second

// Health reports liveness plus a database ping.
func (handler *Handler) Health(c *fiber.Ctx) error {
	timestamp := handler.now().UTC().Format(time.RFC3339)

	sqlDB, err := handler.db.DB()
	if err == nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), healthPingTimeout)
		defer cancel()
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":    "unavailable",
			"timestamp": timestamp,
		})
	}

	return c.JSON(fiber.Map{
		"status":    "ok",
		"timestamp": timestamp,
	})
}
