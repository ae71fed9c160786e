package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// HandleHealth reports that the process is serving requests.
func HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
