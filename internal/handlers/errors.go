package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"bookvault/internal/services"
)

var kindStatus = map[services.Kind]int{
	services.KindValidation:   fiber.StatusBadRequest,
	services.KindConflict:     fiber.StatusConflict,
	services.KindUnauthorized: fiber.StatusUnauthorized,
	services.KindForbidden:    fiber.StatusForbidden,
	services.KindNotFound:     fiber.StatusNotFound,
	services.KindInvalid:      fiber.StatusBadRequest,
	services.KindInternal:     fiber.StatusInternalServerError,
}

// ErrorHandler turns every error returned by a handler or middleware into a
// JSON response of the form {"message": ..., "success": false}.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var (
			verr *ValidationError
			serr *services.Error
			ferr *fiber.Error
		)
		switch {
		case errors.As(err, &verr):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Validation failed",
				"errors":  verr.Fields,
			})
		case errors.As(err, &serr):
			status, ok := kindStatus[serr.Kind]
			if !ok {
				status = fiber.StatusInternalServerError
			}
			return fail(c, status, serr.Message)
		case errors.As(err, &ferr):
			return fail(c, ferr.Code, ferr.Message)
		}

		log.Error("unhandled request error",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return fail(c, fiber.StatusInternalServerError, "Internal server error")
	}
}

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

// ok writes a successful response. Keys in data are added next to
// "success" and "message".
func ok(c *fiber.Ctx, status int, message string, data fiber.Map) error {
	body := fiber.Map{"success": true}
	if message != "" {
		body["message"] = message
	}
	for k, v := range data {
		body[k] = v
	}
	return c.Status(status).JSON(body)
}
