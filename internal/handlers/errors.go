package handlers

import (
	"errors"

	"tyrezone/internal/models"
	"tyrezone/internal/services"
	"tyrezone/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// respondError maps service errors to the HTTP status and body every handler uses.
func respondError(c *fiber.Ctx, message string, err error) error {
	if fields := services.FieldErrors(err); fields != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  fields,
		})
	}

	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrProductNotFound), errors.Is(err, models.ErrOrderNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrSubmissionInProgress),
		errors.Is(err, services.ErrOutOfStock):
		status = fiber.StatusConflict
	case errors.Is(err, services.ErrCartEmpty), errors.Is(err, services.ErrInvalidStatus):
		status = fiber.StatusBadRequest
	case errors.Is(err, services.ErrPaymentDeclined):
		status = fiber.StatusPaymentRequired
	}

	if status >= fiber.StatusInternalServerError {
		logger.Error(c.UserContext()).Err(err).Str("path", c.Path()).Msg(message)
	}
	return c.Status(status).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}

func badRequestBody(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Invalid request body",
		"error":   err.Error(),
	})
}
