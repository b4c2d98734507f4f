package handlers

import (
	"tyrezone/internal/models"
	"tyrezone/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ContactHandler handles the contact form.
type ContactHandler struct {
	service *services.ContactService
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(service *services.ContactService) *ContactHandler {
	return &ContactHandler{
		service: service,
	}
}

// RegisterRoutes registers the contact routes with the Fiber app.
func (h *ContactHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/contact", h.HandleSubmit)
}

// HandleSubmit accepts a contact form message.
func (h *ContactHandler) HandleSubmit(c *fiber.Ctx) error {
	var msg models.ContactMessage
	if err := c.BodyParser(&msg); err != nil {
		return badRequestBody(c, err)
	}

	stored, err := h.service.Submit(c.UserContext(), msg)
	if err != nil {
		return respondError(c, "Message could not be sent", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Message sent! We'll get back to you within 24 hours.",
		"id":      stored.ID,
	})
}
