package handlers

import (
	"tyrezone/internal/middleware"
	"tyrezone/internal/models"
	"tyrezone/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CheckoutHandler handles HTTP requests for the checkout flow.
type CheckoutHandler struct {
	service *services.CheckoutService
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(service *services.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{
		service: service,
	}
}

// RegisterRoutes registers the checkout routes with the Fiber app.
func (h *CheckoutHandler) RegisterRoutes(router fiber.Router) {
	checkoutRoutes := router.Group("/checkout")
	checkoutRoutes.Get("/", h.HandleGetCheckout)
	checkoutRoutes.Put("/shipping", h.HandleSetShipping)
	checkoutRoutes.Put("/payment", h.HandleSetPayment)
	checkoutRoutes.Post("/continue", h.HandleContinue)
	checkoutRoutes.Post("/back", h.HandleBack)
	checkoutRoutes.Post("/submit", h.HandleSubmit)
	checkoutRoutes.Post("/restart", h.HandleRestart)
}

// HandleGetCheckout returns the current step, cart and price breakdown.
func (h *CheckoutHandler) HandleGetCheckout(c *fiber.Ctx) error {
	return c.JSON(h.service.View(c.UserContext(), middleware.SessionID(c)))
}

// HandleSetShipping stores the shipping form.
func (h *CheckoutHandler) HandleSetShipping(c *fiber.Ctx) error {
	var details models.ShippingDetails
	if err := c.BodyParser(&details); err != nil {
		return badRequestBody(c, err)
	}
	if details.Method == "" {
		details.Method = models.ShippingStandard
	}

	view, err := h.service.SetShipping(c.UserContext(), middleware.SessionID(c), details)
	if err != nil {
		return respondError(c, "Could not update shipping details", err)
	}
	return c.JSON(view)
}

// HandleSetPayment stores the payment form.
func (h *CheckoutHandler) HandleSetPayment(c *fiber.Ctx) error {
	var details models.PaymentDetails
	if err := c.BodyParser(&details); err != nil {
		return badRequestBody(c, err)
	}

	view, err := h.service.SetPayment(c.UserContext(), middleware.SessionID(c), details)
	if err != nil {
		return respondError(c, "Could not update payment details", err)
	}
	return c.JSON(view)
}

// HandleContinue moves to the next step.
func (h *CheckoutHandler) HandleContinue(c *fiber.Ctx) error {
	view, err := h.service.Continue(c.UserContext(), middleware.SessionID(c))
	if err != nil {
		return respondError(c, "Could not continue", err)
	}
	return c.JSON(view)
}

// HandleBack moves to the previous step.
func (h *CheckoutHandler) HandleBack(c *fiber.Ctx) error {
	view, err := h.service.Back(c.UserContext(), middleware.SessionID(c))
	if err != nil {
		return respondError(c, "Could not go back", err)
	}
	return c.JSON(view)
}

// HandleSubmit places the order. The request blocks until payment settles.
func (h *CheckoutHandler) HandleSubmit(c *fiber.Ctx) error {
	sessionID := middleware.SessionID(c)
	order, err := h.service.Submit(c.UserContext(), sessionID)
	if err != nil {
		return respondError(c, "Order could not be placed", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Order placed successfully",
		"order":   order,
	})
}

// HandleRestart starts a new checkout, keeping the shipping details.
func (h *CheckoutHandler) HandleRestart(c *fiber.Ctx) error {
	view, err := h.service.Restart(c.UserContext(), middleware.SessionID(c))
	if err != nil {
		return respondError(c, "Could not restart checkout", err)
	}
	return c.JSON(view)
}
