package handlers

import (
	"tyrezone/internal/middleware"
	"tyrezone/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for the visitor's cart.
type CartHandler struct {
	service  *services.CartService
	validate *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService, validate *validator.Validate) *CartHandler {
	return &CartHandler{
		service:  service,
		validate: validate,
	}
}

type addItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gte=0"`
}

type updateItemRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

// RegisterRoutes registers the cart routes with the Fiber app.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Delete("/", h.HandleClearCart)
	cartRoutes.Post("/items", h.HandleAddItem)
	cartRoutes.Patch("/items/:id", h.HandleUpdateItem)
	cartRoutes.Delete("/items/:id", h.HandleRemoveItem)
}

// HandleGetCart returns the cart with its shipping estimate.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	return c.JSON(h.service.Summary(c.UserContext(), middleware.SessionID(c)))
}

// HandleAddItem adds a product to the cart. A missing quantity adds one.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req addItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequestBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return respondError(c, "Validation failed", err)
	}

	summary, err := h.service.AddItem(c.UserContext(), middleware.SessionID(c), req.ProductID, req.Quantity)
	if err != nil {
		return respondError(c, "Could not add to cart", err)
	}
	return c.Status(fiber.StatusCreated).JSON(summary)
}

// HandleUpdateItem sets the quantity of a line. Zero removes it.
func (h *CartHandler) HandleUpdateItem(c *fiber.Ctx) error {
	var req updateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequestBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return respondError(c, "Validation failed", err)
	}

	summary, err := h.service.SetQuantity(c.UserContext(), middleware.SessionID(c), c.Params("id"), *req.Quantity)
	if err != nil {
		return respondError(c, "Could not update cart", err)
	}
	return c.JSON(summary)
}

// HandleRemoveItem deletes a line from the cart.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	summary, err := h.service.RemoveItem(c.UserContext(), middleware.SessionID(c), c.Params("id"))
	if err != nil {
		return respondError(c, "Could not update cart", err)
	}
	return c.JSON(summary)
}

// HandleClearCart empties the cart.
func (h *CartHandler) HandleClearCart(c *fiber.Ctx) error {
	summary, err := h.service.Clear(c.UserContext(), middleware.SessionID(c))
	if err != nil {
		return respondError(c, "Could not clear cart", err)
	}
	return c.JSON(summary)
}
