package handlers

import (
	"fmt"

	"tyrezone/internal/middleware"
	"tyrezone/internal/models"
	"tyrezone/internal/services"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service *services.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service: service,
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleGetOrders)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Patch("/:id/status", h.HandleUpdateOrderStatus)
}

// HandleGetOrders lists the orders placed in the current session.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	orders, err := h.service.OrdersForSession(c.UserContext(), middleware.SessionID(c))
	if err != nil {
		return respondError(c, "Could not retrieve orders", err)
	}
	return c.JSON(orders)
}

// sessionOrder loads an order and hides orders of other sessions.
func (h *OrderHandler) sessionOrder(c *fiber.Ctx) (*models.Order, error) {
	orderID := c.Params("id")
	order, err := h.service.GetOrderByID(c.UserContext(), orderID)
	if err != nil {
		return nil, err
	}
	if order.SessionID != middleware.SessionID(c) {
		return nil, fmt.Errorf("order with ID %s: %w", orderID, models.ErrOrderNotFound)
	}
	return order, nil
}

// HandleGetOrderByID retrieves a single order by its ID.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	order, err := h.sessionOrder(c)
	if err != nil {
		return respondError(c, fmt.Sprintf("Order with ID %s not found", c.Params("id")), err)
	}
	return c.JSON(order)
}

// HandleUpdateOrderStatus updates the status of an existing order.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	var updateData struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&updateData); err != nil {
		return badRequestBody(c, err)
	}
	if _, err := h.sessionOrder(c); err != nil {
		return respondError(c, fmt.Sprintf("Order with ID %s not found", c.Params("id")), err)
	}

	order, err := h.service.UpdateOrderStatus(c.UserContext(), c.Params("id"), updateData.Status)
	if err != nil {
		return respondError(c, "Could not update order status", err)
	}
	return c.JSON(fiber.Map{
		"message": "Order status updated successfully",
		"order":   order,
	})
}
