package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"tyrezone/internal/models"
	"tyrezone/internal/repositories"
	"tyrezone/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Routing keys of order events.
const (
	EventOrderPlaced        = "order.placed"
	EventOrderStatusUpdated = "order.status_updated"
)

// ErrInvalidStatus is returned for status values outside the order lifecycle.
var ErrInvalidStatus = errors.New("invalid order status")

// EventPublisher delivers order events to a message broker.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, body []byte) error
}

// LogPublisher writes events to the log instead of a broker.
type LogPublisher struct{}

func (LogPublisher) Publish(ctx context.Context, routingKey string, body []byte) error {
	logger.Info(ctx).Str("routing_key", routingKey).RawJSON("event", body).Msg("order event")
	return nil
}

// OrderEvent is the message published for order changes.
type OrderEvent struct {
	OrderID   string          `json:"orderId"`
	Status    string          `json:"status"`
	Email     string          `json:"email,omitempty"`
	Items     int             `json:"items,omitempty"`
	Total     decimal.Decimal `json:"total"`
	Timestamp time.Time       `json:"timestamp"`
}

// OrderService handles business logic related to orders.
type OrderService struct {
	orderRepo repositories.OrderRepository
	publisher EventPublisher
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository, publisher EventPublisher) *OrderService {
	if publisher == nil {
		publisher = LogPublisher{}
	}
	return &OrderService{
		orderRepo: orderRepo,
		publisher: publisher,
	}
}

// GetAllOrders retrieves all orders.
func (s *OrderService) GetAllOrders(ctx context.Context) ([]models.Order, error) {
	return s.orderRepo.GetAll(ctx)
}

// GetOrderByID retrieves a single order by its ID.
func (s *OrderService) GetOrderByID(ctx context.Context, id string) (*models.Order, error) {
	return s.orderRepo.GetByID(ctx, id)
}

// OrdersForSession returns the orders placed by one visitor, oldest first.
func (s *OrderService) OrdersForSession(ctx context.Context, sessionID string) ([]models.Order, error) {
	orders, err := s.orderRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	mine := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if o.SessionID == sessionID {
			mine = append(mine, o)
		}
	}
	return mine, nil
}

// PlaceOrder stores an order for the given cart lines, priced at placement, and
// publishes order.placed. A failed publish is logged and does not fail the order.
func (s *OrderService) PlaceOrder(ctx context.Context, sessionID string, shipping models.ShippingDetails, lines []models.CartLine, quote Quote, charge Charge) (*models.Order, error) {
	if len(lines) == 0 {
		return nil, ErrCartEmpty
	}

	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, models.OrderItem{
			ProductID: line.Product.ID,
			Name:      line.Product.Name,
			Size:      line.Product.Size,
			Quantity:  line.Quantity,
			Price:     line.Product.Price,
		})
	}

	order := &models.Order{
		ID:             uuid.New().String(),
		SessionID:      sessionID,
		Email:          shipping.Email,
		CustomerName:   strings.TrimSpace(shipping.FirstName + " " + shipping.LastName),
		Address:        shipping.Address,
		City:           shipping.City,
		State:          shipping.State,
		ZipCode:        shipping.ZipCode,
		Phone:          shipping.Phone,
		ShippingMethod: shipping.Method,
		CardLast4:      charge.Last4,
		Items:          items,
		Subtotal:       quote.Subtotal,
		Shipping:       quote.Shipping,
		Tax:            quote.Tax,
		TotalAmount:    quote.Total,
		Status:         models.OrderStatusPlaced,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order in repository: %w", err)
	}

	count := 0
	for _, item := range items {
		count += item.Quantity
	}
	s.publish(ctx, EventOrderPlaced, OrderEvent{
		OrderID:   order.ID,
		Status:    order.Status,
		Email:     order.Email,
		Items:     count,
		Total:     order.TotalAmount,
		Timestamp: order.CreatedAt,
	})

	logger.Info(ctx).Str("order_id", order.ID).Str("total", order.TotalAmount.StringFixed(2)).Msg("order placed")
	return order, nil
}

var validStatuses = map[string]bool{
	models.OrderStatusPlaced:     true,
	models.OrderStatusProcessing: true,
	models.OrderStatusShipped:    true,
	models.OrderStatusDelivered:  true,
	models.OrderStatusCancelled:  true,
}

// UpdateOrderStatus updates the status of an existing order.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id string, status string) (*models.Order, error) {
	if !validStatuses[status] {
		return nil, fmt.Errorf("%q: %w", status, ErrInvalidStatus)
	}

	if err := s.orderRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("failed to update order status for order %s: %w", id, err)
	}

	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, EventOrderStatusUpdated, OrderEvent{
		OrderID:   order.ID,
		Status:    order.Status,
		Total:     order.TotalAmount,
		Timestamp: order.UpdatedAt,
	})
	return order, nil
}

// ValidStatus reports whether status is a known order status.
func ValidStatus(status string) bool {
	return validStatuses[status]
}

func (s *OrderService) publish(ctx context.Context, routingKey string, event OrderEvent) {
	body, err := json.Marshal(event)
	if err != nil {
		logger.Error(ctx).Err(err).Msg("failed to marshal order event")
		return
	}
	if err := s.publisher.Publish(ctx, routingKey, body); err != nil {
		logger.Warn(ctx).Err(err).Str("order_id", event.OrderID).Str("routing_key", routingKey).Msg("failed to publish order event")
	}
}
