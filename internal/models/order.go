package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrOrderNotFound is returned when an order id is unknown.
var ErrOrderNotFound = errors.New("order not found")

// Order statuses.
const (
	OrderStatusPlaced     = "placed"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// OrderItem represents a single line within an order.
type OrderItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Size      string  `json:"size"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"` // Price at the time of order
}

// Order represents a placed customer order.
type Order struct {
	ID             string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	SessionID      string          `json:"-" gorm:"index;type:varchar(36)"`
	Email          string          `json:"email"`
	CustomerName   string          `json:"customer_name"`
	Address        string          `json:"address"`
	City           string          `json:"city"`
	State          string          `json:"state"`
	ZipCode        string          `json:"zip_code"`
	Phone          string          `json:"phone,omitempty"`
	ShippingMethod ShippingMethod  `json:"shipping_method" gorm:"type:varchar(10)"`
	CardLast4      string          `json:"card_last4" gorm:"type:varchar(4)"`
	Items          []OrderItem     `json:"items" gorm:"serializer:json"`
	Subtotal       decimal.Decimal `json:"subtotal" gorm:"type:numeric(12,2)"`
	Shipping       decimal.Decimal `json:"shipping" gorm:"type:numeric(12,2)"`
	Tax            decimal.Decimal `json:"tax" gorm:"type:numeric(12,2)"`
	TotalAmount    decimal.Decimal `json:"total_amount" gorm:"type:numeric(12,2)"`
	Status         string          `json:"status" gorm:"type:varchar(20)"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
