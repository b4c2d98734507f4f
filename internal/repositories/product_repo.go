package repositories

import (
	"context"

	"tyrezone/internal/models"
)

// ProductRepository defines the interface for catalog data access.
// GetAll returns products in featured order.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
}
