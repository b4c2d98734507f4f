package repositories

import (
	"context"
	"fmt"
	"sync"

	"tyrezone/internal/models"

	"github.com/google/uuid"
)

// StaticProductRepository is an in-memory implementation of ProductRepository
// that keeps insertion order as the featured order.
type StaticProductRepository struct {
	products []models.Product
	index    map[string]int
	mu       sync.RWMutex
}

// NewStaticProductRepository creates a repository holding the given products.
func NewStaticProductRepository(products ...models.Product) *StaticProductRepository {
	r := &StaticProductRepository{index: make(map[string]int)}
	for i := range products {
		p := products[i]
		_ = r.Create(context.Background(), &p)
	}
	return r
}

// GetAll returns all products in featured order.
func (r *StaticProductRepository) GetAll(_ context.Context) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, len(r.products))
	copy(productList, r.products)
	return productList, nil
}

// GetByID returns a product by its ID.
func (r *StaticProductRepository) GetByID(_ context.Context, id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[id]
	if !ok {
		return nil, fmt.Errorf("product with ID %s: %w", id, models.ErrProductNotFound)
	}
	product := r.products[i]
	return &product, nil
}

// Create appends a product, replacing any product with the same ID in place.
func (r *StaticProductRepository) Create(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	product.Normalize()
	if i, ok := r.index[product.ID]; ok {
		r.products[i] = *product
		return nil
	}
	product.Position = len(r.products)
	r.index[product.ID] = len(r.products)
	r.products = append(r.products, *product)
	return nil
}
