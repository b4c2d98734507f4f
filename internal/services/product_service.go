package services

import (
	"context"

	"tyrezone/internal/catalog"
	"tyrezone/internal/models"
	"tyrezone/internal/repositories"
)

// CategoryFacet is a category with the number of catalog products in it.
type CategoryFacet struct {
	catalog.CategoryInfo
	Count int `json:"count"`
}

// Facets lists the filter options offered next to the catalog.
type Facets struct {
	Categories []CategoryFacet `json:"categories"`
	Brands     []string        `json:"brands"`
	InStock    int             `json:"inStock"`
	OutOfStock int             `json:"outOfStock"`
}

// ProductService handles business logic related to the catalog.
type ProductService struct {
	repo repositories.ProductRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{
		repo: repo,
	}
}

// GetAllProducts retrieves all products in featured order.
func (s *ProductService) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	return s.repo.GetAll(ctx)
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// Search runs q against the whole catalog.
func (s *ProductService) Search(ctx context.Context, q Query) ([]models.Product, error) {
	products, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return QueryCatalog(products, q), nil
}

// Featured returns the first n catalog products.
func (s *ProductService) Featured(ctx context.Context, n int) ([]models.Product, error) {
	products, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return FeaturedProducts(products, n), nil
}

// Related returns the products shown next to the product with the given id.
func (s *ProductService) Related(ctx context.Context, id string) ([]models.Product, error) {
	focal, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	products, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return RelatedProducts(*focal, products), nil
}

// Facets counts the catalog per category and stock state.
func (s *ProductService) Facets(ctx context.Context) (Facets, error) {
	products, err := s.repo.GetAll(ctx)
	if err != nil {
		return Facets{}, err
	}

	counts := make(map[models.Category]int)
	facets := Facets{Brands: catalog.Brands()}
	for _, p := range products {
		counts[p.Category]++
		if p.InStock {
			facets.InStock++
		} else {
			facets.OutOfStock++
		}
	}
	for _, c := range catalog.Categories() {
		facets.Categories = append(facets.Categories, CategoryFacet{CategoryInfo: c, Count: counts[c.ID]})
	}
	return facets, nil
}
