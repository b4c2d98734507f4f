package handlers

import (
	"errors"
	"strconv"
	"strings"

	"tyrezone/internal/models"
	"tyrezone/internal/services"

	"github.com/gofiber/fiber/v2"
)

const featuredCount = 4

// ProductHandler handles HTTP requests for the tyre catalog.
type ProductHandler struct {
	service *services.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service: service,
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleListProducts)
	productRoutes.Get("/featured", h.HandleFeatured)
	productRoutes.Get("/facets", h.HandleFacets)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Get("/:id/related", h.HandleRelated)
}

// HandleListProducts runs a catalog query built from the query string:
// search, category, brands (comma separated), inStock and sort.
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	q, err := parseQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid catalog query",
			"error":   err.Error(),
		})
	}

	products, err := h.service.Search(c.UserContext(), q)
	if err != nil {
		return respondError(c, "Could not retrieve products", err)
	}
	return c.JSON(fiber.Map{
		"products": products,
		"count":    len(products),
		"query": fiber.Map{
			"search":   q.Search,
			"category": q.Category,
			"brands":   q.Brands,
			"inStock":  q.InStockOnly,
			"sort":     q.Sort,
		},
	})
}

func parseQuery(c *fiber.Ctx) (services.Query, error) {
	q := services.Query{Search: strings.TrimSpace(c.Query("search"))}

	if category := c.Query("category"); category != "" && category != "all" {
		q.Category = models.Category(category)
		if !q.Category.Valid() {
			return q, errors.New("unknown category " + category)
		}
	}
	for _, b := range strings.Split(c.Query("brands"), ",") {
		if b = strings.TrimSpace(b); b != "" {
			q.Brands = append(q.Brands, b)
		}
	}
	if raw := c.Query("inStock"); raw != "" {
		inStock, err := strconv.ParseBool(raw)
		if err != nil {
			return q, errors.New("inStock must be true or false")
		}
		q.InStockOnly = inStock
	}
	// unknown sort keys fall back to featured order
	q.Sort, _ = services.ParseSortKey(c.Query("sort"))
	return q, nil
}

// HandleFeatured returns the products shown on the home page.
func (h *ProductHandler) HandleFeatured(c *fiber.Ctx) error {
	products, err := h.service.Featured(c.UserContext(), featuredCount)
	if err != nil {
		return respondError(c, "Could not retrieve featured products", err)
	}
	return c.JSON(products)
}

// HandleFacets returns the category and brand filters.
func (h *ProductHandler) HandleFacets(c *fiber.Ctx) error {
	facets, err := h.service.Facets(c.UserContext())
	if err != nil {
		return respondError(c, "Could not retrieve filters", err)
	}
	return c.JSON(facets)
}

// productView adds the derived sale fields to a product.
type productView struct {
	models.Product
	OnSale          bool `json:"onSale"`
	DiscountPercent int  `json:"discountPercent,omitempty"`
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	productID := c.Params("id")
	product, err := h.service.GetProductByID(c.UserContext(), productID)
	if errors.Is(err, models.ErrProductNotFound) {
		return productNotFound(c, productID)
	}
	if err != nil {
		return respondError(c, "Could not retrieve product", err)
	}
	return c.JSON(productView{
		Product:         *product,
		OnSale:          product.OnSale(),
		DiscountPercent: product.DiscountPercent(),
	})
}

// HandleRelated returns up to four products similar to the given one.
func (h *ProductHandler) HandleRelated(c *fiber.Ctx) error {
	productID := c.Params("id")
	related, err := h.service.Related(c.UserContext(), productID)
	if errors.Is(err, models.ErrProductNotFound) {
		return productNotFound(c, productID)
	}
	if err != nil {
		return respondError(c, "Could not retrieve related products", err)
	}
	return c.JSON(related)
}

func productNotFound(c *fiber.Ctx, productID string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"message": "Product Not Found",
		"error":   "product " + productID + " does not exist",
		"back":    "/shop",
	})
}
