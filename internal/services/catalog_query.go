package services

import (
	"cmp"
	"slices"
	"strings"

	"tyrezone/internal/models"
)

// SortKey selects the ordering of a catalog query.
type SortKey string

const (
	SortFeatured  SortKey = "featured"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
	SortRating    SortKey = "rating"
	SortName      SortKey = "name"
)

// ParseSortKey maps s to a SortKey. Empty or unknown values fall back to SortFeatured.
func ParseSortKey(s string) (SortKey, bool) {
	switch k := SortKey(s); k {
	case SortFeatured, SortPriceLow, SortPriceHigh, SortRating, SortName:
		return k, true
	case "":
		return SortFeatured, true
	}
	return SortFeatured, false
}

// Query is the set of search, filter and sort parameters applied to the catalog.
type Query struct {
	Search      string
	Category    models.Category
	Brands      []string
	InStockOnly bool
	Sort        SortKey
}

// QueryCatalog filters and orders products for display. It never modifies products
// and always returns a new, possibly empty, slice. Sorting is stable so ties keep
// their featured order.
func QueryCatalog(products []models.Product, q Query) []models.Product {
	search := strings.ToLower(q.Search)
	brands := make(map[string]struct{}, len(q.Brands))
	for _, b := range q.Brands {
		brands[b] = struct{}{}
	}

	result := make([]models.Product, 0, len(products))
	for _, p := range products {
		if search != "" && !matchesSearch(p, search) {
			continue
		}
		if q.Category != "" && p.Category != q.Category {
			continue
		}
		if len(brands) > 0 {
			if _, ok := brands[p.Brand]; !ok {
				continue
			}
		}
		if q.InStockOnly && !p.InStock {
			continue
		}
		result = append(result, p)
	}

	if compare := comparator(q.Sort); compare != nil {
		slices.SortStableFunc(result, compare)
	}
	return result
}

func matchesSearch(p models.Product, search string) bool {
	return strings.Contains(strings.ToLower(p.Name), search) ||
		strings.Contains(strings.ToLower(p.Brand), search) ||
		strings.Contains(strings.ToLower(p.Size), search)
}

func comparator(key SortKey) func(a, b models.Product) int {
	switch key {
	case SortPriceLow:
		return func(a, b models.Product) int { return cmp.Compare(a.Price, b.Price) }
	case SortPriceHigh:
		return func(a, b models.Product) int { return cmp.Compare(b.Price, a.Price) }
	case SortRating:
		return func(a, b models.Product) int { return cmp.Compare(b.Rating, a.Rating) }
	case SortName:
		return func(a, b models.Product) int {
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		}
	}
	return nil
}

const relatedLimit = 4

// RelatedProducts returns up to four other products sharing the focal product's
// category, rim diameter or vehicle type, in catalog order.
func RelatedProducts(focal models.Product, products []models.Product) []models.Product {
	related := make([]models.Product, 0, relatedLimit)
	for _, p := range products {
		if len(related) == relatedLimit {
			break
		}
		if p.ID == focal.ID {
			continue
		}
		if p.Category == focal.Category || p.RimDiameter == focal.RimDiameter || p.VehicleType == focal.VehicleType {
			related = append(related, p)
		}
	}
	return related
}

// FeaturedProducts returns the first n products in featured order.
func FeaturedProducts(products []models.Product, n int) []models.Product {
	if n > len(products) {
		n = len(products)
	}
	if n < 0 {
		n = 0
	}
	return slices.Clone(products[:n])
}
