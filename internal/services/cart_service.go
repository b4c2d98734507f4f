package services

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"

	"tyrezone/internal/models"
	"tyrezone/internal/repositories"
	"tyrezone/pkg/logger"

	"github.com/shopspring/decimal"
)

// ErrOutOfStock is returned when a product cannot be added in the requested quantity.
var ErrOutOfStock = errors.New("product out of stock")

// ClampQuantity limits quantity to [1, stock]. It returns 0 when nothing is in stock.
func ClampQuantity(quantity, stock int) int {
	if stock < 1 {
		return 0
	}
	if quantity < 1 {
		return 1
	}
	if quantity > stock {
		return stock
	}
	return quantity
}

// CartLineView is a cart line with its extended price.
type CartLineView struct {
	Product   models.Product  `json:"product"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

// CartSummary is the cart page: lines plus the standard-shipping estimate.
type CartSummary struct {
	Lines     []CartLineView  `json:"lines"`
	ItemCount int             `json:"itemCount"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Shipping  decimal.Decimal `json:"shipping"`
	Total     decimal.Decimal `json:"total"`
}

// sessionLockStripes bounds the number of mutexes serializing cart mutations.
const sessionLockStripes = 64

// CartService serves visitor carts straight from their storage slots. A
// session's slot key is "<prefix>:<sessionID>". Nothing is cached between
// calls, so instances sharing one storage see each other's changes and an
// expired slot reads as an empty cart.
type CartService struct {
	locks    [sessionLockStripes]sync.Mutex
	storage  repositories.CartStorage
	products repositories.ProductRepository
	prefix   string
	pricing  PricingRules
	metrics  *Metrics
}

// NewCartService creates a new CartService.
func NewCartService(storage repositories.CartStorage, products repositories.ProductRepository, prefix string, pricing PricingRules, metrics *Metrics) *CartService {
	return &CartService{
		storage:  storage,
		products: products,
		prefix:   prefix,
		pricing:  pricing,
		metrics:  metrics,
	}
}

// SlotKey returns the storage key of a session's cart.
func (s *CartService) SlotKey(sessionID string) string {
	return s.prefix + ":" + sessionID
}

// Cart loads the session's cart from its storage slot.
func (s *CartService) Cart(ctx context.Context, sessionID string) *CartStore {
	return OpenCartStore(ctx, s.storage, s.SlotKey(sessionID))
}

// lock serializes load-modify-save cycles of one session within this process.
func (s *CartService) lock(sessionID string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(sessionID))
	mu := &s.locks[h.Sum32()%sessionLockStripes]
	mu.Lock()
	return mu.Unlock
}

// AddItem adds quantity units of productID, never taking the line above the
// product's stock.
func (s *CartService) AddItem(ctx context.Context, sessionID, productID string, quantity int) (CartSummary, error) {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return CartSummary{}, err
	}
	if !product.InStock {
		return CartSummary{}, fmt.Errorf("%s: %w", product.Name, ErrOutOfStock)
	}

	defer s.lock(sessionID)()
	store := s.Cart(ctx, sessionID)
	current := 0
	if line, ok := store.Line(productID); ok {
		current = line.Quantity
	}
	if quantity < 1 {
		quantity = 1
	}
	add := ClampQuantity(current+quantity, product.StockQuantity) - current
	if add < 1 {
		return s.summarize(store), fmt.Errorf("only %d of %s in stock: %w", product.StockQuantity, product.Name, ErrOutOfStock)
	}

	if err := store.AddToCart(ctx, *product, add); err != nil {
		return s.summarize(store), err
	}
	s.metrics.CartItemsAdded.Add(float64(add))
	logger.Debug(ctx).Str("product_id", productID).Int("quantity", add).Msg("added to cart")
	return s.summarize(store), nil
}

// SetQuantity changes a line's quantity. Positive quantities are capped at the
// product's current stock; zero or less removes the line.
func (s *CartService) SetQuantity(ctx context.Context, sessionID, productID string, quantity int) (CartSummary, error) {
	if quantity > 0 {
		product, err := s.products.GetByID(ctx, productID)
		switch {
		case err == nil:
			if product.StockQuantity > 0 {
				quantity = ClampQuantity(quantity, product.StockQuantity)
			}
		case !errors.Is(err, models.ErrProductNotFound):
			return CartSummary{}, err
		}
	}

	defer s.lock(sessionID)()
	store := s.Cart(ctx, sessionID)
	if err := store.UpdateQuantity(ctx, productID, quantity); err != nil {
		return s.summarize(store), err
	}
	return s.summarize(store), nil
}

// RemoveItem deletes a line.
func (s *CartService) RemoveItem(ctx context.Context, sessionID, productID string) (CartSummary, error) {
	defer s.lock(sessionID)()
	store := s.Cart(ctx, sessionID)
	if err := store.RemoveFromCart(ctx, productID); err != nil {
		return s.summarize(store), err
	}
	return s.summarize(store), nil
}

// Clear empties the session's cart.
func (s *CartService) Clear(ctx context.Context, sessionID string) (CartSummary, error) {
	defer s.lock(sessionID)()
	store := s.Cart(ctx, sessionID)
	if err := store.ClearCart(ctx); err != nil {
		return s.summarize(store), err
	}
	return s.summarize(store), nil
}

// RemoveOrdered takes the ordered quantities out of the session's cart. Lines
// added or raised after the order was priced keep the difference.
func (s *CartService) RemoveOrdered(ctx context.Context, sessionID string, ordered []models.CartLine) error {
	defer s.lock(sessionID)()
	return s.Cart(ctx, sessionID).RemoveOrdered(ctx, ordered)
}

// Summary returns the session's cart page.
func (s *CartService) Summary(ctx context.Context, sessionID string) CartSummary {
	return s.summarize(s.Cart(ctx, sessionID))
}

func (s *CartService) summarize(store *CartStore) CartSummary {
	lines := store.Lines()
	views := make([]CartLineView, 0, len(lines))
	count := 0
	for _, line := range lines {
		views = append(views, CartLineView{
			Product:   line.Product,
			Quantity:  line.Quantity,
			LineTotal: decimal.NewFromFloat(line.Product.Price).Mul(decimal.NewFromInt(int64(line.Quantity))),
		})
		count += line.Quantity
	}

	estimate := s.pricing.Estimate(linesTotal(lines))
	return CartSummary{
		Lines:     views,
		ItemCount: count,
		Subtotal:  estimate.Subtotal,
		Shipping:  estimate.Shipping,
		Total:     estimate.Total,
	}
}
