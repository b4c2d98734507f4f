package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"tyrezone/internal/models"
	"tyrezone/internal/repositories"
	"tyrezone/pkg/logger"

	"github.com/shopspring/decimal"
)

// CartStore owns the visitor's cart lines and mirrors every change to a
// CartStorage slot as a JSON array of {product, quantity} objects.
//
// Lines keep insertion order and never hold a quantity below 1. A failed save
// leaves the in-memory cart updated and is reported to the caller.
type CartStore struct {
	mu      sync.RWMutex
	storage repositories.CartStorage
	key     string
	lines   []models.CartLine
}

// OpenCartStore loads the cart stored under key. A missing or unreadable slot
// yields an empty cart.
func OpenCartStore(ctx context.Context, storage repositories.CartStorage, key string) *CartStore {
	s := &CartStore{storage: storage, key: key, lines: []models.CartLine{}}

	data, err := storage.Load(ctx, key)
	switch {
	case errors.Is(err, repositories.ErrSlotNotFound):
		return s
	case err != nil:
		logger.Warn(ctx).Err(err).Str("slot", key).Msg("cart slot unreadable, starting empty")
		return s
	}

	lines, err := decodeCart(data)
	if err != nil {
		logger.Warn(ctx).Err(err).Str("slot", key).Msg("cart slot corrupt, starting empty")
		return s
	}
	s.lines = lines
	return s
}

// decodeCart parses a stored cart, dropping lines that could not have been
// written by a CartStore and merging repeated products. Snapshots are
// normalized so InStock follows StockQuantity.
func decodeCart(data []byte) ([]models.CartLine, error) {
	var stored []models.CartLine
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("failed to decode cart: %w", err)
	}

	lines := make([]models.CartLine, 0, len(stored))
	index := make(map[string]int, len(stored))
	for _, line := range stored {
		if line.Product.ID == "" || line.Quantity < 1 {
			continue
		}
		if i, ok := index[line.Product.ID]; ok {
			lines[i].Quantity += line.Quantity
			continue
		}
		line.Product.Normalize()
		index[line.Product.ID] = len(lines)
		lines = append(lines, line)
	}
	return lines, nil
}

// AddToCart adds quantity units of product. An existing line is increased and
// keeps its stored product record; otherwise a new line is appended. Quantities
// below 1 count as 1.
func (s *CartStore) AddToCart(ctx context.Context, product models.Product, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(product.ID); i >= 0 {
		s.lines[i].Quantity += quantity
	} else {
		s.lines = append(s.lines, models.CartLine{Product: product, Quantity: quantity})
	}
	return s.persist(ctx)
}

// RemoveFromCart deletes the line for productID. Unknown ids are a no-op.
func (s *CartStore) RemoveFromCart(ctx context.Context, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(productID)
	if i < 0 {
		return nil
	}
	s.lines = append(s.lines[:i], s.lines[i+1:]...)
	return s.persist(ctx)
}

// UpdateQuantity sets the quantity of the line for productID. A quantity of
// zero or less removes the line. Unknown ids are a no-op.
func (s *CartStore) UpdateQuantity(ctx context.Context, productID string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(productID)
	if i < 0 {
		return nil
	}
	if quantity <= 0 {
		s.lines = append(s.lines[:i], s.lines[i+1:]...)
	} else {
		s.lines[i].Quantity = quantity
	}
	return s.persist(ctx)
}

// ClearCart removes every line.
func (s *CartStore) ClearCart(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = []models.CartLine{}
	return s.persist(ctx)
}

// RemoveOrdered subtracts the ordered quantity of each product and drops lines
// that reach zero. Products not in the cart are skipped.
func (s *CartStore) RemoveOrdered(ctx context.Context, ordered []models.CartLine) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false
	for _, o := range ordered {
		i := s.indexOf(o.Product.ID)
		if i < 0 {
			continue
		}
		changed = true
		if s.lines[i].Quantity <= o.Quantity {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
		} else {
			s.lines[i].Quantity -= o.Quantity
		}
	}
	if !changed {
		return nil
	}
	return s.persist(ctx)
}

// Lines returns a copy of the cart lines in insertion order.
func (s *CartStore) Lines() []models.CartLine {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.CartLine, len(s.lines))
	copy(out, s.lines)
	return out
}

// Line returns the line holding productID, if any.
func (s *CartStore) Line(productID string) (models.CartLine, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(productID); i >= 0 {
		return s.lines[i], true
	}
	return models.CartLine{}, false
}

// Total is the sum of price times quantity over all lines.
func (s *CartStore) Total() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return linesTotal(s.lines)
}

// ItemCount is the sum of quantities over all lines.
func (s *CartStore) ItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, line := range s.lines {
		count += line.Quantity
	}
	return count
}

// IsEmpty reports whether the cart holds no lines.
func (s *CartStore) IsEmpty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.lines) == 0
}

func (s *CartStore) indexOf(productID string) int {
	for i, line := range s.lines {
		if line.Product.ID == productID {
			return i
		}
	}
	return -1
}

// persist must be called with s.mu held.
func (s *CartStore) persist(ctx context.Context) error {
	data, err := json.Marshal(s.lines)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := s.storage.Save(ctx, s.key, data); err != nil {
		logger.Error(ctx).Err(err).Str("slot", s.key).Msg("failed to persist cart")
		return fmt.Errorf("failed to persist cart %s: %w", s.key, err)
	}
	return nil
}

func linesTotal(lines []models.CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(decimal.NewFromFloat(line.Product.Price).Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}
