package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"tyrezone/internal/catalog"
	"tyrezone/internal/repositories"
	"tyrezone/internal/services"
	"tyrezone/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.Discard()
}

// MockCartStorage is a mock implementation of repositories.CartStorage
type MockCartStorage struct {
	mock.Mock
}

func (m *MockCartStorage) Load(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCartStorage) Save(ctx context.Context, key string, data []byte) error {
	args := m.Called(ctx, key, data)
	return args.Error(0)
}

type storedLine struct {
	Product  struct{ ID string } `json:"product"`
	Quantity int                 `json:"quantity"`
}

func readSlot(t *testing.T, storage repositories.CartStorage, key string) []storedLine {
	t.Helper()
	data, err := storage.Load(context.Background(), key)
	require.NoError(t, err)
	var lines []storedLine
	require.NoError(t, json.Unmarshal(data, &lines))
	return lines
}

func TestCartStore_TotalsAndCount(t *testing.T) {
	ctx := context.Background()
	tyres := catalog.Tyres()
	store := services.OpenCartStore(ctx, repositories.NewMemoryCartStorage(), "cart")

	require.NoError(t, store.AddToCart(ctx, tyres[0], 2))
	require.NoError(t, store.AddToCart(ctx, tyres[1], 1))

	assert.Equal(t, "519.97", store.Total().StringFixed(2))
	assert.Equal(t, 3, store.ItemCount())
}

func TestCartStore_AddMergesLines(t *testing.T) {
	ctx := context.Background()
	tyres := catalog.Tyres()
	storage := repositories.NewMemoryCartStorage()
	store := services.OpenCartStore(ctx, storage, "cart")

	require.NoError(t, store.AddToCart(ctx, tyres[0], 1))
	require.NoError(t, store.AddToCart(ctx, tyres[0], 1))

	lines := store.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)

	slot := readSlot(t, storage, "cart")
	require.Len(t, slot, 1)
	assert.Equal(t, "1", slot[0].Product.ID)
	assert.Equal(t, 2, slot[0].Quantity)
}

func TestCartStore_AddKeepsStoredSnapshot(t *testing.T) {
	ctx := context.Background()
	tyre := catalog.Tyres()[0]
	store := services.OpenCartStore(ctx, repositories.NewMemoryCartStorage(), "cart")

	require.NoError(t, store.AddToCart(ctx, tyre, 1))
	repriced := tyre
	repriced.Price = 99.99
	require.NoError(t, store.AddToCart(ctx, repriced, 1))

	line, ok := store.Line("1")
	require.True(t, ok)
	assert.Equal(t, 149.99, line.Product.Price)
	assert.Equal(t, "299.98", store.Total().StringFixed(2))
}

func TestCartStore_AddNonPositiveQuantityCountsAsOne(t *testing.T) {
	ctx := context.Background()
	store := services.OpenCartStore(ctx, repositories.NewMemoryCartStorage(), "cart")

	require.NoError(t, store.AddToCart(ctx, catalog.Tyres()[3], 0))
	assert.Equal(t, 1, store.ItemCount())
}

func TestCartStore_UpdateAndRemove(t *testing.T) {
	ctx := context.Background()
	tyres := catalog.Tyres()
	storage := repositories.NewMemoryCartStorage()
	store := services.OpenCartStore(ctx, storage, "cart")

	require.NoError(t, store.AddToCart(ctx, tyres[0], 1))
	require.NoError(t, store.AddToCart(ctx, tyres[1], 1))
	require.NoError(t, store.AddToCart(ctx, tyres[2], 1))

	require.NoError(t, store.UpdateQuantity(ctx, "2", 5))
	assert.Equal(t, 7, store.ItemCount())

	require.NoError(t, store.UpdateQuantity(ctx, "2", 0))
	_, ok := store.Line("2")
	assert.False(t, ok)

	require.NoError(t, store.RemoveFromCart(ctx, "1"))
	lines := store.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "3", lines[0].Product.ID)

	// unknown ids leave the cart alone
	require.NoError(t, store.RemoveFromCart(ctx, "42"))
	require.NoError(t, store.UpdateQuantity(ctx, "42", 3))
	assert.Equal(t, 1, store.ItemCount())

	slot := readSlot(t, storage, "cart")
	require.Len(t, slot, 1)
	assert.Equal(t, "3", slot[0].Product.ID)
}

func TestCartStore_ClearPersistsEmptyArray(t *testing.T) {
	ctx := context.Background()
	storage := repositories.NewMemoryCartStorage()
	store := services.OpenCartStore(ctx, storage, "cart")

	require.NoError(t, store.AddToCart(ctx, catalog.Tyres()[0], 2))
	require.NoError(t, store.ClearCart(ctx))

	assert.True(t, store.IsEmpty())
	assert.True(t, store.Total().IsZero())
	assert.Equal(t, 0, store.ItemCount())

	data, err := storage.Load(ctx, "cart")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}

func TestCartStore_RestoresFromSlot(t *testing.T) {
	ctx := context.Background()
	tyres := catalog.Tyres()
	storage := repositories.NewMemoryCartStorage()

	first := services.OpenCartStore(ctx, storage, "cart")
	require.NoError(t, first.AddToCart(ctx, tyres[6], 2))
	require.NoError(t, first.AddToCart(ctx, tyres[4], 1))

	second := services.OpenCartStore(ctx, storage, "cart")
	assert.Equal(t, first.Lines(), second.Lines())
	assert.Equal(t, first.Total().String(), second.Total().String())
}

func TestCartStore_UnreadableSlotStartsEmpty(t *testing.T) {
	ctx := context.Background()
	cases := map[string]string{
		"not json":     `{{{`,
		"wrong shape":  `{"product":"1"}`,
		"string array": `["a","b"]`,
	}

	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			storage := repositories.NewMemoryCartStorage()
			require.NoError(t, storage.Save(ctx, "cart", []byte(payload)))

			store := services.OpenCartStore(ctx, storage, "cart")
			assert.True(t, store.IsEmpty())
			assert.True(t, store.Total().IsZero())
		})
	}
}

func TestCartStore_SanitizesStoredLines(t *testing.T) {
	ctx := context.Background()
	storage := repositories.NewMemoryCartStorage()
	payload := `[
		{"product":{"id":"1","price":149.99},"quantity":1},
		{"product":{"id":"2","price":219.99},"quantity":0},
		{"product":{"id":"","price":10},"quantity":3},
		{"product":{"id":"1","price":149.99},"quantity":2}
	]`
	require.NoError(t, storage.Save(ctx, "cart", []byte(payload)))

	store := services.OpenCartStore(ctx, storage, "cart")
	lines := store.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "1", lines[0].Product.ID)
	assert.Equal(t, 3, lines[0].Quantity)
}

func TestCartStore_RestoredSnapshotsDeriveStock(t *testing.T) {
	ctx := context.Background()
	storage := repositories.NewMemoryCartStorage()
	payload := `[
		{"product":{"id":"6","price":259.99,"inStock":true,"stockQuantity":0},"quantity":1},
		{"product":{"id":"1","price":149.99,"inStock":false,"stockQuantity":24},"quantity":1}
	]`
	require.NoError(t, storage.Save(ctx, "cart", []byte(payload)))

	lines := services.OpenCartStore(ctx, storage, "cart").Lines()
	require.Len(t, lines, 2)
	assert.False(t, lines[0].Product.InStock)
	assert.True(t, lines[1].Product.InStock)
}

func TestCartStore_StorageFailures(t *testing.T) {
	ctx := context.Background()
	storage := new(MockCartStorage)
	storage.On("Load", ctx, "cart").Return(nil, errors.New("connection refused")).Once()
	storage.On("Save", ctx, "cart", mock.Anything).Return(errors.New("disk full")).Once()

	store := services.OpenCartStore(ctx, storage, "cart")
	assert.True(t, store.IsEmpty())

	err := store.AddToCart(ctx, catalog.Tyres()[0], 1)
	assert.ErrorContains(t, err, "disk full")
	// the visitor still sees the change
	assert.Equal(t, 1, store.ItemCount())
	storage.AssertExpectations(t)
}

func TestCartStore_LinesAreCopies(t *testing.T) {
	ctx := context.Background()
	store := services.OpenCartStore(ctx, repositories.NewMemoryCartStorage(), "cart")
	require.NoError(t, store.AddToCart(ctx, catalog.Tyres()[0], 1))

	lines := store.Lines()
	lines[0].Quantity = 100
	assert.Equal(t, 1, store.ItemCount())
}
