package repositories

import (
	"context"
	"errors"
)

// ErrSlotNotFound is returned by CartStorage.Load when nothing was stored under the key.
var ErrSlotNotFound = errors.New("cart slot not found")

// CartStorage is a durable key-value slot holding a serialized cart.
type CartStorage interface {
	// Load returns the bytes last saved under key, or ErrSlotNotFound.
	Load(ctx context.Context, key string) ([]byte, error)
	// Save replaces the bytes stored under key.
	Save(ctx context.Context, key string, data []byte) error
}
