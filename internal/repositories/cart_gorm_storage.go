package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartSlot is the table row backing GORMCartStorage.
type CartSlot struct {
	SlotKey   string `gorm:"primaryKey;type:varchar(128)"`
	Data      []byte
	UpdatedAt time.Time
}

// GORMCartStorage is a GORM implementation of CartStorage.
type GORMCartStorage struct {
	db *gorm.DB
}

// NewGORMCartStorage creates a new instance of GORMCartStorage.
func NewGORMCartStorage(db *gorm.DB) *GORMCartStorage {
	return &GORMCartStorage{db: db}
}

// Load reads the slot stored under key.
func (s *GORMCartStorage) Load(ctx context.Context, key string) ([]byte, error) {
	var slot CartSlot
	if err := s.db.WithContext(ctx).First(&slot, "slot_key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("key %s: %w", key, ErrSlotNotFound)
		}
		return nil, fmt.Errorf("failed to load cart slot %s: %w", key, err)
	}
	return slot.Data, nil
}

// Save upserts the slot stored under key.
func (s *GORMCartStorage) Save(ctx context.Context, key string, data []byte) error {
	slot := CartSlot{SlotKey: key, Data: data, UpdatedAt: time.Now()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slot_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&slot).Error
	if err != nil {
		return fmt.Errorf("failed to save cart slot %s: %w", key, err)
	}
	return nil
}
