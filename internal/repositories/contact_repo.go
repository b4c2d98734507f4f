package repositories

import (
	"context"
	"fmt"
	"sync"

	"tyrezone/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContactRepository stores messages sent through the contact form.
type ContactRepository interface {
	Create(ctx context.Context, msg *models.ContactMessage) error
	GetAll(ctx context.Context) ([]models.ContactMessage, error)
}

// MockContactRepository is an in-memory implementation of ContactRepository.
type MockContactRepository struct {
	messages []models.ContactMessage
	mu       sync.RWMutex
}

func NewMockContactRepository() *MockContactRepository {
	return &MockContactRepository{}
}

func (r *MockContactRepository) Create(_ context.Context, msg *models.ContactMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	r.messages = append(r.messages, *msg)
	return nil
}

func (r *MockContactRepository) GetAll(_ context.Context) ([]models.ContactMessage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.ContactMessage, len(r.messages))
	copy(out, r.messages)
	return out, nil
}

// GORMContactRepository is a GORM implementation of ContactRepository.
type GORMContactRepository struct {
	db *gorm.DB
}

func NewGORMContactRepository(db *gorm.DB) *GORMContactRepository {
	return &GORMContactRepository{db: db}
}

func (r *GORMContactRepository) Create(ctx context.Context, msg *models.ContactMessage) error {
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
		return fmt.Errorf("failed to create contact message: %w", err)
	}
	return nil
}

func (r *GORMContactRepository) GetAll(ctx context.Context) ([]models.ContactMessage, error) {
	var messages []models.ContactMessage
	if err := r.db.WithContext(ctx).Order("created_at asc").Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("failed to get contact messages: %w", err)
	}
	return messages, nil
}
