package services

import (
	"context"
	"strings"
	"time"

	"tyrezone/internal/models"
	"tyrezone/internal/repositories"
	"tyrezone/pkg/logger"

	"github.com/go-playground/validator/v10"
)

// ContactService accepts messages sent through the contact form.
type ContactService struct {
	repo     repositories.ContactRepository
	validate *validator.Validate
	delay    time.Duration
	metrics  *Metrics
}

// NewContactService creates a new ContactService. delay simulates delivery latency.
func NewContactService(repo repositories.ContactRepository, validate *validator.Validate, delay time.Duration, metrics *Metrics) *ContactService {
	return &ContactService{
		repo:     repo,
		validate: validate,
		delay:    delay,
		metrics:  metrics,
	}
}

// Submit validates and stores msg. Like checkout, a started submission is not
// cancelled with the request.
func (s *ContactService) Submit(ctx context.Context, msg models.ContactMessage) (*models.ContactMessage, error) {
	msg.Name = strings.TrimSpace(msg.Name)
	msg.Email = strings.TrimSpace(msg.Email)
	msg.Subject = strings.TrimSpace(msg.Subject)
	msg.Message = strings.TrimSpace(msg.Message)
	if err := s.validate.Struct(msg); err != nil {
		return nil, err
	}

	ctx = context.WithoutCancel(ctx)
	if s.delay > 0 {
		time.Sleep(s.delay)
	}

	msg.ID = ""
	msg.CreatedAt = time.Now()
	if err := s.repo.Create(ctx, &msg); err != nil {
		return nil, err
	}

	s.metrics.ContactMessages.Inc()
	logger.Info(ctx).Str("message_id", msg.ID).Str("subject", msg.Subject).Msg("contact message received")
	return &msg, nil
}

// Messages returns every stored message, oldest first.
func (s *ContactService) Messages(ctx context.Context) ([]models.ContactMessage, error) {
	return s.repo.GetAll(ctx)
}
