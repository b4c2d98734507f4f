package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"tyrezone/internal/models"
	"tyrezone/pkg/logger"

	"github.com/go-playground/validator/v10"
)

// ErrCartEmpty is returned when checking out a cart without lines.
var ErrCartEmpty = errors.New("cart is empty")

// CheckoutView is what the checkout page shows: the flow state, the cart and
// the price breakdown for the selected shipping method.
type CheckoutView struct {
	CheckoutState
	Cart  CartSummary `json:"cart"`
	Quote Quote       `json:"quote"`
}

// CheckoutService runs one Checkout per visitor session and places the order
// when a checkout is submitted. Checkouts untouched for longer than the idle
// TTL are dropped, except while a submission is running.
type CheckoutService struct {
	mu        sync.Mutex
	checkouts map[string]*checkoutEntry
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time

	carts    *CartService
	orders   *OrderService
	gateway  PaymentGateway
	pricing  PricingRules
	validate *validator.Validate
	metrics  *Metrics
}

type checkoutEntry struct {
	checkout *Checkout
	seen     time.Time
}

// NewCheckoutService creates a new CheckoutService.
func NewCheckoutService(carts *CartService, orders *OrderService, gateway PaymentGateway, pricing PricingRules, validate *validator.Validate, metrics *Metrics, idleTTL time.Duration) *CheckoutService {
	return &CheckoutService{
		checkouts: make(map[string]*checkoutEntry),
		idleTTL:   idleTTL,
		lastSweep: time.Now(),
		now:       time.Now,
		carts:     carts,
		orders:    orders,
		gateway:   gateway,
		pricing:   pricing,
		validate:  validate,
		metrics:   metrics,
	}
}

// Checkout returns the session's checkout, starting one if needed.
func (s *CheckoutService) Checkout(sessionID string) *Checkout {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if entry, ok := s.checkouts[sessionID]; ok {
		entry.seen = now
		return entry.checkout
	}
	if now.Sub(s.lastSweep) >= s.sweepInterval() {
		s.sweep(now)
	}
	co := NewCheckout(s.validate)
	s.checkouts[sessionID] = &checkoutEntry{checkout: co, seen: now}
	s.metrics.ActiveCheckouts.Set(float64(len(s.checkouts)))
	return co
}

// existing returns the session's checkout without registering a new one. A
// session that never changed its checkout gets a fresh, unstored one.
func (s *CheckoutService) existing(sessionID string) *Checkout {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.checkouts[sessionID]; ok {
		entry.seen = s.now()
		return entry.checkout
	}
	return NewCheckout(s.validate)
}

// Sweep drops checkouts idle since before now minus the idle TTL and returns
// how many were dropped. Submitting checkouts are kept.
func (s *CheckoutService) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweep(now)
}

// sweep must be called with s.mu held.
func (s *CheckoutService) sweep(now time.Time) int {
	s.lastSweep = now
	if s.idleTTL <= 0 {
		return 0
	}
	dropped := 0
	for id, entry := range s.checkouts {
		if now.Sub(entry.seen) > s.idleTTL && entry.checkout.Step() != StepSubmitting {
			delete(s.checkouts, id)
			dropped++
		}
	}
	s.metrics.ActiveCheckouts.Set(float64(len(s.checkouts)))
	if dropped > 0 {
		logger.Logger.Debug().Int("dropped", dropped).Int("active", len(s.checkouts)).Msg("idle checkouts released")
	}
	return dropped
}

func (s *CheckoutService) sweepInterval() time.Duration {
	if s.idleTTL > 0 && s.idleTTL < time.Minute {
		return s.idleTTL
	}
	return time.Minute
}

// Restart discards the session's checkout and begins a new one at Shipping.
// Shipping details are kept so a returning visitor does not retype them.
func (s *CheckoutService) Restart(ctx context.Context, sessionID string) (CheckoutView, error) {
	s.mu.Lock()
	old, ok := s.checkouts[sessionID]
	if ok && old.checkout.Step() == StepSubmitting {
		s.mu.Unlock()
		return CheckoutView{}, ErrSubmissionInProgress
	}
	co := NewCheckout(s.validate)
	if ok {
		_ = co.SetShipping(old.checkout.State().Shipping)
	}
	s.checkouts[sessionID] = &checkoutEntry{checkout: co, seen: s.now()}
	s.metrics.ActiveCheckouts.Set(float64(len(s.checkouts)))
	s.mu.Unlock()

	return s.View(ctx, sessionID), nil
}

// View returns the checkout page of sessionID.
func (s *CheckoutService) View(ctx context.Context, sessionID string) CheckoutView {
	state := s.existing(sessionID).State()
	cart := s.carts.Summary(ctx, sessionID)
	return CheckoutView{
		CheckoutState: state,
		Cart:          cart,
		Quote:         s.pricing.QuoteOrder(state.Shipping.Method, cart.Subtotal),
	}
}

// SetShipping stores the shipping section.
func (s *CheckoutService) SetShipping(ctx context.Context, sessionID string, details models.ShippingDetails) (CheckoutView, error) {
	if err := s.Checkout(sessionID).SetShipping(details); err != nil {
		return CheckoutView{}, err
	}
	return s.View(ctx, sessionID), nil
}

// SetPayment stores the payment section.
func (s *CheckoutService) SetPayment(ctx context.Context, sessionID string, details models.PaymentDetails) (CheckoutView, error) {
	if err := s.Checkout(sessionID).SetPayment(details); err != nil {
		return CheckoutView{}, err
	}
	return s.View(ctx, sessionID), nil
}

// Continue advances the checkout. An empty cart cannot leave Shipping.
func (s *CheckoutService) Continue(ctx context.Context, sessionID string) (CheckoutView, error) {
	co := s.Checkout(sessionID)
	if co.Step() == StepShipping && s.carts.Cart(ctx, sessionID).IsEmpty() {
		return CheckoutView{}, ErrCartEmpty
	}
	if _, err := co.Continue(); err != nil {
		return CheckoutView{}, err
	}
	return s.View(ctx, sessionID), nil
}

// Back returns to the previous step.
func (s *CheckoutService) Back(ctx context.Context, sessionID string) (CheckoutView, error) {
	if _, err := s.existing(sessionID).Back(); err != nil {
		return CheckoutView{}, err
	}
	return s.View(ctx, sessionID), nil
}

// Submit charges the card and places the order for the session's cart. Once
// started the submission runs to completion even if ctx is cancelled. A
// declined payment or a failed order returns the checkout to Review.
func (s *CheckoutService) Submit(ctx context.Context, sessionID string) (*models.Order, error) {
	ctx = context.WithoutCancel(ctx)
	co := s.existing(sessionID)
	cart := s.carts.Cart(ctx, sessionID)

	if co.Step() == StepReview && cart.IsEmpty() {
		return nil, ErrCartEmpty
	}
	form, err := co.BeginSubmit()
	if err != nil {
		return nil, err
	}

	lines := cart.Lines()
	quote := s.pricing.QuoteOrder(form.Shipping.Method, linesTotal(lines))

	charge, err := s.gateway.Charge(ctx, form.Payment, quote.Total)
	if err != nil {
		if errors.Is(err, ErrPaymentDeclined) {
			s.metrics.PaymentDeclines.Inc()
		}
		_ = co.FailSubmit(err)
		return nil, err
	}

	order, err := s.orders.PlaceOrder(ctx, sessionID, form.Shipping, lines, quote, charge)
	if err != nil {
		logger.Error(ctx).Err(err).Str("charge_id", charge.ID).Msg("payment captured but order not stored")
		_ = co.FailSubmit(err)
		return nil, err
	}

	if err := s.carts.RemoveOrdered(ctx, sessionID, lines); err != nil {
		logger.Warn(ctx).Err(err).Str("order_id", order.ID).Msg("order placed but cart not cleared")
	}
	if err := co.CompleteSubmit(order.ID); err != nil {
		return nil, err
	}

	s.metrics.OrdersPlaced.Inc()
	s.metrics.OrderValue.Observe(quote.Total.InexactFloat64())
	return order, nil
}
