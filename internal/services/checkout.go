package services

import (
	"errors"
	"fmt"
	"sync"

	"tyrezone/internal/models"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrInvalidTransition is returned for any move the checkout flow does not allow.
	ErrInvalidTransition = errors.New("invalid checkout transition")
	// ErrSubmissionInProgress is returned when an order is submitted twice.
	ErrSubmissionInProgress = errors.New("order submission already in progress")
)

// CheckoutStep is a state of the checkout flow.
type CheckoutStep int

const (
	StepShipping CheckoutStep = iota + 1
	StepPayment
	StepReview
	StepSubmitting
	StepPlaced
)

func (s CheckoutStep) String() string {
	switch s {
	case StepShipping:
		return "shipping"
	case StepPayment:
		return "payment"
	case StepReview:
		return "review"
	case StepSubmitting:
		return "submitting"
	case StepPlaced:
		return "placed"
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// Editable reports whether the visitor may change form fields in this step.
func (s CheckoutStep) Editable() bool {
	return s >= StepShipping && s <= StepReview
}

// Checkout is the state machine of a single visitor's checkout:
//
//	Shipping <-> Payment <-> Review -> Submitting -> Placed
//	                           ^            |
//	                           +-- failed --+
//
// Continue validates the section of the step being left. Placed is terminal.
type Checkout struct {
	mu          sync.Mutex
	step        CheckoutStep
	form        models.CheckoutForm
	validate    *validator.Validate
	lastFailure string
	orderID     string
}

// NewCheckout starts a checkout at the shipping step with standard delivery selected.
func NewCheckout(validate *validator.Validate) *Checkout {
	return &Checkout{
		step:     StepShipping,
		form:     models.CheckoutForm{Shipping: models.ShippingDetails{Method: models.ShippingStandard}},
		validate: validate,
	}
}

// CheckoutState is a point-in-time view of a Checkout. Card details other than
// the last four digits are never exposed.
type CheckoutState struct {
	Step        CheckoutStep           `json:"-"`
	StepName    string                 `json:"step"`
	Shipping    models.ShippingDetails `json:"shipping"`
	CardLast4   string                 `json:"cardLast4,omitempty"`
	CardName    string                 `json:"cardName,omitempty"`
	LastFailure string                 `json:"lastFailure,omitempty"`
	OrderID     string                 `json:"orderId,omitempty"`
}

// State returns the current step and form contents.
func (c *Checkout) State() CheckoutState {
	c.mu.Lock()
	defer c.mu.Unlock()

	return CheckoutState{
		Step:        c.step,
		StepName:    c.step.String(),
		Shipping:    c.form.Shipping,
		CardLast4:   c.form.Payment.Last4(),
		CardName:    c.form.Payment.CardName,
		LastFailure: c.lastFailure,
		OrderID:     c.orderID,
	}
}

// Step returns the current step.
func (c *Checkout) Step() CheckoutStep {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step
}

// SetShipping replaces the shipping section.
func (c *Checkout) SetShipping(details models.ShippingDetails) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.step.Editable() {
		return fmt.Errorf("cannot edit shipping while %s: %w", c.step, ErrInvalidTransition)
	}
	c.form.Shipping = details
	return nil
}

// SetPayment replaces the payment section.
func (c *Checkout) SetPayment(details models.PaymentDetails) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.step.Editable() {
		return fmt.Errorf("cannot edit payment while %s: %w", c.step, ErrInvalidTransition)
	}
	c.form.Payment = details
	return nil
}

// Continue moves one step forward from Shipping or Payment once the section
// being left is valid. Validation failures are returned as validator errors.
func (c *Checkout) Continue() (CheckoutStep, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.forward()
}

// Back moves one step backward from Payment or Review.
func (c *Checkout) Back() (CheckoutStep, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.backward()
}

// GoTo moves to target, which must be the current step or adjacent to it
// among Shipping, Payment and Review. Forward moves validate like Continue.
func (c *Checkout) GoTo(target CheckoutStep) (CheckoutStep, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	current := c.step
	switch {
	case target == current && target.Editable():
		return current, nil
	case target == current+1 && target <= StepReview:
		return c.forward()
	case target == current-1 && current.Editable():
		return c.backward()
	}
	return current, fmt.Errorf("jump from %s to %s: %w", current, target, ErrInvalidTransition)
}

// forward and backward must be called with c.mu held.
func (c *Checkout) forward() (CheckoutStep, error) {
	switch c.step {
	case StepShipping:
		if err := c.validate.Struct(c.form.Shipping); err != nil {
			return c.step, err
		}
		c.step = StepPayment
	case StepPayment:
		if err := c.validate.Struct(c.form.Payment); err != nil {
			return c.step, err
		}
		c.step = StepReview
	default:
		return c.step, fmt.Errorf("continue from %s: %w", c.step, ErrInvalidTransition)
	}
	return c.step, nil
}

func (c *Checkout) backward() (CheckoutStep, error) {
	switch c.step {
	case StepPayment:
		c.step = StepShipping
	case StepReview:
		c.step = StepPayment
	default:
		return c.step, fmt.Errorf("back from %s: %w", c.step, ErrInvalidTransition)
	}
	return c.step, nil
}

// BeginSubmit enters Submitting from Review and returns the form to submit.
// A second call before the submission settles fails with ErrSubmissionInProgress.
func (c *Checkout) BeginSubmit() (models.CheckoutForm, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.step {
	case StepReview:
	case StepSubmitting:
		return models.CheckoutForm{}, ErrSubmissionInProgress
	default:
		return models.CheckoutForm{}, fmt.Errorf("submit from %s: %w", c.step, ErrInvalidTransition)
	}

	if err := c.validate.Struct(c.form.Shipping); err != nil {
		return models.CheckoutForm{}, err
	}
	if err := c.validate.Struct(c.form.Payment); err != nil {
		return models.CheckoutForm{}, err
	}
	c.step = StepSubmitting
	c.lastFailure = ""
	return c.form, nil
}

// CompleteSubmit records the placed order and ends the flow. Payment details
// are dropped from memory.
func (c *Checkout) CompleteSubmit(orderID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.step != StepSubmitting {
		return fmt.Errorf("complete from %s: %w", c.step, ErrInvalidTransition)
	}
	c.step = StepPlaced
	c.orderID = orderID
	c.form.Payment = models.PaymentDetails{}
	return nil
}

// FailSubmit returns a submitting checkout to Review and records why.
func (c *Checkout) FailSubmit(cause error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.step != StepSubmitting {
		return fmt.Errorf("fail from %s: %w", c.step, ErrInvalidTransition)
	}
	c.step = StepReview
	if cause != nil {
		c.lastFailure = cause.Error()
	}
	return nil
}
