package services_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"tyrezone/internal/models"
	"tyrezone/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validShipping() models.ShippingDetails {
	return models.ShippingDetails{
		Email:     "driver@example.com",
		FirstName: "Sam",
		LastName:  "Rivera",
		Address:   "12 Ring Road",
		City:      "Springfield",
		State:     "IL",
		ZipCode:   "62701",
		Method:    models.ShippingStandard,
	}
}

func validPayment() models.PaymentDetails {
	return models.PaymentDetails{
		CardNumber: "4242 4242 4242 4242",
		CardName:   "Sam Rivera",
		Expiry:     fmt.Sprintf("12/%02d", (time.Now().Year()+2)%100),
		CVV:        "123",
	}
}

// reviewCheckout returns a checkout that has reached the review step.
func reviewCheckout(t *testing.T) *services.Checkout {
	t.Helper()
	co := services.NewCheckout(services.NewValidator())
	require.NoError(t, co.SetShipping(validShipping()))
	_, err := co.Continue()
	require.NoError(t, err)
	require.NoError(t, co.SetPayment(validPayment()))
	step, err := co.Continue()
	require.NoError(t, err)
	require.Equal(t, services.StepReview, step)
	return co
}

func TestCheckout_StartsAtShipping(t *testing.T) {
	co := services.NewCheckout(services.NewValidator())
	state := co.State()

	assert.Equal(t, services.StepShipping, state.Step)
	assert.Equal(t, "shipping", state.StepName)
	assert.Equal(t, models.ShippingStandard, state.Shipping.Method)
}

func TestCheckout_ContinueValidatesSection(t *testing.T) {
	co := services.NewCheckout(services.NewValidator())

	step, err := co.Continue()
	require.Error(t, err)
	assert.Equal(t, services.StepShipping, step)
	fields := services.FieldErrors(err)
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "firstName")

	require.NoError(t, co.SetShipping(validShipping()))
	step, err = co.Continue()
	require.NoError(t, err)
	assert.Equal(t, services.StepPayment, step)

	bad := validPayment()
	bad.CardNumber = "4242 4242 4242 4241"
	bad.CVV = "12a"
	require.NoError(t, co.SetPayment(bad))
	step, err = co.Continue()
	require.Error(t, err)
	assert.Equal(t, services.StepPayment, step)
	fields = services.FieldErrors(err)
	assert.Contains(t, fields, "cardNumber")
	assert.Contains(t, fields, "cvv")
}

func TestCheckout_BackAndForth(t *testing.T) {
	co := reviewCheckout(t)

	step, err := co.Back()
	require.NoError(t, err)
	assert.Equal(t, services.StepPayment, step)

	step, err = co.Back()
	require.NoError(t, err)
	assert.Equal(t, services.StepShipping, step)

	_, err = co.Back()
	assert.ErrorIs(t, err, services.ErrInvalidTransition)
	assert.Equal(t, services.StepShipping, co.Step())
}

func TestCheckout_GoToRejectsJumps(t *testing.T) {
	co := services.NewCheckout(services.NewValidator())
	require.NoError(t, co.SetShipping(validShipping()))

	_, err := co.GoTo(services.StepReview)
	assert.ErrorIs(t, err, services.ErrInvalidTransition)

	_, err = co.GoTo(services.StepPlaced)
	assert.ErrorIs(t, err, services.ErrInvalidTransition)

	step, err := co.GoTo(services.StepPayment)
	require.NoError(t, err)
	assert.Equal(t, services.StepPayment, step)

	step, err = co.GoTo(services.StepShipping)
	require.NoError(t, err)
	assert.Equal(t, services.StepShipping, step)
}

func TestCheckout_ConcurrentGoToSettlesOnTarget(t *testing.T) {
	co := reviewCheckout(t)
	_, err := co.Back()
	require.NoError(t, err)

	const callers = 50
	var wg sync.WaitGroup
	steps := make([]services.CheckoutStep, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			steps[i], errs[i] = co.GoTo(services.StepReview)
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		assert.NoError(t, errs[i])
		assert.Equal(t, services.StepReview, steps[i])
	}
	assert.Equal(t, services.StepReview, co.Step())
}

func TestCheckout_SubmitOnlyFromReview(t *testing.T) {
	co := services.NewCheckout(services.NewValidator())
	_, err := co.BeginSubmit()
	assert.ErrorIs(t, err, services.ErrInvalidTransition)

	co = reviewCheckout(t)
	form, err := co.BeginSubmit()
	require.NoError(t, err)
	assert.Equal(t, "Sam Rivera", form.Payment.CardName)
	assert.Equal(t, services.StepSubmitting, co.Step())

	_, err = co.BeginSubmit()
	assert.ErrorIs(t, err, services.ErrSubmissionInProgress)

	// not navigable while submitting
	_, err = co.Back()
	assert.ErrorIs(t, err, services.ErrInvalidTransition)
	assert.ErrorIs(t, co.SetShipping(validShipping()), services.ErrInvalidTransition)
}

func TestCheckout_CompleteIsTerminal(t *testing.T) {
	co := reviewCheckout(t)
	_, err := co.BeginSubmit()
	require.NoError(t, err)
	require.NoError(t, co.CompleteSubmit("order-1"))

	state := co.State()
	assert.Equal(t, services.StepPlaced, state.Step)
	assert.Equal(t, "order-1", state.OrderID)
	assert.Empty(t, state.CardLast4)

	_, err = co.Back()
	assert.ErrorIs(t, err, services.ErrInvalidTransition)
	_, err = co.Continue()
	assert.ErrorIs(t, err, services.ErrInvalidTransition)
	_, err = co.BeginSubmit()
	assert.ErrorIs(t, err, services.ErrInvalidTransition)
	assert.ErrorIs(t, co.CompleteSubmit("order-2"), services.ErrInvalidTransition)
}

func TestCheckout_FailReturnsToReview(t *testing.T) {
	co := reviewCheckout(t)
	assert.ErrorIs(t, co.FailSubmit(nil), services.ErrInvalidTransition)

	_, err := co.BeginSubmit()
	require.NoError(t, err)
	require.NoError(t, co.FailSubmit(services.ErrPaymentDeclined))

	state := co.State()
	assert.Equal(t, services.StepReview, state.Step)
	assert.Equal(t, services.ErrPaymentDeclined.Error(), state.LastFailure)
	assert.Equal(t, "4242", state.CardLast4)

	// retry clears the failure
	_, err = co.BeginSubmit()
	require.NoError(t, err)
	assert.Empty(t, co.State().LastFailure)
}

func TestCheckoutStep_String(t *testing.T) {
	assert.Equal(t, "review", services.StepReview.String())
	assert.Equal(t, "placed", services.StepPlaced.String())
	assert.Equal(t, "step(9)", services.CheckoutStep(9).String())
	assert.False(t, services.StepSubmitting.Editable())
}
