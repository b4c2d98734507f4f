package services_test

import (
	"context"
	"testing"
	"time"

	"tyrezone/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulatedGateway_Charge(t *testing.T) {
	gateway := services.NewSimulatedGateway(0)
	amount := decimal.RequireFromString("561.57")

	charge, err := gateway.Charge(context.Background(), validPayment(), amount)
	require.NoError(t, err)
	assert.NotEmpty(t, charge.ID)
	assert.Equal(t, "4242", charge.Last4)
	assert.True(t, amount.Equal(charge.Amount))

	declined := validPayment()
	declined.CardNumber = "4000 0000 0000 0002"
	_, err = gateway.Charge(context.Background(), declined, amount)
	assert.ErrorIs(t, err, services.ErrPaymentDeclined)
	assert.ErrorContains(t, err, "0002")
}

func TestSimulatedGateway_WaitsForDelay(t *testing.T) {
	gateway := services.NewSimulatedGateway(30 * time.Millisecond)

	start := time.Now()
	_, err := gateway.Charge(context.Background(), validPayment(), decimal.NewFromInt(10))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = gateway.Charge(ctx, validPayment(), decimal.NewFromInt(10))
	assert.ErrorIs(t, err, context.Canceled)
}
