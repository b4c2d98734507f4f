package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tyrezone/internal/models"
	"tyrezone/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrPaymentDeclined is returned when the card issuer refuses a charge.
var ErrPaymentDeclined = errors.New("payment declined")

// DeclinedTestCard is always refused by SimulatedGateway.
const DeclinedTestCard = "4000000000000002"

// Charge is the result of a successful payment.
type Charge struct {
	ID     string
	Amount decimal.Decimal
	Last4  string
}

// PaymentGateway charges a card.
type PaymentGateway interface {
	Charge(ctx context.Context, card models.PaymentDetails, amount decimal.Decimal) (Charge, error)
}

// SimulatedGateway stands in for a card processor. It waits delay before
// answering and refuses DeclinedTestCard.
type SimulatedGateway struct {
	delay time.Duration
}

// NewSimulatedGateway creates a gateway with the given processing latency.
func NewSimulatedGateway(delay time.Duration) *SimulatedGateway {
	return &SimulatedGateway{delay: delay}
}

// Charge implements PaymentGateway.
func (g *SimulatedGateway) Charge(ctx context.Context, card models.PaymentDetails, amount decimal.Decimal) (Charge, error) {
	if g.delay > 0 {
		timer := time.NewTimer(g.delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return Charge{}, ctx.Err()
		}
	}

	last4 := card.Last4()
	if strings.ReplaceAll(card.CardNumber, " ", "") == DeclinedTestCard {
		logger.Info(ctx).Str("card_last4", last4).Str("amount", amount.StringFixed(2)).Msg("payment declined")
		return Charge{}, fmt.Errorf("card ending %s: %w", last4, ErrPaymentDeclined)
	}

	return Charge{ID: uuid.New().String(), Amount: amount, Last4: last4}, nil
}
