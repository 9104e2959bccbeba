// Package payments creates payment intents with the card processor.
package payments

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"
)

var ErrInvalidAmount = errors.New("amount must be positive")

// Gateway turns an amount into a secret the client uses to confirm the payment.
type Gateway interface {
	CreatePaymentIntent(ctx context.Context, amount int64, currency string) (string, error)
}

type stripeGateway struct {
	api *client.API
}

// NewStripe returns a Gateway backed by a dedicated Stripe client for secretKey.
func NewStripe(secretKey string) Gateway {
	return &stripeGateway{api: client.New(secretKey, nil)}
}

// CreatePaymentIntent creates a card payment intent and returns its client secret.
func (g *stripeGateway) CreatePaymentIntent(ctx context.Context, amount int64, currency string) (string, error) {
	if amount <= 0 {
		return "", ErrInvalidAmount
	}

	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amount),
		Currency:           stripe.String(currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx

	intent, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create payment intent: %w", err)
	}

	return intent.ClientSecret, nil
}

// MinorUnits converts a price in major units (dollars) to minor units (cents).
func MinorUnits(price float64) int64 {
	return int64(math.Round(price * 100))
}
