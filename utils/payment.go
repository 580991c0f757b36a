package utils

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
)

// PaymentProvider creates card payment intents
type PaymentProvider interface {
	// CreateCardIntent requests an intent for amount minor units and returns
	// the client secret the browser needs to confirm the payment
	CreateCardIntent(ctx context.Context, amount int64, currency string) (string, error)
}

// StripeProvider is a PaymentProvider backed by the Stripe API
type StripeProvider struct {
	api *client.API
}

// NewStripeProvider returns a StripeProvider authenticated with secretKey
func NewStripeProvider(secretKey string) *StripeProvider {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeProvider{api: api}
}

// CreateCardIntent implements PaymentProvider
func (p *StripeProvider) CreateCardIntent(ctx context.Context, amount int64, currency string) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amount),
		Currency:           stripe.String(currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx

	pi, err := p.api.PaymentIntents.New(params)
	if err != nil {
		return "", fmt.Errorf("create payment intent: %w", err)
	}
	return pi.ClientSecret, nil
}

// ToMinorUnits converts a decimal amount to cents, truncating toward zero
func ToMinorUnits(price float64) int64 {
	return int64(price * 100)
}
