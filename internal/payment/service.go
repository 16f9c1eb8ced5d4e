package payment

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// Service creates charge intents with the payment processor.
type Service interface {
	CreateIntent(ctx context.Context, amount int64, currency string) (clientSecret string, err error)
}

type stripeService struct {
	api *client.API
}

func NewStripeService(secretKey string) Service {
	return &stripeService{api: client.New(secretKey, nil)}
}

func (s *stripeService) CreateIntent(ctx context.Context, amount int64, currency string) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amount),
		Currency:           stripe.String(currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx

	pi, err := s.api.PaymentIntents.New(params)
	if err != nil {
		return "", fmt.Errorf("create payment intent: %w", err)
	}
	return pi.ClientSecret, nil
}
