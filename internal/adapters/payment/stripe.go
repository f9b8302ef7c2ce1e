package payment

import (
	"context"
	"errors"
	"math"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"github.com/ecoloop/core/internal/domain/entities"
	"github.com/ecoloop/core/internal/ports"
)

// StripeGateway charges a card token through the Stripe Charges API
type StripeGateway struct {
	api *client.API
}

// NewStripeGateway creates a gateway using the given secret key.
// backends may be nil to talk to the real Stripe API.
func NewStripeGateway(secretKey string, backends *stripe.Backends) *StripeGateway {
	return &StripeGateway{api: client.New(secretKey, backends)}
}

func (g *StripeGateway) Name() string { return "stripe" }

// Charge creates a charge for req.Amount major units and returns its status
func (g *StripeGateway) Charge(ctx context.Context, req ports.ChargeRequest) (*ports.ChargeResult, error) {
	params := &stripe.ChargeParams{
		Amount:      stripe.Int64(ToMinorUnits(req.Amount)),
		Currency:    stripe.String(req.Currency),
		Description: stripe.String(req.Description),
		Source:      &stripe.PaymentSourceSourceParams{Token: stripe.String(req.Token)},
	}
	params.Context = ctx
	params.SetIdempotencyKey(uuid.NewString())

	ch, err := g.api.Charges.New(params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.Msg != "" {
			return nil, entities.NewPaymentError(stripeErr.Msg, err)
		}
		return nil, entities.NewPaymentError(err.Error(), err)
	}

	return &ports.ChargeResult{
		ID:     ch.ID,
		Status: string(ch.Status),
	}, nil
}

// ToMinorUnits converts a major-unit amount to cents
func ToMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
