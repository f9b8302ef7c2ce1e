package payment

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ecoloop/core/internal/domain/entities"
	"github.com/ecoloop/core/internal/infrastructure/config"
	"github.com/ecoloop/core/internal/ports"
)

// Tokens the simulated gateway declines. They mirror Stripe's test tokens.
var declinedTokens = map[string]string{
	"tok_chargeDeclined":                  "Your card was declined.",
	"tok_chargeDeclinedInsufficientFunds": "Your card has insufficient funds.",
	"tok_chargeDeclinedExpiredCard":       "Your card has expired.",
}

// SimulatedGateway approves every charge except the declined test tokens
type SimulatedGateway struct{}

func NewSimulatedGateway() *SimulatedGateway {
	return &SimulatedGateway{}
}

func (g *SimulatedGateway) Name() string { return "simulated" }

func (g *SimulatedGateway) Charge(ctx context.Context, req ports.ChargeRequest) (*ports.ChargeResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, entities.NewPaymentError(err.Error(), err)
	}
	if msg, ok := declinedTokens[req.Token]; ok {
		return nil, entities.NewPaymentError(msg, nil)
	}
	if ToMinorUnits(req.Amount) <= 0 {
		return nil, entities.NewPaymentError("Amount must be at least one minor unit.", nil)
	}

	return &ports.ChargeResult{
		ID:     "ch_sim_" + uuid.NewString(),
		Status: "succeeded",
	}, nil
}

// NewGateway builds the provider selected in cfg
func NewGateway(cfg config.PaymentConfig) (ports.PaymentGateway, error) {
	switch cfg.Provider {
	case config.ProviderStripe:
		return NewStripeGateway(cfg.StripeSecretKey, nil), nil
	case config.ProviderSimulated:
		return NewSimulatedGateway(), nil
	default:
		return nil, fmt.Errorf("unknown payment provider %q", cfg.Provider)
	}
}
