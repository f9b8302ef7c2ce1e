package payment

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stripe/stripe-go/v76"

	"github.com/ecoloop/core/internal/domain/entities"
	"github.com/ecoloop/core/internal/infrastructure/config"
	"github.com/ecoloop/core/internal/ports"
)

func TestToMinorUnits(t *testing.T) {
	tests := []struct {
		amount float64
		want   int64
	}{
		{10, 1000},
		{0.1, 10},
		{19.99, 1999},
		{0, 0},
	}
	for _, tt := range tests {
		if got := ToMinorUnits(tt.amount); got != tt.want {
			t.Errorf("ToMinorUnits(%v)=%d, want %d", tt.amount, got, tt.want)
		}
	}
}

func TestSimulatedGateway(t *testing.T) {
	gw := NewSimulatedGateway()
	ctx := context.Background()

	res, err := gw.Charge(ctx, ports.ChargeRequest{Amount: 10, Token: "tok_visa", Currency: "usd"})
	if err != nil {
		t.Fatalf("Charge: %v", err)
	}
	if res.Status != "succeeded" || !strings.HasPrefix(res.ID, "ch_sim_") {
		t.Fatalf("result=%+v", res)
	}

	_, err = gw.Charge(ctx, ports.ChargeRequest{Amount: 10, Token: "tok_chargeDeclined"})
	if !errors.Is(err, entities.ErrPaymentFailed) || !strings.Contains(err.Error(), "declined") {
		t.Fatalf("declined err=%v", err)
	}
	var pe *entities.PaymentError
	if !errors.As(err, &pe) || pe.Message != "Your card was declined." {
		t.Fatalf("declined message=%+v", pe)
	}

	_, err = gw.Charge(ctx, ports.ChargeRequest{Amount: 0.001, Token: "tok_visa"})
	if !errors.Is(err, entities.ErrPaymentFailed) {
		t.Fatalf("tiny amount err=%v", err)
	}
}

func newTestStripe(t *testing.T, handler http.HandlerFunc) *StripeGateway {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		URL:               stripe.String(srv.URL),
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelNull},
	})
	return NewStripeGateway("sk_test_123", &stripe.Backends{API: backend, Connect: backend, Uploads: backend})
}

func TestStripeGatewayCharge(t *testing.T) {
	var gotAmount, gotCurrency, gotIdempotency string
	gw := newTestStripe(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/charges" {
			http.NotFound(w, r)
			return
		}
		_ = r.ParseForm()
		gotAmount = r.PostForm.Get("amount")
		gotCurrency = r.PostForm.Get("currency")
		gotIdempotency = r.Header.Get("Idempotency-Key")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"ch_123","object":"charge","amount":1050,"currency":"usd","status":"succeeded"}`))
	})

	res, err := gw.Charge(context.Background(), ports.ChargeRequest{
		Amount:      10.5,
		Token:       "tok_visa",
		Currency:    "usd",
		Description: "Plastic recycling transaction",
	})
	if err != nil {
		t.Fatalf("Charge: %v", err)
	}
	if res.ID != "ch_123" || res.Status != "succeeded" {
		t.Fatalf("result=%+v", res)
	}
	if gotAmount != "1050" || gotCurrency != "usd" {
		t.Fatalf("sent amount=%s currency=%s", gotAmount, gotCurrency)
	}
	if gotIdempotency == "" {
		t.Fatal("idempotency key not sent")
	}
}

func TestStripeGatewayDeclined(t *testing.T) {
	gw := newTestStripe(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"error":{"type":"card_error","code":"card_declined","message":"Your card was declined."}}`))
	})

	_, err := gw.Charge(context.Background(), ports.ChargeRequest{Amount: 10, Token: "tok_visa", Currency: "usd"})
	if !errors.Is(err, entities.ErrPaymentFailed) {
		t.Fatalf("err=%v", err)
	}
	if !strings.Contains(err.Error(), "Your card was declined.") {
		t.Fatalf("message lost: %v", err)
	}
	var pe *entities.PaymentError
	if !errors.As(err, &pe) || pe.Message != "Your card was declined." {
		t.Fatalf("provider message=%+v", pe)
	}
}

func TestNewGateway(t *testing.T) {
	gw, err := NewGateway(config.PaymentConfig{Provider: config.ProviderStripe, StripeSecretKey: "sk_test"})
	if err != nil || gw.Name() != "stripe" {
		t.Fatalf("stripe: %v %v", gw, err)
	}
	gw, err = NewGateway(config.PaymentConfig{Provider: config.ProviderSimulated})
	if err != nil || gw.Name() != "simulated" {
		t.Fatalf("simulated: %v %v", gw, err)
	}
	if _, err := NewGateway(config.PaymentConfig{Provider: "paypal"}); err == nil {
		t.Fatal("expected error")
	}
}
