package ports

import (
	"context"

	"github.com/ecoloop/core/internal/domain/entities"
)

// RecyclingService interface for recycling submissions
type RecyclingService interface {
	RecordPlastic(ctx context.Context, req RecordPlasticRequest) (*entities.Plastic, error)
	CompanyReport(ctx context.Context, company string) (*CompanyReport, error)
}

// PaymentService interface for payment transactions
type PaymentService interface {
	ProcessTransaction(ctx context.Context, req TransactionRequest) (*entities.Transaction, error)
	ListTransactions(ctx context.Context) ([]entities.Transaction, error)
}

// AuthService interface for operator authentication
type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	ValidateToken(tokenString string) (*Claims, error)
}

// PaymentGateway is the third-party payment provider.
type PaymentGateway interface {
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
	Name() string
}

// Request/Response DTOs

type RecordPlasticRequest struct {
	Company  string  `json:"company" form:"company" validate:"required"`
	Quantity float64 `json:"quantity" form:"quantity" validate:"gte=0"`
}

type TransactionRequest struct {
	Amount float64 `json:"amount" form:"amount" validate:"gt=0"`
	Token  string  `json:"token" form:"token" validate:"required"`
}

type CompanyReport struct {
	Company       string                   `json:"company"`
	Report        []entities.PlasticReport `json:"report"`
	TotalQuantity float64                  `json:"total_quantity"`
}

// ChargeRequest carries the amount in major currency units.
type ChargeRequest struct {
	Amount      float64
	Token       string
	Currency    string
	Description string
}

type ChargeResult struct {
	ID     string
	Status string
}

type LoginRequest struct {
	Password string `json:"password" form:"password" validate:"required"`
}

type AuthResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type Claims struct {
	Subject string
	Role    string
}
