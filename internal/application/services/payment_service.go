package services

import (
	"context"
	"fmt"
	"time"

	"github.com/ecoloop/core/internal/domain/entities"
	"github.com/ecoloop/core/internal/infrastructure/config"
	"github.com/ecoloop/core/internal/infrastructure/logger"
	"github.com/ecoloop/core/internal/infrastructure/metrics"
	"github.com/ecoloop/core/internal/ports"
)

// PaymentService charges the payment provider and records the outcome
type PaymentService struct {
	access  *DocumentAccess
	gateway ports.PaymentGateway
	cfg     config.PaymentConfig
	metrics *metrics.Metrics
	logger  *logger.Logger
	now     func() time.Time
}

// NewPaymentService creates a new payment service
func NewPaymentService(access *DocumentAccess, gateway ports.PaymentGateway, cfg config.PaymentConfig, m *metrics.Metrics, logger *logger.Logger) *PaymentService {
	return &PaymentService{
		access:  access,
		gateway: gateway,
		cfg:     cfg,
		metrics: m,
		logger:  logger,
		now:     time.Now,
	}
}

// ProcessTransaction charges req.Amount and, once the provider answered,
// appends a transaction carrying the provider's status. A failed charge
// records nothing. The charge and the save are not atomic: a save failure
// after a successful charge is returned but the charge stands.
func (s *PaymentService) ProcessTransaction(ctx context.Context, req ports.TransactionRequest) (*entities.Transaction, error) {
	result, err := s.gateway.Charge(ctx, ports.ChargeRequest{
		Amount:      req.Amount,
		Token:       req.Token,
		Currency:    s.cfg.Currency,
		Description: s.cfg.Description,
	})
	if err != nil {
		s.metrics.PaymentProcessed("error")
		s.logger.LogPayment(s.gateway.Name(), req.Amount, "", err)
		return nil, err
	}

	s.metrics.PaymentProcessed(result.Status)
	s.logger.LogPayment(s.gateway.Name(), req.Amount, result.Status, nil)

	var created entities.Transaction
	err = s.access.Update(ctx, func(doc *entities.Document) error {
		created = doc.AppendTransaction(req.Amount, result.Status, entities.FormatDate(s.now()))
		return nil
	})
	if err != nil {
		s.logger.Errorw("Charge succeeded but transaction was not saved", "charge_id", result.ID, "amount", req.Amount, "error", err)
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}

	return &created, nil
}

// ListTransactions returns every recorded transaction in insertion order
func (s *PaymentService) ListTransactions(ctx context.Context) ([]entities.Transaction, error) {
	return s.access.Read(ctx).Transactions, nil
}
