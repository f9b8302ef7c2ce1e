package services

import (
	"context"
	"fmt"

	"github.com/ecoloop/core/internal/domain/entities"
	"github.com/ecoloop/core/internal/infrastructure/logger"
	"github.com/ecoloop/core/internal/infrastructure/metrics"
	"github.com/ecoloop/core/internal/ports"
)

// RecyclingService handles recycling submissions and company reports
type RecyclingService struct {
	access  *DocumentAccess
	metrics *metrics.Metrics
	logger  *logger.Logger
}

// NewRecyclingService creates a new recycling service
func NewRecyclingService(access *DocumentAccess, m *metrics.Metrics, logger *logger.Logger) *RecyclingService {
	return &RecyclingService{
		access:  access,
		metrics: m,
		logger:  logger,
	}
}

// RecordPlastic appends a submission for req.Company and persists the document
func (s *RecyclingService) RecordPlastic(ctx context.Context, req ports.RecordPlasticRequest) (*entities.Plastic, error) {
	var created entities.Plastic

	err := s.access.Update(ctx, func(doc *entities.Document) error {
		created = doc.AppendPlastic(req.Company, req.Quantity)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record plastic: %w", err)
	}

	s.metrics.PlasticRecorded(created.Quantity)
	s.logger.Infow("Plastic recorded", "plastic_id", created.ID, "company", created.Company, "quantity", created.Quantity)

	return &created, nil
}

// CompanyReport lists the quantity and recycled flag of every submission by company
func (s *RecyclingService) CompanyReport(ctx context.Context, company string) (*ports.CompanyReport, error) {
	doc := s.access.Read(ctx)

	report := &ports.CompanyReport{
		Company: company,
		Report:  []entities.PlasticReport{},
	}
	for row := range doc.PlasticsByCompany(company) {
		report.Report = append(report.Report, row)
		report.TotalQuantity += row.Quantity
	}

	return report, nil
}
