package http

import (
	"context"

	"ticketlens/pkg/contracts/domain"
)

// AnalysisServiceInterface defines the pipeline operations the handler
// depends on, kept as an interface for handler tests.
type AnalysisServiceInterface interface {
	Ingest(ctx context.Context, data []byte) (domain.Dataset, error)
	Summarize(dataset domain.Dataset) domain.DatasetSummary
	AnalyzePeriods(ctx context.Context, dataset domain.Dataset, periods []domain.Period, ticketTypes []string) ([]domain.PeriodReport, error)
}
