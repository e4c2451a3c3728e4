package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"ticketlens/internal/analytics"
	"ticketlens/internal/config"
	"ticketlens/internal/dataprocessing"
	apperrors "ticketlens/internal/errors"
	"ticketlens/internal/metrics"
	"ticketlens/pkg/contracts/domain"
)

// AnalysisService runs the full pipeline for one uploaded file: ingestion
// into a canonical dataset, then per-period statistics and anomaly detection.
type AnalysisService struct {
	cfg        *config.Config
	logger     *slog.Logger
	normalizer *dataprocessing.Normalizer
	detector   *analytics.Detector
}

// NewAnalysisService creates an analysis service using default logger
func NewAnalysisService(cfg *config.Config) *AnalysisService {
	return NewAnalysisServiceWithLogger(cfg, slog.Default())
}

// NewAnalysisServiceWithLogger creates an analysis service with a specific logger
func NewAnalysisServiceWithLogger(cfg *config.Config, logger *slog.Logger) *AnalysisService {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg == nil {
		cfg = config.Default()
	}

	return &AnalysisService{
		cfg:        cfg,
		logger:     logger.With(slog.String("component", "analysis_service")),
		normalizer: dataprocessing.NewNormalizer(logger),
		detector:   analytics.NewDetector(cfg.Analysis.ThresholdSigma, logger),
	}
}

// Ingest parses the uploaded bytes and normalizes them into a canonical
// dataset. FileFormat and SchemaMismatch errors are fatal; no partial
// dataset is returned.
func (s *AnalysisService) Ingest(ctx context.Context, data []byte) (domain.Dataset, error) {
	table, err := dataprocessing.ReadWorkbook(data)
	if err != nil {
		metrics.IngestFailures.WithLabelValues("file_format").Inc()
		return nil, err
	}

	s.logger.InfoContext(ctx, "workbook read",
		slog.Int("headers", len(table.Headers)),
		slog.Int("rows", len(table.Rows)))

	dataset, err := s.normalizer.Normalize(table)
	if err != nil {
		var schemaErr *apperrors.SchemaMismatchError
		if errors.As(err, &schemaErr) {
			metrics.IngestFailures.WithLabelValues("schema_mismatch").Inc()
			s.logger.WarnContext(ctx, "schema resolution failed",
				slog.Any("missing_fields", schemaErr.MissingFields),
				slog.Any("available_headers", schemaErr.AvailableHeaders))
		}
		return nil, err
	}

	metrics.FilesIngested.Inc()
	metrics.RowsNormalized.Add(float64(len(dataset)))

	s.logger.InfoContext(ctx, "dataset normalized",
		slog.Int("records", len(dataset)),
		slog.Int("unique_clients", dataset.UniqueClients()))

	return dataset, nil
}

// Summarize computes the headline metric row for a dataset.
func (s *AnalysisService) Summarize(dataset domain.Dataset) domain.DatasetSummary {
	summary := domain.DatasetSummary{
		TotalTickets:  len(dataset),
		UniqueClients: dataset.UniqueClients(),
	}
	if len(dataset) == 0 {
		return summary
	}

	total := 0.0
	for _, t := range dataset {
		total += t.ResponseTime
	}
	summary.AvgResponseTime = total / float64(len(dataset))
	return summary
}

// AnalyzePeriods filters the dataset per period and selected ticket types,
// then computes statistics and anomalies for each period independently. An
// empty ticket-type selection means all types present in the dataset. A
// period matching no tickets yields a report with a nil Analysis rather than
// failing the call.
func (s *AnalysisService) AnalyzePeriods(ctx context.Context, dataset domain.Dataset, periods []domain.Period, ticketTypes []string) ([]domain.PeriodReport, error) {
	if len(periods) == 0 {
		return nil, apperrors.NewAppValidationError("at least one period is required")
	}
	if len(periods) > s.cfg.Analysis.MaxPeriods {
		return nil, apperrors.NewAppValidationError(
			fmt.Sprintf("at most %d periods may be compared, got %d", s.cfg.Analysis.MaxPeriods, len(periods)))
	}
	for _, p := range periods {
		if !p.IsValid() {
			return nil, apperrors.NewAppValidationError(
				fmt.Sprintf("period %q has invalid bounds", p.Name))
		}
	}

	if len(ticketTypes) == 0 {
		ticketTypes = dataset.TicketTypes()
	}
	selected := make(map[string]bool, len(ticketTypes))
	for _, t := range ticketTypes {
		selected[t] = true
	}

	reports := make([]domain.PeriodReport, 0, len(periods))
	for _, period := range periods {
		filtered := filterDataset(dataset, period, selected)

		report := domain.PeriodReport{
			Period:  period,
			Summary: s.Summarize(filtered),
		}

		if len(filtered) > 0 {
			result, err := analytics.Analyze(filtered)
			if err != nil {
				return nil, err
			}
			report.Analysis = result
		}

		report.Anomalies = s.detector.Detect(filtered)
		metrics.AnomaliesFlagged.WithLabelValues("daily_volume").Add(float64(len(report.Anomalies.DailyVolume.Points)))
		metrics.AnomaliesFlagged.WithLabelValues("response_time").Add(float64(len(report.Anomalies.ResponseTimes.Values)))
		metrics.AnomaliesFlagged.WithLabelValues("hourly_pattern").Add(float64(len(report.Anomalies.UnusualPatterns)))

		s.logger.InfoContext(ctx, "period analyzed",
			slog.String("period", period.Name),
			slog.Int("tickets", len(filtered)),
			slog.Int("volume_anomalies", len(report.Anomalies.DailyVolume.Points)))

		reports = append(reports, report)
	}

	return reports, nil
}

// filterDataset keeps tickets inside the period whose type is selected.
func filterDataset(dataset domain.Dataset, period domain.Period, selected map[string]bool) domain.Dataset {
	filtered := make(domain.Dataset, 0, len(dataset))
	for _, t := range dataset {
		if period.Contains(t.Date) && selected[t.TicketType] {
			filtered = append(filtered, t)
		}
	}
	return filtered
}
