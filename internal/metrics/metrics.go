// Package metrics exposes Prometheus instrumentation for the ingestion and
// analysis pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FilesIngested counts successfully normalized uploads.
	FilesIngested = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ticketlens_files_ingested_total",
		Help: "Number of spreadsheet files successfully ingested",
	})

	// IngestFailures counts fatal ingestion errors by taxonomy type.
	IngestFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ticketlens_ingest_failures_total",
		Help: "Number of failed ingestion attempts by reason",
	}, []string{"reason"})

	// RowsNormalized counts canonical records produced.
	RowsNormalized = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ticketlens_rows_normalized_total",
		Help: "Number of rows normalized into canonical ticket records",
	})

	// AnomaliesFlagged counts flagged anomalies by sub-analysis.
	AnomaliesFlagged = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ticketlens_anomalies_flagged_total",
		Help: "Number of anomalies flagged by analysis kind",
	}, []string{"kind"})
)
