// Package analytics computes descriptive statistics and statistical anomaly
// flags over a canonical ticket dataset.
//
// Analyze is a pure function from dataset to AnalysisResult. The Detector
// applies a classical z-score outlier rule to daily ticket volume, per-record
// response times, and the hourly activity distribution; its threshold is the
// configured number of standard deviations. Degenerate series (fewer than two
// points, zero variance) yield empty results rather than errors, and the
// three anomaly sub-analyses are computed independently so a degraded
// response-time column never suppresses the volume or hourly results.
package analytics
