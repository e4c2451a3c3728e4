package analytics

import (
	"log/slog"
	"math"
	"sort"
	"time"

	"ticketlens/pkg/contracts/domain"
)

// DefaultThresholdSigma flags roughly the top few percent of deviations
// under a normal assumption.
const DefaultThresholdSigma = 2.0

// Detector flags statistically unusual days, response times and hourly
// activity patterns using a fixed z-score threshold.
type Detector struct {
	thresholdSigma float64
	logger         *slog.Logger
}

// NewDetector creates a detector with the given threshold. Non-positive
// values fall back to the default.
func NewDetector(thresholdSigma float64, logger *slog.Logger) *Detector {
	if thresholdSigma <= 0 {
		thresholdSigma = DefaultThresholdSigma
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Detector{
		thresholdSigma: thresholdSigma,
		logger:         logger.With(slog.String("component", "anomaly_detector")),
	}
}

// Detect runs the three anomaly sub-analyses over one filtered dataset and
// packages them into a report. Each sub-analysis is independent; a degenerate
// series in one never suppresses the others.
func (d *Detector) Detect(tickets domain.Dataset) domain.AnomalyReport {
	report := domain.AnomalyReport{ThresholdSigma: d.thresholdSigma}
	if len(tickets) == 0 {
		return report
	}

	report.DailyVolume = d.detectVolumeAnomalies(tickets)
	report.ResponseTimes = d.detectResponseAnomalies(tickets)
	report.UnusualPatterns = d.detectHourlyPatterns(tickets)

	if len(report.DailyVolume.Points) > 0 || len(report.ResponseTimes.Values) > 0 {
		d.logger.Info("anomalies detected",
			slog.Int("volume_days", len(report.DailyVolume.Points)),
			slog.Int("response_values", len(report.ResponseTimes.Values)),
			slog.Int("hourly_patterns", len(report.UnusualPatterns)))
	}

	return report
}

// detectVolumeAnomalies applies the z-score rule to the daily-count series.
// Days with zero tickets are included only when they fall strictly between
// the minimum and maximum observed dates.
func (d *Detector) detectVolumeAnomalies(tickets domain.Dataset) domain.VolumeAnomalies {
	dayCounts := make(map[time.Time]int)
	for _, t := range tickets {
		dayCounts[t.Day()]++
	}

	days := make([]time.Time, 0, len(dayCounts))
	for day := range dayCounts {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	// Zero-fill interior gaps so a silent day inside the range counts
	// against the mean.
	series := make([]domain.DailyCount, 0, len(days))
	for day := days[0]; !day.After(days[len(days)-1]); day = day.AddDate(0, 0, 1) {
		series = append(series, domain.DailyCount{Date: day, Count: dayCounts[day]})
	}

	counts := make([]float64, len(series))
	for i, s := range series {
		counts[i] = float64(s.Count)
	}

	m := mean(counts)
	std := populationStd(counts, m)
	result := domain.VolumeAnomalies{Mean: m}
	if len(series) < 2 || std == 0 {
		return result
	}

	for _, s := range series {
		if math.Abs(float64(s.Count)-m) > d.thresholdSigma*std {
			result.Points = append(result.Points, domain.VolumeAnomaly{Date: s.Date, Count: s.Count})
		}
	}
	return result
}

// detectResponseAnomalies applies the z-score rule per record to the
// response-time column. A column degraded to all zeros has zero variance and
// yields no anomalies.
func (d *Detector) detectResponseAnomalies(tickets domain.Dataset) domain.ResponseTimeAnomalies {
	values := make([]float64, len(tickets))
	for i, t := range tickets {
		values[i] = t.ResponseTime
	}

	m := mean(values)
	std := populationStd(values, m)
	result := domain.ResponseTimeAnomalies{Mean: m}
	if len(values) < 2 || std == 0 {
		return result
	}

	for _, v := range values {
		if math.Abs(v-m) > d.thresholdSigma*std {
			result.Values = append(result.Values, v)
		}
	}
	return result
}

// detectHourlyPatterns flags hours whose count exceeds the mean hourly count
// by more than the threshold. All abnormal hours are aggregated into a single
// pattern entry for the period.
func (d *Detector) detectHourlyPatterns(tickets domain.Dataset) []domain.HourlyPattern {
	hourCounts := make(map[int]int)
	for _, t := range tickets {
		hourCounts[t.Date.Hour()]++
	}

	hours := make([]int, 0, len(hourCounts))
	counts := make([]float64, 0, len(hourCounts))
	for h := 0; h < 24; h++ {
		if c, ok := hourCounts[h]; ok {
			hours = append(hours, h)
			counts = append(counts, float64(c))
		}
	}

	m := mean(counts)
	std := populationStd(counts, m)
	if len(counts) < 2 || std == 0 {
		return nil
	}

	var flagged []int
	for i, h := range hours {
		if counts[i] > m+d.thresholdSigma*std {
			flagged = append(flagged, h)
		}
	}

	if len(flagged) == 0 {
		return nil
	}

	return []domain.HourlyPattern{{
		Description: "unusually high activity",
		Hours:       flagged,
	}}
}
