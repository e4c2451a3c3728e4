package analytics

import (
	"math"
	"sort"
	"time"

	apperrors "ticketlens/internal/errors"
	"ticketlens/pkg/contracts/domain"
)

// Analyze computes the full set of descriptive statistics over one filtered
// dataset. The dataset must be non-empty; callers filtering periods should
// skip empty ones or handle the EmptyDataset error.
func Analyze(tickets domain.Dataset) (*domain.AnalysisResult, error) {
	if len(tickets) == 0 {
		return nil, apperrors.NewEmptyDatasetError()
	}

	result := &domain.AnalysisResult{
		HourlyDistribution:  make(map[int]int),
		DailyDistribution:   make(map[string]int),
		MonthlyDistribution: make(map[int]int),
	}

	responseTimes := make([]float64, 0, len(tickets))
	clientCounts := make(map[string]int)
	dayCounts := make(map[time.Time]int)
	typeTimes := make(map[string][]float64)

	for _, t := range tickets {
		result.HourlyDistribution[t.Date.Hour()]++
		result.DailyDistribution[t.Date.Weekday().String()]++
		result.MonthlyDistribution[int(t.Date.Month())]++
		responseTimes = append(responseTimes, t.ResponseTime)
		clientCounts[t.Client]++
		dayCounts[t.Day()]++
		typeTimes[t.TicketType] = append(typeTimes[t.TicketType], t.ResponseTime)
	}

	result.TypeDistribution = countCategories(tickets, func(t domain.Ticket) string { return t.TicketType })
	result.StatusDistribution = countCategories(tickets, func(t domain.Ticket) string { return t.Status })

	result.ResponseSummary = domain.ResponseTimeSummary{
		Mean: mean(responseTimes),
		Max:  maxOf(responseTimes),
		Min:  minOf(responseTimes),
	}

	perClient := make([]float64, 0, len(clientCounts))
	for _, c := range clientCounts {
		perClient = append(perClient, float64(c))
	}
	result.ClientSummary = describe(perClient)

	result.DailyCounts = sortedDailyCounts(dayCounts)
	result.Trend = trendSummary(len(tickets), result.DailyCounts)
	result.TypeResponseMeans = typeResponseMeans(typeTimes)

	return result, nil
}

// countCategories counts distinct values of one categorical field, ordered by
// descending count. Ties keep first-encountered order, which is deterministic
// for a given input but otherwise implementation-defined.
func countCategories(tickets domain.Dataset, key func(domain.Ticket) string) []domain.CategoryCount {
	counts := make(map[string]int)
	var order []string
	for _, t := range tickets {
		v := key(t)
		if _, seen := counts[v]; !seen {
			order = append(order, v)
		}
		counts[v]++
	}

	result := make([]domain.CategoryCount, 0, len(order))
	for _, v := range order {
		result = append(result, domain.CategoryCount{Value: v, Count: counts[v]})
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Count > result[j].Count
	})
	return result
}

func sortedDailyCounts(dayCounts map[time.Time]int) []domain.DailyCount {
	daily := make([]domain.DailyCount, 0, len(dayCounts))
	for day, count := range dayCounts {
		daily = append(daily, domain.DailyCount{Date: day, Count: count})
	}
	sort.Slice(daily, func(i, j int) bool {
		return daily[i].Date.Before(daily[j].Date)
	})
	return daily
}

// trendSummary derives the trend metrics from the ascending daily series.
// The peak-day tie-break is the earliest date among equal counts.
func trendSummary(total int, daily []domain.DailyCount) domain.TrendSummary {
	trend := domain.TrendSummary{TotalTickets: total}
	if len(daily) == 0 {
		return trend
	}

	sum := 0
	peak := daily[0]
	for _, d := range daily {
		sum += d.Count
		if d.Count > peak.Count {
			peak = d
		}
	}

	trend.AvgDailyTickets = float64(sum) / float64(len(daily))
	trend.PeakDay = peak.Date
	trend.PeakDayCount = peak.Count
	return trend
}

func typeResponseMeans(typeTimes map[string][]float64) []domain.TypeResponseMean {
	types := make([]string, 0, len(typeTimes))
	for t := range typeTimes {
		types = append(types, t)
	}
	sort.Strings(types)

	means := make([]domain.TypeResponseMean, 0, len(types))
	for _, t := range types {
		means = append(means, domain.TypeResponseMean{
			TicketType: t,
			MeanHours:  mean(typeTimes[t]),
		})
	}
	return means
}

// describe computes the standard descriptive statistics over a series,
// using sample standard deviation and linear quartile interpolation.
func describe(values []float64) domain.DescriptiveStats {
	stats := domain.DescriptiveStats{Count: len(values)}
	if len(values) == 0 {
		return stats
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	stats.Mean = mean(sorted)
	stats.Std = sampleStd(sorted, stats.Mean)
	stats.Min = sorted[0]
	stats.Max = sorted[len(sorted)-1]
	stats.Q25 = percentile(sorted, 0.25)
	stats.Median = percentile(sorted, 0.5)
	stats.Q75 = percentile(sorted, 0.75)
	return stats
}

// percentile interpolates linearly between the two nearest ranks of an
// ascending series.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}

	rank := p * float64(len(sorted)-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	if lower == upper {
		return sorted[lower]
	}
	frac := rank - float64(lower)
	return sorted[lower]*(1-frac) + sorted[upper]*frac
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleStd is the n-1 denominator standard deviation used for descriptive
// summaries.
func sampleStd(values []float64, mean float64) float64 {
	if len(values) < 2 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)-1))
}

// populationStd is the n denominator standard deviation used by the anomaly
// detector's z-score rule.
func populationStd(values []float64, mean float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)))
}

func minOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
