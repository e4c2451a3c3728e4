package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketlens/pkg/contracts/domain"
)

func dayTicket(day time.Time, hour int, responseHours float64) domain.Ticket {
	return domain.Ticket{
		Date:         day.Add(time.Duration(hour) * time.Hour),
		Client:       "Acme",
		TicketType:   "bug",
		Status:       "open",
		ResponseTime: responseHours,
	}
}

func TestNewDetectorThresholdFallback(t *testing.T) {
	assert.InDelta(t, DefaultThresholdSigma, NewDetector(0, nil).thresholdSigma, 1e-9)
	assert.InDelta(t, DefaultThresholdSigma, NewDetector(-1, nil).thresholdSigma, 1e-9)
	assert.InDelta(t, 3.5, NewDetector(3.5, nil).thresholdSigma, 1e-9)
}

func TestDetectEmptyDataset(t *testing.T) {
	report := NewDetector(2.0, nil).Detect(nil)

	assert.InDelta(t, 2.0, report.ThresholdSigma, 1e-9)
	assert.Empty(t, report.DailyVolume.Points)
	assert.Empty(t, report.ResponseTimes.Values)
	assert.Empty(t, report.UnusualPatterns)
}

func TestDetectZeroVarianceYieldsNoAnomalies(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	// Five tickets per day, identical response times, identical hours.
	var dataset domain.Dataset
	for d := 0; d < 10; d++ {
		day := base.AddDate(0, 0, d)
		for i := 0; i < 5; i++ {
			dataset = append(dataset, dayTicket(day, 10, 4.0))
		}
	}

	report := NewDetector(2.0, nil).Detect(dataset)
	assert.Empty(t, report.DailyVolume.Points)
	assert.Empty(t, report.ResponseTimes.Values)
	assert.Empty(t, report.UnusualPatterns)
	assert.InDelta(t, 5.0, report.DailyVolume.Mean, 1e-9)
	assert.InDelta(t, 4.0, report.ResponseTimes.Mean, 1e-9)
}

func TestDetectVolumeSpike(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	spikeDay := base.AddDate(0, 0, 15)

	// 29 quiet days at ten tickets plus one day with two hundred.
	var dataset domain.Dataset
	for d := 0; d < 30; d++ {
		day := base.AddDate(0, 0, d)
		n := 10
		if day.Equal(spikeDay) {
			n = 200
		}
		for i := 0; i < n; i++ {
			dataset = append(dataset, dayTicket(day, i%24, 0))
		}
	}

	report := NewDetector(2.0, nil).Detect(dataset)

	require.Len(t, report.DailyVolume.Points, 1)
	assert.True(t, spikeDay.Equal(report.DailyVolume.Points[0].Date))
	assert.Equal(t, 200, report.DailyVolume.Points[0].Count)
}

func TestDetectVolumeZeroFillsInteriorDays(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	// Tickets on days 0 and 4 only; the three silent days in between enter
	// the series as zeros: [10 0 0 0 10], mean 4, population std ~4.9.
	var dataset domain.Dataset
	for _, d := range []int{0, 4} {
		day := base.AddDate(0, 0, d)
		for i := 0; i < 10; i++ {
			dataset = append(dataset, dayTicket(day, 10, 0))
		}
	}

	report := NewDetector(1.0, nil).Detect(dataset)

	assert.InDelta(t, 4.0, report.DailyVolume.Mean, 1e-9)
	require.Len(t, report.DailyVolume.Points, 2)
	for _, p := range report.DailyVolume.Points {
		assert.Equal(t, 10, p.Count)
	}
}

func TestDetectResponseTimeOutliers(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	// A large balanced base keeps the stats stable when one value is added:
	// fifty 9s and fifty 11s give mean 10, population std 1.
	build := func(extra float64) domain.Dataset {
		var dataset domain.Dataset
		for i := 0; i < 50; i++ {
			dataset = append(dataset, dayTicket(base.AddDate(0, 0, i%5), 10, 9))
			dataset = append(dataset, dayTicket(base.AddDate(0, 0, i%5), 11, 11))
		}
		dataset = append(dataset, dayTicket(base, 12, extra))
		return dataset
	}

	detector := NewDetector(2.0, nil)

	t.Run("value above threshold is flagged", func(t *testing.T) {
		report := detector.Detect(build(13))
		require.Len(t, report.ResponseTimes.Values, 1)
		assert.InDelta(t, 13.0, report.ResponseTimes.Values[0], 1e-9)
	})

	t.Run("value below threshold is not flagged", func(t *testing.T) {
		report := detector.Detect(build(11))
		assert.Empty(t, report.ResponseTimes.Values)
	})
}

func TestDetectHourlyPatterns(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	t.Run("busy hour is aggregated into one pattern", func(t *testing.T) {
		// Hours 9-13 at five tickets each, hour 14 at thirty.
		var dataset domain.Dataset
		for h := 9; h <= 13; h++ {
			for i := 0; i < 5; i++ {
				dataset = append(dataset, dayTicket(base, h, 0))
			}
		}
		for i := 0; i < 30; i++ {
			dataset = append(dataset, dayTicket(base, 14, 0))
		}

		report := NewDetector(2.0, nil).Detect(dataset)

		require.Len(t, report.UnusualPatterns, 1)
		pattern := report.UnusualPatterns[0]
		assert.Equal(t, "unusually high activity", pattern.Description)
		assert.Equal(t, []int{14}, pattern.Hours)
	})

	t.Run("quiet hours are never flagged", func(t *testing.T) {
		// One near-empty hour among busy ones; the rule is one-sided.
		var dataset domain.Dataset
		for h := 9; h <= 13; h++ {
			for i := 0; i < 20; i++ {
				dataset = append(dataset, dayTicket(base, h, 0))
			}
		}
		dataset = append(dataset, dayTicket(base, 14, 0))

		report := NewDetector(2.0, nil).Detect(dataset)
		assert.Empty(t, report.UnusualPatterns)
	})
}

func TestDetectVolumeDip(t *testing.T) {
	// The volume rule is symmetric, so an unusually quiet day is flagged too.
	// Alternating 99 and 101 tickets for twenty days plus one day at 80.
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	var dataset domain.Dataset
	for d := 0; d < 21; d++ {
		day := base.AddDate(0, 0, d)
		n := 99
		if d%2 == 1 {
			n = 101
		}
		if d == 20 {
			n = 80
		}
		for i := 0; i < n; i++ {
			dataset = append(dataset, dayTicket(day, i%24, 0))
		}
	}

	report := NewDetector(2.0, nil).Detect(dataset)

	require.Len(t, report.DailyVolume.Points, 1)
	assert.Equal(t, 80, report.DailyVolume.Points[0].Count)
}
