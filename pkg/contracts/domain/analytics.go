package domain

import (
	"time"
)

// CategoryCount is one category value with its ticket count. Distribution
// slices are ordered by descending count; ties keep first-encountered order.
type CategoryCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// DailyCount is the ticket count for one calendar date.
type DailyCount struct {
	Date  time.Time `json:"date"`
	Count int       `json:"count"`
}

// ResponseTimeSummary holds the response-time aggregates in hours.
type ResponseTimeSummary struct {
	Mean float64 `json:"mean"`
	Max  float64 `json:"max"`
	Min  float64 `json:"min"`
}

// DescriptiveStats holds descriptive statistics over a numeric series,
// mirroring the usual describe() set.
type DescriptiveStats struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Q25    float64 `json:"q25"`
	Median float64 `json:"median"`
	Q75    float64 `json:"q75"`
	Max    float64 `json:"max"`
}

// TrendSummary summarizes the daily time series for one period.
type TrendSummary struct {
	TotalTickets    int       `json:"total_tickets"`
	AvgDailyTickets float64   `json:"avg_daily_tickets"`
	PeakDay         time.Time `json:"peak_day"`
	PeakDayCount    int       `json:"peak_day_count"`
}

// TypeResponseMean is the mean response time for one ticket type.
type TypeResponseMean struct {
	TicketType string  `json:"ticket_type"`
	MeanHours  float64 `json:"mean_hours"`
}

// AnalysisResult is the full set of descriptive statistics computed over one
// filtered dataset. It is pure function output with no shared state.
type AnalysisResult struct {
	HourlyDistribution  map[int]int         `json:"hourly_distribution"`  // hour of day -> count, zero hours omitted
	DailyDistribution   map[string]int      `json:"daily_distribution"`   // weekday name -> count
	MonthlyDistribution map[int]int         `json:"monthly_distribution"` // month number -> count
	TypeDistribution    []CategoryCount     `json:"type_distribution"`
	StatusDistribution  []CategoryCount     `json:"status_distribution"`
	ResponseSummary     ResponseTimeSummary `json:"response_summary"`
	ClientSummary       DescriptiveStats    `json:"client_summary"` // over per-client ticket counts
	DailyCounts         []DailyCount        `json:"daily_counts"`   // ascending by date
	Trend               TrendSummary        `json:"trend"`
	TypeResponseMeans   []TypeResponseMean  `json:"type_response_means"`
}

// VolumeAnomaly is one flagged day in the daily-count series.
type VolumeAnomaly struct {
	Date  time.Time `json:"date"`
	Count int       `json:"count"`
}

// VolumeAnomalies holds the flagged days together with the series mean they
// were judged against.
type VolumeAnomalies struct {
	Points []VolumeAnomaly `json:"points"`
	Mean   float64         `json:"mean"`
}

// ResponseTimeAnomalies holds flagged per-record response-time values.
type ResponseTimeAnomalies struct {
	Values []float64 `json:"values"`
	Mean   float64   `json:"mean"`
}

// HourlyPattern describes one unusual hourly-activity pattern. All abnormal
// hours for the period are aggregated into a single pattern entry.
type HourlyPattern struct {
	Description string `json:"description"`
	Hours       []int  `json:"hours"`
}

// AnomalyReport packages the three independent anomaly sub-analyses for one
// period. Any subset may be empty; partial results are valid output.
type AnomalyReport struct {
	ThresholdSigma  float64               `json:"threshold_sigma"`
	DailyVolume     VolumeAnomalies       `json:"daily_volume"`
	ResponseTimes   ResponseTimeAnomalies `json:"response_times"`
	UnusualPatterns []HourlyPattern       `json:"unusual_patterns"`
}

// DatasetSummary is the headline metric row for one dataset.
type DatasetSummary struct {
	TotalTickets    int     `json:"total_tickets"`
	UniqueClients   int     `json:"unique_clients"`
	AvgResponseTime float64 `json:"avg_response_time"`
}

// PeriodReport is the assembled output for one filtered period.
type PeriodReport struct {
	Period    Period          `json:"period"`
	Summary   DatasetSummary  `json:"summary"`
	Analysis  *AnalysisResult `json:"analysis,omitempty"` // nil when the period matched no tickets
	Anomalies AnomalyReport   `json:"anomalies"`
}
