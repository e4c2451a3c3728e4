package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"ticketlens/internal/config"
	"ticketlens/internal/services"
	"ticketlens/pkg/contracts/domain"
)

func main() {
	filePath := flag.String("file", "", "spreadsheet file to analyze (xlsx or csv)")
	sigma := flag.Float64("sigma", 0, "anomaly threshold in standard deviations (default from config)")
	start := flag.String("start", "", "period start date (YYYY-MM-DD, defaults to first observed date)")
	end := flag.String("end", "", "period end date (YYYY-MM-DD, defaults to last observed date)")
	types := flag.String("types", "", "comma-separated ticket types to include (default: all)")
	flag.Parse()

	if *filePath == "" {
		slog.Error("No input file specified", "hint", "use -file to point at a spreadsheet export")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *sigma > 0 {
		cfg.Analysis.ThresholdSigma = *sigma
	}

	data, err := os.ReadFile(*filePath)
	if err != nil {
		slog.Error("Failed to read input file", "path", *filePath, "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	service := services.NewAnalysisService(cfg)

	dataset, err := service.Ingest(ctx, data)
	if err != nil {
		slog.Error("Ingestion failed", "error", err)
		os.Exit(1)
	}
	if len(dataset) == 0 {
		slog.Error("File contains no data rows", "path", *filePath)
		os.Exit(1)
	}

	period, err := buildPeriod(dataset, *start, *end)
	if err != nil {
		slog.Error("Invalid period", "error", err)
		os.Exit(1)
	}

	var selectedTypes []string
	if *types != "" {
		for _, t := range strings.Split(*types, ",") {
			selectedTypes = append(selectedTypes, strings.TrimSpace(t))
		}
	}

	reports, err := service.AnalyzePeriods(ctx, dataset, []domain.Period{period}, selectedTypes)
	if err != nil {
		slog.Error("Analysis failed", "error", err)
		os.Exit(1)
	}

	output := map[string]interface{}{
		"summary":         service.Summarize(dataset),
		"available_types": dataset.TicketTypes(),
		"reports":         reports,
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(output); err != nil {
		slog.Error("Failed to encode report", "error", err)
		os.Exit(1)
	}
}

// buildPeriod resolves the requested date range, defaulting each open bound
// to the dataset's observed range.
func buildPeriod(dataset domain.Dataset, start, end string) (domain.Period, error) {
	minDay, maxDay := dataset[0].Day(), dataset[0].Day()
	for _, t := range dataset[1:] {
		day := t.Day()
		if day.Before(minDay) {
			minDay = day
		}
		if day.After(maxDay) {
			maxDay = day
		}
	}

	period := domain.Period{Name: "Selected period", Start: minDay, End: maxDay}
	if start != "" {
		ts, err := time.Parse("2006-01-02", start)
		if err != nil {
			return period, fmt.Errorf("parse start date: %w", err)
		}
		period.Start = ts
	}
	if end != "" {
		ts, err := time.Parse("2006-01-02", end)
		if err != nil {
			return period, fmt.Errorf("parse end date: %w", err)
		}
		period.End = ts
	}
	if period.End.Before(period.Start) {
		return period, fmt.Errorf("period ends before it starts")
	}

	return period, nil
}
