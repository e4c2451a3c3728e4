package dataprocessing

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"ticketlens/pkg/contracts/domain"
)

// dateLayouts are the timestamp representations accepted by the permissive
// parser, most specific first. Excel serial numbers are handled separately.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"02.01.2006 15:04:05",
	"02.01.2006 15:04",
	"02.01.2006",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
	"2006/01/02 15:04:05",
	"2006/01/02",
	"1/2/06 15:04",
	"01-02-06",
}

// Normalizer converts a RawTable into a canonical ticket dataset. Each call
// produces a new dataset; the normalizer holds no mutable state beyond its
// clock, which tests override to pin the date-fallback value.
type Normalizer struct {
	logger *slog.Logger
	now    func() time.Time
}

// NewNormalizer creates a normalizer using the wall clock.
func NewNormalizer(logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{
		logger: logger.With(slog.String("component", "normalizer")),
		now:    time.Now,
	}
}

// Normalize resolves the table's headers against the canonical schema and
// coerces every row into a domain.Ticket. Resolution failure is fatal and
// returns a SchemaMismatchError; row-level date problems degrade per the
// package documentation instead of failing.
func (n *Normalizer) Normalize(table *RawTable) (domain.Dataset, error) {
	mapping, err := ResolveSchema(table.Headers)
	if err != nil {
		return nil, err
	}

	dateIdx := table.columnIndex(mapping[FieldDate])
	clientIdx := table.columnIndex(mapping[FieldClient])
	typeIdx := table.columnIndex(mapping[FieldTicketType])
	statusIdx := table.columnIndex(mapping[FieldStatus])

	respIdx := -1
	if header, ok := mapping[FieldResponseDate]; ok {
		respIdx = table.columnIndex(header)
	}

	dataset := make(domain.Dataset, 0, len(table.Rows))
	dateFallbacks := 0
	respParsed := 0
	respPresent := 0

	for i, row := range table.Rows {
		created, ok := ParseTimestamp(cell(row, dateIdx))
		if !ok {
			created = n.now()
			dateFallbacks++
			n.logger.Warn("date parse degraded, substituting processing time",
				slog.Int("row", i+1),
				slog.String("value", cell(row, dateIdx)))
		}

		ticket := domain.Ticket{
			Date:       created,
			Client:     cell(row, clientIdx),
			TicketType: cell(row, typeIdx),
			Status:     cell(row, statusIdx),
		}

		if respIdx >= 0 {
			if raw := cell(row, respIdx); raw != "" {
				respPresent++
				if responded, ok := ParseTimestamp(raw); ok {
					respParsed++
					ticket.ResponseDate = &responded
					if hours := responded.Sub(created).Hours(); hours > 0 {
						ticket.ResponseTime = hours
					}
				}
			}
		}

		dataset = append(dataset, ticket)
	}

	if dateFallbacks > 0 {
		n.logger.Warn("dataset contains degraded creation dates",
			slog.Int("rows", dateFallbacks),
			slog.Int("total", len(dataset)))
	}
	if respPresent > 0 && respParsed == 0 {
		// Response-date column existed but nothing in it parsed. Response
		// time degrades to zero dataset-wide rather than aborting.
		n.logger.Warn("response-date column unparseable, response time degraded to zero",
			slog.Int("rows", respPresent))
	}

	return dataset, nil
}

// ParseTimestamp attempts every accepted layout, then Excel serial-number
// dates. The boolean result reports whether the value parsed.
func ParseTimestamp(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, true
		}
	}

	// Excel exports sometimes surface raw serial date numbers. The bounds
	// cover 1954-2173, wide enough for any plausible ticket export.
	if serial, err := strconv.ParseFloat(value, 64); err == nil && serial > 20000 && serial < 100000 {
		if ts, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return ts, true
		}
	}

	return time.Time{}, false
}
