package domain

import (
	"time"
)

// Ticket represents one normalized support-ticket record. After normalization
// every field is populated: Date is never zero, the text fields are trimmed
// strings (possibly empty), and ResponseTime is non-negative hours.
type Ticket struct {
	Date         time.Time  `json:"date"`
	ResponseDate *time.Time `json:"response_date,omitempty"`
	ResponseTime float64    `json:"response_time"` // hours between response and creation
	Client       string     `json:"client"`
	TicketType   string     `json:"ticket_type"`
	Status       string     `json:"status"`
}

// Day returns the ticket's creation date truncated to the calendar day.
func (t Ticket) Day() time.Time {
	return time.Date(t.Date.Year(), t.Date.Month(), t.Date.Day(), 0, 0, 0, 0, t.Date.Location())
}

// Dataset is an ordered collection of normalized tickets produced by one
// ingestion call.
type Dataset []Ticket

// TicketTypes returns the distinct ticket types in first-encountered order.
func (d Dataset) TicketTypes() []string {
	seen := make(map[string]bool)
	var types []string
	for _, t := range d {
		if !seen[t.TicketType] {
			seen[t.TicketType] = true
			types = append(types, t.TicketType)
		}
	}
	return types
}

// UniqueClients returns the number of distinct client identifiers.
func (d Dataset) UniqueClients() int {
	seen := make(map[string]bool)
	for _, t := range d {
		seen[t.Client] = true
	}
	return len(seen)
}

// Period is a named inclusive date range selected for comparison.
type Period struct {
	Name  string    `json:"name"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether the timestamp falls within the period, compared at
// calendar-day granularity (both bounds inclusive).
func (p Period) Contains(ts time.Time) bool {
	day := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, ts.Location())
	start := time.Date(p.Start.Year(), p.Start.Month(), p.Start.Day(), 0, 0, 0, 0, ts.Location())
	end := time.Date(p.End.Year(), p.End.Month(), p.End.Day(), 0, 0, 0, 0, ts.Location())
	return !day.Before(start) && !day.After(end)
}

// IsValid checks that the period bounds are ordered and named.
func (p Period) IsValid() bool {
	return p.Name != "" && !p.Start.IsZero() && !p.End.IsZero() && !p.End.Before(p.Start)
}
