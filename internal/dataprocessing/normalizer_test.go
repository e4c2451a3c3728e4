package dataprocessing

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "ticketlens/internal/errors"
	"ticketlens/internal/shared/testutil"
)

func TestNormalize(t *testing.T) {
	table := &RawTable{
		Headers: []string{"Дата создания", "Клиент", "Тип обращения", "Статус", "comment"},
		Rows: [][]string{
			{"2024-03-01 09:15:00", "Acme", "bug", "open", "extra columns are ignored"},
			{"2024-03-02 14:00:00", "12345", "question", "closed", ""},
		},
	}

	n := NewNormalizer(nil)
	dataset, err := n.Normalize(table)
	require.NoError(t, err)
	require.Len(t, dataset, 2)

	first := dataset[0]
	assert.Equal(t, time.Date(2024, 3, 1, 9, 15, 0, 0, time.UTC), first.Date)
	assert.Equal(t, "Acme", first.Client)
	assert.Equal(t, "bug", first.TicketType)
	assert.Equal(t, "open", first.Status)
	assert.Nil(t, first.ResponseDate)
	assert.Zero(t, first.ResponseTime)

	// Numeric identifiers stay strings.
	assert.Equal(t, "12345", dataset[1].Client)
}

func TestNormalizeDateFallback(t *testing.T) {
	capture := testutil.NewCaptureHandler()
	fixed := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	n := NewNormalizer(capture.Logger())
	n.now = func() time.Time { return fixed }

	table := &RawTable{
		Headers: []string{"date", "client", "type", "status"},
		Rows: [][]string{
			{"not a date", "Acme", "bug", "open"},
			{"2024-03-01", "Globex", "bug", "open"},
		},
	}

	dataset, err := n.Normalize(table)
	require.NoError(t, err)
	require.Len(t, dataset, 2)

	assert.Equal(t, fixed, dataset[0].Date)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), dataset[1].Date)
	assert.True(t, capture.ContainsMessage("date parse degraded"))
	assert.True(t, capture.ContainsMessage("dataset contains degraded creation dates"))
}

func TestNormalizeResponseTime(t *testing.T) {
	headers := []string{"date", "client", "type", "status", "Дата ответа"}

	t.Run("hours derived from response date", func(t *testing.T) {
		table := &RawTable{
			Headers: headers,
			Rows: [][]string{
				{"2024-03-01 10:00:00", "Acme", "bug", "open", "2024-03-02 10:00:00"},
			},
		}

		dataset, err := NewNormalizer(nil).Normalize(table)
		require.NoError(t, err)
		require.NotNil(t, dataset[0].ResponseDate)
		assert.InDelta(t, 24.0, dataset[0].ResponseTime, 1e-9)
	})

	t.Run("response before creation degrades to zero", func(t *testing.T) {
		table := &RawTable{
			Headers: headers,
			Rows: [][]string{
				{"2024-03-02 10:00:00", "Acme", "bug", "open", "2024-03-01 10:00:00"},
			},
		}

		dataset, err := NewNormalizer(nil).Normalize(table)
		require.NoError(t, err)
		assert.Zero(t, dataset[0].ResponseTime)
	})

	t.Run("unparseable response column degrades dataset-wide", func(t *testing.T) {
		capture := testutil.NewCaptureHandler()
		table := &RawTable{
			Headers: headers,
			Rows: [][]string{
				{"2024-03-01 10:00:00", "Acme", "bug", "open", "n/a"},
				{"2024-03-02 10:00:00", "Globex", "bug", "open", "pending"},
			},
		}

		dataset, err := NewNormalizer(capture.Logger()).Normalize(table)
		require.NoError(t, err)
		for _, ticket := range dataset {
			assert.Zero(t, ticket.ResponseTime)
			assert.Nil(t, ticket.ResponseDate)
		}
		assert.True(t, capture.ContainsMessage("response-date column unparseable"))
	})

	t.Run("missing response column leaves zero response time", func(t *testing.T) {
		table := &RawTable{
			Headers: []string{"date", "client", "type", "status"},
			Rows:    [][]string{{"2024-03-01", "Acme", "bug", "open"}},
		}

		dataset, err := NewNormalizer(nil).Normalize(table)
		require.NoError(t, err)
		assert.Zero(t, dataset[0].ResponseTime)
	})
}

func TestNormalizeSchemaMismatchIsFatal(t *testing.T) {
	table := &RawTable{
		Headers: []string{"date", "client", "type"},
		Rows:    [][]string{{"2024-03-01", "Acme", "bug"}},
	}

	dataset, err := NewNormalizer(nil).Normalize(table)
	require.Error(t, err)
	assert.Nil(t, dataset)

	var schemaErr *apperrors.SchemaMismatchError
	assert.True(t, errors.As(err, &schemaErr))
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   time.Time
		wantOK bool
	}{
		{"iso datetime", "2024-03-01 09:15:00", time.Date(2024, 3, 1, 9, 15, 0, 0, time.UTC), true},
		{"iso date", "2024-03-01", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), true},
		{"rfc3339", "2024-03-01T09:15:00Z", time.Date(2024, 3, 1, 9, 15, 0, 0, time.UTC), true},
		{"dotted european", "01.03.2024 09:15", time.Date(2024, 3, 1, 9, 15, 0, 0, time.UTC), true},
		{"slashed european", "01/03/2024", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), true},
		{"excel serial", "45352", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), true},
		{"out of range serial", "100001", time.Time{}, false},
		{"empty", "", time.Time{}, false},
		{"garbage", "yesterday-ish", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseTimestamp(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.True(t, tt.want.Equal(got), "got %v, want %v", got, tt.want)
			}
		})
	}
}
