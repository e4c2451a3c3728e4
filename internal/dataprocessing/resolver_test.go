package dataprocessing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "ticketlens/internal/errors"
)

func TestNormalizeColumnName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercase passthrough", "status", "status"},
		{"uppercase", "STATUS", "status"},
		{"spaces to underscores", "Дата создания", "дата_создания"},
		{"hyphens to underscores", "ticket-type", "ticket_type"},
		{"surrounding whitespace", "  Client Name  ", "client_name"},
		{"mixed separators", "Client - Name", "client___name"},
		{"empty", "", ""},
		{"numeric header", "42", "42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeColumnName(tt.input)
			assert.Equal(t, tt.want, got)
			// Normalization must be idempotent.
			assert.Equal(t, got, NormalizeColumnName(got))
		})
	}
}

func TestResolveColumn(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		target  string
		want    string
		wantOK  bool
	}{
		{
			name:    "exact normalized match",
			headers: []string{"Клиент", "Status"},
			target:  FieldStatus,
			want:    "Status",
			wantOK:  true,
		},
		{
			name:    "exact wins over synonym",
			headers: []string{"Статус", "status"},
			target:  FieldStatus,
			want:    "status",
			wantOK:  true,
		},
		{
			name:    "synonym match for russian header",
			headers: []string{"Дата создания", "Клиент"},
			target:  FieldDate,
			want:    "Дата создания",
			wantOK:  true,
		},
		{
			name: "synonym wins over earlier substring candidate",
			// "ticket_status_note" only matches by substring; the synonym
			// "Статус" must win despite appearing later in the header list.
			headers: []string{"ticket_status_note", "Статус"},
			target:  FieldStatus,
			want:    "Статус",
			wantOK:  true,
		},
		{
			name:    "substring fallback when synonym list is incomplete",
			headers: []string{"Ticket Creation Date UTC", "Клиент"},
			target:  FieldDate,
			want:    "Ticket Creation Date UTC",
			wantOK:  true,
		},
		{
			name:    "substring matches in the reverse direction too",
			headers: []string{"stat", "Клиент"},
			target:  FieldStatus,
			want:    "stat",
			wantOK:  true,
		},
		{
			name:    "no match",
			headers: []string{"foo", "bar"},
			target:  FieldStatus,
			want:    "",
			wantOK:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveColumn(tt.headers, tt.target)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveSchema(t *testing.T) {
	t.Run("russian bitrix-style headers resolve fully", func(t *testing.T) {
		headers := []string{"Дата создания", "Клиент", "Тип обращения", "Статус"}

		mapping, err := ResolveSchema(headers)
		require.NoError(t, err)

		assert.Equal(t, "Дата создания", mapping[FieldDate])
		assert.Equal(t, "Клиент", mapping[FieldClient])
		assert.Equal(t, "Тип обращения", mapping[FieldTicketType])
		assert.Equal(t, "Статус", mapping[FieldStatus])
		_, hasResponse := mapping[FieldResponseDate]
		assert.False(t, hasResponse)
	})

	t.Run("optional response date column is resolved", func(t *testing.T) {
		headers := []string{"date", "client", "type", "status", "Дата ответа"}

		mapping, err := ResolveSchema(headers)
		require.NoError(t, err)
		assert.Equal(t, "Дата ответа", mapping[FieldResponseDate])
	})

	t.Run("response date never claims the creation date column", func(t *testing.T) {
		headers := []string{"date", "client", "type", "status"}

		mapping, err := ResolveSchema(headers)
		require.NoError(t, err)
		_, hasResponse := mapping[FieldResponseDate]
		assert.False(t, hasResponse)
	})

	t.Run("missing status fails with exactly one missing field", func(t *testing.T) {
		headers := []string{"date", "client", "type"}

		mapping, err := ResolveSchema(headers)
		require.Error(t, err)
		assert.Nil(t, mapping)

		var schemaErr *apperrors.SchemaMismatchError
		require.True(t, errors.As(err, &schemaErr))
		assert.Equal(t, []string{"status"}, schemaErr.MissingFields)
		assert.Equal(t, headers, schemaErr.AvailableHeaders)
	})

	t.Run("all fields missing is all-or-nothing", func(t *testing.T) {
		headers := []string{"foo", "bar"}

		mapping, err := ResolveSchema(headers)
		require.Error(t, err)
		assert.Nil(t, mapping)

		var schemaErr *apperrors.SchemaMismatchError
		require.True(t, errors.As(err, &schemaErr))
		assert.Equal(t, []string{"client", "date", "status", "ticket_type"}, schemaErr.MissingFields)
	})
}
