package dataprocessing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperrors "ticketlens/internal/errors"
)

// buildXLSX writes the given rows to an in-memory workbook.
func buildXLSX(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestReadWorkbookXLSX(t *testing.T) {
	data := buildXLSX(t, [][]interface{}{
		{"date", "client", "type", "status"},
		{"2024-01-02 10:00:00", "Acme", "bug", "open"},
		{"2024-01-03 11:30:00", "Globex", "question", "closed"},
	})

	table, err := ReadWorkbook(data)
	require.NoError(t, err)

	assert.Equal(t, []string{"date", "client", "type", "status"}, table.Headers)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "Acme", table.Rows[0][1])
	assert.Equal(t, "closed", table.Rows[1][3])
}

func TestReadWorkbookCSV(t *testing.T) {
	t.Run("plain csv", func(t *testing.T) {
		data := []byte("date,client,type,status\n2024-01-02,Acme,bug,open\n")

		table, err := ReadWorkbook(data)
		require.NoError(t, err)
		assert.Equal(t, []string{"date", "client", "type", "status"}, table.Headers)
		require.Len(t, table.Rows, 1)
	})

	t.Run("utf-8 BOM is stripped", func(t *testing.T) {
		data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("date,client\n2024-01-02,Acme\n")...)

		table, err := ReadWorkbook(data)
		require.NoError(t, err)
		assert.Equal(t, "date", table.Headers[0])
	})

	t.Run("short rows are padded to header width", func(t *testing.T) {
		data := []byte("date,client,type,status\n2024-01-02,Acme\n")

		table, err := ReadWorkbook(data)
		require.NoError(t, err)
		require.Len(t, table.Rows, 1)
		assert.Len(t, table.Rows[0], 4)
		assert.Equal(t, "", table.Rows[0][3])
	})
}

func TestReadWorkbookUnparseable(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"unterminated quote", []byte("\"broken")},
		{"empty input", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := ReadWorkbook(tt.data)
			require.Error(t, err)
			assert.Nil(t, table)

			var appErr *apperrors.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, apperrors.ErrTypeFileFormat, appErr.Type)
		})
	}
}
