package dataprocessing

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "ticketlens/internal/errors"
)

// RawTable is the transient, untyped view of an uploaded spreadsheet: one
// header row plus data rows, every cell a string. It is owned by the pipeline
// invocation and discarded after normalization.
type RawTable struct {
	Headers []string
	Rows    [][]string
}

// ReadWorkbook parses the uploaded bytes as a spreadsheet. It tries the
// modern zip-based xlsx format first, then falls back to CSV. If neither
// parses, the ingestion fails with a FileFormat error.
func ReadWorkbook(data []byte) (*RawTable, error) {
	table, xlsxErr := readXLSX(data)
	if xlsxErr == nil {
		return table, nil
	}

	table, csvErr := readCSV(data)
	if csvErr == nil {
		return table, nil
	}

	return nil, apperrors.NewFileFormatError(fmt.Errorf("xlsx: %v; csv: %v", xlsxErr, csvErr))
}

// readXLSX extracts the first sheet that contains at least a header row.
func readXLSX(data []byte) (*RawTable, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil || len(rows) == 0 {
			continue
		}
		if !hasContent(rows[0]) {
			continue
		}
		return tableFromRows(rows), nil
	}

	return nil, fmt.Errorf("workbook contains no sheet with a header row")
}

// readCSV parses the bytes as a CSV table, stripping a UTF-8 BOM if present.
func readCSV(data []byte) (*RawTable, error) {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	if len(rows) == 0 || !hasContent(rows[0]) {
		return nil, fmt.Errorf("csv contains no header row")
	}

	return tableFromRows(rows), nil
}

// tableFromRows splits the header from the data rows and pads short rows so
// every row is addressable by header index.
func tableFromRows(rows [][]string) *RawTable {
	headers := rows[0]
	dataRows := make([][]string, 0, len(rows)-1)

	for _, row := range rows[1:] {
		if len(row) < len(headers) {
			padded := make([]string, len(headers))
			copy(padded, row)
			row = padded
		}
		dataRows = append(dataRows, row)
	}

	return &RawTable{Headers: headers, Rows: dataRows}
}

func hasContent(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return true
		}
	}
	return false
}

// columnIndex returns the position of the raw header in the table, or -1.
func (t *RawTable) columnIndex(header string) int {
	for i, h := range t.Headers {
		if h == header {
			return i
		}
	}
	return -1
}

// cell returns the trimmed cell value at the given column, or "" when the
// row is shorter than the header or the index is unmapped.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
