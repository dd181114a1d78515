// Package ingestion reads barcode lists from CSV input files.
package ingestion

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// ReadBarcodes loads the barcode column from a CSV file. The column is
// found by header name; a file without a recognizable header is read
// from the first column, with the first row kept as data.
func ReadBarcodes(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse input: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	col, hasHeader := barcodeColumn(rows[0])
	if hasHeader {
		rows = rows[1:]
	}

	barcodes := make([]string, 0, len(rows))
	for _, row := range rows {
		if col < len(row) {
			barcodes = append(barcodes, strings.TrimSpace(row[col]))
		} else {
			barcodes = append(barcodes, "")
		}
	}
	return barcodes, nil
}

// barcodeColumn finds the header column holding barcodes. Reports
// whether the first row is a header at all.
func barcodeColumn(header []string) (int, bool) {
	for i, cell := range header {
		name := strings.ToLower(strings.TrimSpace(cell))
		if strings.Contains(name, "barcode") || strings.Contains(name, "code") {
			return i, true
		}
	}
	// A first row of digits is data, not a header.
	for _, cell := range header {
		cell = strings.TrimSpace(cell)
		if cell != "" && !isDigits(cell) {
			return 0, true
		}
	}
	return 0, false
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
