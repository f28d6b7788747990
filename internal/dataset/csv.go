package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/proplens/scout/internal/contracts"
)

// CSV loading for local runs and tests. Production tables come from
// the metrics repository; the CSV path exists so the CLI can score a
// file exported straight from the ingestion workbook.

// LoadCSV reads a metrics table from a CSV file with a header row.
func LoadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv: %w", err)
	}
	defer f.Close()
	return ReadCSV(f)
}

// ReadCSV reads a metrics table from CSV content. The "Suburb",
// "State" and "Region" columns are read as text; every other column is
// parsed per cell, and cells that do not parse as numbers are treated
// as missing values rather than errors.
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // ragged rows tolerated; short rows mean missing cells

	header, err := reader.Read()
	if err == io.EOF {
		return New(nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var records []*contracts.SuburbRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv row: %w", err)
		}

		rec := contracts.NewSuburbRecord("", "")
		for i, cell := range row {
			if i >= len(header) {
				break
			}
			cell = strings.TrimSpace(cell)
			switch header[i] {
			case contracts.ColSuburb:
				rec.Suburb = cell
			case contracts.ColState:
				rec.State = cell
			case "Region":
				rec.Region = cell
			default:
				if v, ok := ParseNumber(cell); ok {
					rec.SetMetric(header[i], v)
				}
			}
		}
		records = append(records, rec)
	}

	return New(records), nil
}

// ParseNumber parses a spreadsheet-style numeric cell. Currency
// symbols, thousands separators and a trailing percent sign are
// stripped first; empty or non-numeric cells report ok=false.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSuffix(s, "%")
	s = strings.TrimSpace(s)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
