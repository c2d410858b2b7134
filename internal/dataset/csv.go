package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// typeSampleSize is how many rows the type sniffer inspects per field.
const typeSampleSize = 50

// ErrEmptyCSV is returned for a CSV file without a header row.
var ErrEmptyCSV = errors.New("csv file has no header row")

// LoadCSV reads a CSV file whose first row is the header. Field types are
// sniffed from a sample of rows; numeric cells are stored as float64 so the
// grid's numeric comparator applies. keyField selects the key column; empty
// means generated ULID keys.
func LoadCSV(path, keyField string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening csv %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	return readCSV(f, path, keyField)
}

// readCSV parses CSV content from r.
func readCSV(r io.Reader, path, keyField string) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyCSV
		}
		return nil, fmt.Errorf("reading csv header: %w", err)
	}

	var raw [][]string
	for {
		row, readErr := reader.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			return nil, fmt.Errorf("reading csv row: %w", readErr)
		}
		raw = append(raw, row)
	}

	fields := make([]FieldInfo, len(header))
	for i, name := range header {
		samples := make([]string, 0, typeSampleSize)
		for _, row := range raw {
			if len(samples) == typeSampleSize {
				break
			}
			if i < len(row) {
				samples = append(samples, row[i])
			}
		}
		fields[i] = FieldInfo{Name: strings.TrimSpace(name), Type: inferType(samples)}
	}

	keys := newKeySource()
	records := make([]Record, 0, len(raw))
	for _, row := range raw {
		values := make(map[string]any, len(fields))
		for i, field := range fields {
			if i >= len(row) {
				continue
			}
			values[field.Name] = coerceCell(row[i], field.Type)
		}
		records = append(records, Record{
			Key:    recordKey(values, keyField, keys),
			Values: values,
		})
	}

	return &Dataset{Records: records, Fields: fields, SourcePath: path}, nil
}

// coerceCell converts a raw string cell to the field's inferred type.
// Cells that fail to parse stay strings rather than erroring.
func coerceCell(s string, t FieldType) any {
	trimmed := strings.TrimSpace(s)
	switch t {
	case FieldNumber:
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return f
		}
	case FieldBool:
		if b, err := strconv.ParseBool(trimmed); err == nil {
			return b
		}
	case FieldDate, FieldString:
		// Dates stay strings; the grid's comparators parse them on demand.
	}
	return s
}
