package dataset

import (
	"database/sql"
	"errors"
	"fmt"
	"regexp"

	// Pure-Go SQLite driver.
	_ "modernc.org/sqlite"
)

// ErrInvalidTableName rejects table names that could smuggle SQL.
var ErrInvalidTableName = errors.New("invalid table name")

// tableNameRe is the conservative identifier shape accepted for --table.
var tableNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// LoadSQLite reads every row of one table from a SQLite database file.
// Column types come from the driver's scan values; keyField selects the key
// column, empty means generated ULID keys.
func LoadSQLite(path, table, keyField string) (*Dataset, error) {
	if !tableNameRe.MatchString(table) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTableName, table)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite %s: %w", path, err)
	}
	defer func() { _ = db.Close() }()

	// Identifier validated above; placeholders cannot name tables.
	rows, err := db.Query("SELECT * FROM " + table) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("querying table %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("reading columns: %w", err)
	}

	keys := newKeySource()
	var records []Record
	samples := make(map[string][]string, len(cols))

	for rows.Next() {
		raw := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if scanErr := rows.Scan(ptrs...); scanErr != nil {
			return nil, fmt.Errorf("scanning row: %w", scanErr)
		}

		values := make(map[string]any, len(cols))
		for i, col := range cols {
			values[col] = normalizeSQLValue(raw[i])
			if len(samples[col]) < typeSampleSize {
				samples[col] = append(samples[col], valueString(values[col]))
			}
		}

		records = append(records, Record{
			Key:    recordKey(values, keyField, keys),
			Values: values,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}

	fields := make([]FieldInfo, len(cols))
	for i, col := range cols {
		fields[i] = FieldInfo{Name: col, Type: sqliteFieldType(records, col, samples[col])}
	}

	return &Dataset{Records: records, Fields: fields, SourcePath: path}, nil
}

// normalizeSQLValue maps driver scan values onto the engine's value types.
func normalizeSQLValue(v any) any {
	switch val := v.(type) {
	case []byte:
		return string(val)
	case int64:
		return float64(val)
	default:
		return v
	}
}

// sqliteFieldType prefers the scanned Go types, falling back to sniffing
// for text columns.
func sqliteFieldType(records []Record, col string, samples []string) FieldType {
	allNumber := true
	seen := false
	for _, rec := range records {
		v, ok := rec.Values[col]
		if !ok || v == nil {
			continue
		}
		seen = true
		if _, isNum := v.(float64); !isNum {
			allNumber = false
			break
		}
	}

	switch {
	case !seen:
		return FieldString
	case allNumber:
		return FieldNumber
	default:
		return inferType(samples)
	}
}
