package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/telste/gridview/internal/dataset"
	"github.com/telste/gridview/internal/grid"
)

// Dataset loading errors.
var (
	ErrUnknownFormat = errors.New("cannot determine dataset format; use --format csv|json|sqlite")
	ErrTableRequired = errors.New("--table is required for SQLite datasets")
)

// loadOptions are the dataset-selection flags shared by view and query.
type loadOptions struct {
	// Format forces the loader: "csv", "json", or "sqlite". Empty means
	// infer from the file extension.
	Format string

	// Table names the SQLite table to read.
	Table string

	// KeyField names the column supplying stable row keys.
	KeyField string
}

// loadDataset reads the dataset at path using the forced or inferred format.
func loadDataset(path string, opts loadOptions) (*dataset.Dataset, error) {
	format := strings.ToLower(opts.Format)
	if format == "" {
		format = inferFormat(path)
	}

	switch format {
	case "csv":
		return dataset.LoadCSV(path, opts.KeyField)
	case "json":
		return dataset.LoadJSON(path, opts.KeyField)
	case "sqlite":
		if opts.Table == "" {
			return nil, ErrTableRequired
		}
		return dataset.LoadSQLite(path, opts.Table, opts.KeyField)
	case "":
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	default:
		return nil, fmt.Errorf("unsupported dataset format %q", format)
	}
}

// inferFormat maps a file extension to a loader name.
func inferFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return "csv"
	case ".json":
		return "json"
	case ".db", ".sqlite", ".sqlite3":
		return "sqlite"
	default:
		return ""
	}
}

// datasetColumns builds grid columns from a dataset's inferred schema.
// Every column is sortable and filterable; the accessor reads the record's
// field value by name.
func datasetColumns(ds *dataset.Dataset) []grid.Column[dataset.Record] {
	cols := make([]grid.Column[dataset.Record], 0, len(ds.Fields))
	for _, field := range ds.Fields {
		name := field.Name
		cols = append(cols, grid.Column[dataset.Record]{
			Key:        name,
			Title:      name,
			Type:       columnType(field.Type),
			Sortable:   true,
			Filterable: true,
			Accessor: func(r dataset.Record) any {
				return r.Value(name)
			},
		})
	}
	return cols
}

// columnType maps dataset field types onto grid value types.
func columnType(t dataset.FieldType) grid.ValueType {
	switch t {
	case dataset.FieldNumber:
		return grid.TypeNumber
	case dataset.FieldDate:
		return grid.TypeDate
	case dataset.FieldBool:
		return grid.TypeBool
	case dataset.FieldString:
		return grid.TypeString
	default:
		return grid.TypeString
	}
}
