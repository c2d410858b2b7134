package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telste/gridview/internal/dataset"
	"github.com/telste/gridview/internal/grid"
)

func TestInferFormat(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"items.csv", "csv"},
		{"rows.JSON", "json"},
		{"stock.db", "sqlite"},
		{"stock.sqlite", "sqlite"},
		{"stock.sqlite3", "sqlite"},
		{"notes.txt", ""},
		{"noext", ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, inferFormat(tt.path))
		})
	}
}

func TestLoadDataset(t *testing.T) {
	t.Run("csv by extension", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "items.csv")
		require.NoError(t, os.WriteFile(path, []byte("name,price\nwidget,9.99\n"), 0o600))

		ds, err := loadDataset(path, loadOptions{})
		require.NoError(t, err)
		assert.Len(t, ds.Records, 1)
	})

	t.Run("forced format wins over extension", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "items.dat")
		require.NoError(t, os.WriteFile(path, []byte(`[{"name":"widget"}]`), 0o600))

		ds, err := loadDataset(path, loadOptions{Format: "json"})
		require.NoError(t, err)
		assert.Len(t, ds.Records, 1)
	})

	t.Run("unknown extension without format", func(t *testing.T) {
		_, err := loadDataset("data.bin", loadOptions{})
		assert.ErrorIs(t, err, ErrUnknownFormat)
	})

	t.Run("sqlite requires a table", func(t *testing.T) {
		_, err := loadDataset("stock.db", loadOptions{})
		assert.ErrorIs(t, err, ErrTableRequired)
	})

	t.Run("unsupported forced format", func(t *testing.T) {
		_, err := loadDataset("items.csv", loadOptions{Format: "parquet"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported dataset format")
	})
}

func TestDatasetColumns(t *testing.T) {
	ds := &dataset.Dataset{
		Fields: []dataset.FieldInfo{
			{Name: "name", Type: dataset.FieldString},
			{Name: "price", Type: dataset.FieldNumber},
			{Name: "added", Type: dataset.FieldDate},
			{Name: "active", Type: dataset.FieldBool},
		},
	}

	cols := datasetColumns(ds)
	require.Len(t, cols, 4)
	assert.Equal(t, grid.TypeString, cols[0].Type)
	assert.Equal(t, grid.TypeNumber, cols[1].Type)
	assert.Equal(t, grid.TypeDate, cols[2].Type)
	assert.Equal(t, grid.TypeBool, cols[3].Type)

	// Accessors bind to their own field, not the loop variable.
	rec := dataset.Record{Key: "r1", Values: map[string]any{"name": "widget", "price": 9.99}}
	assert.Equal(t, "widget", cols[0].Value(rec))
	assert.Equal(t, 9.99, cols[1].Value(rec))
	assert.Nil(t, cols[2].Value(rec))
}
