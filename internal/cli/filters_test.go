package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telste/gridview/internal/grid"
)

func testColumns() []grid.Column[map[string]any] {
	return []grid.Column[map[string]any]{
		{Key: "name", Type: grid.TypeString},
		{Key: "price", Type: grid.TypeNumber},
		{Key: "active", Type: grid.TypeBool},
		{Key: "added", Type: grid.TypeDate},
	}
}

func TestParseFilters(t *testing.T) {
	t.Run("number value is coerced", func(t *testing.T) {
		specs, err := ParseFilters([]string{"price:gt:10.5"}, testColumns())
		require.NoError(t, err)
		require.Len(t, specs, 1)
		assert.Equal(t, "price", specs[0].Key)
		assert.Equal(t, grid.OpGT, specs[0].Operator)
		assert.Equal(t, 10.5, specs[0].Value)
		assert.Equal(t, grid.TypeNumber, specs[0].Type)
	})

	t.Run("bool value is coerced", func(t *testing.T) {
		specs, err := ParseFilters([]string{"active:equals:true"}, testColumns())
		require.NoError(t, err)
		assert.Equal(t, true, specs[0].Value)
	})

	t.Run("membership value splits on commas", func(t *testing.T) {
		specs, err := ParseFilters([]string{"name:in:widget, gadget ,sprocket"}, testColumns())
		require.NoError(t, err)
		assert.Equal(t, []string{"widget", "gadget", "sprocket"}, specs[0].Value)
	})

	t.Run("value may contain colons", func(t *testing.T) {
		specs, err := ParseFilters([]string{"added:gte:2024-01-02T15:04:05Z"}, testColumns())
		require.NoError(t, err)
		assert.Equal(t, "2024-01-02T15:04:05Z", specs[0].Value)
	})

	t.Run("empty expressions are skipped", func(t *testing.T) {
		specs, err := ParseFilters([]string{"", "name:contains:w"}, testColumns())
		require.NoError(t, err)
		assert.Len(t, specs, 1)
	})

	t.Run("malformed expression", func(t *testing.T) {
		_, err := ParseFilters([]string{"just-a-key"}, testColumns())
		assert.ErrorIs(t, err, ErrInvalidFilterFormat)
	})

	t.Run("unknown operator", func(t *testing.T) {
		_, err := ParseFilters([]string{"price:near:10"}, testColumns())
		assert.ErrorIs(t, err, ErrUnknownOperator)
	})

	t.Run("unknown column", func(t *testing.T) {
		_, err := ParseFilters([]string{"weight:gt:10"}, testColumns())
		assert.ErrorIs(t, err, ErrUnknownFilterKey)
	})

	t.Run("one bad expression fails the whole set", func(t *testing.T) {
		specs, err := ParseFilters([]string{"price:gt:10", "bogus"}, testColumns())
		assert.Error(t, err)
		assert.Nil(t, specs)
	})

	t.Run("unparseable number stays a string", func(t *testing.T) {
		specs, err := ParseFilters([]string{"price:equals:n/a"}, testColumns())
		require.NoError(t, err)
		assert.Equal(t, "n/a", specs[0].Value)
	})
}
