package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/telste/gridview/internal/grid"
)

// Filter expression errors.
var (
	ErrInvalidFilterFormat = errors.New("invalid filter format: use 'key:operator:value' (e.g., 'price:gt:10')")
	ErrUnknownOperator     = errors.New("unknown filter operator")
	ErrUnknownFilterKey    = errors.New("filter references an unknown column")
)

// filterPartsCount is the number of colon-separated parts in a filter
// expression. Values may themselves contain colons; only the first two
// separators split.
const filterPartsCount = 3

// ParseFilters converts repeated --filter expressions into filter specs.
// All expressions are validated upfront; any invalid expression fails the
// whole set before a single filter is applied. columns supplies the known
// keys and their value types for coercion.
func ParseFilters[T any](exprs []string, columns []grid.Column[T]) ([]grid.FilterSpec, error) {
	types := make(map[string]grid.ValueType, len(columns))
	for _, col := range columns {
		types[col.Key] = col.Type
	}
	return parseFiltersWithTypes(exprs, types)
}

// parseFiltersWithTypes is the generic-free core of ParseFilters.
func parseFiltersWithTypes(exprs []string, types map[string]grid.ValueType) ([]grid.FilterSpec, error) {
	specs := make([]grid.FilterSpec, 0, len(exprs))
	for _, expr := range exprs {
		if expr == "" {
			continue
		}

		spec, err := parseFilter(expr, types)
		if err != nil {
			logger.Warn().
				Str("operation", "parse_filters").
				Str("filter", expr).
				Err(err).
				Msg("invalid filter expression")
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// parseFilter parses one "key:operator:value" expression.
func parseFilter(expr string, types map[string]grid.ValueType) (grid.FilterSpec, error) {
	parts := strings.SplitN(expr, ":", filterPartsCount)
	if len(parts) != filterPartsCount {
		return grid.FilterSpec{}, fmt.Errorf("%w: %q", ErrInvalidFilterFormat, expr)
	}

	key := strings.TrimSpace(parts[0])
	op := grid.FilterOperator(strings.TrimSpace(parts[1]))
	rawValue := parts[2]

	if key == "" {
		return grid.FilterSpec{}, fmt.Errorf("%w: %q", ErrInvalidFilterFormat, expr)
	}
	if !grid.IsValidOperator(op) {
		return grid.FilterSpec{}, fmt.Errorf("%w: %q", ErrUnknownOperator, parts[1])
	}

	colType, known := types[key]
	if !known {
		return grid.FilterSpec{}, fmt.Errorf("%w: %q", ErrUnknownFilterKey, key)
	}

	return grid.FilterSpec{
		Key:      key,
		Operator: op,
		Value:    coerceFilterValue(rawValue, op, colType),
		Type:     colType,
	}, nil
}

// coerceFilterValue converts the raw flag string to the column's value
// type. Membership operators take comma-separated lists and stay strings;
// the grid's membership matcher compares display values.
func coerceFilterValue(raw string, op grid.FilterOperator, colType grid.ValueType) any {
	if op == grid.OpIn || op == grid.OpNotIn {
		items := strings.Split(raw, ",")
		for i := range items {
			items[i] = strings.TrimSpace(items[i])
		}
		return items
	}

	trimmed := strings.TrimSpace(raw)
	switch colType {
	case grid.TypeNumber:
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return f
		}
	case grid.TypeBool:
		if b, err := strconv.ParseBool(trimmed); err == nil {
			return b
		}
	case grid.TypeDate, grid.TypeString:
		// Kept as strings; the grid coerces dates on comparison.
	}
	return trimmed
}
