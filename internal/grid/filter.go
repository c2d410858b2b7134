package grid

import (
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// FilterOperator identifies a filter predicate.
type FilterOperator string

// Supported filter operators.
const (
	OpEquals     FilterOperator = "equals"
	OpContains   FilterOperator = "contains"
	OpStartsWith FilterOperator = "startsWith"
	OpEndsWith   FilterOperator = "endsWith"
	OpGT         FilterOperator = "gt"
	OpGTE        FilterOperator = "gte"
	OpLT         FilterOperator = "lt"
	OpLTE        FilterOperator = "lte"
	OpIn         FilterOperator = "in"
	OpNotIn      FilterOperator = "notIn"
)

// validOperators is the closed set of operators a FilterSpec may carry.
//
//nolint:gochecknoglobals // Compile-time lookup table.
var validOperators = map[FilterOperator]bool{
	OpEquals: true, OpContains: true, OpStartsWith: true, OpEndsWith: true,
	OpGT: true, OpGTE: true, OpLT: true, OpLTE: true, OpIn: true, OpNotIn: true,
}

// IsValidOperator reports whether op is a recognized filter operator.
func IsValidOperator(op FilterOperator) bool {
	return validOperators[op]
}

// FilterSpec is one active column filter. A row passes the grid's filter
// pipeline only if every active spec's predicate holds (logical AND).
type FilterSpec struct {
	Key      string
	Operator FilterOperator
	Value    any
	Type     ValueType
}

// Matches evaluates the spec's predicate against a cell value.
//
// An unknown operator evaluates to false — the row is excluded — with a
// debug-level log, never an error. Values that cannot be coerced to the
// spec's type likewise fail the predicate quietly.
func (f FilterSpec) Matches(cell any, logger zerolog.Logger) bool {
	if !IsValidOperator(f.Operator) {
		logger.Debug().
			Str("key", f.Key).
			Str("operator", string(f.Operator)).
			Msg("unknown filter operator, excluding row")
		return false
	}

	switch f.Operator {
	case OpEquals:
		return f.matchEquals(cell)
	case OpContains, OpStartsWith, OpEndsWith:
		return f.matchSubstring(cell)
	case OpGT, OpGTE, OpLT, OpLTE:
		return f.matchOrdered(cell)
	case OpIn, OpNotIn:
		return f.matchMembership(cell)
	default:
		return false
	}
}

// matchEquals compares cell and filter value after type coercion.
func (f FilterSpec) matchEquals(cell any) bool {
	switch f.Type {
	case TypeNumber:
		a, aok := toFloat(cell)
		b, bok := toFloat(f.Value)
		return aok && bok && a == b
	case TypeDate:
		a, aok := toTime(cell)
		b, bok := toTime(f.Value)
		return aok && bok && a.Equal(b)
	case TypeBool:
		a, aok := toBool(cell)
		b, bok := toBool(f.Value)
		return aok && bok && a == b
	default:
		return strings.EqualFold(displayString(cell), displayString(f.Value))
	}
}

// matchSubstring handles the case-insensitive contains/startsWith/endsWith
// family over display strings.
func (f FilterSpec) matchSubstring(cell any) bool {
	haystack := strings.ToLower(displayString(cell))
	needle := strings.ToLower(displayString(f.Value))

	switch f.Operator {
	case OpContains:
		return strings.Contains(haystack, needle)
	case OpStartsWith:
		return strings.HasPrefix(haystack, needle)
	case OpEndsWith:
		return strings.HasSuffix(haystack, needle)
	default:
		return false
	}
}

// matchOrdered handles gt/gte/lt/lte over numbers, dates, or strings.
func (f FilterSpec) matchOrdered(cell any) bool {
	var cmp int
	switch f.Type {
	case TypeDate:
		a, aok := toTime(cell)
		b, bok := toTime(f.Value)
		if !aok || !bok {
			return false
		}
		cmp = a.Compare(b)
	case TypeNumber:
		a, aok := toFloat(cell)
		b, bok := toFloat(f.Value)
		if !aok || !bok {
			return false
		}
		switch {
		case a < b:
			cmp = -1
		case a > b:
			cmp = 1
		}
	default:
		// Fall back to numeric comparison when both sides parse, else
		// lexicographic.
		a, aok := toFloat(cell)
		b, bok := toFloat(f.Value)
		if aok && bok {
			switch {
			case a < b:
				cmp = -1
			case a > b:
				cmp = 1
			}
		} else {
			cmp = strings.Compare(displayString(cell), displayString(f.Value))
		}
	}

	switch f.Operator {
	case OpGT:
		return cmp > 0
	case OpGTE:
		return cmp >= 0
	case OpLT:
		return cmp < 0
	case OpLTE:
		return cmp <= 0
	default:
		return false
	}
}

// matchMembership handles in/notIn. The filter value may be a []string,
// []any, or a single value treated as a one-element set.
func (f FilterSpec) matchMembership(cell any) bool {
	display := strings.ToLower(displayString(cell))

	member := false
	for _, candidate := range membershipSet(f.Value) {
		if strings.ToLower(candidate) == display {
			member = true
			break
		}
	}

	if f.Operator == OpNotIn {
		return !member
	}
	return member
}

// membershipSet normalizes an in/notIn filter value to display strings.
func membershipSet(v any) []string {
	switch set := v.(type) {
	case []string:
		return set
	case []any:
		out := make([]string, 0, len(set))
		for _, item := range set {
			out = append(out, displayString(item))
		}
		return out
	case nil:
		return nil
	default:
		return []string{displayString(v)}
	}
}

// toFloat coerces common cell value types to float64.
func toFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case uint:
		return float64(val), true
	case uint64:
		return float64(val), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// toTime coerces common cell value types to time.Time. Strings are tried
// against RFC3339 and a plain date layout; numbers are epoch milliseconds.
func toTime(v any) (time.Time, bool) {
	switch val := v.(type) {
	case time.Time:
		return val, true
	case *time.Time:
		if val == nil {
			return time.Time{}, false
		}
		return *val, true
	case string:
		for _, layout := range []string{time.RFC3339, "2006-01-02", "2006-01-02 15:04:05"} {
			if ts, err := time.Parse(layout, strings.TrimSpace(val)); err == nil {
				return ts, true
			}
		}
		return time.Time{}, false
	case int64:
		return time.UnixMilli(val), true
	case float64:
		return time.UnixMilli(int64(val)), true
	default:
		return time.Time{}, false
	}
}

// toBool coerces common cell value types to bool.
func toBool(v any) (bool, bool) {
	switch val := v.(type) {
	case bool:
		return val, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(val))
		return b, err == nil
	default:
		return false, false
	}
}
