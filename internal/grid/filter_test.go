package grid

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestFilterSpec_Matches(t *testing.T) {
	nop := zerolog.Nop()

	tests := []struct {
		name string
		spec FilterSpec
		cell any
		want bool
	}{
		{"EqualsString", FilterSpec{Operator: OpEquals, Value: "Alice"}, "alice", true},
		{"EqualsNumber", FilterSpec{Operator: OpEquals, Value: 42, Type: TypeNumber}, "42", true},
		{"EqualsNumberMismatch", FilterSpec{Operator: OpEquals, Value: 42, Type: TypeNumber}, 41, false},
		{"EqualsBool", FilterSpec{Operator: OpEquals, Value: true, Type: TypeBool}, "true", true},
		{"Contains", FilterSpec{Operator: OpContains, Value: "LIC"}, "alice", true},
		{"ContainsMiss", FilterSpec{Operator: OpContains, Value: "zz"}, "alice", false},
		{"StartsWith", FilterSpec{Operator: OpStartsWith, Value: "al"}, "Alice", true},
		{"EndsWith", FilterSpec{Operator: OpEndsWith, Value: "CE"}, "alice", true},
		{"GTNumber", FilterSpec{Operator: OpGT, Value: 10, Type: TypeNumber}, 11, true},
		{"GTENumberEqual", FilterSpec{Operator: OpGTE, Value: 10, Type: TypeNumber}, 10, true},
		{"LTNumber", FilterSpec{Operator: OpLT, Value: 10, Type: TypeNumber}, 9.5, true},
		{"LTENumberMiss", FilterSpec{Operator: OpLTE, Value: 10, Type: TypeNumber}, 10.1, false},
		{"GTDate", FilterSpec{Operator: OpGT, Value: "2025-01-01", Type: TypeDate},
			time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), true},
		{"LTDate", FilterSpec{Operator: OpLT, Value: "2025-01-01", Type: TypeDate},
			"2024-12-31", true},
		{"NumericFallbackOnUntypedStrings", FilterSpec{Operator: OpGT, Value: "9"}, "10", true},
		{"LexicographicFallback", FilterSpec{Operator: OpGT, Value: "apple"}, "banana", true},
		{"In", FilterSpec{Operator: OpIn, Value: []string{"a", "b"}}, "B", true},
		{"InMiss", FilterSpec{Operator: OpIn, Value: []string{"a", "b"}}, "c", false},
		{"NotIn", FilterSpec{Operator: OpNotIn, Value: []any{"a", "b"}}, "c", true},
		{"InScalarValue", FilterSpec{Operator: OpIn, Value: "only"}, "only", true},
		{"UnknownOperator", FilterSpec{Operator: "matches", Value: "x"}, "x", false},
		{"UncoercibleNumber", FilterSpec{Operator: OpGT, Value: 5, Type: TypeNumber}, "not-a-number", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.spec.Matches(tt.cell, nop))
		})
	}
}

func TestIsValidOperator(t *testing.T) {
	for _, op := range []FilterOperator{
		OpEquals, OpContains, OpStartsWith, OpEndsWith,
		OpGT, OpGTE, OpLT, OpLTE, OpIn, OpNotIn,
	} {
		assert.True(t, IsValidOperator(op), string(op))
	}
	assert.False(t, IsValidOperator("regex"))
	assert.False(t, IsValidOperator(""))
}

func TestCompareValues_NilFirst(t *testing.T) {
	coll := newCollator()

	assert.Equal(t, 0, compareValues(nil, nil, CompareAlphanumeric, coll))
	assert.Equal(t, -1, compareValues(nil, "x", CompareAlphanumeric, coll))
	assert.Equal(t, 1, compareValues("x", nil, CompareAlphanumeric, coll))

	// Uncoercible values sort before coercible ones under typed kinds.
	assert.Equal(t, -1, compareValues("junk", 5, CompareNumeric, coll))
	assert.Equal(t, 1, compareValues(5, "junk", CompareNumeric, coll))
}

func TestDisplayString(t *testing.T) {
	ts := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "", displayString(nil))
	assert.Equal(t, "plain", displayString("plain"))
	assert.Equal(t, "3.5", displayString(3.5))
	assert.Equal(t, "true", displayString(true))
	assert.Equal(t, "2025-03-01T12:00:00Z", displayString(ts))
	assert.Equal(t, "7", displayString(7))
}
