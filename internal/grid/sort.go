package grid

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortOrder is a sort direction.
type SortOrder string

// Sort directions.
const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// ComparatorKind selects the comparison strategy for a sorted column.
type ComparatorKind string

// Comparator kinds. CompareCustom defers to the column's Compare function.
const (
	CompareNumeric      ComparatorKind = "numeric"
	CompareDate         ComparatorKind = "date"
	CompareAlphanumeric ComparatorKind = "alphanumeric"
	CompareCustom       ComparatorKind = "custom"
)

// SortSpec is one entry of the active sort list. List order is multi-sort
// priority: ties under an earlier spec fall through to the next one.
type SortSpec struct {
	Key   string
	Order SortOrder
	Kind  ComparatorKind
}

// comparatorKindFor derives the default comparator kind for a column.
func comparatorKindFor[T any](col Column[T]) ComparatorKind {
	if col.Compare != nil {
		return CompareCustom
	}
	switch col.Type {
	case TypeNumber:
		return CompareNumeric
	case TypeDate:
		return CompareDate
	default:
		return CompareAlphanumeric
	}
}

// newCollator builds the locale-aware natural-order collator used for
// alphanumeric comparison ("item2" sorts before "item10"). Collators are not
// safe for concurrent use, so each store owns one and guards it with the
// store mutex.
func newCollator() *collate.Collator {
	return collate.New(language.Und, collate.Numeric, collate.IgnoreCase)
}

// compareValues compares two cell values under the given kind.
//
// Nil (and values that fail coercion) sort before all defined values, so a
// column with gaps keeps a deterministic order instead of depending on the
// underlying sort's tie handling.
func compareValues(a, b any, kind ComparatorKind, coll *collate.Collator) int {
	aNil := a == nil
	bNil := b == nil
	if aNil || bNil {
		switch {
		case aNil && bNil:
			return 0
		case aNil:
			return -1
		default:
			return 1
		}
	}

	switch kind {
	case CompareNumeric:
		af, aok := toFloat(a)
		bf, bok := toFloat(b)
		if !aok || !bok {
			return compareMissing(aok, bok)
		}
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	case CompareDate:
		at, aok := toTime(a)
		bt, bok := toTime(b)
		if !aok || !bok {
			return compareMissing(aok, bok)
		}
		return at.Compare(bt)
	default:
		return coll.CompareString(displayString(a), displayString(b))
	}
}

// compareMissing orders uncoercible values before coercible ones, matching
// the nil-first rule.
func compareMissing(aok, bok bool) int {
	switch {
	case !aok && !bok:
		return 0
	case !aok:
		return -1
	default:
		return 1
	}
}
