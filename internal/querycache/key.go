package querycache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/telste/gridview/internal/grid"
)

// QueryShape is everything that determines a headless query's output.
// Two queries with the same shape over the same dataset render identically.
type QueryShape struct {
	Fingerprint uint64
	Search      string
	Filters     []grid.FilterSpec
	Sorts       []grid.SortSpec
	Page        int
	PageSize    int
}

// Key derives the deterministic cache key for a query shape: a SHA-256 hex
// digest over a canonical JSON encoding. Filters are key-sorted before
// hashing so insertion order does not split the cache.
func Key(shape QueryShape) string {
	filters := make([]canonicalFilter, 0, len(shape.Filters))
	for _, f := range shape.Filters {
		filters = append(filters, canonicalFilter{
			Key:      f.Key,
			Operator: string(f.Operator),
			Value:    fmt.Sprintf("%v", f.Value),
		})
	}
	sort.Slice(filters, func(i, j int) bool { return filters[i].Key < filters[j].Key })

	sorts := make([]canonicalSort, 0, len(shape.Sorts))
	for _, sp := range shape.Sorts {
		sorts = append(sorts, canonicalSort{Key: sp.Key, Order: string(sp.Order)})
	}

	canonical := struct {
		Fingerprint string            `json:"fingerprint"`
		Search      string            `json:"search"`
		Filters     []canonicalFilter `json:"filters"`
		Sorts       []canonicalSort   `json:"sorts"`
		Page        int               `json:"page"`
		PageSize    int               `json:"page_size"`
	}{
		Fingerprint: strconv.FormatUint(shape.Fingerprint, 16),
		Search:      shape.Search,
		Filters:     filters,
		Sorts:       sorts,
		Page:        shape.Page,
		PageSize:    shape.PageSize,
	}

	// Marshaling a struct of strings and ints cannot fail.
	data, _ := json.Marshal(canonical)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

type canonicalFilter struct {
	Key      string `json:"key"`
	Operator string `json:"operator"`
	Value    string `json:"value"`
}

type canonicalSort struct {
	Key   string `json:"key"`
	Order string `json:"order"`
}
