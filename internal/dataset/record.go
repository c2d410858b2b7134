// Package dataset loads tabular row data from CSV, JSON, and SQLite sources
// into a uniform record shape the grid engine can consume. Sources infer
// per-field types so columns get the right comparators and filters.
package dataset

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// FieldType classifies a field's values.
type FieldType string

// Inferred field types.
const (
	FieldString FieldType = "string"
	FieldNumber FieldType = "number"
	FieldDate   FieldType = "date"
	FieldBool   FieldType = "bool"
)

// FieldInfo describes one field of a dataset.
type FieldInfo struct {
	Name string    `json:"name" yaml:"name"`
	Type FieldType `json:"type" yaml:"type"`
}

// Record is one row: a stable key plus named field values.
type Record struct {
	Key    string         `json:"key" yaml:"key"`
	Values map[string]any `json:"values" yaml:"values"`
}

// Value returns a field value, or nil when absent.
func (r Record) Value(field string) any {
	return r.Values[field]
}

// Dataset is the loaded row material plus its schema and identity.
type Dataset struct {
	Records []Record
	Fields  []FieldInfo

	// SourcePath is where the data came from, for logging.
	SourcePath string
}

// Fingerprint returns a cheap dataset identity: record count plus first and
// last keys, hashed. It changes when the dataset is replaced but is not a
// deep content hash — in-place cell edits are deliberately invisible to it.
func (d *Dataset) Fingerprint() uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(strconv.Itoa(len(d.Records))))
	if len(d.Records) > 0 {
		_, _ = h.Write([]byte(d.Records[0].Key))
		_, _ = h.Write([]byte(d.Records[len(d.Records)-1].Key))
	}
	return h.Sum64()
}

// keySource generates ULID row keys for datasets without a key column.
// ULIDs sort by creation time, which keeps generated keys stable-ordered.
type keySource struct {
	entropy *rand.Rand
}

func newKeySource() *keySource {
	return &keySource{entropy: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (k *keySource) next() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), k.entropy).String()
}

// recordKey picks the row key: the named key field's display value when
// present and non-empty, else a generated ULID.
func recordKey(values map[string]any, keyField string, keys *keySource) string {
	if keyField != "" {
		if v, ok := values[keyField]; ok {
			if s := strings.TrimSpace(valueString(v)); s != "" {
				return s
			}
		}
	}
	return keys.next()
}

// valueString renders a raw value for key extraction.
func valueString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", val)
	}
}

// inferType sniffs a field type from a sample of display values. Numbers
// win over dates, dates over booleans; anything mixed falls back to string.
func inferType(samples []string) FieldType {
	if len(samples) == 0 {
		return FieldString
	}

	allNumber, allDate, allBool := true, true, true
	seen := false
	for _, s := range samples {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		seen = true
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			allNumber = false
		}
		if !looksLikeDate(s) {
			allDate = false
		}
		if _, err := strconv.ParseBool(s); err != nil {
			allBool = false
		}
	}

	switch {
	case !seen:
		return FieldString
	case allNumber:
		return FieldNumber
	case allDate:
		return FieldDate
	case allBool:
		return FieldBool
	default:
		return FieldString
	}
}

// looksLikeDate accepts the layouts the grid's date comparator understands.
func looksLikeDate(s string) bool {
	for _, layout := range []string{time.RFC3339, "2006-01-02", "2006-01-02 15:04:05"} {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}
