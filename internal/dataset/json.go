package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// LoadJSON reads a JSON file containing an array of flat objects. Field
// names are the union of all object keys, ordered alphabetically for a
// stable column layout; types are sniffed from the decoded values.
func LoadJSON(path, keyField string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading json %s: %w", path, err)
	}

	var objects []map[string]any
	if err := json.Unmarshal(data, &objects); err != nil {
		return nil, fmt.Errorf("parsing json %s: expected an array of objects: %w", path, err)
	}

	fieldSet := make(map[string][]string)
	order := []string{}
	for _, obj := range objects {
		for name, value := range obj {
			if _, seen := fieldSet[name]; !seen {
				order = append(order, name)
			}
			if len(fieldSet[name]) < typeSampleSize {
				fieldSet[name] = append(fieldSet[name], valueString(value))
			}
		}
	}
	sort.Strings(order)

	fields := make([]FieldInfo, 0, len(order))
	for _, name := range order {
		fields = append(fields, FieldInfo{Name: name, Type: jsonFieldType(objects, name, fieldSet[name])})
	}

	keys := newKeySource()
	records := make([]Record, 0, len(objects))
	for _, obj := range objects {
		records = append(records, Record{
			Key:    recordKey(obj, keyField, keys),
			Values: obj,
		})
	}

	return &Dataset{Records: records, Fields: fields, SourcePath: path}, nil
}

// jsonFieldType prefers the decoded Go types over string sniffing: JSON
// numbers and booleans arrive typed from the decoder.
func jsonFieldType(objects []map[string]any, name string, samples []string) FieldType {
	allNumber, allBool := true, true
	seen := false
	for _, obj := range objects {
		v, ok := obj[name]
		if !ok || v == nil {
			continue
		}
		seen = true
		if _, isNum := v.(float64); !isNum {
			allNumber = false
		}
		if _, isBool := v.(bool); !isBool {
			allBool = false
		}
	}

	switch {
	case !seen:
		return FieldString
	case allNumber:
		return FieldNumber
	case allBool:
		return FieldBool
	default:
		return inferType(samples)
	}
}
