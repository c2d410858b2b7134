package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Top-level YAML config key names used for shallow merge.
const (
	keySchemaVersion = "schema_version"
	keyVirtualScroll = "virtual_scroll"
	keySelection     = "selection"
	keyPagination    = "pagination"
	keyPerformance   = "performance"
	keyGestures      = "gestures"
	keyAccessibility = "accessibility"
	keyCache         = "cache"
	keyLogging       = "logging"
)

// knownTopLevelKeys lists the YAML keys that correspond to exported Config
// fields. Keys not in this list are silently ignored during merge.
//
//nolint:gochecknoglobals // Compile-time constant lookup table.
var knownTopLevelKeys = map[string]bool{
	keySchemaVersion: true,
	keyVirtualScroll: true,
	keySelection:     true,
	keyPagination:    true,
	keyPerformance:   true,
	keyGestures:      true,
	keyAccessibility: true,
	keyCache:         true,
	keyLogging:       true,
}

// ShallowMergeYAML loads a YAML file and merges its top-level keys onto
// the target Config. Keys present in the overlay replace entire sections
// in the target. Keys absent in the overlay are left unchanged.
func ShallowMergeYAML(target *Config, overlayPath string) error {
	if target == nil {
		return errors.New("nil target *Config in ShallowMergeYAML")
	}

	data, err := os.ReadFile(overlayPath)
	if err != nil {
		return fmt.Errorf("reading overlay file %s: %w", overlayPath, err)
	}

	var overlay map[string]interface{}
	if err = yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parsing overlay YAML from %s: %w", overlayPath, err)
	}

	// Empty or comment-only file: nothing to merge.
	if len(overlay) == 0 {
		return nil
	}

	for key, value := range overlay {
		if !knownTopLevelKeys[key] {
			continue
		}

		// Re-marshal the single section so it can be unmarshalled onto the
		// strongly-typed target field.
		sectionBytes, marshalErr := yaml.Marshal(value)
		if marshalErr != nil {
			return fmt.Errorf("re-marshalling overlay section %q: %w", key, marshalErr)
		}

		if err = unmarshalSection(target, key, sectionBytes); err != nil {
			return fmt.Errorf("applying overlay section %q: %w", key, err)
		}
	}

	return nil
}

// unmarshalSection unmarshals raw YAML bytes into the correct field of target
// based on the given key name. Each section is unmarshalled into a fresh
// zero-value to ensure complete replacement (yaml.Unmarshal merges into
// existing maps, which would violate shallow-merge semantics).
func unmarshalSection(target *Config, key string, data []byte) error {
	switch key {
	case keySchemaVersion:
		var v string
		if err := yaml.Unmarshal(data, &v); err != nil {
			return err
		}
		target.SchemaVersion = v
		return nil
	case keyVirtualScroll:
		var v VirtualScrollConfig
		if err := yaml.Unmarshal(data, &v); err != nil {
			return err
		}
		target.VirtualScroll = v
		return nil
	case keySelection:
		var v SelectionConfig
		if err := yaml.Unmarshal(data, &v); err != nil {
			return err
		}
		target.Selection = v
		return nil
	case keyPagination:
		var v PaginationConfig
		if err := yaml.Unmarshal(data, &v); err != nil {
			return err
		}
		target.Pagination = v
		return nil
	case keyPerformance:
		var v PerformanceConfig
		if err := yaml.Unmarshal(data, &v); err != nil {
			return err
		}
		target.Performance = v
		return nil
	case keyGestures:
		var v GesturesConfig
		if err := yaml.Unmarshal(data, &v); err != nil {
			return err
		}
		target.Gestures = v
		return nil
	case keyAccessibility:
		var v AccessibilityConfig
		if err := yaml.Unmarshal(data, &v); err != nil {
			return err
		}
		target.Accessibility = v
		return nil
	case keyCache:
		var v CacheConfig
		if err := yaml.Unmarshal(data, &v); err != nil {
			return err
		}
		target.Cache = v
		return nil
	case keyLogging:
		var v LoggingConfig
		if err := yaml.Unmarshal(data, &v); err != nil {
			return err
		}
		target.Logging = v
		return nil
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
}
