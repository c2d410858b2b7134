package config

import (
	"errors"
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// Validation bounds. Values outside them are clamped, not rejected: a bad
// tuning knob should degrade to a sane default, never refuse to start.
const (
	minItemHeight = 1
	maxItemHeight = 500

	minOverscan = 0
	maxOverscan = 100

	minPageSize = 1
	maxPageSize = 1000

	minDebounceMs = 0
	maxDebounceMs = 5000

	minThrottleMs = 0
	maxThrottleMs = 5000

	minCacheSize = 1
	maxCacheSize = 10000

	minLongPressMs = 100
	maxLongPressMs = 5000
)

// Validation errors for values that cannot be clamped into sense.
var (
	ErrUnknownSelectionType = errors.New("selection type must be \"checkbox\" or \"radio\"")
	ErrSchemaVersion        = errors.New("unsupported config schema version")
)

// Validate normalizes cfg in place and reports the unfixable problems.
// Numeric knobs are clamped into their valid ranges; categorical values and
// the schema version must be right and produce errors when they are not.
func (c *Config) Validate() error {
	var errs []error

	if err := c.checkSchemaVersion(); err != nil {
		errs = append(errs, err)
	}

	c.VirtualScroll.ItemHeight = clampInt(c.VirtualScroll.ItemHeight, minItemHeight, maxItemHeight)
	c.VirtualScroll.Overscan = clampInt(c.VirtualScroll.Overscan, minOverscan, maxOverscan)
	c.Pagination.PageSize = clampInt(c.Pagination.PageSize, minPageSize, maxPageSize)
	c.Performance.DebounceMs = clampInt(c.Performance.DebounceMs, minDebounceMs, maxDebounceMs)
	c.Performance.ThrottleMs = clampInt(c.Performance.ThrottleMs, minThrottleMs, maxThrottleMs)
	c.Performance.MaxCacheSize = clampInt(c.Performance.MaxCacheSize, minCacheSize, maxCacheSize)
	c.Gestures.LongPressMs = clampInt(c.Gestures.LongPressMs, minLongPressMs, maxLongPressMs)

	if c.Gestures.PanThreshold <= 0 {
		c.Gestures.PanThreshold = Default().Gestures.PanThreshold
	}
	if c.Gestures.SwipeThreshold <= 0 {
		c.Gestures.SwipeThreshold = Default().Gestures.SwipeThreshold
	}
	if c.Gestures.SwipeVelocity <= 0 {
		c.Gestures.SwipeVelocity = Default().Gestures.SwipeVelocity
	}
	if c.Gestures.PinchThreshold <= 0 {
		c.Gestures.PinchThreshold = Default().Gestures.PinchThreshold
	}

	switch c.Selection.Type {
	case "checkbox", "radio":
	case "":
		c.Selection.Type = "checkbox"
	default:
		errs = append(errs, fmt.Errorf("%w: got %q", ErrUnknownSelectionType, c.Selection.Type))
	}

	if c.Cache.TTLSeconds <= 0 {
		c.Cache.TTLSeconds = Default().Cache.TTLSeconds
	}
	if c.Cache.Directory == "" {
		c.Cache.Directory = DefaultCacheDir()
	}

	switch c.Logging.Format {
	case "auto", "json", "console":
	case "":
		c.Logging.Format = "auto"
	default:
		errs = append(errs, fmt.Errorf("logging format must be auto, json, or console: got %q", c.Logging.Format))
	}

	return errors.Join(errs...)
}

// checkSchemaVersion verifies the file's schema version is one this build
// can read: same major version as CurrentSchemaVersion. An empty version is
// treated as current for files written before versioning existed.
func (c *Config) checkSchemaVersion() error {
	if c.SchemaVersion == "" {
		c.SchemaVersion = CurrentSchemaVersion
		return nil
	}

	fileVer, err := semver.NewVersion(c.SchemaVersion)
	if err != nil {
		return fmt.Errorf("%w: %q is not valid semver: %w", ErrSchemaVersion, c.SchemaVersion, err)
	}

	current := semver.MustParse(CurrentSchemaVersion)
	if fileVer.Major() != current.Major() {
		return fmt.Errorf("%w: file has %s, this build reads %s",
			ErrSchemaVersion, c.SchemaVersion, CurrentSchemaVersion)
	}
	return nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
