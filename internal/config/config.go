// Package config loads, validates, and merges gridview configuration.
//
// Configuration comes from three layers, lowest priority first: built-in
// defaults, the user config file (~/.gridview/config.yaml), and GRIDVIEW_*
// environment variables. CLI flags are applied on top by the cli package.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/telste/gridview/internal/perf"
)

// CurrentSchemaVersion is the config schema this build reads and writes.
// Files with a different major version are rejected during validation.
const CurrentSchemaVersion = "1.0.0"

// Environment variable names recognized as config overrides.
const (
	EnvConfigPath   = "GRIDVIEW_CONFIG"
	EnvLogLevel     = "GRIDVIEW_LOG_LEVEL"
	EnvPageSize     = "GRIDVIEW_PAGE_SIZE"
	EnvCacheDir     = "GRIDVIEW_CACHE_DIR"
	EnvCacheEnabled = "GRIDVIEW_CACHE_ENABLED"
	EnvCacheTTL     = "GRIDVIEW_CACHE_TTL_SECONDS"
)

// Config is the full gridview configuration tree.
type Config struct {
	SchemaVersion string              `yaml:"schema_version"`
	VirtualScroll VirtualScrollConfig `yaml:"virtual_scroll"`
	Selection     SelectionConfig     `yaml:"selection"`
	Pagination    PaginationConfig    `yaml:"pagination"`
	Performance   PerformanceConfig   `yaml:"performance"`
	Gestures      GesturesConfig      `yaml:"gestures"`
	Accessibility AccessibilityConfig `yaml:"accessibility"`
	Cache         CacheConfig         `yaml:"cache"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// VirtualScrollConfig tunes the viewport windower.
type VirtualScrollConfig struct {
	Enabled bool `yaml:"enabled"`

	// ItemHeight is the per-row height in the consumer's units. It applies
	// to pixel-based embedders of internal/viewport; the TUI renders one
	// terminal cell per row and fixes its windower height at 1.
	ItemHeight int `yaml:"item_height"`

	Overscan int `yaml:"overscan"`
}

// SelectionConfig chooses the selection mode.
type SelectionConfig struct {
	// Type is "checkbox" (multi) or "radio" (single).
	Type string `yaml:"type"`
}

// PaginationConfig sets the page size.
type PaginationConfig struct {
	PageSize int `yaml:"page_size"`
}

// PerformanceConfig tunes debounce, throttle, and view memoization.
type PerformanceConfig struct {
	DebounceMs int `yaml:"debounce_ms"`
	ThrottleMs int `yaml:"throttle_ms"`

	// MaxCacheSize bounds the memoized derived views kept per grid store.
	MaxCacheSize int `yaml:"max_cache_size"`
}

// GesturesConfig enables gesture families and tunes their thresholds.
type GesturesConfig struct {
	EnableTap       bool `yaml:"enable_tap"`
	EnableLongPress bool `yaml:"enable_long_press"`
	EnablePan       bool `yaml:"enable_pan"`
	EnableSwipe     bool `yaml:"enable_swipe"`
	EnablePinch     bool `yaml:"enable_pinch"`

	PanThreshold   float64 `yaml:"pan_threshold"`
	SwipeThreshold float64 `yaml:"swipe_threshold"`
	SwipeVelocity  float64 `yaml:"swipe_velocity"`
	PinchThreshold float64 `yaml:"pinch_threshold"`
	LongPressMs    int     `yaml:"long_press_ms"`
}

// AccessibilityConfig toggles which state changes get announced.
type AccessibilityConfig struct {
	AnnounceChanges   bool `yaml:"announce_changes"`
	AnnounceSort      bool `yaml:"announce_sort"`
	AnnounceFilter    bool `yaml:"announce_filter"`
	AnnounceSelection bool `yaml:"announce_selection"`
}

// CacheConfig controls the headless query result cache.
type CacheConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Directory  string `yaml:"directory"`
	TTLSeconds int    `yaml:"ttl_seconds"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	// Level is a zerolog level name (trace, debug, info, warn, error).
	Level string `yaml:"level"`

	// Format is "auto", "json", or "console".
	Format string `yaml:"format"`

	// File, when set, sends log output to this path instead of stderr.
	File string `yaml:"file"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		SchemaVersion: CurrentSchemaVersion,
		VirtualScroll: VirtualScrollConfig{
			Enabled:    true,
			ItemHeight: 40,
			Overscan:   5,
		},
		Selection: SelectionConfig{Type: "checkbox"},
		Pagination: PaginationConfig{
			PageSize: 50,
		},
		Performance: PerformanceConfig{
			DebounceMs:   300,
			ThrottleMs:   100,
			MaxCacheSize: perf.DefaultMaxCacheSize,
		},
		Gestures: GesturesConfig{
			EnableTap:       true,
			EnableLongPress: true,
			EnablePan:       true,
			EnableSwipe:     true,
			EnablePinch:     true,
			PanThreshold:    10,
			SwipeThreshold:  50,
			SwipeVelocity:   0.3,
			PinchThreshold:  0.1,
			LongPressMs:     500,
		},
		Accessibility: AccessibilityConfig{
			AnnounceChanges:   true,
			AnnounceSort:      true,
			AnnounceFilter:    true,
			AnnounceSelection: true,
		},
		Cache: CacheConfig{
			Enabled:    true,
			Directory:  "",
			TTLSeconds: 3600,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "auto",
		},
	}
}

// DefaultConfigDir returns ~/.gridview, or a relative fallback when the
// home directory cannot be determined.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".gridview"
	}
	return filepath.Join(home, ".gridview")
}

// DefaultConfigPath returns the default config file location.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// DefaultCacheDir returns the default query cache directory.
func DefaultCacheDir() string {
	return filepath.Join(DefaultConfigDir(), "cache")
}

// Load builds the effective configuration: defaults, then the config file
// (the given path, $GRIDVIEW_CONFIG, or the default location), then
// environment overrides. A missing file is not an error; defaults apply.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path == "" {
		path = DefaultConfigPath()
	}

	if _, err := os.Stat(path); err == nil {
		if mergeErr := ShallowMergeYAML(cfg, path); mergeErr != nil {
			return nil, mergeErr
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("checking config file %s: %w", path, err)
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// applyEnvOverrides layers GRIDVIEW_* environment variables onto cfg.
// Unparseable values are ignored rather than failing startup.
func applyEnvOverrides(cfg *Config) {
	if level := os.Getenv(EnvLogLevel); level != "" {
		cfg.Logging.Level = level
	}
	if raw := os.Getenv(EnvPageSize); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			cfg.Pagination.PageSize = n
		}
	}
	if dir := os.Getenv(EnvCacheDir); dir != "" {
		cfg.Cache.Directory = dir
	}
	if raw := os.Getenv(EnvCacheEnabled); raw != "" {
		if enabled, err := strconv.ParseBool(raw); err == nil {
			cfg.Cache.Enabled = enabled
		}
	}
	if raw := os.Getenv(EnvCacheTTL); raw != "" {
		if ttl, err := strconv.Atoi(raw); err == nil && ttl > 0 {
			cfg.Cache.TTLSeconds = ttl
		}
	}
}

// Write marshals cfg to path, creating parent directories as needed.
func (c *Config) Write(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if mkErr := os.MkdirAll(dir, 0o750); mkErr != nil {
			return fmt.Errorf("creating config directory: %w", mkErr)
		}
	}

	if writeErr := os.WriteFile(path, data, 0o600); writeErr != nil {
		return fmt.Errorf("writing config file %s: %w", path, writeErr)
	}
	return nil
}

// Global config access, guarded for concurrent readers.

//nolint:gochecknoglobals // Application-wide effective configuration.
var (
	globalCfg *Config
	globalMu  sync.RWMutex
)

// SetGlobal installs cfg as the process-wide configuration.
func SetGlobal(cfg *Config) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalCfg = cfg
}

// Global returns the process-wide configuration, defaults if none was set.
func Global() *Config {
	globalMu.RLock()
	defer globalMu.RUnlock()
	if globalCfg == nil {
		return Default()
	}
	return globalCfg
}
