package querycache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

// entryExtension is the file extension for cache entry files.
const entryExtension = ".json"

// TTL bounds. The default is an hour; anything shorter than a minute churns
// files for no benefit, anything past a week serves stale pages.
const (
	DefaultTTLSeconds = 3600
	MinTTLSeconds     = 60
	MaxTTLSeconds     = 604800
)

// Common cache errors.
var (
	ErrNotFound   = errors.New("cache entry not found")
	ErrExpired    = errors.New("cache entry expired")
	ErrInvalidKey = errors.New("cache key cannot be empty")
	ErrDisabled   = errors.New("cache is disabled")
	ErrInvalidTTL = fmt.Errorf("TTL must be between %d and %d seconds", MinTTLSeconds, MaxTTLSeconds)
)

// Store is a file-backed query result cache with TTL expiration.
// Safe for concurrent use.
type Store struct {
	// directory holds one JSON file per entry.
	directory string

	// enabled gates every operation; a disabled store errors with ErrDisabled.
	enabled bool

	// ttlSeconds is applied to new entries.
	ttlSeconds int

	mu sync.RWMutex
}

// NewStore creates a query cache rooted at directory, creating it if needed.
// A disabled store is valid and rejects every operation with ErrDisabled.
func NewStore(directory string, enabled bool, ttlSeconds int) (*Store, error) {
	if !enabled {
		return &Store{enabled: false}, nil
	}

	if directory == "" {
		return nil, errors.New("cache directory cannot be empty")
	}
	if ttlSeconds < MinTTLSeconds || ttlSeconds > MaxTTLSeconds {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidTTL, ttlSeconds)
	}

	if err := os.MkdirAll(directory, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	return &Store{
		directory:  directory,
		enabled:    true,
		ttlSeconds: ttlSeconds,
	}, nil
}

// Get returns the entry stored under key. Expired entries are reported with
// ErrExpired and removed in the background.
func (s *Store) Get(key string) (*Entry, error) {
	if !s.enabled {
		return nil, ErrDisabled
	}
	if key == "" {
		return nil, ErrInvalidKey
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	path := s.entryPath(key)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading cache file: %w", err)
	}

	var entry Entry
	if unmarshalErr := json.Unmarshal(data, &entry); unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshaling cache entry: %w", unmarshalErr)
	}

	if entry.Expired() {
		go func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			_ = os.Remove(path)
		}()
		return nil, ErrExpired
	}

	return &entry, nil
}

// Set stores result under key, overwriting any existing entry. The write
// goes through a temp file and rename so readers never see a partial entry.
func (s *Store) Set(key string, result json.RawMessage) error {
	if !s.enabled {
		return ErrDisabled
	}
	if key == "" {
		return ErrInvalidKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry := NewEntry(key, result, s.ttlSeconds)
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling cache entry: %w", err)
	}

	path := s.entryPath(key)
	tempPath := path + ".tmp"
	if writeErr := os.WriteFile(tempPath, data, 0o600); writeErr != nil {
		return fmt.Errorf("writing cache file: %w", writeErr)
	}
	if renameErr := os.Rename(tempPath, path); renameErr != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("renaming cache file: %w", renameErr)
	}

	return nil
}

// Delete removes the entry under key. Missing entries are not an error.
func (s *Store) Delete(key string) error {
	if !s.enabled {
		return ErrDisabled
	}
	if key == "" {
		return ErrInvalidKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.entryPath(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting cache file: %w", err)
	}
	return nil
}

// Clear removes every entry file from the cache directory.
func (s *Store) Clear() error {
	if !s.enabled {
		return ErrDisabled
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.directory)
	if err != nil {
		return fmt.Errorf("reading cache directory: %w", err)
	}

	for _, dirEntry := range entries {
		if dirEntry.IsDir() || filepath.Ext(dirEntry.Name()) != entryExtension {
			continue
		}
		path := filepath.Join(s.directory, dirEntry.Name())
		if removeErr := os.Remove(path); removeErr != nil {
			return fmt.Errorf("removing cache file %s: %w", dirEntry.Name(), removeErr)
		}
	}
	return nil
}

// CleanupExpired removes every expired entry. Unreadable or malformed files
// are skipped rather than failing the sweep.
func (s *Store) CleanupExpired() error {
	if !s.enabled {
		return ErrDisabled
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.directory)
	if err != nil {
		return fmt.Errorf("reading cache directory: %w", err)
	}

	for _, dirEntry := range entries {
		if dirEntry.IsDir() || filepath.Ext(dirEntry.Name()) != entryExtension {
			continue
		}

		path := filepath.Join(s.directory, dirEntry.Name())
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			continue
		}

		var entry Entry
		if unmarshalErr := json.Unmarshal(data, &entry); unmarshalErr != nil {
			continue
		}

		if entry.Expired() {
			_ = os.Remove(path)
		}
	}
	return nil
}

// Count returns the number of entry files, expired ones included.
func (s *Store) Count() (int, error) {
	if !s.enabled {
		return 0, ErrDisabled
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.directory)
	if err != nil {
		return 0, fmt.Errorf("reading cache directory: %w", err)
	}

	count := 0
	for _, dirEntry := range entries {
		if !dirEntry.IsDir() && filepath.Ext(dirEntry.Name()) == entryExtension {
			count++
		}
	}
	return count, nil
}

// Enabled reports whether the store accepts operations.
func (s *Store) Enabled() bool {
	return s.enabled
}

// Directory returns the cache directory path.
func (s *Store) Directory() string {
	return s.directory
}

// TTL returns the configured entry TTL.
func (s *Store) TTL() time.Duration {
	return time.Duration(s.ttlSeconds) * time.Second
}

// entryPath maps a key to its file, sanitizing path-hostile characters.
func (s *Store) entryPath(key string) string {
	safe := strings.NewReplacer("/", "_", "\\", "_", ":", "_").Replace(key)
	return filepath.Join(s.directory, safe+entryExtension)
}

// ParseTTL accepts a TTL as integer seconds ("3600") or a duration string
// ("1h", "30m") and validates the range.
func ParseTTL(s string) (int, error) {
	if seconds, err := strconv.Atoi(s); err == nil {
		if seconds < MinTTLSeconds || seconds > MaxTTLSeconds {
			return 0, fmt.Errorf("%w: got %d", ErrInvalidTTL, seconds)
		}
		return seconds, nil
	}

	duration, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid TTL format: %w", err)
	}

	seconds := int(duration.Seconds())
	if seconds < MinTTLSeconds || seconds > MaxTTLSeconds {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidTTL, seconds)
	}
	return seconds, nil
}
