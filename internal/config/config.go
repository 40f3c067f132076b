package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hpungsan/lapse/internal/timedata"
)

// Config holds application configuration.
type Config struct {
	// EntriesKey is the frontmatter key holding the structured entry list.
	EntriesKey string `json:"entries_key,omitempty"`

	// StartKey is the frontmatter key for the earliest-start scalar.
	StartKey string `json:"start_key,omitempty"`

	// EndKey is the frontmatter key for the latest-end scalar.
	EndKey string `json:"end_key,omitempty"`

	// TotalKey is the frontmatter key for the formatted total-duration scalar.
	TotalKey string `json:"total_key,omitempty"`

	// ProjectKey is the frontmatter key naming the document's project.
	// It is read independently of the time block.
	ProjectKey string `json:"project_key,omitempty"`

	// ExcludePaths is a list of glob patterns; matching documents are
	// skipped by reports. Patterns match path prefixes, so a directory
	// pattern also excludes nested files.
	ExcludePaths []string `json:"exclude_paths,omitempty"`

	// FirstDayOfWeek is the weekday that starts a week for the thisWeek
	// and lastWeek periods. 0 = Sunday .. 6 = Saturday. A pointer so that
	// an explicit Sunday (0) is distinguishable from "not configured".
	FirstDayOfWeek *int `json:"first_day_of_week,omitempty"`

	// StripTimestamps controls whether timestamp-looking substrings are
	// removed from document names for display and note matching. A pointer
	// so that an explicit false survives the merge.
	StripTimestamps *bool `json:"strip_timestamps,omitempty"`

	// CacheRetentionDays bounds how long inactive cache records survive a
	// load when the snapshot exceeds CacheMaxRecords. Pruned records
	// simply become cache misses on next access.
	CacheRetentionDays int `json:"cache_retention_days,omitempty"`

	// CacheMaxRecords is the snapshot size above which load-time pruning
	// applies. 0 means use the default.
	CacheMaxRecords int `json:"cache_max_records,omitempty"`

	// FlushDebounceMs is the delay between a cache update and the
	// persisted snapshot flush. Repeated updates within the window
	// coalesce into one write.
	FlushDebounceMs int `json:"flush_debounce_ms,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from
	// registration. Unknown tool names are ignored with a warning.
	DisabledTools []string `json:"disabled_tools,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		EntriesKey:         "lapseEntries",
		StartKey:           "startTime",
		EndKey:             "endTime",
		TotalKey:           "totalTimeTracked",
		ProjectKey:         "project",
		FirstDayOfWeek:     ptr(1), // Monday
		StripTimestamps:    ptr(true),
		CacheRetentionDays: 90,
		CacheMaxRecords:    2000,
		FlushDebounceMs:    2000,
	}
}

// FlushDebounce returns the debounce window as a duration.
func (c *Config) FlushDebounce() time.Duration {
	return time.Duration(c.FlushDebounceMs) * time.Millisecond
}

// WeekStart returns the first day of the week, defaulting to Monday when
// not configured.
func (c *Config) WeekStart() int {
	if c.FirstDayOfWeek == nil {
		return 1
	}
	return *c.FirstDayOfWeek
}

// StripNames returns whether document names are timestamp-stripped,
// defaulting to true when not configured.
func (c *Config) StripNames() bool {
	if c.StripTimestamps == nil {
		return true
	}
	return *c.StripTimestamps
}

// ParseOptions maps the configured frontmatter key names onto codec options.
func (c *Config) ParseOptions() timedata.Options {
	return timedata.Options{
		EntriesKey: c.EntriesKey,
		StartKey:   c.StartKey,
		EndKey:     c.EndKey,
		TotalKey:   c.TotalKey,
		ProjectKey: c.ProjectKey,
		StripNames: c.StripNames(),
	}
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.lapse.
func Load(baseDir string) (*Config, error) {
	cfg, err := loadFileRaw(filepath.Join(baseDir, "config.json"))
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// LoadWithVault loads configuration from both the global directory and the
// vault's own .lapse directory. Vault config takes precedence for scalar
// values; arrays are merged (deduplicated). Either or both may be missing.
func LoadWithVault(globalDir, vaultDir string) (*Config, error) {
	global, err := loadFileRaw(filepath.Join(globalDir, "config.json"))
	if err != nil {
		return nil, err
	}

	vault, err := loadFileRaw(filepath.Join(vaultDir, ".lapse", "config.json"))
	if err != nil {
		return nil, err
	}

	// Apply defaults, then global, then vault
	return Merge(Merge(DefaultConfig(), global), vault), nil
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			// File doesn't exist, return zero config
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.EntriesKey = overlayString(base.EntriesKey, overlay.EntriesKey)
	result.StartKey = overlayString(base.StartKey, overlay.StartKey)
	result.EndKey = overlayString(base.EndKey, overlay.EndKey)
	result.TotalKey = overlayString(base.TotalKey, overlay.TotalKey)
	result.ProjectKey = overlayString(base.ProjectKey, overlay.ProjectKey)

	// Pointer fields carry presence: zero is a legal configured value
	// (Sunday, stripping disabled), so only an absent field falls back.
	result.FirstDayOfWeek = overlayPtr(base.FirstDayOfWeek, overlay.FirstDayOfWeek)
	result.StripTimestamps = overlayPtr(base.StripTimestamps, overlay.StripTimestamps)

	result.CacheRetentionDays = overlay.CacheRetentionDays
	if result.CacheRetentionDays == 0 {
		result.CacheRetentionDays = base.CacheRetentionDays
	}

	result.CacheMaxRecords = overlay.CacheMaxRecords
	if result.CacheMaxRecords == 0 {
		result.CacheMaxRecords = base.CacheMaxRecords
	}

	result.FlushDebounceMs = overlay.FlushDebounceMs
	if result.FlushDebounceMs == 0 {
		result.FlushDebounceMs = base.FlushDebounceMs
	}

	// Arrays: merge and deduplicate
	result.ExcludePaths = mergeStringSlice(base.ExcludePaths, overlay.ExcludePaths)
	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

// overlayString returns the overlay value if non-empty, else the base value.
func overlayString(base, overlay string) string {
	if strings.TrimSpace(overlay) != "" {
		return overlay
	}
	return base
}

// overlayPtr returns the overlay value when the field was present in the
// overlay file, else the base value.
func overlayPtr[T any](base, overlay *T) *T {
	if overlay != nil {
		return overlay
	}
	return base
}

func ptr[T any](v T) *T {
	return &v
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range a {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	for _, s := range b {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
