package iview

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Defaults and limits for the session configuration.
const (
	defaultSlideshowInterval = 3.0
	minSlideshowInterval     = 0.5
	maxSlideshowInterval     = 600.0
)

// ConfigLoadResult contains the result of loading configuration
type ConfigLoadResult struct {
	Config   Config
	HasError bool
	Warnings []string
	Status   string // "OK", "Default", "Error"
}

// Config is the persisted session configuration.
type Config struct {
	SlideshowIntervalSec float64 `json:"slideshow_interval_sec"`
	PrefetchEnabled      bool    `json:"prefetch_enabled"`
	PrefetchRadius       int     `json:"prefetch_radius"`
	CacheSize            int     `json:"cache_size"`
	SortMethod           int     `json:"sort_method"`
	HistoryCapacity      int     `json:"history_capacity"`
	WatchFolder          bool    `json:"watch_folder"`
}

func getConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "iview-config.json"
	}
	return filepath.Join(homeDir, ".iview-config.json")
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		SlideshowIntervalSec: defaultSlideshowInterval,
		PrefetchEnabled:      true,
		PrefetchRadius:       DefaultPrefetchRadius,
		CacheSize:            defaultCacheSize,
		SortMethod:           SortByName,
		HistoryCapacity:      DefaultHistoryCapacity,
		WatchFolder:          true,
	}
}

// LoadConfig loads the per-user configuration file.
func LoadConfig() ConfigLoadResult {
	return LoadConfigFromPath(getConfigPath())
}

// LoadConfigFromPath loads and validates a configuration file. A missing
// file is not an error; invalid JSON falls back to defaults with a warning;
// out-of-range values are clamped back to their defaults.
func LoadConfigFromPath(configPath string) ConfigLoadResult {
	config := DefaultConfig()

	result := ConfigLoadResult{
		Config:   config,
		HasError: false,
		Warnings: []string{},
		Status:   "OK",
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		// Config file not found is not an error - use defaults
		result.Status = "Default"
		return result
	}

	if err := json.Unmarshal(data, &config); err != nil {
		logger.Warnf("invalid config file %s, using defaults: %v", configPath, err)
		result.HasError = true
		result.Status = "Error"
		result.Warnings = append(result.Warnings, fmt.Sprintf("invalid config file: %v", err))
		return result
	}

	// Validate slideshow interval
	if config.SlideshowIntervalSec < minSlideshowInterval || config.SlideshowIntervalSec > maxSlideshowInterval {
		config.SlideshowIntervalSec = defaultSlideshowInterval
	}

	// Validate prefetch radius (minimum 1, maximum 8)
	if config.PrefetchRadius < 1 {
		config.PrefetchRadius = DefaultPrefetchRadius
	} else if config.PrefetchRadius > 8 {
		config.PrefetchRadius = 8
	}

	// Validate cache size (minimum 1, maximum 64)
	if config.CacheSize < 1 {
		config.CacheSize = defaultCacheSize
	} else if config.CacheSize > 64 {
		config.CacheSize = 64
	}

	// Validate sort method
	if config.SortMethod < SortByName || config.SortMethod > SortEntryOrder {
		config.SortMethod = SortByName
	}

	// Validate history capacity (minimum 1, maximum 100)
	if config.HistoryCapacity < 1 {
		config.HistoryCapacity = DefaultHistoryCapacity
	} else if config.HistoryCapacity > 100 {
		config.HistoryCapacity = 100
	}

	result.Config = config
	return result
}

// SaveConfig writes the configuration to the per-user location.
func SaveConfig(config Config) {
	SaveConfigToPath(config, getConfigPath())
}

// SaveConfigToPath writes the configuration as indented JSON.
func SaveConfigToPath(config Config, configPath string) {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		logger.Errorf("failed to marshal config: %v", err)
		return
	}

	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		logger.Errorf("failed to save config to %s: %v", configPath, err)
	}
}
