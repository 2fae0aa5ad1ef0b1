package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"infinite-carousel/carousel"
	"infinite-carousel/log"

	"github.com/gofrs/flock"
)

const (
	ConfigFileName = "config.json"
	LockFileName   = "config.lock"

	// DefaultLockTimeout bounds how long load and save wait for the lock.
	DefaultLockTimeout = 5 * time.Second
)

// Config is the persisted demo configuration.
type Config struct {
	// Paging stops carousels from snapping to a cell when a fling ends.
	Paging bool `json:"paging"`
	// ReloadSettleMs, ScrollSettleMs and AnimationSettleMs override the
	// settle delays. Zero keeps the default.
	ReloadSettleMs    int `json:"reload_settle_ms,omitempty"`
	ScrollSettleMs    int `json:"scroll_settle_ms,omitempty"`
	AnimationSettleMs int `json:"animation_settle_ms,omitempty"`
	// DatesFile holds one YYYY-MM-DD date per line for the dates carousel.
	// Empty uses the built in dates.
	DatesFile string `json:"dates_file,omitempty"`
	// WatchDatesFile reloads the dates carousel when DatesFile changes.
	WatchDatesFile bool `json:"watch_dates_file"`

	LogsEnabled     bool   `json:"logs_enabled"`
	LogsDir         string `json:"logs_dir,omitempty"`
	LogMaxSize      int    `json:"log_max_size"`
	LogMaxFiles     int    `json:"log_max_files"`
	LogMaxAge       int    `json:"log_max_age"`
	LogCompress     bool   `json:"log_compress"`
	UseCarouselLogs bool   `json:"use_carousel_logs"`

	path string
}

// GetConfigDir returns the directory holding the config file.
func GetConfigDir() (string, error) {
	return log.GetConfigDir()
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	lc := log.DefaultLogConfig()
	cfg := &Config{
		WatchDatesFile:  true,
		LogsEnabled:     lc.LogsEnabled,
		LogsDir:         lc.LogsDir,
		LogMaxSize:      lc.LogMaxSize,
		LogMaxFiles:     lc.LogMaxFiles,
		LogMaxAge:       lc.LogMaxAge,
		LogCompress:     lc.LogCompress,
		UseCarouselLogs: lc.UseCarouselLogs,
	}
	if dir, err := GetConfigDir(); err == nil {
		cfg.path = filepath.Join(dir, ConfigFileName)
	}
	return cfg
}

// Path is the file the config is loaded from and saved to.
func (c *Config) Path() string {
	return c.path
}

// LoadConfig reads the config from the default location. A missing or
// unreadable file yields the defaults.
func LoadConfig() *Config {
	cfg := DefaultConfig()
	if cfg.path == "" {
		return cfg
	}
	loaded, err := LoadConfigFrom(cfg.path)
	if err != nil {
		log.WarningLog.Printf("failed to load config: %v", err)
		return cfg
	}
	return loaded
}

// LoadConfigFrom reads the config at path under a shared lock. A missing file
// is not an error.
func LoadConfigFrom(path string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.path = path

	unlock, err := lockFor(path, false)
	if err != nil {
		return cfg, err
	}
	defer unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.path = path
	return cfg, nil
}

// SaveConfig writes the config to its path under an exclusive lock.
func SaveConfig(cfg *Config) error {
	if cfg.path == "" {
		return fmt.Errorf("config has no path")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	unlock, err := lockFor(cfg.path, true)
	if err != nil {
		return err
	}
	defer unlock()

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write to a temporary file first so readers never see a partial file.
	tmpPath := cfg.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temporary config file: %w", err)
	}
	if err := os.Rename(tmpPath, cfg.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to atomically update config file: %w", err)
	}
	return nil
}

// lockFor takes the lock file next to path and returns its release.
func lockFor(path string, exclusive bool) (func(), error) {
	lockPath := filepath.Join(filepath.Dir(path), LockFileName)
	if _, err := os.Stat(filepath.Dir(path)); os.IsNotExist(err) {
		// Nothing to coordinate with yet.
		return func() {}, nil
	}
	fileLock := flock.New(lockPath)

	ctx, cancel := context.WithTimeout(context.Background(), DefaultLockTimeout)
	defer cancel()

	var locked bool
	var err error
	if exclusive {
		locked, err = fileLock.TryLockContext(ctx, 100*time.Millisecond)
	} else {
		locked, err = fileLock.TryRLockContext(ctx, 100*time.Millisecond)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("could not acquire lock within timeout")
	}
	return func() {
		if err := fileLock.Unlock(); err != nil {
			log.WarningLog.Printf("failed to release config lock: %v", err)
		}
	}, nil
}

// Timing converts the settle overrides into carousel timing. Zero fields are
// left for carousel.WithTiming to fill with defaults.
func (c *Config) Timing() carousel.Timing {
	return carousel.Timing{
		ReloadSettle:    time.Duration(c.ReloadSettleMs) * time.Millisecond,
		ScrollSettle:    time.Duration(c.ScrollSettleMs) * time.Millisecond,
		AnimationSettle: time.Duration(c.AnimationSettleMs) * time.Millisecond,
	}
}

func (c *Config) LogConfig() *log.LogConfig {
	return &log.LogConfig{
		LogsEnabled:     c.LogsEnabled,
		LogsDir:         c.LogsDir,
		LogMaxSize:      c.LogMaxSize,
		LogMaxFiles:     c.LogMaxFiles,
		LogMaxAge:       c.LogMaxAge,
		LogCompress:     c.LogCompress,
		UseCarouselLogs: c.UseCarouselLogs,
	}
}
