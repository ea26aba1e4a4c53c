// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/javiermolinar/dayslot/internal/format"
	"github.com/javiermolinar/dayslot/internal/hours"
	"github.com/javiermolinar/dayslot/internal/selection"
	"github.com/javiermolinar/dayslot/internal/timeaxis"
)

// Config holds the application configuration.
type Config struct {
	Column        ColumnConfig          `toml:"column"`
	Selection     SelectionConfig       `toml:"selection"`
	BusinessHours []BusinessHoursConfig `toml:"business_hours"`
	Storage       StorageConfig         `toml:"storage"`
	UI            UIConfig              `toml:"ui"`
}

// ColumnConfig holds the visible time window of a day column.
type ColumnConfig struct {
	DayStart string `toml:"day_start"` // e.g., "07:00"
	DayEnd   string `toml:"day_end"`   // e.g., "22:00", "24:00" for midnight
	Step     int    `toml:"step"`      // slot duration in minutes
}

// SelectionConfig holds drag-selection settings.
type SelectionConfig struct {
	Mode              string `toml:"mode"` // "on", "off", "ignore_events"
	DragThroughEvents bool   `toml:"drag_through_events"`
}

// BusinessHoursConfig is one opening interval.
type BusinessHoursConfig struct {
	Days  []string `toml:"days"`  // empty means every day
	Start string   `toml:"start"` // e.g., "09:00"
	End   string   `toml:"end"`   // e.g., "17:00"
}

// StorageConfig holds database settings.
type StorageConfig struct {
	DBPath string `toml:"db_path"`
}

// UIConfig holds TUI settings.
type UIConfig struct {
	Theme                string `toml:"theme"`  // "mocha", "latte"
	Locale               string `toml:"locale"` // BCP 47, e.g. "en-US"
	RTL                  bool   `toml:"rtl"`
	EventTimeRangeFormat string `toml:"event_time_range_format"` // Go time layout, empty for locale default
	SelectRangeFormat    string `toml:"select_range_format"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Column: ColumnConfig{
			DayStart: "07:00",
			DayEnd:   "22:00",
			Step:     30,
		},
		Selection: SelectionConfig{
			Mode:              selection.Enabled.String(),
			DragThroughEvents: true,
		},
		BusinessHours: nil, // no constraint
		Storage: StorageConfig{
			DBPath: defaultDBPath(),
		},
		UI: UIConfig{
			Theme: "mocha",
		},
	}
}

// defaultDBPath returns the default database path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "dayslot.db"
	}
	return filepath.Join(home, ".local", "share", "dayslot", "dayslot.db")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "dayslot", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, use defaults
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("DAYSLOT_DAY_START"); v != "" {
		cfg.Column.DayStart = v
	}
	if v := os.Getenv("DAYSLOT_DAY_END"); v != "" {
		cfg.Column.DayEnd = v
	}
	if v := os.Getenv("DAYSLOT_STEP"); v != "" {
		step, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("DAYSLOT_STEP: %w", err)
		}
		cfg.Column.Step = step
	}
	if v := os.Getenv("DAYSLOT_SELECTION_MODE"); v != "" {
		cfg.Selection.Mode = v
	}
	if v := os.Getenv("DAYSLOT_BUSINESS_HOURS"); v != "" {
		// "09:00-17:00" applied to every day
		start, end, ok := strings.Cut(v, "-")
		if !ok {
			return fmt.Errorf("DAYSLOT_BUSINESS_HOURS must be HH:MM-HH:MM, got %q", v)
		}
		cfg.BusinessHours = []BusinessHoursConfig{{Start: start, End: end}}
	}
	if v := os.Getenv("DAYSLOT_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}
	if v := os.Getenv("DAYSLOT_UI_THEME"); v != "" {
		cfg.UI.Theme = v
	}
	if v := os.Getenv("DAYSLOT_LOCALE"); v != "" {
		cfg.UI.Locale = v
	}
	return nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	start, err := timeaxis.ParseClock(c.Column.DayStart)
	if err != nil {
		return fmt.Errorf("day_start: %w", err)
	}
	end, err := timeaxis.ParseClock(c.Column.DayEnd)
	if err != nil {
		return fmt.Errorf("day_end: %w", err)
	}
	if start >= end {
		return errors.New("day_start must be before day_end")
	}
	if c.Column.Step <= 0 || c.Column.Step > 24*60 {
		return fmt.Errorf("step must be between 1 and 1440 minutes, got %d", c.Column.Step)
	}
	if _, err := c.SelectionMode(); err != nil {
		return err
	}
	if _, err := c.Hours(); err != nil {
		return err
	}
	if !format.ValidLocale(c.UI.Locale) {
		return fmt.Errorf("invalid locale: %q", c.UI.Locale)
	}
	if c.Storage.DBPath == "" {
		return errors.New("db_path must be set")
	}
	return nil
}

// SelectionMode parses the configured selection mode.
func (c *Config) SelectionMode() (selection.Mode, error) {
	switch strings.ToLower(c.Selection.Mode) {
	case "on", "true", "":
		return selection.Enabled, nil
	case "off", "false":
		return selection.Disabled, nil
	case "ignore_events", "ignoreevents":
		return selection.IgnoreEvents, nil
	default:
		return selection.Disabled, fmt.Errorf("invalid selection mode: %q", c.Selection.Mode)
	}
}

// Hours builds the business-hours set.
func (c *Config) Hours() (hours.Set, error) {
	set := make(hours.Set, 0, len(c.BusinessHours))
	for i, bh := range c.BusinessHours {
		r, err := hours.Parse(bh.Days, bh.Start, bh.End)
		if err != nil {
			return nil, fmt.Errorf("business_hours[%d]: %w", i, err)
		}
		set = append(set, r)
	}
	return set, nil
}

// WindowFor returns the column window for the given day.
func (c *Config) WindowFor(day time.Time) (timeaxis.Window, error) {
	return timeaxis.ForDay(day, c.Column.DayStart, c.Column.DayEnd, c.Column.Step)
}

// HasBusinessHours returns true if any business hours are configured.
func (c *Config) HasBusinessHours() bool {
	return len(c.BusinessHours) > 0
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
