package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"rmagenda/internal/device"
)

// CalendarConfig describes a single ICS subscription source.
type CalendarConfig struct {
	// URL is the ICS subscription endpoint.
	URL string `yaml:"url" json:"url"`
	// ID is an internal identifier used for de-dup and logging.
	ID string `yaml:"id" json:"id"`
	// Name is a human-friendly label.
	Name string `yaml:"name" json:"name"`
}

// WeatherConfig holds forecast provider settings. Empty APIKey or
// Location disables weather annotations entirely.
type WeatherConfig struct {
	APIKey   string `yaml:"api_key" json:"api_key"`
	Location string `yaml:"location" json:"location"`
	// Units is "metric" or "imperial".
	Units string `yaml:"units" json:"units"`
}

// ViewsConfig selects which views are included in a generated document.
// When none of the three is set, the primary view requested on the
// command line is rendered alone.
type ViewsConfig struct {
	IncludeMonth bool `yaml:"include_month" json:"include_month"`
	IncludeWeek  bool `yaml:"include_week" json:"include_week"`
	IncludeDay   bool `yaml:"include_day" json:"include_day"`
}

// Config is the top-level application configuration.
type Config struct {
	// Timezone is the IANA display timezone (e.g. "Europe/Berlin").
	Timezone string `yaml:"timezone" json:"timezone"`

	// Device is the target tablet id; unknown values fall back to the
	// default profile at render time.
	Device string `yaml:"device" json:"device"`

	// RefreshCron is a cron-style schedule (e.g. "*/30 * * * *") used by
	// the daemon to refetch calendars and regenerate output.
	RefreshCron string `yaml:"refresh" json:"refresh"`

	// OutputDir is where generated PDF documents are written.
	OutputDir string `yaml:"output_dir" json:"output_dir"`

	// CacheDir backs the ICS fetch cache.
	CacheDir string `yaml:"cache_dir" json:"cache_dir"`

	// Calendars is the list of subscribed ICS sources.
	Calendars []CalendarConfig `yaml:"calendars" json:"calendars"`

	Weather WeatherConfig `yaml:"weather" json:"weather"`

	Views ViewsConfig `yaml:"views" json:"views"`

	// Tasks is the checklist printed on the day view. When empty, the
	// day view renders blank checkbox rows instead.
	Tasks []string `yaml:"tasks" json:"tasks"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Timezone:    "Local",
		Device:      device.DefaultID,
		RefreshCron: "*/30 * * * *",
		OutputDir:   "./out",
		CacheDir:    "./var/ics-cache",
		Calendars:   []CalendarConfig{},
		Weather:     WeatherConfig{Units: "metric"},
	}
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	if c.Timezone == "" {
		c.Timezone = "Local"
	}
	if c.Device == "" {
		c.Device = device.DefaultID
	}
	if c.RefreshCron == "" {
		c.RefreshCron = "*/30 * * * *"
	}
	if c.OutputDir == "" {
		c.OutputDir = "./out"
	}
	if c.CacheDir == "" {
		c.CacheDir = "./var/ics-cache"
	}
	if c.Calendars == nil {
		c.Calendars = []CalendarConfig{}
	}
	switch c.Weather.Units {
	case "metric", "imperial":
	default:
		c.Weather.Units = "metric"
	}
}

// Load loads configuration from the given YAML path.
//
// If the file does not exist, a default config is written there (0600)
// and returned; otherwise the YAML is read and normalized.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes the configuration atomically (temp file + rename) with
// 0600 permissions, creating the parent directory if needed.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".rmagenda-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Save is a convenience method delegating to the package-level Save.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
