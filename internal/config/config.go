// Package config handles layered YAML configuration with environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// UI modes.
const (
	UIAuto  = "auto"
	UIPlain = "plain"
	UITUI   = "tui"
)

// maxWindowDays bounds the birthday window to one (leap) year.
const maxWindowDays = 366

// Config holds all addressbook configuration.
type Config struct {
	Birthdays Birthdays `yaml:"birthdays"`
	UI        UI        `yaml:"ui"`
	Log       Log       `yaml:"log"`
	Book      Book      `yaml:"book"`
}

// Birthdays holds the upcoming-birthdays report settings.
type Birthdays struct {
	WindowDays    int  `yaml:"window_days"`
	ShiftWeekends bool `yaml:"shift_weekends"` // Report Saturday/Sunday birthdays on Monday
}

// UI holds interactive session settings.
type UI struct {
	Mode   string `yaml:"mode"` // "auto" | "plain" | "tui"
	Prompt string `yaml:"prompt"`
}

// Log holds logger settings.
type Log struct {
	Level  string `yaml:"level"`
	File   string `yaml:"file"`
	Format string `yaml:"format"` // "text" | "json"
}

// Book holds address book start-up settings.
type Book struct {
	Seed string `yaml:"seed"` // Path to a YAML contact list loaded at start-up
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Birthdays: Birthdays{
			WindowDays:    7,
			ShiftWeekends: true,
		},
		UI: UI{
			Mode:   UIAuto,
			Prompt: "Enter a command: ",
		},
		Log: Log{
			Level:  "warn",
			Format: "text",
		},
	}
}

// Load reads a single YAML config file at path and returns a Config.
// For merging multiple config sources, use LoadLayered instead.
// If the file does not exist, defaults are returned without error.
// If the file contains invalid YAML or unknown fields, an error is returned.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if len(data) == 0 {
		return &cfg, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		// Comment-only YAML files produce EOF with no decoded content.
		if errors.Is(err, io.EOF) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return &cfg, nil
}

// LoadLayered loads config from multiple paths with increasing priority.
// Later paths override earlier ones. Missing files and empty paths are skipped.
func LoadLayered(paths ...string) (*Config, error) {
	cfg := DefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}
		layer, err := loadLayer(path)
		if err != nil {
			return nil, err
		}
		if layer == nil {
			continue
		}
		cfg.merge(layer)
	}

	return &cfg, nil
}

// Validate checks that config values are usable.
func (c *Config) Validate() error {
	if c.Birthdays.WindowDays < 1 || c.Birthdays.WindowDays > maxWindowDays {
		return fmt.Errorf("config: birthdays.window_days must be between 1 and %d, got %d", maxWindowDays, c.Birthdays.WindowDays)
	}
	switch c.UI.Mode {
	case UIAuto, UIPlain, UITUI:
		// valid
	default:
		return fmt.Errorf("config: ui.mode must be %q, %q or %q, got %q", UIAuto, UIPlain, UITUI, c.UI.Mode)
	}
	switch c.Log.Format {
	case "", "text", "json":
		// valid
	default:
		return fmt.Errorf("config: log.format must be \"text\" or \"json\", got %q", c.Log.Format)
	}
	return nil
}

// ApplyEnv applies environment variable overrides to the config.
// Supported variables: ADDRESSBOOK_WINDOW_DAYS, ADDRESSBOOK_UI,
// ADDRESSBOOK_LOG_LEVEL, ADDRESSBOOK_SEED.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("ADDRESSBOOK_WINDOW_DAYS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: invalid ADDRESSBOOK_WINDOW_DAYS %q: %w", v, err)
		}
		c.Birthdays.WindowDays = n
	}
	if v := os.Getenv("ADDRESSBOOK_UI"); v != "" {
		c.UI.Mode = v
	}
	if v := os.Getenv("ADDRESSBOOK_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("ADDRESSBOOK_SEED"); v != "" {
		c.Book.Seed = v
	}
	return nil
}

// rawConfig mirrors Config but uses pointers to distinguish set vs unset fields.
type rawConfig struct {
	Birthdays *rawBirthdays `yaml:"birthdays"`
	UI        *rawUI        `yaml:"ui"`
	Log       *rawLog       `yaml:"log"`
	Book      *rawBook      `yaml:"book"`
}

type rawBirthdays struct {
	WindowDays    *int  `yaml:"window_days"`
	ShiftWeekends *bool `yaml:"shift_weekends"`
}

type rawUI struct {
	Mode   *string `yaml:"mode"`
	Prompt *string `yaml:"prompt"`
}

type rawLog struct {
	Level  *string `yaml:"level"`
	File   *string `yaml:"file"`
	Format *string `yaml:"format"`
}

type rawBook struct {
	Seed *string `yaml:"seed"`
}

// loadLayer reads a single config file into a rawConfig for selective merging.
// Returns nil if the file does not exist. Rejects unknown fields.
func loadLayer(path string) (*rawConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if len(data) == 0 {
		return nil, nil
	}

	var raw rawConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return &raw, nil
}

// merge applies non-nil fields from a rawConfig layer onto this Config.
func (c *Config) merge(layer *rawConfig) {
	if layer.Birthdays != nil {
		if layer.Birthdays.WindowDays != nil {
			c.Birthdays.WindowDays = *layer.Birthdays.WindowDays
		}
		if layer.Birthdays.ShiftWeekends != nil {
			c.Birthdays.ShiftWeekends = *layer.Birthdays.ShiftWeekends
		}
	}
	if layer.UI != nil {
		if layer.UI.Mode != nil {
			c.UI.Mode = *layer.UI.Mode
		}
		if layer.UI.Prompt != nil {
			c.UI.Prompt = *layer.UI.Prompt
		}
	}
	if layer.Log != nil {
		if layer.Log.Level != nil {
			c.Log.Level = *layer.Log.Level
		}
		if layer.Log.File != nil {
			c.Log.File = *layer.Log.File
		}
		if layer.Log.Format != nil {
			c.Log.Format = *layer.Log.Format
		}
	}
	if layer.Book != nil {
		if layer.Book.Seed != nil {
			c.Book.Seed = *layer.Book.Seed
		}
	}
}
