package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"rideintervals/internal/palette"
	"rideintervals/internal/zones"
)

// Config represents the application configuration
type Config struct {
	Athlete AthleteConfig `json:"athlete"`
	Zones   ZonesConfig   `json:"zones"`
	Colors  ColorsConfig  `json:"colors"`
	Data    DataConfig    `json:"data"`
}

// AthleteConfig holds athlete-specific settings
type AthleteConfig struct {
	WeightKG float64 `json:"weight_kg"`
}

// ZonesConfig holds the dated zone ranges
type ZonesConfig struct {
	Power     []PowerRange `json:"power"`
	HeartRate []HRRange    `json:"heart_rate"`
	Pace      []PaceRange  `json:"pace"`
}

// PowerRange is a power zone configuration starting on a date
type PowerRange struct {
	From   Date      `json:"from"`
	CP     float64   `json:"cp"`
	WPrime float64   `json:"w_prime"`
	Zones  []float64 `json:"zones,omitempty"`
}

// HRRange is a heart rate zone configuration starting on a date
type HRRange struct {
	From  Date      `json:"from"`
	LTHR  float64   `json:"lthr"`
	Zones []float64 `json:"zones,omitempty"`
}

// PaceRange is a pace zone configuration starting on a date
type PaceRange struct {
	From  Date      `json:"from"`
	CV    float64   `json:"cv"` // critical velocity, m/s
	Zones []float64 `json:"zones,omitempty"`
}

// ColorsConfig controls ride colors
type ColorsConfig struct {
	Field string      `json:"field"` // metadata tag the color is chosen from
	Rules []ColorRule `json:"rules,omitempty"`
}

// ColorRule maps a keyword in the color field to a hex color
type ColorRule struct {
	Keyword string `json:"keyword"`
	Color   string `json:"color"`
}

// DataConfig holds storage locations
type DataConfig struct {
	Database      string `json:"database"`       // empty means ~/.rideintervals/data.db
	ActivitiesDir string `json:"activities_dir"` // where ride files live
}

// ErrNoConfig is returned when the config file doesn't exist
var ErrNoConfig = errors.New("config file not found")

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Athlete: AthleteConfig{
			WeightKG: 75,
		},
		Colors: ColorsConfig{
			Field: "Workout Code",
		},
	}
}

// Load reads the configuration from ~/.rideintervals/config.json
func Load() (*Config, error) {
	path, err := getConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile reads the configuration from path
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, ErrNoConfig
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply defaults for missing values
	defaults := DefaultConfig()
	if cfg.Athlete.WeightKG == 0 {
		cfg.Athlete.WeightKG = defaults.Athlete.WeightKG
	}
	if cfg.Colors.Field == "" {
		cfg.Colors.Field = defaults.Colors.Field
	}

	return &cfg, nil
}

// Save writes the configuration to ~/.rideintervals/config.json
func Save(cfg *Config) error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}
	return SaveFile(path, cfg)
}

// SaveFile writes the configuration to path
func SaveFile(path string, cfg *Config) error {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// CreateExample creates an example config file if none exists
func CreateExample() error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}

	// Check if config already exists
	if _, err := os.Stat(path); err == nil {
		return nil // Config exists, don't overwrite
	}

	example := DefaultConfig()
	example.Zones.Power = []PowerRange{
		{CP: 250, WPrime: 22000, Zones: []float64{0, 138, 188, 225, 263, 300, 375}},
	}
	example.Colors.Rules = []ColorRule{
		{Keyword: "race", Color: "#d03030"},
		{Keyword: "interval", Color: "#e08020"},
		{Keyword: "recovery", Color: "#30a030"},
	}

	return Save(&example)
}

// Validate checks the config for inconsistent values
func (c *Config) Validate() error {
	if c.Athlete.WeightKG < 0 {
		return fmt.Errorf("athlete.weight_kg must not be negative, got %v", c.Athlete.WeightKG)
	}

	seen := make(map[string]bool)
	for i, r := range c.Zones.Power {
		if r.CP <= 0 {
			return fmt.Errorf("zones.power[%d].cp must be positive, got %v", i, r.CP)
		}
		if r.WPrime <= 0 {
			return fmt.Errorf("zones.power[%d].w_prime must be positive, got %v", i, r.WPrime)
		}
		if seen[r.From.String()] {
			return fmt.Errorf("zones.power has two ranges starting %s", r.From)
		}
		seen[r.From.String()] = true
	}

	for i, r := range c.Colors.Rules {
		if r.Keyword == "" {
			return fmt.Errorf("colors.rules[%d].keyword is required", i)
		}
	}

	return nil
}

// ZoneSet builds the zone tables used for capacity models and fingerprints
func (c *Config) ZoneSet() zones.Set {
	power := make([]zones.Range, len(c.Zones.Power))
	for i, r := range c.Zones.Power {
		power[i] = zones.Range{From: r.From.Time(), CP: r.CP, WPrime: r.WPrime, Boundaries: r.Zones}
	}
	hr := make([]zones.Range, len(c.Zones.HeartRate))
	for i, r := range c.Zones.HeartRate {
		hr[i] = zones.Range{From: r.From.Time(), Threshold: r.LTHR, Boundaries: r.Zones}
	}
	pace := make([]zones.Range, len(c.Zones.Pace))
	for i, r := range c.Zones.Pace {
		pace[i] = zones.Range{From: r.From.Time(), Threshold: r.CV, Boundaries: r.Zones}
	}

	return zones.Set{
		Power:     zones.NewTable("power", power),
		HeartRate: zones.NewTable("hr", hr),
		Pace:      zones.NewTable("pace", pace),
	}
}

// ColorRules returns the color rules for the palette engine
func (c *Config) ColorRules() []palette.Rule {
	rules := make([]palette.Rule, len(c.Colors.Rules))
	for i, r := range c.Colors.Rules {
		rules[i] = palette.Rule{Keyword: r.Keyword, Color: r.Color}
	}
	return rules
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// GetConfigDir returns the path to the config directory
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".rideintervals"), nil
}
