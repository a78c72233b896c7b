package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"erg-profile/internal/analysis"
)

// Config represents the application configuration
type Config struct {
	Logbook LogbookConfig `json:"logbook"`
	Athlete AthleteConfig `json:"athlete"`
	Display DisplayConfig `json:"display"`
}

// LogbookConfig holds Concept2 Logbook API credentials
type LogbookConfig struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

// AthleteConfig holds athlete-specific baselines
type AthleteConfig struct {
	Baseline2kWatts float64 `json:"baseline_2k_watts"`
	Baseline2kSplit string  `json:"baseline_2k_split"` // e.g. "1:45.0"
	ManualMaxWatts  float64 `json:"manual_max_watts"`
}

// DisplayConfig holds display preferences
type DisplayConfig struct {
	ChartHeight int `json:"chart_height"`
	HistoryDays int `json:"history_days"` // 0 means all history
}

// ErrNoConfig is returned when the config file doesn't exist
var ErrNoConfig = errors.New("config file not found")

const (
	minChartHeight = 4
	maxChartHeight = 30
)

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Display: DisplayConfig{
			ChartHeight: 10,
			HistoryDays: 365,
		},
	}
}

// Baseline2k resolves the fallback 2k reference power. An explicit wattage
// wins over a split; 0 means no baseline.
func (a AthleteConfig) Baseline2k() float64 {
	if a.Baseline2kWatts > 0 {
		return a.Baseline2kWatts
	}
	if pace, ok := analysis.ParsePaceString(a.Baseline2kSplit); ok && pace > 0 {
		return analysis.WattsFromPace(pace)
	}
	return 0
}

// Load reads the configuration from ~/.ergprofile/config.json
func Load() (*Config, error) {
	path, err := getConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile reads the configuration from path and applies defaults
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
	if cfg.Display.ChartHeight == 0 {
		cfg.Display.ChartHeight = defaults.Display.ChartHeight
	}
	if cfg.Display.HistoryDays == 0 {
		cfg.Display.HistoryDays = defaults.Display.HistoryDays
	}

	return &cfg, nil
}

// Save writes the configuration to ~/.ergprofile/config.json
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
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
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
	example.Logbook = LogbookConfig{
		ClientID:     "YOUR_CLIENT_ID",
		ClientSecret: "YOUR_CLIENT_SECRET",
	}
	example.Athlete.Baseline2kSplit = "1:45.0"

	return SaveFile(path, &example)
}

// Validate checks if the config has required fields
func (c *Config) Validate() error {
	if c.Logbook.ClientID == "" || c.Logbook.ClientID == "YOUR_CLIENT_ID" {
		return errors.New("logbook.client_id is required - register an app at https://log.concept2.com/developers")
	}
	if c.Logbook.ClientSecret == "" || c.Logbook.ClientSecret == "YOUR_CLIENT_SECRET" {
		return errors.New("logbook.client_secret is required - register an app at https://log.concept2.com/developers")
	}

	if c.Athlete.Baseline2kWatts < 0 {
		return fmt.Errorf("athlete.baseline_2k_watts must not be negative, got %v", c.Athlete.Baseline2kWatts)
	}
	if c.Athlete.ManualMaxWatts < 0 {
		return fmt.Errorf("athlete.manual_max_watts must not be negative, got %v", c.Athlete.ManualMaxWatts)
	}
	if c.Athlete.Baseline2kSplit != "" {
		pace, ok := analysis.ParsePaceString(c.Athlete.Baseline2kSplit)
		if !ok || !analysis.IsPlausiblePace(pace) {
			return fmt.Errorf("athlete.baseline_2k_split must look like \"1:45.0\", got %q", c.Athlete.Baseline2kSplit)
		}
	}

	if c.Display.ChartHeight != 0 && (c.Display.ChartHeight < minChartHeight || c.Display.ChartHeight > maxChartHeight) {
		return fmt.Errorf("display.chart_height must be between %d and %d, got %d", minChartHeight, maxChartHeight, c.Display.ChartHeight)
	}
	if c.Display.HistoryDays < 0 {
		return fmt.Errorf("display.history_days must not be negative, got %d", c.Display.HistoryDays)
	}

	return nil
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
	return filepath.Join(home, ".ergprofile"), nil
}
