package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration. The adjustment tables are
// loaded once at startup and treated as read-only afterwards.
type Config struct {
	Data struct {
		HistoryFile  string `yaml:"history_file"`
		RecentFile   string `yaml:"recent_file"`
		TemplateFile string `yaml:"template_file"`
	} `yaml:"data"`
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Schedule struct {
		// Cron spec for scheduled forecast snapshots. Empty disables the job.
		SnapshotCron string `yaml:"snapshot_cron"`
	} `yaml:"schedule"`

	// Counties defines the target counties and their canonical output order.
	Counties []string `yaml:"counties"`

	// Seasonal maps an ISO week number to a price multiplier. Weeks not
	// listed here use a neutral factor of 1.0 — that default is part of
	// the table's contract, not a missing-data fallback.
	Seasonal map[int]float64 `yaml:"seasonal_adjustments"`

	// CountyFactors maps each target county to a structural price
	// multiplier (transport cost, urban premium). Unlike the seasonal
	// table there is no default: every target county must be listed.
	CountyFactors map[string]float64 `yaml:"county_factors"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and fills defaults. A missing file is not an error: the
// defaults reproduce the reference forecasting setup.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("AGRICAST_HISTORY_FILE"); v != "" {
		cfg.Data.HistoryFile = v
	}
	if v := os.Getenv("AGRICAST_RECENT_FILE"); v != "" {
		cfg.Data.RecentFile = v
	}
	if v := os.Getenv("AGRICAST_TEMPLATE_FILE"); v != "" {
		cfg.Data.TemplateFile = v
	}
	if v := os.Getenv("AGRICAST_SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("AGRICAST_SNAPSHOT_CRON"); v != "" {
		cfg.Schedule.SnapshotCron = v
	}
	if v := os.Getenv("AGRICAST_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}

	// Defaults
	if cfg.Data.HistoryFile == "" {
		cfg.Data.HistoryFile = "data/agriBORA_maize_prices.csv"
	}
	if cfg.Data.RecentFile == "" {
		cfg.Data.RecentFile = "data/agriBORA_maize_prices_weeks_46_to_51.csv"
	}
	if cfg.Data.TemplateFile == "" {
		cfg.Data.TemplateFile = "data/submission_template.csv"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/agricast.db"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if len(cfg.Counties) == 0 {
		cfg.Counties = []string{"Kiambu", "Kirinyaga", "Mombasa", "Nairobi", "Uasin-Gishu"}
	}
	if len(cfg.Seasonal) == 0 {
		cfg.Seasonal = map[int]float64{
			50: 1.10,
			51: 1.15,
			52: 1.20,
			1:  1.15,
			2:  1.10,
		}
	}
	if len(cfg.CountyFactors) == 0 {
		cfg.CountyFactors = map[string]float64{
			"Kiambu":      1.00,
			"Kirinyaga":   0.98,
			"Mombasa":     0.95,
			"Nairobi":     1.00,
			"Uasin-Gishu": 1.05,
		}
	}

	return cfg, nil
}

// Validate checks the config for contradictions. Every target county must
// carry a county factor: that is a startup-time configuration error, not
// something to surface per forecast request.
func (c *Config) Validate() error {
	if len(c.Counties) == 0 {
		return fmt.Errorf("counties list is empty")
	}
	seen := make(map[string]bool, len(c.Counties))
	for _, county := range c.Counties {
		if county == "" {
			return fmt.Errorf("counties list contains an empty name")
		}
		if seen[county] {
			return fmt.Errorf("county %q listed twice", county)
		}
		seen[county] = true
		if _, ok := c.CountyFactors[county]; !ok {
			return fmt.Errorf("county %q has no county_factors entry", county)
		}
	}
	for county, factor := range c.CountyFactors {
		if factor <= 0 {
			return fmt.Errorf("county_factors[%q] must be positive, got %v", county, factor)
		}
	}
	for week, factor := range c.Seasonal {
		if week < 1 || week > 52 {
			return fmt.Errorf("seasonal_adjustments week %d out of range 1-52", week)
		}
		if factor <= 0 {
			return fmt.Errorf("seasonal_adjustments[%d] must be positive, got %v", week, factor)
		}
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	return nil
}

// SeasonalWeeks returns the documented seasonal week numbers in ascending
// order, for the dashboard's week selector.
func (c *Config) SeasonalWeeks() []int {
	weeks := make([]int, 0, len(c.Seasonal))
	for w := range c.Seasonal {
		weeks = append(weeks, w)
	}
	sort.Ints(weeks)
	return weeks
}
