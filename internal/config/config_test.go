package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load with missing file: %v", err)
	}
	if len(c.Counties) != 5 {
		t.Errorf("Counties = %v, want 5 defaults", c.Counties)
	}
	if c.Counties[0] != "Kiambu" || c.Counties[4] != "Uasin-Gishu" {
		t.Errorf("county order = %v", c.Counties)
	}
	if c.Seasonal[52] != 1.20 {
		t.Errorf("Seasonal[52] = %v, want 1.20", c.Seasonal[52])
	}
	if c.CountyFactors["Mombasa"] != 0.95 {
		t.Errorf("CountyFactors[Mombasa] = %v, want 0.95", c.CountyFactors["Mombasa"])
	}
	if c.Server.Port != 8080 {
		t.Errorf("Port = %d, want 8080", c.Server.Port)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  port: 9090
counties: ["Nairobi", "Mombasa"]
county_factors:
  Nairobi: 1.0
  Mombasa: 0.95
seasonal_adjustments:
  50: 1.1
`
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("AGRICAST_HISTORY_FILE", "/tmp/hist.csv")

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Server.Port != 9090 {
		t.Errorf("Port = %d, want 9090", c.Server.Port)
	}
	if len(c.Counties) != 2 || c.Counties[0] != "Nairobi" {
		t.Errorf("Counties = %v", c.Counties)
	}
	if c.Data.HistoryFile != "/tmp/hist.csv" {
		t.Errorf("HistoryFile = %q, env override lost", c.Data.HistoryFile)
	}
	// Unset fields still fall back to defaults.
	if c.Data.RecentFile == "" {
		t.Error("RecentFile default missing")
	}
}

func TestValidate_MissingCountyFactor(t *testing.T) {
	c, _ := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	delete(c.CountyFactors, "Kirinyaga")
	if err := c.Validate(); err == nil {
		t.Fatal("expected validation error for county without factor")
	}
}

func TestValidate_BadSeasonalWeek(t *testing.T) {
	c, _ := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	c.Seasonal[53] = 1.3
	if err := c.Validate(); err == nil {
		t.Fatal("expected validation error for week 53")
	}
}

func TestSeasonalWeeks_Sorted(t *testing.T) {
	c, _ := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	weeks := c.SeasonalWeeks()
	want := []int{1, 2, 50, 51, 52}
	if len(weeks) != len(want) {
		t.Fatalf("weeks = %v", weeks)
	}
	for i := range want {
		if weeks[i] != want[i] {
			t.Errorf("weeks = %v, want %v", weeks, want)
			break
		}
	}
}
