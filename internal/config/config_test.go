package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"critsim/internal/model"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Physics.KEffCeiling != 1.01 || cfg.Physics.KEffFloor != 1.0 {
		t.Errorf("thresholds = %v/%v", cfg.Physics.KEffCeiling, cfg.Physics.KEffFloor)
	}
	if len(cfg.Composition.Nuclides) != len(cfg.Composition.NumberDensities) {
		t.Error("composition arrays must be parallel")
	}
}

func TestDtAndPrecision(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.Dt(); math.Abs(got-1e-3) > 1e-18 {
		t.Errorf("dt = %v, want 1e-3", got)
	}
	if got := cfg.TimePrecision(); got != 4 {
		t.Errorf("time precision = %d, want 4", got)
	}

	cfg.Physics.TimestepMagnitude = -5
	if got := cfg.Dt(); math.Abs(got-1e-5) > 1e-18 {
		t.Errorf("dt = %v, want 1e-5", got)
	}
	if got := cfg.TimePrecision(); got != 6 {
		t.Errorf("time precision = %d, want 6", got)
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty case", func(c *Config) { c.Case = "" }},
		{"no solver", func(c *Config) { c.Solver.Executable = "" }},
		{"non-negative magnitude", func(c *Config) { c.Physics.TimestepMagnitude = 0 }},
		{"zero source", func(c *Config) { c.Physics.InitialNeutrons = 0 }},
		{"zero density", func(c *Config) { c.Physics.SolutionDensity = 0 }},
		{"floor above ceiling", func(c *Config) { c.Physics.KEffFloor = 1.05 }},
		{"zero height step", func(c *Config) { c.Geometry.HeightStep = 0 }},
		{"bad grid shape", func(c *Config) { c.Geometry.NumAxial = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, model.ErrConfiguration) {
				t.Errorf("expected configuration error, got %v", err)
			}
		})
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "case.yaml")
	data := []byte("case: tokai\nphysics:\n  initial_neutrons: 1e16\n  keff_ceiling: 1.02\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Case != "tokai" {
		t.Errorf("case = %q", cfg.Case)
	}
	if cfg.Physics.InitialNeutrons != 1e16 {
		t.Errorf("initial neutrons = %v", cfg.Physics.InitialNeutrons)
	}
	if cfg.Physics.KEffCeiling != 1.02 {
		t.Errorf("ceiling = %v", cfg.Physics.KEffCeiling)
	}
	// Untouched fields keep their defaults.
	if cfg.Geometry.TotalHeight != DefaultTotalHeight {
		t.Errorf("total height = %v", cfg.Geometry.TotalHeight)
	}
}

func TestLoadRejectsMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does-not-exist.yaml")
	if _, err := Load(path); !errors.Is(err, model.ErrConfiguration) {
		t.Errorf("expected configuration error for missing file, got %v", err)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("case: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, model.ErrConfiguration) {
		t.Errorf("expected configuration error, got %v", err)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved.yaml")
	cfg := DefaultConfig()
	cfg.Physics.InitialNeutrons = 5e12

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Physics.InitialNeutrons != 5e12 {
		t.Errorf("initial neutrons = %v", loaded.Physics.InitialNeutrons)
	}
}

func TestPresets(t *testing.T) {
	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for unknown preset")
	}

	high := GetPreset("high-source")
	if high == nil {
		t.Fatal("expected high-source preset")
	}
	if high.Physics.InitialNeutrons != 1e16 {
		t.Errorf("high-source neutrons = %v", high.Physics.InitialNeutrons)
	}
	if err := high.Validate(); err != nil {
		t.Errorf("preset invalid: %v", err)
	}

	names := ListPresets()
	if len(names) == 0 {
		t.Fatal("expected presets")
	}
	for _, name := range names {
		if cfg := GetPreset(name); cfg == nil {
			t.Errorf("preset %q not constructible", name)
		} else if err := cfg.Validate(); err != nil {
			t.Errorf("preset %q invalid: %v", name, err)
		}
	}
}
