package config

import "sort"

// Presets are named starting points for the run command.
var Presets = map[string]func() *Config{
	// Tokaimura-like uranyl nitrate solution, small initiating source.
	"reference": DefaultConfig,

	// Same geometry with a large initiating-accident source.
	"high-source": func() *Config {
		cfg := DefaultConfig()
		cfg.Physics.InitialNeutrons = 1e16
		return cfg
	},

	// Narrower vessel, reaches the ceiling after more material addition.
	"tall-column": func() *Config {
		cfg := DefaultConfig()
		cfg.Geometry.TotalHeight = 80
		cfg.Geometry.TotalRadius = 12
		return cfg
	},
}

// GetPreset returns a fresh config for the named preset, nil if unknown.
func GetPreset(name string) *Config {
	mk, ok := Presets[name]
	if !ok {
		return nil
	}
	return mk()
}

// ListPresets returns the available preset names.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
