package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"critsim/internal/model"
	"critsim/internal/region"
)

const (
	DefaultTimestepMagnitude = -3
	DefaultInitialNeutrons   = 1e10
	DefaultAmbientTemp       = 300.0 // K
	DefaultSolutionDensity   = 1.161 // g/cm^3, uranyl nitrate
	DefaultTotalHeight       = 53.0  // cm
	DefaultTotalRadius       = 15.0  // cm
	DefaultNumAxial          = 4
	DefaultNumRadial         = 3
	DefaultHeightStep        = 1.0  // cm added per accumulation tick
	DefaultKEffCeiling       = 1.01 // leave accumulation at or above this
	DefaultKEffFloor         = 1.0  // leave expansion at or below this
)

type Config struct {
	Case        string            `yaml:"case"`
	DataDir     string            `yaml:"data_dir"`
	Solver      SolverConfig      `yaml:"solver"`
	Geometry    GeometryConfig    `yaml:"geometry"`
	Physics     PhysicsConfig     `yaml:"physics"`
	Composition CompositionConfig `yaml:"composition"`
}

type SolverConfig struct {
	Executable string  `yaml:"executable"`
	TimeoutSec float64 `yaml:"timeout_s"` // 0 means wait indefinitely
	WorkDir    string  `yaml:"work_dir"`
}

type GeometryConfig struct {
	TotalHeight float64 `yaml:"total_height_cm"`
	TotalRadius float64 `yaml:"total_radius_cm"`
	NumAxial    int     `yaml:"num_axial"`
	NumRadial   int     `yaml:"num_radial"`
	HeightStep  float64 `yaml:"height_step_cm"`
}

type PhysicsConfig struct {
	TimestepMagnitude int     `yaml:"timestep_magnitude"` // dt = 10^mag seconds
	InitialNeutrons   float64 `yaml:"initial_neutrons"`
	AmbientTemp       float64 `yaml:"ambient_temperature_k"`
	SolutionDensity   float64 `yaml:"solution_density_g_cm3"`
	KEffCeiling       float64 `yaml:"keff_ceiling"`
	KEffFloor         float64 `yaml:"keff_floor"`
}

type CompositionConfig struct {
	Nuclides        []string  `yaml:"nuclides"`
	NumberDensities []float64 `yaml:"number_densities"`
}

// DefaultConfig is the reference uranyl nitrate case.
func DefaultConfig() *Config {
	return &Config{
		Case:    "transient",
		DataDir: ".critsim",
		Solver: SolverConfig{
			Executable: "batch6.1",
		},
		Geometry: GeometryConfig{
			TotalHeight: DefaultTotalHeight,
			TotalRadius: DefaultTotalRadius,
			NumAxial:    DefaultNumAxial,
			NumRadial:   DefaultNumRadial,
			HeightStep:  DefaultHeightStep,
		},
		Physics: PhysicsConfig{
			TimestepMagnitude: DefaultTimestepMagnitude,
			InitialNeutrons:   DefaultInitialNeutrons,
			AmbientTemp:       DefaultAmbientTemp,
			SolutionDensity:   DefaultSolutionDensity,
			KEffCeiling:       DefaultKEffCeiling,
			KEffFloor:         DefaultKEffFloor,
		},
		Composition: CompositionConfig{
			Nuclides: []string{"h", "n", "o", "u-234", "u-235", "u-236", "u-238"},
			NumberDensities: []float64{
				6.258e-2, 1.569e-3, 3.576e-2, 1.060e-6, 1.686e-4, 4.350e-7, 1.170e-5,
			},
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrConfiguration, err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrConfiguration, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Case == "" {
		return fmt.Errorf("%w: case name is empty", model.ErrConfiguration)
	}
	if c.Solver.Executable == "" {
		return fmt.Errorf("%w: solver executable not set", model.ErrConfiguration)
	}
	if c.Physics.TimestepMagnitude >= 0 {
		return fmt.Errorf("%w: timestep magnitude %d (expected negative)", model.ErrConfiguration, c.Physics.TimestepMagnitude)
	}
	if c.Physics.InitialNeutrons <= 0 {
		return fmt.Errorf("%w: initiating source %g neutrons", model.ErrConfiguration, c.Physics.InitialNeutrons)
	}
	if c.Physics.SolutionDensity <= 0 {
		return fmt.Errorf("%w: solution density %g g/cm^3", model.ErrConfiguration, c.Physics.SolutionDensity)
	}
	if c.Physics.KEffFloor > c.Physics.KEffCeiling {
		return fmt.Errorf("%w: k-eff floor %g above ceiling %g", model.ErrConfiguration, c.Physics.KEffFloor, c.Physics.KEffCeiling)
	}
	if c.Geometry.HeightStep <= 0 {
		return fmt.Errorf("%w: height step %g cm", model.ErrConfiguration, c.Geometry.HeightStep)
	}
	return c.GridSpec().Validate()
}

// Dt returns the timestep in seconds.
func (c *Config) Dt() float64 {
	return math.Pow(10, float64(c.Physics.TimestepMagnitude))
}

// TimePrecision is the number of decimal places recorded for simulated time,
// derived from the timestep's order of magnitude.
func (c *Config) TimePrecision() int {
	mag := c.Physics.TimestepMagnitude
	if mag < 0 {
		mag = -mag
	}
	return mag + 1
}

func (c *Config) GridSpec() region.Spec {
	return region.Spec{
		Nuclides:        c.Composition.Nuclides,
		NumberDensities: c.Composition.NumberDensities,
		NumAxial:        c.Geometry.NumAxial,
		NumRadial:       c.Geometry.NumRadial,
		TotalHeight:     c.Geometry.TotalHeight,
		TotalRadius:     c.Geometry.TotalRadius,
		AmbientTemp:     c.Physics.AmbientTemp,
	}
}
