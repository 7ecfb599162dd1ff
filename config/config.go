// Package config loads the particle demo configuration: embedded defaults
// overlaid with an optional user YAML file.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

var ErrInvalidConfig = errors.New("invalid config")

const (
	StrategySequential = "sequential"
	StrategyParallel   = "parallel"
	StrategyGPU        = "gpu"
)

const (
	EmitterKindPoint = "point"
	EmitterKindBar   = "bar"
)

type Config struct {
	Window     WindowConfig     `yaml:"window"`
	Simulation SimulationConfig `yaml:"simulation"`
	Region     RegionConfig     `yaml:"region"`
	Transform  TransformConfig  `yaml:"transform"`
	Emitters   []EmitterConfig  `yaml:"emitters"`
	Stats      StatsConfig      `yaml:"stats"`
	Logging    LoggingConfig    `yaml:"logging"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

type SimulationConfig struct {
	MaxParticles int     `yaml:"max_particles"`
	Strategy     string  `yaml:"strategy"`
	DT           float64 `yaml:"dt"`     // 0 = wall-clock
	MaxDT        float64 `yaml:"max_dt"` // clamp for wall-clock steps
	Workers      int     `yaml:"workers"`
}

type RegionConfig struct {
	Corners [][2]float32 `yaml:"corners"`
}

type TransformConfig struct {
	Translate     [2]float32 `yaml:"translate"`
	RotateDeg     float32    `yaml:"rotate_deg"`
	SpinDegPerSec float32    `yaml:"spin_deg_per_sec"`
}

// EmitterConfig is one emitter entry. Point emitters use Center; bar
// emitters use P1, P2 and Direction.
type EmitterConfig struct {
	Kind        string     `yaml:"kind"`
	Center      [2]float32 `yaml:"center"`
	P1          [2]float32 `yaml:"p1"`
	P2          [2]float32 `yaml:"p2"`
	Direction   [2]float32 `yaml:"direction"`
	MinVelocity float32    `yaml:"min_velocity"`
	MaxVelocity float32    `yaml:"max_velocity"`
	Quota       uint32     `yaml:"quota"`
}

type StatsConfig struct {
	ReportIntervalSec float64 `yaml:"report_interval_sec"`
	Window            int     `yaml:"window"`
}

type LoggingConfig struct {
	Prefix string `yaml:"prefix"`
	Debug  bool   `yaml:"debug"`
}

var global *Config

// Init loads configuration into the package-level instance.
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the loaded configuration. Panics before Init.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load parses the embedded defaults, overlays path if non-empty, and
// validates the result. Lists in the user file replace the defaults.
func Load(path string) (*Config, error) {
	cfg, err := Defaults()
	if err != nil {
		return nil, err
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Defaults() (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	return cfg, nil
}

// Validate checks ranges and enum values. Geometry (winding, velocity
// ranges) is validated by the constructors in Build.
func (c *Config) Validate() error {
	if c.Simulation.MaxParticles <= 0 {
		return fmt.Errorf("%w: simulation.max_particles must be positive, got %d", ErrInvalidConfig, c.Simulation.MaxParticles)
	}
	switch c.Simulation.Strategy {
	case StrategySequential, StrategyParallel, StrategyGPU:
	default:
		return fmt.Errorf("%w: unknown simulation.strategy %q", ErrInvalidConfig, c.Simulation.Strategy)
	}
	if c.Simulation.DT < 0 || c.Simulation.MaxDT < 0 {
		return fmt.Errorf("%w: simulation.dt and max_dt must not be negative", ErrInvalidConfig)
	}
	if c.Simulation.Workers < 0 {
		return fmt.Errorf("%w: simulation.workers must not be negative", ErrInvalidConfig)
	}
	for i, e := range c.Emitters {
		if e.Kind != EmitterKindPoint && e.Kind != EmitterKindBar {
			return fmt.Errorf("%w: emitters[%d]: unknown kind %q", ErrInvalidConfig, i, e.Kind)
		}
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size must be positive", ErrInvalidConfig)
	}
	return nil
}
