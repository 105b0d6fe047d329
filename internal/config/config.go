package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/galmag/internal/covariance"
	"github.com/san-kum/galmag/internal/geom"
	"github.com/san-kum/galmag/internal/gmf"
	"github.com/san-kum/galmag/internal/los"
	"github.com/san-kum/galmag/internal/sampler"
	"github.com/san-kum/galmag/internal/trace"
)

const (
	DefaultModel    = "base"
	DefaultStep     = los.DefaultStep
	DefaultSamples  = sampler.DefaultSamples
	DefaultSeed     = sampler.DefaultSeed
	DefaultMaxSteps = 2000
)

type Config struct {
	Model      string             `yaml:"model"`
	MaxRadius  float64            `yaml:"max_radius"`
	Observer   PositionConfig     `yaml:"observer"`
	Step       float64            `yaml:"step"`
	Samples    int                `yaml:"samples"`
	Seed       uint64             `yaml:"seed"`
	Workers    int                `yaml:"workers"`
	Sightline  SightlineConfig    `yaml:"sightline"`
	Trace      TraceConfig        `yaml:"trace"`
	Parameters map[string]float64 `yaml:"parameters,omitempty"`
	Covariance *CovarianceConfig  `yaml:"covariance,omitempty"`
}

type PositionConfig struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// SightlineConfig is a direction in Galactic coordinates, in degrees.
type SightlineConfig struct {
	L float64 `yaml:"l"`
	B float64 `yaml:"b"`
}

type TraceConfig struct {
	Step      float64 `yaml:"step"`
	MaxSteps  int     `yaml:"max_steps"`
	Backward  bool    `yaml:"backward"`
	Tolerance float64 `yaml:"tolerance,omitempty"`
}

// CovarianceConfig supplies a packed Cholesky factor for models that do not
// ship one, or replaces the shipped one.
type CovarianceConfig struct {
	Indices []string  `yaml:"indices"`
	Factor  []float64 `yaml:"factor"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:     DefaultModel,
		MaxRadius: gmf.DefaultMaxRadius,
		Observer:  PositionConfig{X: los.Sun.X, Y: los.Sun.Y, Z: los.Sun.Z},
		Step:      DefaultStep,
		Samples:   DefaultSamples,
		Seed:      DefaultSeed,
		Trace: TraceConfig{
			Step:     trace.DefaultOptions().Step,
			MaxSteps: DefaultMaxSteps,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
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
	if _, err := gmf.ParseModel(c.Model); err != nil {
		return err
	}
	if c.MaxRadius <= 0 {
		return fmt.Errorf("config: max_radius must be positive, got %g", c.MaxRadius)
	}
	if c.Step <= 0 {
		return fmt.Errorf("config: step must be positive, got %g", c.Step)
	}
	if c.Samples <= 0 {
		return fmt.Errorf("config: samples must be positive, got %d", c.Samples)
	}
	if c.Trace.Step <= 0 || c.Trace.MaxSteps <= 0 {
		return fmt.Errorf("config: trace needs a positive step and max_steps")
	}
	if c.Trace.Tolerance < 0 {
		return fmt.Errorf("config: trace tolerance must not be negative, got %g", c.Trace.Tolerance)
	}
	for name := range c.Parameters {
		if _, err := gmf.ParamByName(name); err != nil {
			return fmt.Errorf("config: parameters: %w (known: %s)", err, strings.Join(gmf.ParamNames(), ", "))
		}
	}
	if c.Covariance != nil {
		for _, name := range c.Covariance.Indices {
			if _, err := gmf.ParamByName(name); err != nil {
				return fmt.Errorf("config: covariance: %w", err)
			}
		}
	}
	return nil
}

func (c *Config) ObserverPos() geom.Vec3 {
	return geom.New(c.Observer.X, c.Observer.Y, c.Observer.Z)
}

// NewField builds the configured model and applies parameter overrides.
func (c *Config) NewField() (*gmf.Field, error) {
	m, err := gmf.ParseModel(c.Model)
	if err != nil {
		return nil, err
	}
	f, err := gmf.New(m, gmf.WithMaxRadius(c.MaxRadius))
	if err != nil {
		return nil, err
	}
	if len(c.Parameters) == 0 {
		return f, nil
	}
	p := f.Parameters()
	for name, v := range c.Parameters {
		idx, err := gmf.ParamByName(name)
		if err != nil {
			return nil, err
		}
		p[idx] = v
	}
	if err := f.SetParameters(p); err != nil {
		return nil, err
	}
	return f, nil
}

// NewCovariance returns the configured factor if one is given, else the one
// shipped for the model.
func (c *Config) NewCovariance() (*covariance.Covariance, error) {
	m, err := gmf.ParseModel(c.Model)
	if err != nil {
		return nil, err
	}
	if c.Covariance == nil {
		return covariance.New(m)
	}
	indices := make([]gmf.Param, len(c.Covariance.Indices))
	for i, name := range c.Covariance.Indices {
		if indices[i], err = gmf.ParamByName(name); err != nil {
			return nil, err
		}
	}
	return covariance.FromFactor(m, c.Covariance.Factor, indices)
}

func (c *Config) SamplerConfig() sampler.Config {
	return sampler.Config{Samples: c.Samples, Seed: c.Seed, Workers: c.Workers}
}

func (c *Config) TraceOptions() trace.Options {
	return trace.Options{
		Step:      c.Trace.Step,
		MaxSteps:  c.Trace.MaxSteps,
		Backward:  c.Trace.Backward,
		Tolerance: c.Trace.Tolerance,
	}
}
