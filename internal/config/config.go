// Package config is the YAML run configuration: which severities to
// simulate, at what geometric resolution, over how many cycles and frames,
// and where results land. Defaults mirror the built-in clinical presets so
// an empty file is a valid run.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/valveflow/internal/hemo"
	"github.com/san-kum/valveflow/internal/metrics"
	"github.com/san-kum/valveflow/internal/severity"
)

const (
	DefaultResolution     = 64
	DefaultFramesPerCycle = 40
	DefaultCycles         = 1
	DefaultSeedCount      = 12
	DefaultDataDir        = "valveflow_runs"
)

type Config struct {
	Resolution      int      `yaml:"resolution"`
	Severities      []string `yaml:"severities"`
	CycleDuration   float64  `yaml:"cycle_duration"`
	SystoleFraction float64  `yaml:"systole_fraction"`
	Frames          int      `yaml:"frames"`
	Cycles          int      `yaml:"cycles"`
	Workers         int      `yaml:"workers"`
	Seeds           int      `yaml:"seeds"`
	StepBudget      int      `yaml:"step_budget"`
	GridSize        int      `yaml:"grid_size"`
	DataDir         string   `yaml:"data_dir"`
	SeverityFile    string   `yaml:"severity_file"`

	Thresholds metrics.Thresholds `yaml:"thresholds"`
}

func DefaultConfig() *Config {
	c := severity.Default()
	return &Config{
		Resolution:      DefaultResolution,
		Severities:      c.Names(),
		CycleDuration:   hemo.DefaultCycleDuration,
		SystoleFraction: hemo.DefaultSystoleFraction,
		Frames:          DefaultFramesPerCycle,
		Cycles:          DefaultCycles,
		Seeds:           DefaultSeedCount,
		DataDir:         DefaultDataDir,
		Thresholds:      metrics.DefaultThresholds(),
	}
}

// Load reads a YAML config on top of the defaults, so omitted keys keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
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

// Validate reports the first invalid field. Geometry and severity checks
// deeper than range bounds (resolution divisibility, unknown severity names)
// happen where the values are consumed.
func (c *Config) Validate() error {
	if c.Resolution <= 0 {
		return &hemo.ConfigError{Field: "resolution", Reason: fmt.Sprintf("must be positive, got %d", c.Resolution)}
	}
	if len(c.Severities) == 0 {
		return &hemo.ConfigError{Field: "severities", Reason: "at least one severity required"}
	}
	if c.CycleDuration <= 0 {
		return &hemo.ConfigError{Field: "cycle_duration", Reason: fmt.Sprintf("must be positive, got %g", c.CycleDuration)}
	}
	if c.SystoleFraction <= 0 || c.SystoleFraction >= 1 {
		return &hemo.ConfigError{Field: "systole_fraction", Reason: fmt.Sprintf("must be in (0, 1), got %g", c.SystoleFraction)}
	}
	if c.Frames < 2 {
		return &hemo.ConfigError{Field: "frames", Reason: fmt.Sprintf("need at least 2 frames per cycle, got %d", c.Frames)}
	}
	if c.Cycles < 1 {
		return &hemo.ConfigError{Field: "cycles", Reason: fmt.Sprintf("must be positive, got %d", c.Cycles)}
	}
	if c.Seeds < 0 {
		return &hemo.ConfigError{Field: "seeds", Reason: fmt.Sprintf("must be non-negative, got %d", c.Seeds)}
	}
	if c.Workers < 0 {
		return &hemo.ConfigError{Field: "workers", Reason: fmt.Sprintf("must be non-negative, got %d", c.Workers)}
	}
	return nil
}

// Cycle builds the cardiac cycle spec from the timing fields.
func (c *Config) Cycle() hemo.CycleSpec {
	return hemo.CycleSpec{Duration: c.CycleDuration, SystoleFraction: c.SystoleFraction}
}

// Catalog resolves the severity catalog: the built-in presets, or the file
// named by severity_file when set.
func (c *Config) Catalog() (severity.Catalog, error) {
	if c.SeverityFile == "" {
		return severity.Default(), nil
	}
	return severity.Load(c.SeverityFile)
}
