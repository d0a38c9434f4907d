package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/valveflow/internal/hemo"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, []string{"healthy", "mild", "moderate", "severe"}, cfg.Severities)
	assert.InDelta(t, hemo.DefaultCycleDuration, cfg.CycleDuration, 1e-12)

	cyc := cfg.Cycle()
	require.NoError(t, cyc.Validate())

	catalog, err := cfg.Catalog()
	require.NoError(t, err)
	assert.Equal(t, 4, catalog.Len())
}

func TestValidateFields(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *Config)
		wantField string
	}{
		{"resolution", func(c *Config) { c.Resolution = 0 }, "resolution"},
		{"severities", func(c *Config) { c.Severities = nil }, "severities"},
		{"cycle duration", func(c *Config) { c.CycleDuration = -1 }, "cycle_duration"},
		{"systole fraction low", func(c *Config) { c.SystoleFraction = 0 }, "systole_fraction"},
		{"systole fraction high", func(c *Config) { c.SystoleFraction = 1 }, "systole_fraction"},
		{"frames", func(c *Config) { c.Frames = 1 }, "frames"},
		{"cycles", func(c *Config) { c.Cycles = 0 }, "cycles"},
		{"seeds", func(c *Config) { c.Seeds = -1 }, "seeds"},
		{"workers", func(c *Config) { c.Workers = -2 }, "workers"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)

			var cfgErr *hemo.ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.wantField, cfgErr.Field)
		})
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")

	cfg := DefaultConfig()
	cfg.Resolution = 32
	cfg.Severities = []string{"healthy", "severe"}
	cfg.Workers = 2
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("resolution: 32\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 32, cfg.Resolution)
	assert.Equal(t, DefaultFramesPerCycle, cfg.Frames)
	assert.Equal(t, DefaultDataDir, cfg.DataDir)
	assert.Len(t, cfg.Severities, 4)
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("frames: 1\n"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, hemo.IsConfig(err))
}

func TestCatalogFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "severities.yaml")
	data := `severities:
  - name: custom
    stiffness_mult: 1.0
    rigidity_mult: 1.0
    leaflet_length_frac: 1.0
    mobility_frac: 1.0
    max_opening: 0.5
    peak_velocity_cm_s: 200
    pressure_gradient_scale_mmhg: 10
    resistance_coeff: 1.0
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg := DefaultConfig()
	cfg.SeverityFile = path
	catalog, err := cfg.Catalog()
	require.NoError(t, err)
	assert.Equal(t, 1, catalog.Len())
}
