// Package severity holds the disease-severity catalog: named presets for
// valve material properties and hemodynamic scales. The catalog is loaded
// once at startup and read-only for the process lifetime; components receive
// profiles by value.
package severity

import (
	"fmt"
	"sort"

	"github.com/san-kum/valveflow/internal/hemo"
)

// Profile is one immutable severity preset. Multipliers scale the base
// material constants of the geometry generator; the remaining fields drive
// kinematics, the flow field, and the metric scales.
type Profile struct {
	Name                 string  `yaml:"name"`
	StiffnessMult        float64 `yaml:"stiffness_mult"`
	RigidityMult         float64 `yaml:"rigidity_mult"`
	LeafletLengthFrac    float64 `yaml:"leaflet_length_frac"`
	MobilityFrac         float64 `yaml:"mobility_frac"`
	MaxOpening           float64 `yaml:"max_opening"`
	PeakVelocityCmS      float64 `yaml:"peak_velocity_cm_s"`
	PressureGradientMmHg float64 `yaml:"pressure_gradient_scale_mmhg"`
	ResistanceCoeff      float64 `yaml:"resistance_coeff"`
}

// Validate checks the profile fields that later code divides by or uses as
// fractions.
func (p Profile) Validate() error {
	if p.Name == "" {
		return &hemo.ConfigError{Field: "severity.name", Reason: "must not be empty"}
	}
	if p.MaxOpening <= 0 || p.MaxOpening > 1 {
		return &hemo.ConfigError{Field: "severity.max_opening", Reason: fmt.Sprintf("must be in (0, 1], got %g (%s)", p.MaxOpening, p.Name)}
	}
	if p.LeafletLengthFrac <= 0 || p.LeafletLengthFrac > 1 {
		return &hemo.ConfigError{Field: "severity.leaflet_length_frac", Reason: fmt.Sprintf("must be in (0, 1], got %g (%s)", p.LeafletLengthFrac, p.Name)}
	}
	if p.StiffnessMult <= 0 || p.RigidityMult <= 0 {
		return &hemo.ConfigError{Field: "severity.stiffness_mult", Reason: fmt.Sprintf("material multipliers must be positive (%s)", p.Name)}
	}
	if p.ResistanceCoeff < 0 {
		return &hemo.ConfigError{Field: "severity.resistance_coeff", Reason: fmt.Sprintf("must be non-negative, got %g (%s)", p.ResistanceCoeff, p.Name)}
	}
	return nil
}

// Catalog is an immutable set of named profiles.
type Catalog struct {
	profiles map[string]Profile
}

// Default returns the built-in four-grade catalog. Material multipliers are
// relative to the geometry base constants (500 dyne/cm, 0.01 dyne·cm²).
func Default() Catalog {
	return newCatalog([]Profile{
		{
			Name: "healthy", StiffnessMult: 1.0, RigidityMult: 1.0,
			LeafletLengthFrac: 1.0, MobilityFrac: 1.0, MaxOpening: 0.9,
			PeakVelocityCmS: 120, PressureGradientMmHg: 5, ResistanceCoeff: 1.0,
		},
		{
			Name: "mild", StiffnessMult: 1.6, RigidityMult: 2.0,
			LeafletLengthFrac: 0.95, MobilityFrac: 0.9, MaxOpening: 0.8,
			PeakVelocityCmS: 250, PressureGradientMmHg: 15, ResistanceCoeff: 1.5,
		},
		{
			Name: "moderate", StiffnessMult: 3.0, RigidityMult: 5.0,
			LeafletLengthFrac: 0.85, MobilityFrac: 0.7, MaxOpening: 0.65,
			PeakVelocityCmS: 350, PressureGradientMmHg: 30, ResistanceCoeff: 2.5,
		},
		{
			Name: "severe", StiffnessMult: 6.0, RigidityMult: 10.0,
			LeafletLengthFrac: 0.7, MobilityFrac: 0.4, MaxOpening: 0.4,
			PeakVelocityCmS: 500, PressureGradientMmHg: 50, ResistanceCoeff: 5.0,
		},
	})
}

func newCatalog(profiles []Profile) Catalog {
	m := make(map[string]Profile, len(profiles))
	for _, p := range profiles {
		m[p.Name] = p
	}
	return Catalog{profiles: m}
}

// Get returns the named profile. An unknown name is an error, never a
// default.
func (c Catalog) Get(name string) (Profile, error) {
	p, ok := c.profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q (available: %v)", hemo.ErrUnknownSeverity, name, c.Names())
	}
	return p, nil
}

// Names lists the catalog entries in sorted order.
func (c Catalog) Names() []string {
	names := make([]string, 0, len(c.profiles))
	for name := range c.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len reports the number of presets.
func (c Catalog) Len() int { return len(c.profiles) }
