package kinematics

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/san-kum/valveflow/internal/geometry"
	"github.com/san-kum/valveflow/internal/hemo"
	"github.com/san-kum/valveflow/internal/severity"
)

// Invariants that must hold for any cycle time, severity, and opening, not
// just the hand-picked cases in the unit tests.
func TestKinematicInvariants(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping property-based test in short mode")
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)
	catalog := severity.Default()
	cyc := hemo.DefaultCycle()

	properties.Property("opening stays within the profile bound", prop.ForAll(
		func(tm float64, name string) bool {
			p, err := catalog.Get(name)
			if err != nil {
				return false
			}
			o := OpeningFraction(tm, p, cyc)
			return o >= 0 && o <= p.MaxOpening+1e-9
		},
		gen.Float64Range(-10, 10),
		gen.OneConstOf("healthy", "mild", "moderate", "severe"),
	))

	properties.Property("opening repeats every cycle", prop.ForAll(
		func(tm float64, name string) bool {
			p, err := catalog.Get(name)
			if err != nil {
				return false
			}
			a := OpeningFraction(tm, p, cyc)
			b := OpeningFraction(tm+cyc.Duration, p, cyc)
			return abs(a-b) < 1e-9
		},
		gen.Float64Range(0, 5),
		gen.OneConstOf("healthy", "mild", "moderate", "severe"),
	))

	properties.Property("deformation never moves a vertex outward", prop.ForAll(
		func(mult int, opening float64, name string) bool {
			p, err := catalog.Get(name)
			if err != nil {
				return false
			}
			base, err := geometry.Generate(8*mult, p)
			if err != nil {
				return false
			}
			out := NewPrescribedRadial().Deform(base, opening)
			if len(out) != len(base.Vertices) {
				return false
			}
			for i := range out {
				if out[i].Radius() > base.Vertices[i].Radius()+1e-9 {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 4),
		gen.Float64Range(0, 1),
		gen.OneConstOf("healthy", "severe"),
	))

	properties.Property("generation is deterministic", prop.ForAll(
		func(mult int, name string) bool {
			p, err := catalog.Get(name)
			if err != nil {
				return false
			}
			a, errA := geometry.Generate(8*mult, p)
			b, errB := geometry.Generate(8*mult, p)
			if errA != nil || errB != nil {
				return false
			}
			if len(a.Vertices) != len(b.Vertices) {
				return false
			}
			for i := range a.Vertices {
				if a.Vertices[i] != b.Vertices[i] {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 6),
		gen.OneConstOf("healthy", "mild", "moderate", "severe"),
	))

	properties.TestingRun(t)
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
