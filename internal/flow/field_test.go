package flow

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/valveflow/internal/hemo"
	"github.com/san-kum/valveflow/internal/severity"
)

// oddGrid includes x=0 as an exact sample, so the throat column is directly
// observable.
func oddGrid(t *testing.T) *Grid {
	t.Helper()
	g, err := NewGrid(81, -DefaultGridExtent, DefaultGridExtent)
	require.NoError(t, err)
	return g
}

func midSystole(cyc hemo.CycleSpec) float64 { return cyc.SystoleDuration() / 2 }

func TestThroatVelocityMassConservation(t *testing.T) {
	cyc := hemo.DefaultCycle()
	grid := oddGrid(t)
	healthy, _ := severity.Default().Get("healthy")
	severe, _ := severity.Default().Get("severe")

	tm := midSystole(cyc)
	fh := Evaluate(grid, tm, healthy.MaxOpening, healthy, cyc)
	fs := Evaluate(grid, tm, severe.MaxOpening, severe, cyc)

	uh, _, ok := fh.Sample(0, 0)
	require.True(t, ok)
	us, _, ok := fs.Sample(0, 0)
	require.True(t, ok)

	// Narrower orifice, faster jet at the throat.
	assert.Greater(t, us, uh)
	assert.InDelta(t, 100/healthy.MaxOpening, uh, 1e-6)
	assert.InDelta(t, 100/severe.MaxOpening, us, 1e-6)
}

func TestBernoulliPressure(t *testing.T) {
	cyc := hemo.DefaultCycle()
	grid := oddGrid(t)
	p, _ := severity.Default().Get("healthy")

	f := Evaluate(grid, midSystole(cyc), p.MaxOpening, p, cyc)

	// Stagnant corner sits at base pressure; the throat is below it.
	assert.Less(t, f.PressureAt(0, 0), BasePressure())
	for i := range f.P {
		assert.LessOrEqual(t, f.P[i], BasePressure()+1e-9)
	}

	// Pressure outside the domain reads as baseline.
	assert.InDelta(t, BasePressure(), f.PressureAt(100, 0), 1e-12)
}

func TestDiastoleBackflow(t *testing.T) {
	cyc := hemo.DefaultCycle()
	grid := oddGrid(t)
	p, _ := severity.Default().Get("healthy")

	f := Evaluate(grid, cyc.SystoleDuration()+0.1, hemo.ResidualOpening, p, cyc)
	require.Equal(t, hemo.Diastole, f.Phase)

	for i := range f.U {
		assert.LessOrEqual(t, f.U[i], 0.0)
		assert.Zero(t, f.V[i])
	}
	u, v, ok := f.Sample(0, 0)
	require.True(t, ok)
	assert.InDelta(t, -5.0, u, 1e-9)
	assert.Zero(t, v)
}

func TestOpeningFloorKeepsFieldFinite(t *testing.T) {
	cyc := hemo.DefaultCycle()
	grid := oddGrid(t)
	p, _ := severity.Default().Get("severe")

	// Opening 0 at the systolic start would divide by zero without the floor.
	f := Evaluate(grid, 0, 0, p, cyc)
	for i := range f.U {
		assert.False(t, math.IsNaN(f.U[i]) || math.IsInf(f.U[i], 0))
		assert.False(t, math.IsNaN(f.P[i]) || math.IsInf(f.P[i], 0))
	}
}

func TestJetMaskAttenuation(t *testing.T) {
	cyc := hemo.DefaultCycle()
	grid := oddGrid(t)
	severe, _ := severity.Default().Get("severe")

	f := Evaluate(grid, midSystole(cyc), severe.MaxOpening, severe, cyc)

	// Severe jet footprint radius is 1.2·0.4 = 0.48 cm: a downstream point
	// just off-axis at the same x runs much slower than the on-axis jet.
	inJet, _, ok := f.Sample(0.2, 0)
	require.True(t, ok)
	outJet, _, ok := f.Sample(0.2, 1.0)
	require.True(t, ok)
	assert.Greater(t, inJet, 3*outJet)

	// Upstream reservoir (x < -1) is exempt from the mask.
	farUp, _, ok := f.Sample(-3, 2)
	require.True(t, ok)
	nearUp, _, ok := f.Sample(-3, 0)
	require.True(t, ok)
	assert.InDelta(t, nearUp, farUp, 1e-9)
}

func TestMaxSpeed(t *testing.T) {
	cyc := hemo.DefaultCycle()
	grid := oddGrid(t)
	p, _ := severity.Default().Get("mild")

	f := Evaluate(grid, midSystole(cyc), p.MaxOpening, p, cyc)
	max := f.MaxSpeed()
	assert.Greater(t, max, 0.0)
	for iy := 0; iy < grid.NY; iy++ {
		for ix := 0; ix < grid.NX; ix++ {
			assert.LessOrEqual(t, f.Speed(ix, iy), max+1e-12)
		}
	}
}

func TestSampleOutsideDomain(t *testing.T) {
	cyc := hemo.DefaultCycle()
	p, _ := severity.Default().Get("healthy")
	f := Evaluate(oddGrid(t), midSystole(cyc), p.MaxOpening, p, cyc)

	_, _, ok := f.Sample(DefaultGridExtent+0.1, 0)
	assert.False(t, ok)
	_, _, ok = f.Sample(0, -DefaultGridExtent-0.1)
	assert.False(t, ok)

	// The boundary itself is inside.
	_, _, ok = f.Sample(DefaultGridExtent, DefaultGridExtent)
	assert.True(t, ok)
}

func TestNewGridValidation(t *testing.T) {
	_, err := NewGrid(1, -4, 4)
	require.Error(t, err)
	assert.True(t, hemo.IsConfig(err))

	_, err = NewGrid(10, 4, -4)
	require.Error(t, err)

	g, err := NewGrid(5, -1, 1)
	require.NoError(t, err)
	assert.InDelta(t, -1, g.X[0], 1e-12)
	assert.InDelta(t, 0, g.X[2], 1e-12)
	assert.InDelta(t, 1, g.X[4], 1e-12)
	assert.Equal(t, 7, g.Index(2, 1))
}
