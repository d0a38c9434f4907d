package flow

import (
	"math"

	"github.com/san-kum/valveflow/internal/hemo"
	"github.com/san-kum/valveflow/internal/severity"
)

// Flow-field constants, in cm/s and cm. The throat coefficient divided by
// the opening fraction encodes mass conservation: a narrower effective
// orifice carries the same volumetric flow at higher speed.
const (
	upstreamCoeff   = 50.0  // upstream ramp peak, cm/s
	throatCoeff     = 100.0 // jet coefficient, cm/s (divided by opening)
	upstreamLength  = 4.0   // ramp length scale, cm
	downstreamDecay = 3.0   // jet decay length, cm
	transverseCoeff = 10.0  // focusing strength of the transverse component
	jetMaskScale    = 1.2   // jet footprint radius per unit opening, cm
	maskAttenuation = 0.3   // velocity factor outside the jet footprint
	backflowCoeff   = 5.0   // diastolic backflow magnitude, cm/s

	// Bernoulli pressure mapping: P = base − ½·ρ·|v|²·(dyn/cm² → mmHg).
	bloodDensity   = 1.06 // g/cm³
	basePressure   = 80.0 // mmHg
	mmHgConversion = 0.0075
)

// Field is one frame's velocity and pressure sample set. U, V, P are flat
// row-major arrays over the grid; they are written once at evaluation and
// read-only afterwards.
type Field struct {
	Grid    *Grid
	U, V, P []float64
	T       float64
	Phase   hemo.Phase
}

// Evaluate computes the field at cycle time t. opening is the instantaneous
// opening fraction from the kinematics model; during systole it is floored
// at hemo.ResidualOpening before the throat division, so the jet term stays
// finite at the systolic endpoints (a recoverable clamp, not an error).
func Evaluate(grid *Grid, t float64, opening float64, p severity.Profile, cyc hemo.CycleSpec) *Field {
	n := grid.NX * grid.NY
	f := &Field{
		Grid:  grid,
		U:     make([]float64, n),
		V:     make([]float64, n),
		P:     make([]float64, n),
		T:     cyc.Wrap(t),
		Phase: cyc.PhaseAt(t),
	}

	if f.Phase == hemo.Systole {
		f.evaluateSystole(opening, p, cyc)
	} else {
		f.evaluateDiastole()
	}

	for i := 0; i < n; i++ {
		speed2 := f.U[i]*f.U[i] + f.V[i]*f.V[i]
		f.P[i] = basePressure - 0.5*bloodDensity*speed2*mmHgConversion
	}
	return f
}

func (f *Field) evaluateSystole(opening float64, p severity.Profile, cyc hemo.CycleSpec) {
	strength := math.Sin(math.Pi * f.T / cyc.SystoleDuration())
	if opening < hemo.ResidualOpening {
		opening = hemo.ResidualOpening
	}
	dissipation := 1.0 / (1.0 + p.ResistanceCoeff)
	maskRadius := jetMaskScale * opening

	g := f.Grid
	for iy := 0; iy < g.NY; iy++ {
		y := g.Y[iy]
		for ix := 0; ix < g.NX; ix++ {
			x := g.X[ix]
			i := g.Index(ix, iy)

			var u float64
			switch {
			case x < 0:
				// Accelerating approach toward the valve plane.
				u = strength * upstreamCoeff * (1 + x/upstreamLength)
			case x > 0:
				// Jet expansion: exponential decay off the throat value,
				// attenuated by turbulent dissipation.
				u = strength * throatCoeff / opening * math.Exp(-x/downstreamDecay) * dissipation
			default:
				u = strength * throatCoeff / opening
			}

			// Transverse focusing toward the centerline, fading downstream.
			v := -y * strength * transverseCoeff * math.Exp(-x*x/4)

			// Outside the jet footprint (and past the upstream reservoir)
			// only a fraction of the velocity survives.
			r := math.Hypot(x, y)
			if !(r < maskRadius || x < -1) {
				u *= maskAttenuation
				v *= maskAttenuation
			}

			f.U[i] = u
			f.V[i] = v
		}
	}
}

func (f *Field) evaluateDiastole() {
	g := f.Grid
	for iy := 0; iy < g.NY; iy++ {
		y := g.Y[iy]
		for ix := 0; ix < g.NX; ix++ {
			x := g.X[ix]
			r2 := x*x + y*y
			f.U[g.Index(ix, iy)] = -backflowCoeff * math.Exp(-r2/2)
		}
	}
}

// Speed returns |v| at a grid sample.
func (f *Field) Speed(ix, iy int) float64 {
	i := f.Grid.Index(ix, iy)
	return math.Hypot(f.U[i], f.V[i])
}

// MaxSpeed scans the grid for the peak speed.
func (f *Field) MaxSpeed() float64 {
	max := 0.0
	for i := range f.U {
		if s := math.Hypot(f.U[i], f.V[i]); s > max {
			max = s
		}
	}
	return max
}

// Sample bilinearly interpolates velocity at an arbitrary point. ok is
// false when the point is outside the grid domain.
func (f *Field) Sample(x, y float64) (u, v float64, ok bool) {
	ix, iy, fx, fy, ok := f.Grid.Cell(x, y)
	if !ok {
		return 0, 0, false
	}
	u = f.bilinear(f.U, ix, iy, fx, fy)
	v = f.bilinear(f.V, ix, iy, fx, fy)
	return u, v, true
}

// PressureAt bilinearly interpolates pressure; returns the base pressure
// outside the domain.
func (f *Field) PressureAt(x, y float64) float64 {
	ix, iy, fx, fy, ok := f.Grid.Cell(x, y)
	if !ok {
		return basePressure
	}
	return f.bilinear(f.P, ix, iy, fx, fy)
}

// BasePressure is the baseline used by the Bernoulli mapping, in mmHg.
func BasePressure() float64 { return basePressure }

func (f *Field) bilinear(a []float64, ix, iy int, fx, fy float64) float64 {
	g := f.Grid
	a00 := a[g.Index(ix, iy)]
	a10 := a[g.Index(ix+1, iy)]
	a01 := a[g.Index(ix, iy+1)]
	a11 := a[g.Index(ix+1, iy+1)]
	return a00*(1-fx)*(1-fy) + a10*fx*(1-fy) + a01*(1-fx)*fy + a11*fx*fy
}
