// Package kinematics maps cycle time and severity to an opening fraction
// and a per-vertex deformation of the base geometry.
//
// The deformation here is PRESCRIBED motion, not physics: leaflets retract
// radially toward the lumen center by a hand-authored formula. It stands in
// for the coupled elastic deformation the external FSI solver would derive
// from fluid forces. The [Deformer] interface exists so a force-driven
// implementation can replace [PrescribedRadial] without touching geometry or
// flow-field code.
package kinematics

import (
	"math"

	"github.com/san-kum/valveflow/internal/geometry"
	"github.com/san-kum/valveflow/internal/hemo"
	"github.com/san-kum/valveflow/internal/severity"
)

// DisplacementScale bounds how far the prescribed retraction pulls a vertex
// inward at full opening.
const DisplacementScale = 0.3

// OpeningFraction returns the valve opening at time t for a severity.
// During systole the opening follows a half-sine up to the profile maximum;
// during diastole the valve sits at the small residual leak opening.
// The result is always within [0, p.MaxOpening] for t in systole and equals
// hemo.ResidualOpening in diastole.
func OpeningFraction(t float64, p severity.Profile, cyc hemo.CycleSpec) float64 {
	w := cyc.Wrap(t)
	sd := cyc.SystoleDuration()
	if w < sd {
		return p.MaxOpening * math.Sin(math.Pi*w/sd)
	}
	return hemo.ResidualOpening
}

// State derives the full per-frame cycle state for a severity.
func State(t float64, p severity.Profile, cyc hemo.CycleSpec) hemo.CycleState {
	return hemo.CycleState{
		T:       cyc.Wrap(t),
		Phase:   cyc.PhaseAt(t),
		Opening: OpeningFraction(t, p, cyc),
	}
}

// Deformer produces a deformed copy of a base geometry's vertices for an
// opening fraction. Implementations never mutate the base geometry.
type Deformer interface {
	Deform(base *geometry.ValveGeometry, opening float64) []geometry.Vertex
}

// PrescribedRadial is the hand-authored retraction strategy: a vertex at
// radius r moves inward by the fraction opening·(1 − r/r_max)·Scale. Points
// at the outermost radius stay fixed while points nearest the lumen center
// retract the most, widening the orifice.
type PrescribedRadial struct {
	Scale float64
}

// NewPrescribedRadial returns the default prescribed-motion deformer.
func NewPrescribedRadial() *PrescribedRadial {
	return &PrescribedRadial{Scale: DisplacementScale}
}

func (d *PrescribedRadial) Deform(base *geometry.ValveGeometry, opening float64) []geometry.Vertex {
	rmax := base.MaxRadius()
	out := make([]geometry.Vertex, len(base.Vertices))
	for i, v := range base.Vertices {
		dr := 0.0
		if rmax > 0 {
			dr = opening * (1 - v.Radius()/rmax) * d.Scale
		}
		out[i] = geometry.Vertex{ID: v.ID, X: v.X * (1 - dr), Y: v.Y * (1 - dr)}
	}
	return out
}
