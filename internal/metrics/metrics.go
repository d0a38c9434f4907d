// Package metrics derives scalar hemodynamic quantities from the geometry
// and flow field of a frame, plus the threshold-table severity grading used
// for clinical reporting. All computations are pure functions of their
// inputs; cross-frame aggregation lives with the frame sequencer's fold.
package metrics

import (
	"github.com/san-kum/valveflow/internal/flow"
	"github.com/san-kum/valveflow/internal/geometry"
	"github.com/san-kum/valveflow/internal/severity"
)

// Fixed probe points straddling the valve plane, in cm: one in the upstream
// reservoir, one inside the jet just past the throat.
const (
	UpstreamProbeX   = -2.0
	DownstreamProbeX = 0.5
)

// Sample is the per-frame metric record for one severity. Append-only;
// aggregates are folds over a sample sequence.
type Sample struct {
	Severity         string
	T                float64
	Opening          float64
	PeakVelocity     float64 // cm/s, max |v| over the grid
	PressureGradient float64 // mmHg, upstream probe minus downstream probe
	EOA              float64 // cm², effective orifice area
	CardiacOutput    float64 // L/min, instantaneous volumetric rate
}

// Compute derives the frame metrics. The effective orifice area is the
// convex-hull footprint of the base geometry scaled by the relative opening
// (a simplification of the true vena-contracta calculation): at full opening
// it equals the hull area itself.
func Compute(f *flow.Field, base *geometry.ValveGeometry, opening float64, p severity.Profile) Sample {
	eoa := 0.0
	if p.MaxOpening > 0 {
		eoa = base.HullArea() * opening / p.MaxOpening
	}
	peak := f.MaxSpeed()
	return Sample{
		Severity:         p.Name,
		T:                f.T,
		Opening:          opening,
		PeakVelocity:     peak,
		PressureGradient: f.PressureAt(UpstreamProbeX, 0) - f.PressureAt(DownstreamProbeX, 0),
		EOA:              eoa,
		CardiacOutput:    peak * AssumedCrossSection * 60 / 1000,
	}
}
