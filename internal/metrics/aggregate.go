package metrics

import (
	"github.com/san-kum/valveflow/internal/hemo"
	"github.com/san-kum/valveflow/internal/severity"
)

// AssumedCrossSection is the flow cross-section in cm² used by the
// cardiac-output integral, calibrated so the healthy preset lands near the
// textbook 5 L/min.
const AssumedCrossSection = 4.1

// Aggregate is the cycle-level metric record for one severity, folded over
// the per-frame samples.
type Aggregate struct {
	Severity      string
	Frames        int
	PeakVelocity  float64 // cm/s, cycle maximum of the field peak speed
	PeakGradient  float64 // mmHg, cycle maximum of the probe gradient
	MeanGradient  float64 // mmHg, mean probe gradient over systolic samples
	MinEOA        float64 // cm², smallest systolic orifice
	MaxEOA        float64 // cm², orifice at full opening
	CardiacOutput float64 // L/min
	Grade         Grade
}

// Fold aggregates a time-ordered sample sequence for one severity.
//
// Cardiac output is the per-beat stroke volume (trapezoidal integral of the
// frame peak speed over one systole, times the assumed cross-section)
// scaled to volume per minute by the cycle rate. Windows spanning several
// cycles average the stroke volume across beats, so the result is
// independent of how many cycles were simulated. The severity grade is
// looked up from the
// profile's clinical scales (peak velocity and pressure-gradient scale)
// together with the computed orifice area; the analytic field's absolute
// magnitudes are illustrative and are reported alongside, not graded.
func Fold(samples []Sample, p severity.Profile, cyc hemo.CycleSpec, thresholds Thresholds) Aggregate {
	agg := Aggregate{Severity: p.Name, Frames: len(samples)}
	if len(samples) == 0 {
		return agg
	}

	sd := cyc.SystoleDuration()
	systolicGradientSum := 0.0
	systolicCount := 0
	strokeVolume := 0.0 // cm³ summed over every systole in the window
	beats := 0
	inSystole := false
	var prev *Sample
	firstSystolic := true

	for i := range samples {
		s := samples[i]
		if s.PeakVelocity > agg.PeakVelocity {
			agg.PeakVelocity = s.PeakVelocity
		}
		if s.PressureGradient > agg.PeakGradient {
			agg.PeakGradient = s.PressureGradient
		}
		if s.EOA > agg.MaxEOA {
			agg.MaxEOA = s.EOA
		}

		if cyc.Wrap(s.T) < sd {
			if !inSystole {
				beats++
				inSystole = true
			}
			systolicGradientSum += s.PressureGradient
			systolicCount++
			if firstSystolic || s.EOA < agg.MinEOA {
				agg.MinEOA = s.EOA
				firstSystolic = false
			}
			if prev != nil && s.T > prev.T {
				dt := s.T - prev.T
				strokeVolume += 0.5 * (prev.PeakVelocity + s.PeakVelocity) * dt * AssumedCrossSection
			}
			prev = &samples[i]
		} else {
			prev = nil
			inSystole = false
		}
	}

	if systolicCount > 0 {
		agg.MeanGradient = systolicGradientSum / float64(systolicCount)
	}
	if cyc.Duration > 0 && beats > 0 {
		beatsPerMinute := 60.0 / cyc.Duration
		agg.CardiacOutput = strokeVolume / float64(beats) * beatsPerMinute / 1000.0 // cm³ → L
	}

	agg.Grade = thresholds.Classify(p.PressureGradientMmHg, p.PeakVelocityCmS, agg.MaxEOA)
	return agg
}
