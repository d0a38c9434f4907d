package hemo

import "math"

// Phase identifies the half of the cardiac cycle a time sample falls in.
type Phase int

const (
	Systole Phase = iota
	Diastole
)

func (p Phase) String() string {
	if p == Systole {
		return "systole"
	}
	return "diastole"
}

const (
	// DefaultCycleDuration is one heartbeat at 75 bpm, in seconds.
	DefaultCycleDuration = 0.8

	// DefaultSystoleFraction is the ejection share of the cycle (0.3 s of 0.8 s).
	DefaultSystoleFraction = 0.375

	// ResidualOpening is the small leak tolerance of a "closed" valve during
	// diastole, and also the floor applied to the opening fraction wherever a
	// division by it occurs.
	ResidualOpening = 0.05
)

// CycleSpec fixes the timing of one cardiac cycle. It is process-wide
// configuration: validated once at startup and read-only afterwards.
type CycleSpec struct {
	Duration        float64 // seconds per cycle
	SystoleFraction float64 // fraction of the cycle spent in systole, in (0,1)
}

func DefaultCycle() CycleSpec {
	return CycleSpec{Duration: DefaultCycleDuration, SystoleFraction: DefaultSystoleFraction}
}

// SystoleDuration returns the length of the ejection phase in seconds.
func (c CycleSpec) SystoleDuration() float64 {
	return c.Duration * c.SystoleFraction
}

// Wrap maps an absolute time onto [0, Duration).
func (c CycleSpec) Wrap(t float64) float64 {
	w := math.Mod(t, c.Duration)
	if w < 0 {
		w += c.Duration
	}
	return w
}

// PhaseAt reports the cycle phase at time t.
func (c CycleSpec) PhaseAt(t float64) Phase {
	if c.Wrap(t) < c.SystoleDuration() {
		return Systole
	}
	return Diastole
}

// Validate rejects timing that would make systole degenerate or swallow the
// whole cycle.
func (c CycleSpec) Validate() error {
	if c.Duration <= 0 {
		return &ConfigError{Field: "cycle_duration", Reason: "must be positive"}
	}
	if c.SystoleFraction <= 0 || c.SystoleFraction >= 1 {
		return &ConfigError{Field: "systole_fraction", Reason: "must be in (0, 1) so systole ends before the cycle does"}
	}
	return nil
}

// CycleState is the derived timing state of a single frame. It is recomputed
// per frame and never persisted.
type CycleState struct {
	T       float64 // time within the cycle, [0, Duration)
	Phase   Phase
	Opening float64 // opening fraction, [0, profile max]
}
