// Package frames drives the per-frame pipeline: for each frame index it
// samples the cardiac cycle, deforms the leaflet geometry, evaluates the
// flow field, and derives the frame metrics for every configured severity.
// Frame construction is a pure function of the index, so any frame can be
// recomputed independently and sequential and parallel runs agree exactly.
package frames

import (
	"context"
	"fmt"

	"github.com/san-kum/valveflow/internal/flow"
	"github.com/san-kum/valveflow/internal/geometry"
	"github.com/san-kum/valveflow/internal/hemo"
	"github.com/san-kum/valveflow/internal/kinematics"
	"github.com/san-kum/valveflow/internal/metrics"
	"github.com/san-kum/valveflow/internal/severity"
	"github.com/san-kum/valveflow/internal/trace"
)

// Options configures a Sequencer. Zero-valued optional fields fall back to
// package defaults; required fields fail validation in New before any frame
// is computed.
type Options struct {
	Resolution     int
	Severities     []string // catalog names, output order
	Cycle          hemo.CycleSpec
	FramesPerCycle int
	Cycles         int
	GridSize       int     // samples per axis, default flow.DefaultGridSize
	SeedCount      int     // streamline seeds per frame, 0 disables tracing
	StepBudget     int     // max integration steps per streamline
	TraceStep      float64 // streamline step, default trace.DefaultStep
}

// SeverityFrame is one severity's slice of a frame: the deformed leaflet
// vertices, the flow field, the derived metrics, and optionally the traced
// streamlines.
type SeverityFrame struct {
	Profile     severity.Profile
	State       hemo.CycleState
	Vertices    []geometry.Vertex
	Field       *flow.Field
	Sample      metrics.Sample
	Streamlines []trace.Polyline
}

// FrameRecord is one time sample across all configured severities, in the
// order Options.Severities listed them.
type FrameRecord struct {
	Index      int
	T          float64
	Severities []*SeverityFrame
}

// Sequencer holds the validated configuration and the per-severity base
// geometries. It is immutable after New and safe for concurrent Frame calls.
type Sequencer struct {
	opts     Options
	profiles []severity.Profile
	bases    []*geometry.ValveGeometry
	grid     *flow.Grid
	deformer kinematics.Deformer
	seeds    []trace.Seed
	total    int
}

// New validates the options and precomputes the base geometry for every
// configured severity. All configuration errors surface here, before any
// frame work starts.
func New(catalog severity.Catalog, opts Options) (*Sequencer, error) {
	if err := opts.Cycle.Validate(); err != nil {
		return nil, err
	}
	if opts.FramesPerCycle < 2 {
		return nil, &hemo.ConfigError{Field: "frames", Reason: fmt.Sprintf("need at least 2 frames per cycle, got %d", opts.FramesPerCycle)}
	}
	if opts.Cycles < 1 {
		return nil, &hemo.ConfigError{Field: "cycles", Reason: fmt.Sprintf("must be positive, got %d", opts.Cycles)}
	}
	if len(opts.Severities) == 0 {
		return nil, &hemo.ConfigError{Field: "severities", Reason: "at least one severity required"}
	}
	if opts.SeedCount < 0 {
		return nil, &hemo.ConfigError{Field: "seeds", Reason: fmt.Sprintf("must be non-negative, got %d", opts.SeedCount)}
	}
	if opts.SeedCount > 0 && opts.StepBudget <= 0 {
		opts.StepBudget = trace.DefaultBudget
	}
	if opts.TraceStep <= 0 {
		opts.TraceStep = trace.DefaultStep
	}
	if opts.GridSize == 0 {
		opts.GridSize = flow.DefaultGridSize
	}

	grid, err := flow.NewGrid(opts.GridSize, -flow.DefaultGridExtent, flow.DefaultGridExtent)
	if err != nil {
		return nil, err
	}

	s := &Sequencer{
		opts:     opts,
		grid:     grid,
		deformer: kinematics.NewPrescribedRadial(),
		total:    opts.FramesPerCycle * opts.Cycles,
	}
	if opts.SeedCount > 0 {
		s.seeds = trace.DefaultSeeds(opts.SeedCount)
	}

	for _, name := range opts.Severities {
		p, err := catalog.Get(name)
		if err != nil {
			return nil, err
		}
		base, err := geometry.Generate(opts.Resolution, p)
		if err != nil {
			return nil, err
		}
		s.profiles = append(s.profiles, p)
		s.bases = append(s.bases, base)
	}
	return s, nil
}

// Total is the frame count of a full run.
func (s *Sequencer) Total() int { return s.total }

// Base returns the undeformed geometry for a configured severity index.
func (s *Sequencer) Base(i int) *geometry.ValveGeometry { return s.bases[i] }

// Profiles returns the resolved severity profiles in output order.
func (s *Sequencer) Profiles() []severity.Profile { return s.profiles }

// Time maps a frame index to its cycle time in seconds.
func (s *Sequencer) Time(i int) float64 {
	return float64(i) / float64(s.opts.FramesPerCycle) * s.opts.Cycle.Duration
}

// Frame computes frame i from scratch. It does not depend on any other
// frame having been computed.
func (s *Sequencer) Frame(i int) (*FrameRecord, error) {
	t := s.Time(i)
	rec := &FrameRecord{Index: i, T: t}

	for k, p := range s.profiles {
		state := kinematics.State(t, p, s.opts.Cycle)
		field := flow.Evaluate(s.grid, t, state.Opening, p, s.opts.Cycle)

		sf := &SeverityFrame{
			Profile:  p,
			State:    state,
			Vertices: s.deformer.Deform(s.bases[k], state.Opening),
			Field:    field,
			Sample:   metrics.Compute(field, s.bases[k], state.Opening, p),
		}
		if len(s.seeds) > 0 {
			lines, err := trace.Trace(field, s.seeds, s.opts.StepBudget, s.opts.TraceStep)
			if err != nil {
				return nil, fmt.Errorf("frame %d, severity %s: %w", i, p.Name, err)
			}
			sf.Streamlines = lines
		}
		rec.Severities = append(rec.Severities, sf)
	}
	return rec, nil
}

// Run computes all frames in order, checking the context between frames.
// On cancellation it returns the frames completed so far with ctx.Err().
func (s *Sequencer) Run(ctx context.Context) ([]*FrameRecord, error) {
	records := make([]*FrameRecord, 0, s.total)
	for i := 0; i < s.total; i++ {
		select {
		case <-ctx.Done():
			return records, ctx.Err()
		default:
		}
		rec, err := s.Frame(i)
		if err != nil {
			return records, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// Aggregates folds the per-frame samples into one cycle-level aggregate per
// configured severity, in output order.
func (s *Sequencer) Aggregates(records []*FrameRecord, thresholds metrics.Thresholds) []metrics.Aggregate {
	aggs := make([]metrics.Aggregate, len(s.profiles))
	for k, p := range s.profiles {
		samples := make([]metrics.Sample, 0, len(records))
		for _, rec := range records {
			if k < len(rec.Severities) {
				samples = append(samples, rec.Severities[k].Sample)
			}
		}
		aggs[k] = metrics.Fold(samples, p, s.opts.Cycle, thresholds)
	}
	return aggs
}
