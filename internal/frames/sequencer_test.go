package frames

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/valveflow/internal/hemo"
	"github.com/san-kum/valveflow/internal/metrics"
	"github.com/san-kum/valveflow/internal/severity"
)

func testOptions() Options {
	return Options{
		Resolution:     16,
		Severities:     []string{"healthy", "severe"},
		Cycle:          hemo.DefaultCycle(),
		FramesPerCycle: 8,
		Cycles:         1,
		GridSize:       41,
		SeedCount:      3,
		StepBudget:     50,
	}
}

func TestNewValidation(t *testing.T) {
	catalog := severity.Default()

	tests := []struct {
		name   string
		mutate func(o *Options)
	}{
		{"one frame", func(o *Options) { o.FramesPerCycle = 1 }},
		{"zero cycles", func(o *Options) { o.Cycles = 0 }},
		{"no severities", func(o *Options) { o.Severities = nil }},
		{"unknown severity", func(o *Options) { o.Severities = []string{"calcified"} }},
		{"bad resolution", func(o *Options) { o.Resolution = 7 }},
		{"negative seeds", func(o *Options) { o.SeedCount = -1 }},
		{"bad cycle", func(o *Options) { o.Cycle.Duration = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions()
			tt.mutate(&opts)
			_, err := New(catalog, opts)
			require.Error(t, err)
		})
	}

	_, err := New(catalog, Options{
		Resolution: 16, Severities: []string{"missing"},
		Cycle: hemo.DefaultCycle(), FramesPerCycle: 8, Cycles: 1,
	})
	assert.True(t, errors.Is(err, hemo.ErrUnknownSeverity))
}

func TestFramePure(t *testing.T) {
	seq, err := New(severity.Default(), testOptions())
	require.NoError(t, err)

	a, err := seq.Frame(3)
	require.NoError(t, err)
	b, err := seq.Frame(3)
	require.NoError(t, err)

	assert.Equal(t, a.T, b.T)
	require.Len(t, b.Severities, len(a.Severities))
	for k := range a.Severities {
		assert.Equal(t, a.Severities[k].Sample, b.Severities[k].Sample)
		assert.Equal(t, a.Severities[k].Vertices, b.Severities[k].Vertices)
		assert.Equal(t, a.Severities[k].Streamlines, b.Severities[k].Streamlines)
	}
}

func TestFrameTiming(t *testing.T) {
	opts := testOptions()
	opts.Cycles = 2
	seq, err := New(severity.Default(), opts)
	require.NoError(t, err)

	assert.Equal(t, 16, seq.Total())
	assert.InDelta(t, 0, seq.Time(0), 1e-12)
	assert.InDelta(t, 0.1, seq.Time(1), 1e-12)
	// Frame 8 starts the second cycle at the same phase as frame 0.
	rec0, err := seq.Frame(0)
	require.NoError(t, err)
	rec8, err := seq.Frame(8)
	require.NoError(t, err)
	assert.Equal(t, rec0.Severities[0].State.Opening, rec8.Severities[0].State.Opening)
}

func TestRunSequentialMatchesParallel(t *testing.T) {
	seq, err := New(severity.Default(), testOptions())
	require.NoError(t, err)

	sequential, err := seq.Run(context.Background())
	require.NoError(t, err)
	parallel, err := seq.RunParallel(context.Background(), 4)
	require.NoError(t, err)

	require.Len(t, parallel, len(sequential))
	for i := range sequential {
		assert.Equal(t, sequential[i].Index, parallel[i].Index)
		for k := range sequential[i].Severities {
			assert.Equal(t, sequential[i].Severities[k].Sample, parallel[i].Severities[k].Sample)
		}
	}
}

func TestRunCancellation(t *testing.T) {
	seq, err := New(severity.Default(), testOptions())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = seq.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = seq.RunParallel(ctx, 2)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAggregates(t *testing.T) {
	seq, err := New(severity.Default(), testOptions())
	require.NoError(t, err)

	records, err := seq.Run(context.Background())
	require.NoError(t, err)

	aggs := seq.Aggregates(records, metrics.DefaultThresholds())
	require.Len(t, aggs, 2)
	assert.Equal(t, "healthy", aggs[0].Severity)
	assert.Equal(t, "severe", aggs[1].Severity)
	assert.Equal(t, len(records), aggs[0].Frames)

	// The healthy valve keeps the larger orifice through the cycle.
	assert.Greater(t, aggs[0].MaxEOA, aggs[1].MaxEOA)
	assert.Equal(t, metrics.GradeNormal, aggs[0].Grade)
	assert.Equal(t, metrics.GradeSevere, aggs[1].Grade)
}

func TestStreamlinesOptional(t *testing.T) {
	opts := testOptions()
	opts.SeedCount = 0
	seq, err := New(severity.Default(), opts)
	require.NoError(t, err)

	rec, err := seq.Frame(1)
	require.NoError(t, err)
	for _, sf := range rec.Severities {
		assert.Nil(t, sf.Streamlines)
	}
}
