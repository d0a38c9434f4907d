package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/valveflow/internal/config"
	"github.com/san-kum/valveflow/internal/metrics"
)

func testRun(t *testing.T) (*Store, string) {
	t.Helper()
	store := New(t.TempDir())
	require.NoError(t, store.Init())

	cfg := config.DefaultConfig()
	cfg.Severities = []string{"healthy", "severe"}
	aggs := []metrics.Aggregate{
		{Severity: "healthy", Frames: 2, PeakVelocity: 55, MeanGradient: 3.1, MaxEOA: 6.39, CardiacOutput: 5.0, Grade: metrics.GradeNormal},
		{Severity: "severe", Frames: 2, PeakVelocity: 49, MeanGradient: 1.2, MaxEOA: 4.40, CardiacOutput: 3.1, Grade: metrics.GradeSevere},
	}
	samples := []metrics.Sample{
		{Severity: "healthy", T: 0, Opening: 0, PeakVelocity: 0, PressureGradient: 0, EOA: 0},
		{Severity: "severe", T: 0, Opening: 0, PeakVelocity: 0, PressureGradient: 0, EOA: 0},
		{Severity: "healthy", T: 0.1, Opening: 0.78, PeakVelocity: 54.6, PressureGradient: 5.4, EOA: 5.5, CardiacOutput: 13.4},
		{Severity: "severe", T: 0.1, Opening: 0.35, PeakVelocity: 49.2, PressureGradient: 1.8, EOA: 3.8, CardiacOutput: 12.1},
	}

	runID, err := store.Save(cfg, aggs, samples)
	require.NoError(t, err)
	return store, runID
}

func TestSaveLoadRoundtrip(t *testing.T) {
	store, runID := testRun(t)

	meta, err := store.Load(runID)
	require.NoError(t, err)
	assert.Equal(t, runID, meta.ID)
	assert.Equal(t, []string{"healthy", "severe"}, meta.Severities)
	require.Len(t, meta.Aggregates, 2)
	assert.Equal(t, metrics.GradeSevere, meta.Aggregates[1].Grade)
	assert.InDelta(t, 6.39, meta.Aggregates[0].MaxEOA, 1e-9)
}

func TestLoadSamples(t *testing.T) {
	store, runID := testRun(t)

	samples, err := store.LoadSamples(runID)
	require.NoError(t, err)
	require.Len(t, samples, 4)
	assert.Equal(t, "healthy", samples[2].Severity)
	assert.InDelta(t, 54.6, samples[2].PeakVelocity, 1e-6)
	assert.InDelta(t, 0.1, samples[3].T, 1e-6)
	assert.InDelta(t, 3.8, samples[3].EOA, 1e-6)
	assert.InDelta(t, 12.1, samples[3].CardiacOutput, 1e-6)
}

func TestList(t *testing.T) {
	store, runID := testRun(t)

	runs, err := store.List()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, runID, runs[0].ID)
}

func TestListEmptyDir(t *testing.T) {
	runs, err := New(t.TempDir() + "/missing").List()
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestLoadMissingRun(t *testing.T) {
	store := New(t.TempDir())
	require.NoError(t, store.Init())
	_, err := store.Load("valve_0")
	require.Error(t, err)
}
