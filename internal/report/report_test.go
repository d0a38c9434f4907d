package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/valveflow/internal/metrics"
)

func testAggregates() []metrics.Aggregate {
	return []metrics.Aggregate{
		{Severity: "healthy", Frames: 8, PeakVelocity: 55, MeanGradient: 3.1, MaxEOA: 6.39, CardiacOutput: 5.0, Grade: metrics.GradeNormal},
		{Severity: "severe", Frames: 8, PeakVelocity: 49, MeanGradient: 1.2, MaxEOA: 4.40, CardiacOutput: 3.1, Grade: metrics.GradeSevere},
	}
}

func TestSummaryTable(t *testing.T) {
	out := SummaryTable(testAggregates())
	assert.Contains(t, out, "SEVERITY")
	assert.Contains(t, out, "healthy")
	assert.Contains(t, out, "severe")
	assert.Contains(t, out, "6.39")
	assert.Contains(t, out, "3.1")
}

func TestRecommendationPerGrade(t *testing.T) {
	grades := []metrics.Grade{metrics.GradeNormal, metrics.GradeMild, metrics.GradeModerate, metrics.GradeSevere}
	seen := map[string]bool{}
	for _, g := range grades {
		r := Recommendation(g)
		require.NotEmpty(t, r, string(g))
		assert.False(t, seen[r], "duplicate recommendation for %s", g)
		seen[r] = true
	}
	assert.Contains(t, Recommendation(metrics.GradeSevere), "replacement")
}

func TestComparison(t *testing.T) {
	aggs := testAggregates()
	out := Comparison(aggs[0], aggs[1])
	assert.Contains(t, out, "severe vs healthy")
	// 4.40 vs 6.39 is a ~31% orifice loss.
	assert.Contains(t, out, "-31%")
}

func TestWaveform(t *testing.T) {
	assert.Empty(t, Waveform("too short", []float64{1}))
	out := Waveform("velocity", []float64{0, 30, 55, 30, 0, 0})
	assert.Contains(t, out, "velocity")
}

func TestClinical(t *testing.T) {
	samples := map[string][]metrics.Sample{
		"healthy": {
			{Severity: "healthy", T: 0, PeakVelocity: 0, PressureGradient: 0},
			{Severity: "healthy", T: 0.1, PeakVelocity: 54, PressureGradient: 6},
			{Severity: "healthy", T: 0.2, PeakVelocity: 54, PressureGradient: 6},
		},
	}
	out := Clinical(testAggregates(), samples)
	assert.Contains(t, out, "VALVE HEMODYNAMICS REPORT")
	assert.Contains(t, out, "ASSESSMENT")
	assert.Contains(t, out, "COMPARISON TO BASELINE")
	assert.Contains(t, out, "peak velocity, cm/s (healthy)")

	// Without a normal-grade baseline there is no comparison section.
	noBaseline := Clinical(testAggregates()[1:], nil)
	assert.NotContains(t, noBaseline, "COMPARISON TO BASELINE")
}
