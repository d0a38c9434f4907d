package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sine(freq, rate float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Sin(2 * math.Pi * freq * float64(i) / rate)
	}
	return out
}

func TestDominantFrequency(t *testing.T) {
	// 5 Hz tone sampled at 100 Hz; the FFT pads 200 samples to 256, giving
	// a bin width just under 0.4 Hz.
	signal := sine(5, 100, 200)
	freq, err := DominantFrequency(signal, 100)
	require.NoError(t, err)
	assert.InDelta(t, 5, freq, 0.5)
}

func TestDominantFrequencyHeartRate(t *testing.T) {
	// One beat per 0.8 s sampled 50 frames per cycle over 4 cycles.
	rate := 50.0 / 0.8
	signal := sine(1.25, rate, 200)
	freq, err := DominantFrequency(signal, rate)
	require.NoError(t, err)
	assert.InDelta(t, 75, BeatsPerMinute(freq), 20)
}

func TestDominantFrequencyErrors(t *testing.T) {
	_, err := DominantFrequency([]float64{1}, 100)
	require.Error(t, err)
	_, err = DominantFrequency(sine(5, 100, 64), 0)
	require.Error(t, err)
}

func TestPowerSpectrum(t *testing.T) {
	ps := PowerSpectrum(sine(8, 64, 64))
	require.Len(t, ps, 32)

	// Energy concentrates in bin 8 (64 samples at 64 Hz: 1 Hz per bin).
	peak := 0
	for i := 1; i < len(ps); i++ {
		if ps[i] > ps[peak] {
			peak = i
		}
	}
	assert.Equal(t, 8, peak)
}

func TestPowerSpectrumPads(t *testing.T) {
	// 100 samples pad to 128; half-spectrum length follows the padded size.
	ps := PowerSpectrum(sine(5, 100, 100))
	assert.Len(t, ps, 64)
}
