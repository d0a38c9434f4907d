// Package analysis runs spectral analysis over metric waveforms, chiefly to
// recover the beat frequency from a multi-cycle velocity trace and sanity
// check it against the configured cycle duration.
package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"github.com/san-kum/valveflow/internal/hemo"
)

// PowerSpectrum returns the one-sided magnitude spectrum of a real signal.
// The input is zero-padded to the next power of two; the DC bin is included
// at index 0.
func PowerSpectrum(signal []float64) []float64 {
	n := nextPow2(len(signal))
	padded := signal
	if n != len(signal) {
		padded = make([]float64, n)
		copy(padded, signal)
	}
	bins := fft.FFTReal(padded)
	ps := make([]float64, len(bins)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(bins[i])
	}
	return ps
}

// DominantFrequency locates the strongest non-DC spectral peak of a signal
// sampled at sampleRate Hz. It needs at least two samples and a positive
// rate.
func DominantFrequency(signal []float64, sampleRate float64) (float64, error) {
	if len(signal) < 2 {
		return 0, &hemo.ConfigError{Field: "signal", Reason: "need at least 2 samples"}
	}
	if sampleRate <= 0 {
		return 0, &hemo.ConfigError{Field: "sample_rate", Reason: "must be positive"}
	}

	ps := PowerSpectrum(signal)
	n := nextPow2(len(signal))

	best := 1
	for i := 2; i < len(ps); i++ {
		if ps[i] > ps[best] {
			best = i
		}
	}
	if len(ps) < 2 {
		return 0, nil
	}
	return float64(best) * sampleRate / float64(n), nil
}

// BeatsPerMinute converts a dominant frequency in Hz to a heart rate.
func BeatsPerMinute(freq float64) float64 { return freq * 60 }

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
