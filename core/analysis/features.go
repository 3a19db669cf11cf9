package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// secondsToSamples converts a duration in seconds to a sample count.
func secondsToSamples(seconds float64, sampleRate int) int {
	return int(math.Floor(seconds * float64(sampleRate)))
}

func nextPow2(n int) int {
	v := 1
	for v < n {
		v <<= 1
	}
	return v
}

// slidingSeries applies f to fixed-size windows advanced by a fixed hop.
// Windows are read-only views into samples; f must not retain them.
func slidingSeries(samples []float64, sampleRate int, windowSec, hopSec float64, f func([]float64) float64) []float64 {
	windowSize := secondsToSamples(windowSec, sampleRate)
	hopSize := secondsToSamples(hopSec, sampleRate)
	if windowSize <= 0 || hopSize <= 0 || len(samples) <= windowSize {
		return nil
	}
	series := make([]float64, 0, (len(samples)-windowSize)/hopSize+1)
	for i := 0; i < len(samples)-windowSize; i += hopSize {
		series = append(series, f(samples[i:i+windowSize]))
	}
	return series
}

// EnergySeries is the windowed mean-square amplitude.
func EnergySeries(samples []float64, sampleRate int, windowSec, hopSec float64) []float64 {
	return slidingSeries(samples, sampleRate, windowSec, hopSec, windowEnergy)
}

// SpectralCentroidSeries is the windowed spectral centroid: the
// magnitude-weighted average frequency-bin index, normalized to [0,1].
func SpectralCentroidSeries(samples []float64, sampleRate int, windowSec, hopSec float64) []float64 {
	return slidingSeries(samples, sampleRate, windowSec, hopSec, spectralCentroid)
}

// ZeroCrossingSeries is the windowed fraction of adjacent-sample sign changes.
func ZeroCrossingSeries(samples []float64, sampleRate int, windowSec, hopSec float64) []float64 {
	return slidingSeries(samples, sampleRate, windowSec, hopSec, zeroCrossingRate)
}

func windowEnergy(w []float64) float64 {
	if len(w) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range w {
		sum += v * v
	}
	return sum / float64(len(w))
}

// spectralCentroid zero-pads the window to the next power of two for the
// transform. A window with zero total magnitude (DC-only silence) scores 0.
func spectralCentroid(w []float64) float64 {
	n := len(w)
	if n == 0 {
		return 0
	}
	size := nextPow2(n)
	padded := make([]float64, size)
	copy(padded, w)
	spectrum := fft.FFTReal(padded)

	bins := size / 2
	var weighted, total float64
	for j := 0; j < bins; j++ {
		m := cmplx.Abs(spectrum[j])
		weighted += float64(j) * m
		total += m
	}
	if total == 0 {
		return 0
	}
	return weighted / total / float64(bins)
}

func zeroCrossingRate(w []float64) float64 {
	if len(w) < 2 {
		return 0
	}
	crossings := 0
	for i := 1; i < len(w); i++ {
		if (w[i] >= 0) != (w[i-1] >= 0) {
			crossings++
		}
	}
	return float64(crossings) / float64(len(w)-1)
}

// timeCentroid is the cheap time-domain stand-in for spectral brightness
// used by the loop scorer: the amplitude-weighted average sample index,
// normalized by window length.
func timeCentroid(w []float64) float64 {
	var weighted, total float64
	for i, v := range w {
		m := math.Abs(v)
		weighted += float64(i) * m
		total += m
	}
	if total == 0 {
		return 0
	}
	return weighted / total / float64(len(w))
}

func meanAbs(w []float64) float64 {
	if len(w) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range w {
		sum += math.Abs(v)
	}
	return sum / float64(len(w))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func variance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	sum := 0.0
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return sum / float64(len(values))
}
