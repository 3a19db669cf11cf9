package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// Krumhansl-Schmuckler tonal profiles, index 0 = tonic.
var (
	majorProfile = [12]float64{6.35, 2.23, 3.48, 2.33, 4.38, 4.09, 2.52, 5.19, 2.39, 3.66, 2.29, 2.88}
	minorProfile = [12]float64{6.33, 2.68, 3.52, 5.38, 2.60, 3.53, 2.54, 4.75, 3.98, 2.69, 3.34, 3.17}
)

const (
	chromaFrameSize = 4096
	chromaHopSize   = 2048
	chromaMinHz     = 65
	chromaMaxHz     = 4000
	middleCHz       = 261.63
)

// EstimateKey correlates the track's pitch-class energy against the twelve
// rotations of the major and minor profiles and returns the best tonic.
// Minor keys carry an "m" suffix ("Am", "C#m"). Ties keep the first key in
// enumeration order (C, C#, ... B; major before minor), and silent audio
// falls back to the configured default.
func (e *DSPEngine) EstimateKey(samples []float64, sampleRate int) string {
	chroma := chromaVector(samples, sampleRate)

	bestKey := e.cfg.DefaultKey
	bestScore := 0.0
	for rot := 0; rot < 12; rot++ {
		var maj, min float64
		for j := 0; j < 12; j++ {
			v := chroma[(j+rot)%12]
			maj += v * majorProfile[j]
			min += v * minorProfile[j]
		}
		if maj > bestScore {
			bestScore = maj
			bestKey = noteNames[rot]
		}
		if min > bestScore {
			bestScore = min
			bestKey = noteNames[rot] + "m"
		}
	}
	return bestKey
}

// chromaVector sums FFT magnitudes into the 12 pitch classes over Hann
// windowed frames, considering only the musically useful 65-4000 Hz band.
func chromaVector(samples []float64, sampleRate int) [12]float64 {
	var chroma [12]float64
	if len(samples) <= chromaFrameSize || sampleRate <= 0 {
		return chroma
	}

	hann := window.Hann(chromaFrameSize)
	frame := make([]float64, chromaFrameSize)
	for i := 0; i < len(samples)-chromaFrameSize; i += chromaHopSize {
		for j := 0; j < chromaFrameSize; j++ {
			frame[j] = samples[i+j] * hann[j]
		}
		spectrum := fft.FFTReal(frame)
		for bin := 1; bin <= chromaFrameSize/2; bin++ {
			freq := float64(bin) * float64(sampleRate) / chromaFrameSize
			if freq < chromaMinHz || freq > chromaMaxHz {
				continue
			}
			semitones := 12 * math.Log2(freq/middleCHz)
			pc := ((int(math.Round(semitones)) % 12) + 12) % 12
			chroma[pc] += cmplx.Abs(spectrum[bin])
		}
	}
	return chroma
}
