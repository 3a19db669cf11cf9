package analysis

import (
	"math"

	"trackforge/model"
)

// EstimateBPM scores every candidate tempo on the grid by autocorrelation
// at the candidate's beat period and returns the best one, rounded to one
// decimal place. Ties keep the first (lowest) candidate, so the result is
// stable across runs. Buffers too short for any candidate period return
// the default tempo.
//
// Autocorrelation also peaks at every multiple of the true beat period, so
// the raw argmax lands on a subharmonic (half or third tempo) whenever one
// fits the scan range. A correction pass checks the doubled and tripled
// tempo of the winner and moves up when the faster candidate scores
// comparably; a genuine slow tempo has silent harmonics and stays put.
func (e *DSPEngine) EstimateBPM(samples []float64, sampleRate int) float64 {
	cfg := e.cfg
	if len(samples) == 0 || sampleRate <= 0 {
		return cfg.DefaultBPM
	}

	windowSize := secondsToSamples(cfg.BPMWindowSeconds, sampleRate)
	if windowSize > len(samples) {
		windowSize = len(samples)
	}

	score := func(bpm float64) float64 {
		period := int(math.Round(60 * float64(sampleRate) / bpm))
		if period <= 0 || period >= len(samples) {
			return 0
		}
		maxOffset := 2 * period
		if windowSize-period < maxOffset {
			maxOffset = windowSize - period
		}
		if len(samples)-period < maxOffset {
			maxOffset = len(samples) - period
		}
		if maxOffset <= 0 {
			return 0
		}

		sum := 0.0
		for offset := 0; offset < maxOffset; offset++ {
			sum += samples[offset] * samples[offset+period]
		}
		return sum / float64(maxOffset)
	}

	bestBPM := cfg.DefaultBPM
	bestScore := 0.0
	for bpm := cfg.MinBPM; bpm <= cfg.MaxBPM+1e-9; bpm += cfg.BPMStep {
		if s := score(bpm); s > bestScore {
			bestScore = s
			bestBPM = bpm
		}
	}

	if bestScore > 0 {
		for _, mult := range []float64{3, 2} {
			harmonic := bestBPM * mult
			if harmonic > cfg.MaxBPM+1e-9 {
				continue
			}
			if score(harmonic) >= cfg.HarmonicScoreRatio*bestScore {
				bestBPM = harmonic
				break
			}
		}
	}

	return math.Round(bestBPM*10) / 10
}

// EstimateBeatgrid re-estimates tempo over short windows slid across the
// whole buffer, one point per hop. Confidence is a signal-strength
// heuristic: mean absolute amplitude clamped to [0,1].
func (e *DSPEngine) EstimateBeatgrid(samples []float64, sampleRate int) []model.BeatGridPoint {
	cfg := e.cfg
	windowSize := secondsToSamples(cfg.BeatgridWindowSeconds, sampleRate)
	hopSize := secondsToSamples(cfg.BeatgridHopSeconds, sampleRate)

	grid := []model.BeatGridPoint{}
	if windowSize <= 0 || hopSize <= 0 {
		return grid
	}
	for i := 0; i < len(samples)-windowSize; i += hopSize {
		window := samples[i : i+windowSize]
		grid = append(grid, model.BeatGridPoint{
			Time:       float64(i) / float64(sampleRate),
			BPM:        e.EstimateBPM(window, sampleRate),
			Confidence: clamp01(meanAbs(window)),
		})
	}
	return grid
}
