package analysis

import (
	"fmt"
	"math"
	"sort"

	"trackforge/model"
)

// FindLoops searches every classified part, and the whole track, for the
// best repeatable loop at 4/8/16-bar lengths. A part that has no candidate
// above the acceptance threshold contributes no loops; there is never a
// forced pick. The merged result is sorted by start time.
func (e *DSPEngine) FindLoops(samples []float64, sampleRate int, structure model.SongStructure, bpm float64) []model.Loop {
	cfg := e.cfg
	if bpm <= 0 {
		bpm = cfg.DefaultBPM
	}
	barSeconds := 60 / bpm * float64(cfg.BeatsPerBar)

	loops := []model.Loop{}
	for _, part := range structure.Parts {
		if !isLoopSourceType(part.Type) {
			continue
		}
		startFrame := secondsToSamples(part.Start, sampleRate)
		endFrame := secondsToSamples(part.End, sampleRate)
		if startFrame < 0 {
			startFrame = 0
		}
		if endFrame > len(samples) {
			endFrame = len(samples)
		}
		if startFrame >= endFrame {
			continue
		}
		section := samples[startFrame:endFrame]

		for _, bars := range cfg.LoopBars {
			length := secondsToSamples(float64(bars)*barSeconds, sampleRate)
			if length <= 0 || length >= len(section) {
				continue
			}
			if loop, ok := e.findBestLoop(section, sampleRate, length, part.Start, part.Type, bars, bpm); ok {
				loops = append(loops, loop)
			}
		}
	}

	loops = append(loops, e.findCustomLoops(samples, sampleRate, barSeconds, bpm)...)

	sort.SliceStable(loops, func(i, j int) bool { return loops[i].Start < loops[j].Start })
	return loops
}

func isLoopSourceType(t string) bool {
	switch t {
	case "verse", "chorus", "bridge", "breakdown", "drop":
		return true
	}
	return false
}

// findBestLoop slides a candidate window of the given length across the
// section and keeps the single best offset, but only when its score clears
// the acceptance threshold.
func (e *DSPEngine) findBestLoop(section []float64, sampleRate, length int, offsetSec float64, sourceType string, bars int, bpm float64) (model.Loop, bool) {
	cfg := e.cfg
	hop := secondsToSamples(cfg.LoopHopSeconds, sampleRate)
	if hop <= 0 {
		return model.Loop{}, false
	}

	bestScore := 0.0
	bestStart := -1
	for start := 0; start+length <= len(section); start += hop {
		score := e.loopScore(section[start:start+length], sampleRate)
		if score > bestScore && score > cfg.MinLoopScore {
			bestScore = score
			bestStart = start
		}
	}
	if bestStart < 0 {
		return model.Loop{}, false
	}

	startSec := offsetSec + float64(bestStart)/float64(sampleRate)
	endSec := offsetSec + float64(bestStart+length)/float64(sampleRate)
	return model.Loop{
		Start:       startSec,
		End:         endSec,
		BPM:         bpm,
		Confidence:  bestScore,
		Type:        sourceType,
		Name:        fmt.Sprintf("%s_%dbar_loop", sourceType, bars),
		Description: fmt.Sprintf("%d-bar %s loop (%.1fs)", bars, sourceType, endSec-startSec),
	}, true
}

// findCustomLoops runs the whole-track pass: for each bar length, slide a
// window across the full buffer, skip passages that fail the activity
// gates (silence, sparse content), and keep the best survivor per length.
func (e *DSPEngine) findCustomLoops(samples []float64, sampleRate int, barSeconds, bpm float64) []model.Loop {
	cfg := e.cfg
	hop := secondsToSamples(cfg.ActivityHopSeconds, sampleRate)
	if hop <= 0 {
		return nil
	}

	var loops []model.Loop
	for _, bars := range cfg.LoopBars {
		length := secondsToSamples(float64(bars)*barSeconds, sampleRate)
		if length <= 0 || length >= len(samples) {
			continue
		}

		bestScore := 0.0
		bestStart := -1
		for start := 0; start+length <= len(samples); start += hop {
			window := samples[start : start+length]
			if windowEnergy(window) <= cfg.EnergyThreshold || timeCentroid(window) <= cfg.CentroidThreshold {
				continue
			}
			score := e.loopScore(window, sampleRate)
			if score > bestScore && score > cfg.MinLoopScore {
				bestScore = score
				bestStart = start
			}
		}
		if bestStart < 0 {
			continue
		}

		startSec := float64(bestStart) / float64(sampleRate)
		endSec := float64(bestStart+length) / float64(sampleRate)
		loops = append(loops, model.Loop{
			Start:       startSec,
			End:         endSec,
			BPM:         bpm,
			Confidence:  bestScore,
			Type:        "custom",
			Name:        fmt.Sprintf("custom_%dbar_loop", bars),
			Description: fmt.Sprintf("%d-bar custom loop (%.1fs)", bars, endSec-startSec),
		})
	}
	return loops
}

// loopScore blends five sub-scores, each in [0,1]: raw energy, brightness,
// smoothness (inverse zero-crossing rate), and rhythmic/harmonic
// consistency, where steadier passages (lower variance) score higher.
func (e *DSPEngine) loopScore(window []float64, sampleRate int) float64 {
	cfg := e.cfg

	energy := windowEnergy(window)
	centroid := timeCentroid(window)
	zcr := zeroCrossingRate(window)
	rhythmic := consistency(window, secondsToSamples(cfg.RhythmicWindowSeconds, sampleRate), windowEnergy)
	harmonic := consistency(window, secondsToSamples(cfg.HarmonicWindowSeconds, sampleRate), timeCentroid)

	score := energy*0.3 + centroid*0.2 + (1-zcr)*0.2 + rhythmic*0.2 + harmonic*0.1
	return math.Min(score, 1.0)
}

// consistency measures how steady a feature stays over non-overlapping
// sub-windows: max(0, 1 - variance).
func consistency(window []float64, subSize int, feature func([]float64) float64) float64 {
	if subSize <= 0 || len(window) <= subSize {
		return 0
	}
	var values []float64
	for i := 0; i+subSize <= len(window); i += subSize {
		values = append(values, feature(window[i:i+subSize]))
	}
	return math.Max(0, 1-variance(values))
}
