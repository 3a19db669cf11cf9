package analysis

import (
	"math"

	"trackforge/model"
)

type changePoint struct {
	index      int
	confidence float64
}

// SegmentStructure partitions the track into structural parts by finding
// significant change points in smoothed energy, spectral-centroid and
// zero-crossing-rate series. Parts come back time-ascending and
// non-overlapping; regions not covered by any part are unclassified.
func (e *DSPEngine) SegmentStructure(samples []float64, sampleRate int, duration float64) model.SongStructure {
	cfg := e.cfg

	energy := EnergySeries(samples, sampleRate, cfg.StructureWindowSeconds, cfg.StructureHopSeconds)
	centroid := SpectralCentroidSeries(samples, sampleRate, cfg.StructureWindowSeconds, cfg.StructureHopSeconds)
	zcr := ZeroCrossingSeries(samples, sampleRate, cfg.StructureWindowSeconds, cfg.StructureHopSeconds)

	smoothE := smooth(energy, cfg.SmoothingWindow)
	smoothC := smooth(centroid, cfg.SmoothingWindow)
	smoothZ := smooth(zcr, cfg.SmoothingWindow)

	changes := e.findSignificantChanges(smoothE, smoothC, smoothZ)

	parts := []model.Part{}
	currentTime := 0.0
	number := 1
	for _, cp := range changes {
		changeTime := float64(cp.index) * cfg.StructureHopSeconds
		if changeTime-currentTime < cfg.MinPartSeconds {
			continue
		}
		parts = append(parts, e.buildPart(smoothE, smoothC, smoothZ, currentTime, changeTime, cp.confidence, number, duration))
		currentTime = changeTime
		number++
	}

	// The trailing remainder becomes its own part when long enough,
	// otherwise it merges into the preceding part.
	if duration-currentTime >= cfg.TrailingMergeSeconds || len(parts) == 0 {
		if duration > currentTime {
			parts = append(parts, e.buildPart(smoothE, smoothC, smoothZ, currentTime, duration, 0.8, number, duration))
		}
	} else if len(parts) > 0 {
		parts[len(parts)-1].End = duration
	}

	return model.SongStructure{Parts: parts}
}

// smooth applies a centered moving average; edge windows shrink instead of
// wrapping.
func smooth(series []float64, width int) []float64 {
	if len(series) == 0 || width <= 1 {
		return series
	}
	half := width / 2
	out := make([]float64, len(series))
	for i := range series {
		lo := i - half
		if lo < 0 {
			lo = 0
		}
		hi := i + half
		if hi > len(series)-1 {
			hi = len(series) - 1
		}
		sum := 0.0
		for j := lo; j <= hi; j++ {
			sum += series[j]
		}
		out[i] = sum / float64(hi-lo+1)
	}
	return out
}

// findSignificantChanges scans interior indices for change scores above the
// threshold, enforcing a minimum spacing so no degenerate short segment can
// form between two accepted change points.
func (e *DSPEngine) findSignificantChanges(energy, centroid, zcr []float64) []changePoint {
	cfg := e.cfg
	minDistance := int(cfg.MinPartSeconds / cfg.StructureHopSeconds)

	var changes []changePoint
	for i := minDistance; i < len(energy)-minDistance; i++ {
		score := e.changeScore(energy, centroid, zcr, i)
		if score <= cfg.ChangeThreshold {
			continue
		}
		if len(changes) > 0 && i-changes[len(changes)-1].index <= minDistance {
			continue
		}
		changes = append(changes, changePoint{
			index:      i,
			confidence: math.Min(cfg.MaxPartConfidence, score),
		})
	}
	return changes
}

// changeScore is the weighted sum of relative mean shifts across the index:
// mean of a lookback window against mean of a lookahead window, per feature.
func (e *DSPEngine) changeScore(energy, centroid, zcr []float64, index int) float64 {
	cfg := e.cfg
	w := cfg.AnalysisWindow
	if index < w || index >= len(energy)-w {
		return 0
	}

	shift := func(series []float64) float64 {
		prev := mean(series[index-w : index])
		next := mean(series[index : index+w])
		return math.Abs(next-prev) / (prev + cfg.ChangeEpsilon)
	}

	return cfg.EnergyWeight*shift(energy) +
		cfg.CentroidWeight*shift(centroid) +
		cfg.ZCRWeight*shift(zcr)
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// buildPart classifies and labels one segment from its average features.
func (e *DSPEngine) buildPart(energy, centroid, zcr []float64, start, end, confidence float64, number int, duration float64) model.Part {
	return model.Part{
		Start:       start,
		End:         end,
		Confidence:  confidence,
		Number:      number,
		Type:        e.classifyPart(energy, centroid, zcr, start, end),
		Description: describePart(number-1, end, duration),
	}
}

// classifyPart maps a segment's average features against the full-track
// feature peaks to a structural type.
func (e *DSPEngine) classifyPart(energy, centroid, zcr []float64, start, end float64) string {
	cfg := e.cfg
	lo := int(start / cfg.StructureHopSeconds)
	hi := int(end / cfg.StructureHopSeconds)
	if hi > len(energy) {
		hi = len(energy)
	}
	if lo >= hi {
		return "bridge"
	}

	avgE := mean(energy[lo:hi])
	avgC := mean(centroid[lo:hi])
	avgZ := mean(zcr[lo:hi])
	maxE := maxOf(energy)
	maxC := maxOf(centroid)

	switch {
	case avgE < 0.1*maxE:
		return "breakdown"
	case avgE >= 0.6*maxE && avgC >= 0.5*maxC:
		return "drop"
	case avgZ >= 0.15:
		return "verse"
	case avgE >= 0.3*maxE:
		return "chorus"
	default:
		return "bridge"
	}
}

func maxOf(values []float64) float64 {
	max := 0.0
	for _, v := range values {
		if v > max {
			max = v
		}
	}
	return max
}

// describePart derives a human label from the part's position in the track.
func describePart(partIndex int, endTime, duration float64) string {
	if partIndex == 0 {
		return "Intro"
	}
	if duration <= 0 {
		return "Section"
	}
	percent := endTime / duration * 100
	switch {
	case percent > 85:
		return "Outro"
	case percent < 20:
		return "Early Section"
	case percent < 40:
		return "Build Section"
	case percent < 60:
		return "Main Section"
	case percent < 80:
		return "Late Section"
	default:
		return "Final Section"
	}
}
