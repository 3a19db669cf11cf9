package analysis

import (
	"math"
	"testing"
)

func mix(parts ...[]float64) []float64 {
	n := 0
	for _, p := range parts {
		if len(p) > n {
			n = len(p)
		}
	}
	out := make([]float64, n)
	for _, p := range parts {
		for i, v := range p {
			out[i] += v
		}
	}
	return out
}

func TestEstimateKeySingleTone(t *testing.T) {
	engine := NewDSPEngine(DefaultConfig())
	// A 440 Hz tone puts all chroma mass on pitch class A; the major
	// profile's tonic weight edges out the minor profile's.
	got := engine.EstimateKey(sine(440, 0.8, 1, 44100), 44100)
	if got != "A" {
		t.Errorf("EstimateKey(440 Hz) = %q, want \"A\"", got)
	}
}

func TestEstimateKeyMinorTriad(t *testing.T) {
	engine := NewDSPEngine(DefaultConfig())
	// A minor triad: A3, C4, E4.
	samples := mix(
		sine(220, 0.3, 1, 44100),
		sine(261.63, 0.3, 1, 44100),
		sine(329.63, 0.3, 1, 44100),
	)
	got := engine.EstimateKey(samples, 44100)
	if got != "Am" {
		t.Errorf("EstimateKey(A minor triad) = %q, want \"Am\"", got)
	}
}

func TestEstimateKeySilence(t *testing.T) {
	engine := NewDSPEngine(DefaultConfig())
	if got := engine.EstimateKey(make([]float64, 44100), 44100); got != "C" {
		t.Errorf("EstimateKey(silence) = %q, want default \"C\"", got)
	}
}

func TestEstimateKeyShortInput(t *testing.T) {
	engine := NewDSPEngine(DefaultConfig())
	if got := engine.EstimateKey(make([]float64, 100), 44100); got != "C" {
		t.Errorf("EstimateKey(short input) = %q, want default \"C\"", got)
	}
}

func TestChromaVectorPeaksAtTone(t *testing.T) {
	chroma := chromaVector(sine(440, 0.8, 1, 44100), 44100)
	best := 0
	for pc := 1; pc < 12; pc++ {
		if chroma[pc] > chroma[best] {
			best = pc
		}
	}
	// Pitch class 9 is A.
	if best != 9 {
		t.Errorf("chroma peak at pitch class %d, want 9 (A)", best)
	}
	if math.IsNaN(chroma[best]) || chroma[best] <= 0 {
		t.Errorf("chroma peak magnitude %v, want positive", chroma[best])
	}
}
