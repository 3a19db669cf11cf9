package analysis

import (
	"math"
	"testing"
)

// impulseTrain places unit impulses at the beat period of the given tempo.
func impulseTrain(bpm float64, seconds float64, sampleRate int) []float64 {
	n := int(seconds * float64(sampleRate))
	out := make([]float64, n)
	period := int(math.Round(60 * float64(sampleRate) / bpm))
	for i := 0; i < n; i += period {
		out[i] = 1
	}
	return out
}

func TestEstimateBPMImpulseTrain(t *testing.T) {
	engine := NewDSPEngine(DefaultConfig())
	tests := []struct {
		bpm        float64
		sampleRate int
	}{
		{100, 8000},
		{130, 44100},
		{150, 8000},
		{180, 8000},
	}
	for _, tt := range tests {
		got := engine.EstimateBPM(impulseTrain(tt.bpm, 5, tt.sampleRate), tt.sampleRate)
		if math.Abs(got-tt.bpm) > 0.5 {
			t.Errorf("EstimateBPM(%v BPM train @ %d Hz) = %v, want %v +/- 0.5", tt.bpm, tt.sampleRate, got, tt.bpm)
		}
	}
}

func TestEstimateBPMNoSubharmonicPick(t *testing.T) {
	engine := NewDSPEngine(DefaultConfig())
	// At 130 BPM the half-tempo candidate (65) aligns with every other
	// impulse and its raw autocorrelation density is higher; the harmonic
	// correction must still land on the true tempo.
	got := engine.EstimateBPM(impulseTrain(130, 5, 44100), 44100)
	if got != 130.0 {
		t.Errorf("EstimateBPM = %v, want 130.0", got)
	}
}

func TestEstimateBPMSlowTempoNotDoubled(t *testing.T) {
	engine := NewDSPEngine(DefaultConfig())
	// A genuinely slow train has no energy at its doubled tempo, so the
	// harmonic correction must leave it alone.
	got := engine.EstimateBPM(impulseTrain(70, 5, 8000), 8000)
	if got != 70.0 {
		t.Errorf("EstimateBPM = %v, want 70.0", got)
	}
}

func TestEstimateBPMWithinRange(t *testing.T) {
	cfg := DefaultConfig()
	engine := NewDSPEngine(cfg)
	inputs := [][]float64{
		impulseTrain(96, 5, 8000),
		sine(440, 0.5, 3, 8000),
		make([]float64, 8000),
	}
	for i, samples := range inputs {
		got := engine.EstimateBPM(samples, 8000)
		if got < cfg.MinBPM || got > cfg.MaxBPM {
			t.Errorf("input %d: EstimateBPM = %v, want within [%v,%v]", i, got, cfg.MinBPM, cfg.MaxBPM)
		}
	}
}

func TestEstimateBPMDegenerateInput(t *testing.T) {
	engine := NewDSPEngine(DefaultConfig())
	if got := engine.EstimateBPM(nil, 8000); got != 120.0 {
		t.Errorf("EstimateBPM(nil) = %v, want default 120.0", got)
	}
	if got := engine.EstimateBPM([]float64{0.5}, 0); got != 120.0 {
		t.Errorf("EstimateBPM with bad sample rate = %v, want default 120.0", got)
	}
	// Silence has no aligned candidate either.
	if got := engine.EstimateBPM(make([]float64, 16000), 8000); got != 120.0 {
		t.Errorf("EstimateBPM(silence) = %v, want default 120.0", got)
	}
}

func TestEstimateBPMDeterministic(t *testing.T) {
	engine := NewDSPEngine(DefaultConfig())
	samples := impulseTrain(100, 5, 8000)
	first := engine.EstimateBPM(samples, 8000)
	for i := 0; i < 3; i++ {
		if got := engine.EstimateBPM(samples, 8000); got != first {
			t.Fatalf("run %d: EstimateBPM = %v, want %v", i, got, first)
		}
	}
}

func TestEstimateBeatgrid(t *testing.T) {
	cfg := DefaultConfig()
	engine := NewDSPEngine(cfg)
	samples := impulseTrain(100, 12, 8000)

	grid := engine.EstimateBeatgrid(samples, 8000)
	// 12s buffer, 4s window, 1s hop: one point per second before the last
	// full window fits.
	if len(grid) != 8 {
		t.Fatalf("len(grid) = %d, want 8", len(grid))
	}
	for i, point := range grid {
		if i > 0 && point.Time <= grid[i-1].Time {
			t.Errorf("point %d: time %v not ascending", i, point.Time)
		}
		if point.BPM < cfg.MinBPM || point.BPM > cfg.MaxBPM {
			t.Errorf("point %d: BPM %v out of range", i, point.BPM)
		}
		if point.Confidence < 0 || point.Confidence > 1 {
			t.Errorf("point %d: confidence %v out of [0,1]", i, point.Confidence)
		}
	}
}

func TestEstimateBeatgridShortInput(t *testing.T) {
	engine := NewDSPEngine(DefaultConfig())
	grid := engine.EstimateBeatgrid(make([]float64, 100), 8000)
	if grid == nil {
		t.Fatal("grid should be empty, not nil")
	}
	if len(grid) != 0 {
		t.Errorf("len(grid) = %d, want 0", len(grid))
	}
}
