package analysis

import (
	"testing"
)

func knownPartType(t string) bool {
	switch t {
	case "verse", "chorus", "bridge", "breakdown", "drop":
		return true
	}
	return false
}

func TestSegmentStructureQuietToLoud(t *testing.T) {
	cfg := DefaultConfig()
	engine := NewDSPEngine(cfg)

	// 15s of near-silence, then 15s of loud bright signal. The jump in
	// energy and zero-crossing rate is an unambiguous change point.
	samples := append(sine(200, 0.01, 15, 8000), sine(1500, 0.8, 15, 8000)...)
	structure := engine.SegmentStructure(samples, 8000, 30)

	parts := structure.Parts
	if len(parts) != 2 {
		t.Fatalf("len(parts) = %d, want 2: %+v", len(parts), parts)
	}
	if parts[0].Start != 0 {
		t.Errorf("first part starts at %v, want 0", parts[0].Start)
	}
	if parts[1].End != 30 {
		t.Errorf("last part ends at %v, want 30", parts[1].End)
	}
	boundary := parts[0].End
	if boundary < 13.5 || boundary > 16 {
		t.Errorf("boundary at %v, want near 15", boundary)
	}
	for i, p := range parts {
		if p.End <= p.Start {
			t.Errorf("part %d: End %v <= Start %v", i, p.End, p.Start)
		}
		if i > 0 && p.Start < parts[i-1].End {
			t.Errorf("part %d overlaps previous: %v < %v", i, p.Start, parts[i-1].End)
		}
		if p.Confidence < 0 || p.Confidence > cfg.MaxPartConfidence {
			t.Errorf("part %d: confidence %v out of [0,%v]", i, p.Confidence, cfg.MaxPartConfidence)
		}
		if p.Number != i+1 {
			t.Errorf("part %d: number %d, want %d", i, p.Number, i+1)
		}
		if !knownPartType(p.Type) {
			t.Errorf("part %d: unknown type %q", i, p.Type)
		}
	}
	if parts[0].Description != "Intro" {
		t.Errorf("first part description %q, want \"Intro\"", parts[0].Description)
	}
}

func TestSegmentStructureSteadySignal(t *testing.T) {
	engine := NewDSPEngine(DefaultConfig())

	// No internal change: the whole track becomes a single part.
	structure := engine.SegmentStructure(sine(300, 0.5, 20, 8000), 8000, 20)
	parts := structure.Parts
	if len(parts) != 1 {
		t.Fatalf("len(parts) = %d, want 1: %+v", len(parts), parts)
	}
	if parts[0].Start != 0 || parts[0].End != 20 {
		t.Errorf("part spans [%v,%v], want [0,20]", parts[0].Start, parts[0].End)
	}
}

func TestSegmentStructureMinPartDuration(t *testing.T) {
	cfg := DefaultConfig()
	engine := NewDSPEngine(cfg)

	samples := append(sine(200, 0.01, 15, 8000), sine(1500, 0.8, 15, 8000)...)
	structure := engine.SegmentStructure(samples, 8000, 30)

	// Every part except a trailing-merged one must meet the minimum; here
	// both halves are long enough that all parts must.
	for i, p := range structure.Parts {
		if p.End-p.Start < cfg.MinPartSeconds {
			t.Errorf("part %d shorter than %vs: [%v,%v]", i, cfg.MinPartSeconds, p.Start, p.End)
		}
	}
}

func TestSegmentStructureEmptyInput(t *testing.T) {
	engine := NewDSPEngine(DefaultConfig())
	structure := engine.SegmentStructure(nil, 8000, 0)
	if structure.Parts == nil {
		t.Fatal("Parts should be empty, not nil")
	}
	if len(structure.Parts) != 0 {
		t.Errorf("len(parts) = %d, want 0", len(structure.Parts))
	}
}

func TestDescribePart(t *testing.T) {
	tests := []struct {
		index    int
		end      float64
		duration float64
		want     string
	}{
		{0, 10, 100, "Intro"},
		{1, 90, 100, "Outro"},
		{1, 15, 100, "Early Section"},
		{2, 30, 100, "Build Section"},
		{3, 50, 100, "Main Section"},
		{4, 70, 100, "Late Section"},
		{5, 83, 100, "Final Section"},
	}
	for _, tt := range tests {
		if got := describePart(tt.index, tt.end, tt.duration); got != tt.want {
			t.Errorf("describePart(%d, %v, %v) = %q, want %q", tt.index, tt.end, tt.duration, got, tt.want)
		}
	}
}
