package analysis

import "trackforge/model"

// Engine is the contract every analysis backend satisfies. The built-in
// DSP engine below is the deployed backend; a binding to an external
// analysis engine can be swapped in behind the same interface.
type Engine interface {
	EstimateBPM(samples []float64, sampleRate int) float64
	EstimateBeatgrid(samples []float64, sampleRate int) []model.BeatGridPoint
	EstimateKey(samples []float64, sampleRate int) string
	SegmentStructure(samples []float64, sampleRate int, duration float64) model.SongStructure
	FindLoops(samples []float64, sampleRate int, structure model.SongStructure, bpm float64) []model.Loop
}

// DSPEngine is the self-contained signal-processing backend. All methods
// are pure: identical input yields identical output, so analysis can be
// re-run at any time without drift.
type DSPEngine struct {
	cfg Config
}

// NewDSPEngine creates an engine with the given tuning.
func NewDSPEngine(cfg Config) *DSPEngine {
	return &DSPEngine{cfg: cfg}
}

var _ Engine = (*DSPEngine)(nil)
