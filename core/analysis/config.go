package analysis

// Config carries every tunable of the analysis pipeline. The defaults are
// empirically tuned values carried over from years of use on real tracks;
// they are configuration, not guarantees of optimality.
type Config struct {
	// BPM estimation
	MinBPM                float64
	MaxBPM                float64
	BPMStep               float64
	BPMWindowSeconds      float64
	HarmonicScoreRatio    float64 // fraction of the best score a doubled/tripled tempo needs to win
	BeatgridWindowSeconds float64
	BeatgridHopSeconds    float64
	DefaultBPM            float64

	// Key estimation
	DefaultKey string

	// Structure segmentation
	StructureWindowSeconds float64
	StructureHopSeconds    float64
	SmoothingWindow        int // moving-average width, in frames
	AnalysisWindow         int // lookback/lookahead width for change scoring, in frames
	ChangeThreshold        float64
	EnergyWeight           float64
	CentroidWeight         float64
	ZCRWeight              float64
	ChangeEpsilon          float64
	MinPartSeconds         float64
	TrailingMergeSeconds   float64 // a shorter trailing remainder merges into the previous part
	MaxPartConfidence      float64

	// Loop detection
	MinLoopScore          float64
	ActivityWindowSeconds float64
	ActivityHopSeconds    float64
	EnergyThreshold       float64
	CentroidThreshold     float64
	RhythmicWindowSeconds float64
	HarmonicWindowSeconds float64
	BeatsPerBar           int
	LoopHopSeconds        float64
	LoopBars              []int
}

// DefaultConfig returns the stock tuning.
func DefaultConfig() Config {
	return Config{
		MinBPM:                60,
		MaxBPM:                200,
		BPMStep:               0.5,
		BPMWindowSeconds:      2,
		HarmonicScoreRatio:    0.5,
		BeatgridWindowSeconds: 4,
		BeatgridHopSeconds:    1,
		DefaultBPM:            120,

		DefaultKey: "C",

		StructureWindowSeconds: 0.1,
		StructureHopSeconds:    0.05,
		SmoothingWindow:        5,
		AnalysisWindow:         20,
		ChangeThreshold:        0.6,
		EnergyWeight:           0.5,
		CentroidWeight:         0.3,
		ZCRWeight:              0.2,
		ChangeEpsilon:          0.001,
		MinPartSeconds:         8,
		TrailingMergeSeconds:   5,
		MaxPartConfidence:      0.95,

		MinLoopScore:          0.6,
		ActivityWindowSeconds: 4,
		ActivityHopSeconds:    1,
		EnergyThreshold:       0.2,
		CentroidThreshold:     0.3,
		RhythmicWindowSeconds: 0.5,
		HarmonicWindowSeconds: 0.1,
		BeatsPerBar:           4,
		LoopHopSeconds:        0.5,
		LoopBars:              []int{4, 8, 16},
	}
}
