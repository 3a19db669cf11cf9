package audio

import (
	"context"

	"trackforge/model"
)

// Canonical storage format for imported tracks.
const (
	DefaultSampleRate = 44100
	DefaultBitDepth   = 16
	DefaultChannels   = 2
	wavCodec          = "pcm_s16le"
)

// Info describes the technical properties of an audio file.
type Info struct {
	Duration   float64 // seconds
	SampleRate int
	BitDepth   int
	Channels   int
}

// Processor is the external encode/convert collaborator. Conversion
// produces a PCM WAV in the canonical codec/rate/channel configuration.
type Processor interface {
	ConvertToWAV(ctx context.Context, inputPath, outputPath string) error
	Probe(ctx context.Context, path string) (*Info, error)
}

// TagReader reads container tags best-effort. It never fails: missing or
// unparseable tags come back as filename-derived or "Unknown" placeholders.
type TagReader interface {
	ReadTags(path string) model.MusicTags
}
