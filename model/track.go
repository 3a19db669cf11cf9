package model

import "time"

// TrackMetadata is the persisted record for one track in the library: audio
// provenance, derived analysis results and music tags. One JSON file per
// track, written only by the library store.
type TrackMetadata struct {
	ID           string  `json:"id"`
	Filename     string  `json:"filename"`
	OriginalPath string  `json:"originalPath"`
	WavPath      string  `json:"wavPath"`
	Duration     float64 `json:"duration"` // seconds
	SampleRate   int     `json:"sampleRate"`
	BitDepth     int     `json:"bitDepth"`
	Channels     int     `json:"channels"`

	BPM       float64         `json:"bpm"`
	Key       string          `json:"key"`
	Beatgrid  []BeatGridPoint `json:"beatgrid"`
	Structure SongStructure   `json:"structure"`
	Loops     []Loop          `json:"loops"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Version   string    `json:"version"`

	Title  string `json:"title"`
	Artist string `json:"artist"`
	Album  string `json:"album"`
	Genre  string `json:"genre"`
}

// BeatGridPoint is one tempo estimate along the track timeline.
type BeatGridPoint struct {
	Time       float64 `json:"time"` // seconds
	BPM        float64 `json:"bpm"`
	Confidence float64 `json:"confidence"` // [0,1]
}

// SongStructure is the detected structural segmentation. Parts are
// time-ascending and non-overlapping; gaps between parts are implicit
// unclassified regions.
type SongStructure struct {
	Parts []Part `json:"parts"`
}

// Part is one time-bounded structural segment.
type Part struct {
	Start       float64 `json:"start"` // seconds
	End         float64 `json:"end"`   // seconds
	Confidence  float64 `json:"confidence"`
	Number      int     `json:"number"`
	Type        string  `json:"type"` // verse, chorus, bridge, breakdown, drop
	Description string  `json:"description,omitempty"`
}

// Loop is a repeatable loop candidate. It references a region of the track
// timeline, not a copy of samples; loops may overlap each other.
type Loop struct {
	Start       float64 `json:"start"` // seconds
	End         float64 `json:"end"`   // seconds
	BPM         float64 `json:"bpm"`
	Confidence  float64 `json:"confidence"`
	Type        string  `json:"type"` // source part type, or "custom"
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
}

// MusicTags are the container tags read at import time.
type MusicTags struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
	Album  string `json:"album"`
	Genre  string `json:"genre"`
}

// RangeFilter bounds a numeric search field. A zero Min or Max leaves that
// side unbounded, mirroring an omitted bound in the query surface.
type RangeFilter struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// SearchCriteria filters tracks. Provided fields are combined with AND;
// Search alone matches any of title/artist/album/genre (case-insensitive).
type SearchCriteria struct {
	BPM      *RangeFilter `json:"bpm,omitempty"`
	Key      string       `json:"key,omitempty"`
	Duration *RangeFilter `json:"duration,omitempty"`
	HasLoops bool         `json:"hasLoops,omitempty"`
	Artist   string       `json:"artist,omitempty"`
	Search   string       `json:"search,omitempty"`
}

// IsEmpty reports whether no filter fields are set.
func (c SearchCriteria) IsEmpty() bool {
	return c.BPM == nil && c.Key == "" && c.Duration == nil &&
		!c.HasLoops && c.Artist == "" && c.Search == ""
}
