package library

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"trackforge/core/analysis"
	"trackforge/core/audio"
	"trackforge/logger"
	"trackforge/model"
	"trackforge/repository"
)

// Event describes a lifecycle notification emitted while a track is
// imported, analyzed or deleted. Consumed by the desktop-shell event feed.
type Event struct {
	Type    string `json:"event"`
	TrackID string `json:"trackId"`
	Stage   string `json:"stage,omitempty"`
}

// Library is the track metadata store: it owns the import → analyze →
// persist → query lifecycle and is the sole writer of track records.
// Readers always receive freshly loaded copies, never live references.
type Library struct {
	repo      repository.TrackRepository
	processor audio.Processor
	tags      audio.TagReader
	engine    analysis.Engine
	dir       string
	version   string

	// OnEvent, when set, receives lifecycle notifications. It is called
	// synchronously and must not block.
	OnEvent func(Event)

	mu       sync.Mutex
	inflight map[string]*sync.Mutex
}

// New creates a library bound to one root directory for its lifetime.
// All collaborators are injected; there are no hidden globals.
func New(dir, version string, repo repository.TrackRepository, processor audio.Processor, tags audio.TagReader, engine analysis.Engine) *Library {
	return &Library{
		repo:      repo,
		processor: processor,
		tags:      tags,
		engine:    engine,
		dir:       dir,
		version:   version,
		inflight:  make(map[string]*sync.Mutex),
	}
}

func (l *Library) emit(eventType, trackID, stage string) {
	if l.OnEvent != nil {
		l.OnEvent(Event{Type: eventType, TrackID: trackID, Stage: stage})
	}
}

// lockTrack serializes analysis per track id: analysis mutates the record
// in place, so two concurrent runs on the same track would interleave
// their results.
func (l *Library) lockTrack(id string) func() {
	l.mu.Lock()
	m, ok := l.inflight[id]
	if !ok {
		m = &sync.Mutex{}
		l.inflight[id] = m
	}
	l.mu.Unlock()
	m.Lock()
	return m.Unlock
}

// IsImportable reports whether a path has a supported audio extension.
func IsImportable(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3", ".wav":
		return true
	}
	return false
}

// ImportTrack brings an audio file into the library: the source is
// converted (MP3) or copied (WAV) to the canonical storage format, tags
// are read unless explicit ones are supplied, a full analysis pass runs,
// and the finished record is persisted. Nothing is persisted when any
// step fails.
func (l *Library) ImportTrack(ctx context.Context, path string, explicitTags *model.MusicTags) (*model.TrackMetadata, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".mp3" && ext != ".wav" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}

	if err := os.MkdirAll(l.dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create library directory %s: %w", l.dir, err)
	}

	filename := filepath.Base(path)
	base := strings.TrimSuffix(filename, ext)
	id := fmt.Sprintf("%s_%s", base, uuid.New().String()[:8])
	wavPath := filepath.Join(l.dir, base+".wav")

	l.emit("import", id, "converting")
	if ext == ".mp3" {
		// Validate the source before the expensive transcode: a container
		// with no audio stream fails here instead of half-way through.
		srcInfo, err := l.processor.Probe(ctx, path)
		if err != nil {
			return nil, &DecodeError{Path: path, Err: err}
		}
		logger.Debug("import source probed",
			logger.String("path", path),
			logger.Float64("duration", srcInfo.Duration),
			logger.Int("sampleRate", srcInfo.SampleRate),
			logger.Int("channels", srcInfo.Channels))
		if err := l.processor.ConvertToWAV(ctx, path, wavPath); err != nil {
			return nil, &ConvertError{Path: path, Err: err}
		}
	} else {
		if err := copyFile(path, wavPath); err != nil {
			return nil, fmt.Errorf("failed to copy %s into library: %w", path, err)
		}
	}

	info, err := audio.ProbeWAV(wavPath)
	if err != nil {
		return nil, &DecodeError{Path: wavPath, Err: err}
	}

	tags := explicitTags
	if tags == nil {
		read := l.tags.ReadTags(path)
		tags = &read
	}

	now := time.Now()
	record := &model.TrackMetadata{
		ID:           id,
		Filename:     filename,
		OriginalPath: path,
		WavPath:      wavPath,
		Duration:     info.Duration,
		SampleRate:   info.SampleRate,
		BitDepth:     info.BitDepth,
		Channels:     info.Channels,

		// Placeholders, overwritten by analysis below.
		BPM:       120,
		Key:       "C",
		Beatgrid:  []model.BeatGridPoint{},
		Structure: model.SongStructure{Parts: []model.Part{}},
		Loops:     []model.Loop{},

		CreatedAt: now,
		UpdatedAt: now,
		Version:   l.version,

		Title:  tags.Title,
		Artist: tags.Artist,
		Album:  tags.Album,
		Genre:  tags.Genre,
	}

	if err := l.AnalyzeTrack(ctx, record); err != nil {
		return nil, err
	}
	if err := l.repo.Save(record); err != nil {
		return nil, err
	}

	l.emit("import", id, "done")
	logger.Info("track imported",
		logger.String("id", record.ID),
		logger.String("title", record.Title),
		logger.Float64("bpm", record.BPM),
		logger.String("key", record.Key))
	return record, nil
}

// AnalyzeTrack decodes the stored WAV and overwrites the record's analysis
// fields in place: bpm, key, beatgrid, structure, then loops (loops depend
// on structure and bpm, so the order is fixed). The record is not
// persisted here; callers persist only after the whole pass succeeds.
// Concurrent analysis of the same track id is serialized internally.
func (l *Library) AnalyzeTrack(ctx context.Context, record *model.TrackMetadata) error {
	unlock := l.lockTrack(record.ID)
	defer unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	samples, sampleRate, err := audio.DecodeWAV(record.WavPath)
	if err != nil {
		return &DecodeError{Path: record.WavPath, Err: err}
	}

	l.emit("analyze", record.ID, "bpm")
	record.BPM = l.engine.EstimateBPM(samples, sampleRate)

	l.emit("analyze", record.ID, "key")
	record.Key = l.engine.EstimateKey(samples, sampleRate)

	l.emit("analyze", record.ID, "beatgrid")
	record.Beatgrid = l.engine.EstimateBeatgrid(samples, sampleRate)

	l.emit("analyze", record.ID, "structure")
	record.Structure = l.engine.SegmentStructure(samples, sampleRate, record.Duration)

	l.emit("analyze", record.ID, "loops")
	record.Loops = l.engine.FindLoops(samples, sampleRate, record.Structure, record.BPM)

	record.UpdatedAt = time.Now()
	l.emit("analyze", record.ID, "done")
	return nil
}

// Rescan re-analyzes one persisted track and saves the refreshed record.
// On failure the previously persisted record is left untouched.
func (l *Library) Rescan(ctx context.Context, id string) (*model.TrackMetadata, error) {
	track, err := l.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if track == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err := l.AnalyzeTrack(ctx, track); err != nil {
		return nil, err
	}
	if err := l.repo.Save(track); err != nil {
		return nil, err
	}
	return track, nil
}

// RescanAll re-analyzes every track in the library. Per-track failures are
// logged and skipped; the count of successfully rescanned tracks is
// returned.
func (l *Library) RescanAll(ctx context.Context) (int, error) {
	tracks, err := l.repo.ListAll()
	if err != nil {
		return 0, err
	}
	count := 0
	for _, track := range tracks {
		if err := ctx.Err(); err != nil {
			return count, err
		}
		if _, err := l.Rescan(ctx, track.ID); err != nil {
			logger.Warn("rescan failed",
				logger.String("id", track.ID), logger.ErrorField(err))
			continue
		}
		count++
	}
	return count, nil
}

// GetAllTracks lists every persisted record, newest first.
func (l *Library) GetAllTracks() ([]*model.TrackMetadata, error) {
	return l.repo.ListAll()
}

// GetTrackByID loads one record, or ErrNotFound.
func (l *Library) GetTrackByID(id string) (*model.TrackMetadata, error) {
	track, err := l.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if track == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return track, nil
}

// SearchTracks filters the library in memory. Provided criteria fields
// combine with AND; the free-text term matches any of title, artist,
// album or genre. Empty criteria return everything.
func (l *Library) SearchTracks(criteria model.SearchCriteria) ([]*model.TrackMetadata, error) {
	tracks, err := l.repo.ListAll()
	if err != nil {
		return nil, err
	}
	matched := make([]*model.TrackMetadata, 0, len(tracks))
	for _, track := range tracks {
		if matchesCriteria(track, criteria) {
			matched = append(matched, track)
		}
	}
	return matched, nil
}

func matchesCriteria(t *model.TrackMetadata, c model.SearchCriteria) bool {
	if c.BPM != nil {
		if c.BPM.Min != 0 && t.BPM < c.BPM.Min {
			return false
		}
		if c.BPM.Max != 0 && t.BPM > c.BPM.Max {
			return false
		}
	}
	if c.Key != "" && t.Key != c.Key {
		return false
	}
	if c.Duration != nil {
		if c.Duration.Min != 0 && t.Duration < c.Duration.Min {
			return false
		}
		if c.Duration.Max != 0 && t.Duration > c.Duration.Max {
			return false
		}
	}
	if c.HasLoops && len(t.Loops) == 0 {
		return false
	}
	if c.Artist != "" && !strings.Contains(strings.ToLower(t.Artist), strings.ToLower(c.Artist)) {
		return false
	}
	if c.Search != "" {
		haystack := strings.ToLower(t.Title + " " + t.Artist + " " + t.Album + " " + t.Genre)
		if !strings.Contains(haystack, strings.ToLower(c.Search)) {
			return false
		}
	}
	return true
}

// DeleteTrack removes a track's WAV asset and metadata record. When only
// one of the two removals succeeds the inconsistency is reported as a
// PartialDeleteError; the successful removal is not rolled back.
func (l *Library) DeleteTrack(id string) error {
	track, err := l.repo.FindByID(id)
	if err != nil {
		return err
	}
	if track == nil {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	assetErr := os.Remove(track.WavPath)
	recordErr := l.repo.DeleteRecord(track)

	switch {
	case assetErr == nil && recordErr == nil:
		l.emit("delete", id, "done")
		logger.Info("track deleted", logger.String("id", id))
		return nil
	case assetErr != nil && recordErr != nil:
		return fmt.Errorf("failed to delete track %s: asset: %v; record: %v", id, assetErr, recordErr)
	case assetErr != nil:
		return &PartialDeleteError{TrackID: id, AssetRemoved: false, RecordRemoved: true, Err: assetErr}
	default:
		return &PartialDeleteError{TrackID: id, AssetRemoved: true, RecordRemoved: false, Err: recordErr}
	}
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
