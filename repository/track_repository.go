package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"trackforge/logger"
	"trackforge/model"
)

// TrackRepository defines the interface for track record persistence.
type TrackRepository interface {
	Save(track *model.TrackMetadata) error
	FindByID(id string) (*model.TrackMetadata, error)
	ListAll() ([]*model.TrackMetadata, error)
	DeleteRecord(track *model.TrackMetadata) error
	RecordPath(track *model.TrackMetadata) string
}

// jsonTrackRepository implements TrackRepository with one JSON file per
// track, stored next to the track's canonical WAV.
type jsonTrackRepository struct {
	dir string
}

// NewJSONTrackRepository creates a repository rooted at the library
// directory.
func NewJSONTrackRepository(dir string) TrackRepository {
	return &jsonTrackRepository{dir: dir}
}

// RecordPath is the metadata file path for a track: the WAV basename with
// a .json extension, inside the library directory.
func (r *jsonTrackRepository) RecordPath(track *model.TrackMetadata) string {
	base := strings.TrimSuffix(filepath.Base(track.WavPath), filepath.Ext(track.WavPath))
	return filepath.Join(r.dir, base+".json")
}

// Save writes the record atomically: a temp file in the same directory is
// renamed over the target, so a crash mid-write never leaves a torn record.
func (r *jsonTrackRepository) Save(track *model.TrackMetadata) error {
	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return fmt.Errorf("failed to create library directory %s: %w", r.dir, err)
	}

	data, err := json.MarshalIndent(track, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal record for track %s: %w", track.ID, err)
	}

	target := r.RecordPath(track)
	tmp, err := os.CreateTemp(r.dir, ".record-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp record file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write record for track %s: %w", track.ID, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp record file: %w", err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to persist record for track %s: %w", track.ID, err)
	}
	return nil
}

// FindByID retrieves a track by its ID, or nil when no record matches.
func (r *jsonTrackRepository) FindByID(id string) (*model.TrackMetadata, error) {
	tracks, err := r.ListAll()
	if err != nil {
		return nil, err
	}
	for _, track := range tracks {
		if track.ID == id {
			return track, nil
		}
	}
	return nil, nil // track not found
}

// ListAll loads every record in the library, newest first. A record that
// fails to parse is skipped with a warning so one corrupt file cannot
// block listing the rest.
func (r *jsonTrackRepository) ListAll() ([]*model.TrackMetadata, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []*model.TrackMetadata{}, nil
		}
		return nil, fmt.Errorf("failed to read library directory %s: %w", r.dir, err)
	}

	tracks := make([]*model.TrackMetadata, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(r.dir, entry.Name())
		track, err := loadRecord(path)
		if err != nil {
			logger.Warn("skipping unreadable track record",
				logger.String("path", path), logger.ErrorField(err))
			continue
		}
		tracks = append(tracks, track)
	}

	sort.Slice(tracks, func(i, j int) bool {
		return tracks[i].CreatedAt.After(tracks[j].CreatedAt)
	})
	return tracks, nil
}

// DeleteRecord removes a track's metadata file.
func (r *jsonTrackRepository) DeleteRecord(track *model.TrackMetadata) error {
	if err := os.Remove(r.RecordPath(track)); err != nil {
		return fmt.Errorf("failed to delete record for track %s: %w", track.ID, err)
	}
	return nil
}

func loadRecord(path string) (*model.TrackMetadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read record %s: %w", path, err)
	}
	track := &model.TrackMetadata{}
	if err := json.Unmarshal(data, track); err != nil {
		return nil, fmt.Errorf("failed to parse record %s: %w", path, err)
	}
	return track, nil
}
