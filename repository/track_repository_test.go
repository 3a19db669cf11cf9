package repository

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"trackforge/model"
)

func testTrack(id string, createdAt time.Time) *model.TrackMetadata {
	return &model.TrackMetadata{
		ID:        id,
		Filename:  id + ".mp3",
		WavPath:   "/lib/" + id + ".wav",
		Duration:  120,
		BPM:       128,
		Key:       "Am",
		Beatgrid:  []model.BeatGridPoint{},
		Structure: model.SongStructure{Parts: []model.Part{}},
		Loops:     []model.Loop{},
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
		Version:   "1.0.0",
		Title:     "Title " + id,
	}
}

func TestSaveAndFindByID(t *testing.T) {
	repo := NewJSONTrackRepository(t.TempDir())
	track := testTrack("track_1", time.Now())

	if err := repo.Save(track); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	found, err := repo.FindByID("track_1")
	if err != nil {
		t.Fatalf("FindByID() error: %v", err)
	}
	if found == nil {
		t.Fatal("FindByID() returned nil for saved track")
	}
	if found.ID != track.ID || found.BPM != track.BPM || found.Key != track.Key {
		t.Errorf("loaded record differs: %+v", found)
	}
	if !found.CreatedAt.Truncate(time.Millisecond).Equal(track.CreatedAt.Truncate(time.Millisecond)) {
		t.Errorf("CreatedAt %v != %v", found.CreatedAt, track.CreatedAt)
	}
}

func TestFindByIDMissing(t *testing.T) {
	repo := NewJSONTrackRepository(t.TempDir())
	found, err := repo.FindByID("nope")
	if err != nil {
		t.Fatalf("FindByID() error: %v", err)
	}
	if found != nil {
		t.Errorf("FindByID() = %+v, want nil", found)
	}
}

func TestSaveOverwritesExistingRecord(t *testing.T) {
	repo := NewJSONTrackRepository(t.TempDir())
	track := testTrack("track_1", time.Now())
	if err := repo.Save(track); err != nil {
		t.Fatal(err)
	}

	track.BPM = 140
	if err := repo.Save(track); err != nil {
		t.Fatal(err)
	}

	found, err := repo.FindByID("track_1")
	if err != nil || found == nil {
		t.Fatalf("FindByID() = %v, %v", found, err)
	}
	if found.BPM != 140 {
		t.Errorf("BPM = %v, want 140", found.BPM)
	}
}

func TestListAllNewestFirst(t *testing.T) {
	repo := NewJSONTrackRepository(t.TempDir())
	base := time.Now()
	for i, id := range []string{"oldest", "middle", "newest"} {
		if err := repo.Save(testTrack(id, base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatal(err)
		}
	}

	tracks, err := repo.ListAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(tracks) != 3 {
		t.Fatalf("len = %d, want 3", len(tracks))
	}
	if tracks[0].ID != "newest" || tracks[2].ID != "oldest" {
		t.Errorf("wrong order: %s, %s, %s", tracks[0].ID, tracks[1].ID, tracks[2].ID)
	}
}

func TestListAllEmptyDirectory(t *testing.T) {
	repo := NewJSONTrackRepository(filepath.Join(t.TempDir(), "does-not-exist"))
	tracks, err := repo.ListAll()
	if err != nil {
		t.Fatalf("ListAll() error: %v", err)
	}
	if tracks == nil || len(tracks) != 0 {
		t.Errorf("ListAll() = %v, want empty slice", tracks)
	}
}

func TestListAllSkipsCorruptRecords(t *testing.T) {
	dir := t.TempDir()
	repo := NewJSONTrackRepository(dir)
	if err := repo.Save(testTrack("good", time.Now())); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	tracks, err := repo.ListAll()
	if err != nil {
		t.Fatalf("ListAll() error: %v", err)
	}
	if len(tracks) != 1 || tracks[0].ID != "good" {
		t.Errorf("ListAll() = %+v, want just the good record", tracks)
	}
}

func TestDeleteRecord(t *testing.T) {
	repo := NewJSONTrackRepository(t.TempDir())
	track := testTrack("track_1", time.Now())
	if err := repo.Save(track); err != nil {
		t.Fatal(err)
	}

	if err := repo.DeleteRecord(track); err != nil {
		t.Fatalf("DeleteRecord() error: %v", err)
	}
	found, err := repo.FindByID("track_1")
	if err != nil {
		t.Fatal(err)
	}
	if found != nil {
		t.Errorf("record still present after delete: %+v", found)
	}

	if err := repo.DeleteRecord(track); err == nil {
		t.Error("deleting a missing record should fail")
	}
}

func TestRecordPath(t *testing.T) {
	dir := t.TempDir()
	repo := NewJSONTrackRepository(dir)
	track := testTrack("track_1", time.Now())
	track.WavPath = "/somewhere/else/mytrack.wav"

	want := filepath.Join(dir, "mytrack.json")
	if got := repo.RecordPath(track); got != want {
		t.Errorf("RecordPath() = %q, want %q", got, want)
	}
}
