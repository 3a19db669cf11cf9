package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"trackforge/core/analysis"
	"trackforge/core/audio"
	"trackforge/core/library"
	"trackforge/model"
	"trackforge/repository"
)

func newTestRouter(t *testing.T) *mux.Router {
	t.Helper()
	dir := t.TempDir()
	repo := repository.NewJSONTrackRepository(dir)
	lib := library.New(dir, "test",
		repo,
		audio.NewFFmpegProcessor("ffmpeg"),
		audio.NewFileTagReader(),
		analysis.NewDSPEngine(analysis.DefaultConfig()))
	handler := NewAPIHandler(lib)

	router := mux.NewRouter()
	router.HandleFunc("/api/tracks", handler.ListTracksHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/tracks", handler.ImportTrackHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/tracks/search", handler.SearchTracksHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/tracks/{id}", handler.GetTrackHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/tracks/{id}", handler.DeleteTrackHandler).Methods(http.MethodDelete)
	router.HandleFunc("/api/tracks/{id}/rescan", handler.RescanTrackHandler).Methods(http.MethodPost)
	return router
}

func TestListTracksEmpty(t *testing.T) {
	router := newTestRouter(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tracks", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var tracks []*model.TrackMetadata
	if err := json.NewDecoder(rec.Body).Decode(&tracks); err != nil {
		t.Fatalf("response is not a track list: %v", err)
	}
	if len(tracks) != 0 {
		t.Errorf("len = %d, want 0", len(tracks))
	}
}

func TestGetTrackNotFound(t *testing.T) {
	router := newTestRouter(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tracks/missing", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestDeleteTrackNotFound(t *testing.T) {
	router := newTestRouter(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/tracks/missing", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestRescanTrackNotFound(t *testing.T) {
	router := newTestRouter(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/tracks/missing/rescan", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestSearchTracksQueryParams(t *testing.T) {
	router := newTestRouter(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/api/tracks/search?bpmMin=120&bpmMax=130&key=Am&hasLoops=true", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var tracks []*model.TrackMetadata
	if err := json.NewDecoder(rec.Body).Decode(&tracks); err != nil {
		t.Fatalf("response is not a track list: %v", err)
	}
}

func TestImportTrackBadBody(t *testing.T) {
	router := newTestRouter(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/tracks", strings.NewReader("{not json")))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestImportTrackMissingPath(t *testing.T) {
	router := newTestRouter(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/tracks", strings.NewReader("{}")))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestImportTrackUnsupportedFormat(t *testing.T) {
	router := newTestRouter(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/tracks",
		strings.NewReader(`{"path":"/music/song.flac"}`)))

	if rec.Code != http.StatusUnsupportedMediaType {
		t.Errorf("status = %d, want 415", rec.Code)
	}
}

func TestParseRange(t *testing.T) {
	if parseRange("", "") != nil {
		t.Error("empty bounds should yield nil filter")
	}
	r := parseRange("120", "")
	if r == nil || r.Min != 120 || r.Max != 0 {
		t.Errorf("parseRange(120,) = %+v", r)
	}
	r = parseRange("", "130.5")
	if r == nil || r.Min != 0 || r.Max != 130.5 {
		t.Errorf("parseRange(,130.5) = %+v", r)
	}
}
