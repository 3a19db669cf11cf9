package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"trackforge/core/library"
	"trackforge/logger"
	"trackforge/model"
)

// APIHandler serves the track query surface consumed by the desktop shell.
type APIHandler struct {
	lib *library.Library
}

// NewAPIHandler creates an APIHandler around one library.
func NewAPIHandler(lib *library.Library) *APIHandler {
	return &APIHandler{lib: lib}
}

// ListTracksHandler responds with every track record, newest first.
func (h *APIHandler) ListTracksHandler(w http.ResponseWriter, r *http.Request) {
	tracks, err := h.lib.GetAllTracks()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondJSON(w, http.StatusOK, tracks)
}

// GetTrackHandler responds with one track record by id.
func (h *APIHandler) GetTrackHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	track, err := h.lib.GetTrackByID(id)
	if err != nil {
		if errors.Is(err, library.ErrNotFound) {
			respondError(w, http.StatusNotFound, err)
			return
		}
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondJSON(w, http.StatusOK, track)
}

// SearchTracksHandler filters tracks by query parameters: bpmMin, bpmMax,
// key, durationMin, durationMax, hasLoops, artist, q.
func (h *APIHandler) SearchTracksHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	criteria := model.SearchCriteria{
		Key:    query.Get("key"),
		Artist: query.Get("artist"),
		Search: query.Get("q"),
	}
	if bpm := parseRange(query.Get("bpmMin"), query.Get("bpmMax")); bpm != nil {
		criteria.BPM = bpm
	}
	if duration := parseRange(query.Get("durationMin"), query.Get("durationMax")); duration != nil {
		criteria.Duration = duration
	}
	if query.Get("hasLoops") == "true" {
		criteria.HasLoops = true
	}

	tracks, err := h.lib.SearchTracks(criteria)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondJSON(w, http.StatusOK, tracks)
}

type importRequest struct {
	Path   string `json:"path"`
	Title  string `json:"title,omitempty"`
	Artist string `json:"artist,omitempty"`
	Album  string `json:"album,omitempty"`
	Genre  string `json:"genre,omitempty"`
}

// ImportTrackHandler imports a file already present on the host filesystem.
func (h *APIHandler) ImportTrackHandler(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	if req.Path == "" {
		respondError(w, http.StatusBadRequest, errors.New("path is required"))
		return
	}

	var tags *model.MusicTags
	if req.Title != "" || req.Artist != "" || req.Album != "" || req.Genre != "" {
		tags = &model.MusicTags{Title: req.Title, Artist: req.Artist, Album: req.Album, Genre: req.Genre}
	}

	track, err := h.lib.ImportTrack(r.Context(), req.Path, tags)
	if err != nil {
		if errors.Is(err, library.ErrUnsupportedFormat) {
			respondError(w, http.StatusUnsupportedMediaType, err)
			return
		}
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondJSON(w, http.StatusCreated, track)
}

// RescanTrackHandler re-runs analysis for one track and persists the result.
func (h *APIHandler) RescanTrackHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	track, err := h.lib.Rescan(r.Context(), id)
	if err != nil {
		if errors.Is(err, library.ErrNotFound) {
			respondError(w, http.StatusNotFound, err)
			return
		}
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondJSON(w, http.StatusOK, track)
}

// DeleteTrackHandler removes a track's audio asset and metadata record.
func (h *APIHandler) DeleteTrackHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.lib.DeleteTrack(id); err != nil {
		if errors.Is(err, library.ErrNotFound) {
			respondError(w, http.StatusNotFound, err)
			return
		}
		var partial *library.PartialDeleteError
		if errors.As(err, &partial) {
			// Half the delete went through; report it but keep 200 so the
			// shell refreshes its list.
			logger.Warn("partial delete", logger.String("id", id), logger.ErrorField(err))
			respondJSON(w, http.StatusOK, map[string]string{"status": "partial", "error": partial.Error()})
			return
		}
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func parseRange(minStr, maxStr string) *model.RangeFilter {
	if minStr == "" && maxStr == "" {
		return nil
	}
	r := &model.RangeFilter{}
	if minStr != "" {
		if v, err := strconv.ParseFloat(minStr, 64); err == nil {
			r.Min = v
		}
	}
	if maxStr != "" {
		if v, err := strconv.ParseFloat(maxStr, 64); err == nil {
			r.Max = v
		}
	}
	return r
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Warn("failed to encode response", logger.ErrorField(err))
	}
}

func respondError(w http.ResponseWriter, status int, err error) {
	respondJSON(w, status, map[string]string{"error": err.Error()})
}
