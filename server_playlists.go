package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"
)

func (s *server) getPlaylists(w http.ResponseWriter, r *http.Request) {
	playlists, err := s.db.GetPlaylists(r.Context())
	if err != nil {
		s.renderError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}

	s.renderJSON(w, http.StatusOK, playlists)
}

func (s *server) getPlaylist(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		s.renderError(w, http.StatusBadRequest, "missing_id", errors.New("playlist id is missing"))
		return
	}

	playlist, err := s.db.GetPlaylist(r.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.renderError(w, http.StatusNotFound, "playlist_not_found", err)
			return
		}
		s.renderError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}

	// Membership lives on the catalog entries, so collect them here.
	songs, err := s.catalog.List()
	if err != nil {
		s.renderFailure(w, err)
		return
	}
	members := []SongEntry{}
	for _, song := range songs {
		if song.inPlaylist(id) {
			members = append(members, song)
		}
	}

	s.renderJSON(w, http.StatusOK, map[string]interface{}{
		"playlist": playlist,
		"songs":    members,
	})
}

func (s *server) postPlaylist(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		s.renderError(w, http.StatusBadRequest, "invalid_body", err)
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		s.renderError(w, http.StatusBadRequest, "missing_name", errors.New("playlist name is missing"))
		return
	}

	playlist, err := s.db.CreatePlaylist(r.Context(), name)
	if err != nil {
		s.renderError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}

	s.renderJSON(w, http.StatusOK, playlist)
}
