package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
)

type playRequest struct {
	SongID  string `json:"song_id"`
	Seconds int    `json:"seconds,omitempty"`
}

func (s *server) postPlay(w http.ResponseWriter, r *http.Request) {
	var req playRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		s.renderError(w, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if req.SongID == "" {
		s.renderError(w, http.StatusBadRequest, "missing_id", errors.New("song id is missing"))
		return
	}

	play := &Play{
		SongID:  req.SongID,
		Seconds: req.Seconds,
	}

	// Denormalize the display fields so stats survive catalog deletes.
	entry, err := s.catalog.Get(req.SongID)
	if err == nil {
		play.Title = entry.Title
		play.Artist = entry.Artist
	} else if !errors.Is(err, ErrSongNotFound) {
		s.renderFailure(w, err)
		return
	}

	err = s.db.CreatePlay(r.Context(), play)
	if err != nil {
		s.renderError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}

	s.renderJSON(w, http.StatusOK, play)
}

const playsPageSize = 50

func (s *server) getPlays(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}

	plays, err := s.db.GetPlays(r.Context(), (page-1)*playsPageSize, playsPageSize)
	if err != nil {
		s.renderError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}

	s.renderJSON(w, http.StatusOK, plays)
}

func (s *server) getStats(w http.ResponseWriter, r *http.Request) {
	plays, err := s.db.CountPlays(r.Context())
	if err != nil {
		s.renderError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}

	seconds, err := s.db.TotalSeconds(r.Context())
	if err != nil {
		s.renderError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}

	topArtist, err := s.db.TopArtist(r.Context())
	if err != nil {
		s.renderError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}

	playlists, err := s.db.CountPlaylists(r.Context())
	if err != nil {
		s.renderError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}

	songs, err := s.catalog.List()
	if err != nil {
		s.renderFailure(w, err)
		return
	}

	s.renderJSON(w, http.StatusOK, map[string]interface{}{
		"songs":              len(songs),
		"plays":              plays,
		"listened_seconds":   seconds,
		"listened_minutes":   seconds / 60,
		"most_played_artist": topArtist,
		"playlists":          playlists,
	})
}
