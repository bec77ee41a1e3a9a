package main

import (
	"errors"
	"net/http"
	"strings"
)

var errDiscoveryDisabled = errors.New("discovery is disabled: no Jamendo client id configured")

func (s *server) getGenres(w http.ResponseWriter, r *http.Request) {
	if s.jamendo == nil {
		s.renderError(w, http.StatusServiceUnavailable, "discovery_disabled", errDiscoveryDisabled)
		return
	}

	genres, err := s.jamendo.Genres(r.Context())
	if err != nil {
		s.renderError(w, http.StatusBadGateway, "discovery_failed", err)
		return
	}

	s.renderJSON(w, http.StatusOK, genres)
}

func (s *server) getDiscoverTracks(w http.ResponseWriter, r *http.Request) {
	if s.jamendo == nil {
		s.renderError(w, http.StatusServiceUnavailable, "discovery_disabled", errDiscoveryDisabled)
		return
	}

	var genreIDs []string
	if raw := r.URL.Query().Get("genres"); raw != "" {
		genreIDs = strings.Split(raw, ",")
	}

	tracks, err := s.jamendo.TracksByGenres(r.Context(), genreIDs)
	if err != nil {
		s.renderError(w, http.StatusBadGateway, "discovery_failed", err)
		return
	}

	s.renderJSON(w, http.StatusOK, tracks)
}
