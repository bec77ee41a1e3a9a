package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
)

func (s *server) postAddSong(w http.ResponseWriter, r *http.Request) {
	var req addSongRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		s.renderError(w, http.StatusBadRequest, "invalid_body", err)
		return
	}

	slog.Info("received new song", "url", req.URL)

	entry, err := s.acquirer.Submit(r.Context(), req)
	if err != nil {
		s.renderFailure(w, err)
		return
	}

	slog.Info("song added", "id", entry.ID, "title", entry.Title)
	s.renderJSON(w, http.StatusOK, entry)
}

func (s *server) getList(w http.ResponseWriter, r *http.Request) {
	files, err := listAudioFiles(s.downloadsDir)
	if err != nil {
		s.renderError(w, http.StatusInternalServerError, "storage_io_error", err)
		return
	}

	s.renderJSON(w, http.StatusOK, files)
}

func (s *server) getSongs(w http.ResponseWriter, r *http.Request) {
	songs, err := s.catalog.List()
	if err != nil {
		s.renderFailure(w, err)
		return
	}

	s.renderJSON(w, http.StatusOK, songs)
}

type patchSongRequest struct {
	Rating         *int    `json:"rating,omitempty"`
	AddPlaylist    *string `json:"add_playlist,omitempty"`
	RemovePlaylist *string `json:"remove_playlist,omitempty"`
}

func (s *server) patchSong(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		s.renderError(w, http.StatusBadRequest, "missing_id", errors.New("song id is missing"))
		return
	}

	var req patchSongRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		s.renderError(w, http.StatusBadRequest, "invalid_body", err)
		return
	}

	err = s.catalog.Update(id, func(entry *SongEntry) error {
		if req.Rating != nil {
			entry.Rating = *req.Rating
		}
		if req.AddPlaylist != nil && !entry.inPlaylist(*req.AddPlaylist) {
			entry.Playlists = append(entry.Playlists, *req.AddPlaylist)
		}
		if req.RemovePlaylist != nil {
			kept := entry.Playlists[:0]
			for _, p := range entry.Playlists {
				if p != *req.RemovePlaylist {
					kept = append(kept, p)
				}
			}
			entry.Playlists = kept
		}
		return nil
	})
	if err != nil {
		s.renderFailure(w, err)
		return
	}

	entry, err := s.catalog.Get(id)
	if err != nil {
		s.renderFailure(w, err)
		return
	}

	s.renderJSON(w, http.StatusOK, entry)
}

func (s *server) deleteSong(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		s.renderError(w, http.StatusBadRequest, "missing_id", errors.New("song id is missing"))
		return
	}

	err := s.catalog.Remove(id)
	if err != nil {
		s.renderFailure(w, err)
		return
	}

	// Asset cleanup is best effort; a leftover file becomes an orphan the
	// /list endpoint may still show.
	for _, name := range []string{id + ".mp3", id + ".jpg"} {
		err := os.Remove(filepath.Join(s.downloadsDir, name))
		if err != nil && !os.IsNotExist(err) {
			slog.Warn("could not remove asset", "file", name, "error", err)
		}
	}

	s.renderJSON(w, http.StatusOK, map[string]string{"status": "deleted", "id": id})
}
