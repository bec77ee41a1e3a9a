package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type server struct {
	router       chi.Router
	catalog      CatalogStore
	db           *database
	acquirer     *acquirer
	jamendo      *jamendoClient
	downloadsDir string
}

func newServer(dataDir, jamendoClientID string) (*server, error) {
	downloadsDir := filepath.Join(dataDir, "downloads")
	err := os.MkdirAll(downloadsDir, 0755)
	if err != nil {
		return nil, err
	}

	catalog := newJSONCatalog(filepath.Join(dataDir, "library.json"))

	db, err := newDatabase(filepath.Join(dataDir, "library.db"))
	if err != nil {
		return nil, err
	}

	s := &server{
		catalog: catalog,
		db:      db,
		acquirer: &acquirer{
			resolver: newOEmbedClient(),
			fetcher:  newDownloadFetcher(downloadsDir),
			catalog:  catalog,
		},
		downloadsDir: downloadsDir,
	}

	if jamendoClientID != "" {
		s.jamendo = newJamendoClient(jamendoClientID)
	}

	s.router = s.routes()
	return s, nil
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("File server is running"))
	})

	r.Post("/add-song", s.postAddSong)
	r.Get("/list", s.getList)

	r.Get("/songs", s.getSongs)
	r.Patch("/songs/{id}", s.patchSong)
	r.Delete("/songs/{id}", s.deleteSong)
	// Route the mobile client still calls.
	r.Delete("/delete-song/{id}", s.deleteSong)

	r.Handle("/downloads/*", http.StripPrefix("/downloads/", http.FileServer(http.Dir(s.downloadsDir))))

	r.Get("/discover/genres", s.getGenres)
	r.Get("/discover/tracks", s.getDiscoverTracks)

	r.Post("/plays", s.postPlay)
	r.Get("/plays", s.getPlays)
	r.Get("/stats", s.getStats)

	r.Get("/playlists", s.getPlaylists)
	r.Get("/playlists/{id}", s.getPlaylist)
	r.Post("/playlists", s.postPlaylist)

	return r
}

func (s *server) renderJSON(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	err := json.NewEncoder(w).Encode(data)
	if err != nil {
		slog.Error("serving json", "error", err)
	}
}

func (s *server) renderError(w http.ResponseWriter, code int, errCode string, reqErr error) {
	if code >= http.StatusInternalServerError {
		slog.Error("request failed", "code", errCode, "error", reqErr)
	}

	s.renderJSON(w, code, map[string]interface{}{
		"error": map[string]string{
			"code":    errCode,
			"message": reqErr.Error(),
		},
	})
}

// renderFailure maps pipeline and store errors onto HTTP statuses and
// structured error codes.
func (s *server) renderFailure(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUnsupportedSource):
		s.renderError(w, http.StatusBadRequest, "unsupported_source", err)
	case errors.Is(err, ErrMalformedURL):
		s.renderError(w, http.StatusBadRequest, "malformed_url", err)
	case errors.Is(err, ErrMetadataUnavailable):
		s.renderError(w, http.StatusBadGateway, "metadata_unavailable", err)
	case errors.Is(err, ErrDuplicateSong):
		s.renderError(w, http.StatusConflict, "duplicate_song", err)
	case errors.Is(err, ErrSongNotFound):
		s.renderError(w, http.StatusNotFound, "song_not_found", err)
	case errors.Is(err, ErrCatalogCorrupt):
		s.renderError(w, http.StatusInternalServerError, "catalog_corrupt", err)
	default:
		var assetErr *assetError
		if errors.As(err, &assetErr) {
			s.renderError(w, http.StatusInternalServerError, "asset_fetch_failed", err)
			return
		}
		s.renderError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
