package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServer wires a server around in-memory and temp-dir dependencies.
func newTestServer(t *testing.T, catalog CatalogStore, fetcher assetFetcher, resolver metadataResolver) *server {
	t.Helper()

	dataDir := t.TempDir()
	downloadsDir := filepath.Join(dataDir, "downloads")
	require.NoError(t, os.MkdirAll(downloadsDir, 0755))

	db, err := newDatabase(filepath.Join(dataDir, "library.db"))
	require.NoError(t, err)

	s := &server{
		catalog: catalog,
		db:      db,
		acquirer: &acquirer{
			resolver: resolver,
			fetcher:  fetcher,
			catalog:  catalog,
		},
		downloadsDir: downloadsDir,
	}
	s.router = s.routes()
	return s
}

func TestRootEndpoint(t *testing.T) {
	s := newTestServer(t, &memCatalog{}, &stubFetcher{}, &stubResolver{})

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "File server is running", rec.Body.String())
}

func TestPostAddSong(t *testing.T) {
	resolver := &stubResolver{info: videoInfo{Title: "Song X", AuthorName: "Artist Y", ThumbnailURL: "https://img.example/t.jpg"}}
	catalog := &memCatalog{}
	s := newTestServer(t, catalog, &stubFetcher{}, resolver)

	body, _ := json.Marshal(addSongRequest{URL: "https://youtube.com/watch?v=ABC123"})
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/add-song", bytes.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var entry SongEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entry))
	assert.Equal(t, "ABC123", entry.ID)
	assert.Equal(t, "Song X", entry.Title)
	assert.Equal(t, "Artist Y", entry.Artist)
	assert.Equal(t, "/downloads/ABC123.mp3", entry.URL)

	songs, err := catalog.List()
	require.NoError(t, err)
	assert.Len(t, songs, 1)
}

func TestPostAddSongUnsupportedSource(t *testing.T) {
	catalog := &memCatalog{}
	s := newTestServer(t, catalog, &stubFetcher{}, &stubResolver{})

	body, _ := json.Marshal(addSongRequest{URL: "https://example.com/video"})
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/add-song", bytes.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unsupported_source")
	assert.Empty(t, catalog.songs)
}

func TestPostAddSongMetadataUnavailable(t *testing.T) {
	resolver := &stubResolver{err: ErrMetadataUnavailable}
	fetcher := &stubFetcher{}
	s := newTestServer(t, &memCatalog{}, fetcher, resolver)

	body, _ := json.Marshal(addSongRequest{URL: "https://youtube.com/watch?v=BAD404"})
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/add-song", bytes.NewReader(body)))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "metadata_unavailable")
	assert.Zero(t, fetcher.audioCalls)
}

func TestGetSongs(t *testing.T) {
	catalog := &memCatalog{songs: []SongEntry{{ID: "a1", Title: "One"}, {ID: "b2", Title: "Two"}}}
	s := newTestServer(t, catalog, &stubFetcher{}, &stubResolver{})

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/songs", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var songs []SongEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &songs))
	assert.Len(t, songs, 2)
}

func TestGetList(t *testing.T) {
	s := newTestServer(t, &memCatalog{}, &stubFetcher{}, &stubResolver{})

	for _, name := range []string{"ABC123.mp3", "XYZ789.m4a", "ABC123.jpg", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(s.downloadsDir, name), []byte("x"), 0666))
	}

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/list", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var files []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &files))
	assert.Equal(t, []string{"ABC123.mp3", "XYZ789.m4a"}, files)
}

func TestPatchSong(t *testing.T) {
	catalog := &memCatalog{songs: []SongEntry{{ID: "a1"}}}
	s := newTestServer(t, catalog, &stubFetcher{}, &stubResolver{})

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/songs/a1", bytes.NewReader([]byte(`{"rating": 5, "add_playlist": "focus"}`))))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	entry, err := catalog.Get("a1")
	require.NoError(t, err)
	assert.Equal(t, 5, entry.Rating)
	assert.True(t, entry.inPlaylist("focus"))
}

func TestDeleteSong(t *testing.T) {
	catalog := &memCatalog{songs: []SongEntry{{ID: "ABC123"}}}
	s := newTestServer(t, catalog, &stubFetcher{}, &stubResolver{})

	for _, name := range []string{"ABC123.mp3", "ABC123.jpg"} {
		require.NoError(t, os.WriteFile(filepath.Join(s.downloadsDir, name), []byte("x"), 0666))
	}

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/songs/ABC123", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	songs, err := catalog.List()
	require.NoError(t, err)
	assert.Empty(t, songs)

	_, err = os.Stat(filepath.Join(s.downloadsDir, "ABC123.mp3"))
	assert.True(t, os.IsNotExist(err), "audio asset should be cleaned up")

	// Deleting again is still a success.
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/delete-song/ABC123", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDiscoveryDisabledWithoutClientID(t *testing.T) {
	s := newTestServer(t, &memCatalog{}, &stubFetcher{}, &stubResolver{})

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/discover/genres", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "discovery_disabled")
}

func TestPlaysAndStats(t *testing.T) {
	catalog := &memCatalog{songs: []SongEntry{{ID: "a1", Title: "One", Artist: "Artist Y"}}}
	s := newTestServer(t, catalog, &stubFetcher{}, &stubResolver{})

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/plays", bytes.NewReader([]byte(`{"song_id": "a1", "seconds": 120}`))))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var stats map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.EqualValues(t, 3, stats["plays"])
	assert.EqualValues(t, 360, stats["listened_seconds"])
	assert.EqualValues(t, 6, stats["listened_minutes"])
	assert.Equal(t, "Artist Y", stats["most_played_artist"])
	assert.EqualValues(t, 1, stats["songs"])
}

func TestPlaylistsEndpoints(t *testing.T) {
	s := newTestServer(t, &memCatalog{}, &stubFetcher{}, &stubResolver{})

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/playlists", bytes.NewReader([]byte(`{"name": "Road Trip"}`))))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var created Playlist
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Road Trip", created.Name)

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/playlists", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var playlists []Playlist
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &playlists))
	require.Len(t, playlists, 1)
	assert.Equal(t, created.ID, playlists[0].ID)

	// Empty name is rejected.
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/playlists", bytes.NewReader([]byte(`{"name": "  "}`))))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetPlaylistWithMembers(t *testing.T) {
	catalog := &memCatalog{songs: []SongEntry{{ID: "a1"}, {ID: "b2"}}}
	s := newTestServer(t, catalog, &stubFetcher{}, &stubResolver{})

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/playlists", bytes.NewReader([]byte(`{"name": "Focus"}`))))
	require.Equal(t, http.StatusOK, rec.Code)

	var created Playlist
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/songs/b2", bytes.NewReader([]byte(`{"add_playlist": "`+created.ID+`"}`))))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/playlists/"+created.ID, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Playlist Playlist    `json:"playlist"`
		Songs    []SongEntry `json:"songs"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Focus", resp.Playlist.Name)
	require.Len(t, resp.Songs, 1)
	assert.Equal(t, "b2", resp.Songs[0].ID)

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/playlists/unknown", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetPlays(t *testing.T) {
	catalog := &memCatalog{songs: []SongEntry{{ID: "a1", Title: "One", Artist: "Artist Y"}}}
	s := newTestServer(t, catalog, &stubFetcher{}, &stubResolver{})

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/plays", bytes.NewReader([]byte(`{"song_id": "a1", "seconds": 90}`))))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/plays", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var plays []Play
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plays))
	require.Len(t, plays, 1)
	assert.Equal(t, "a1", plays[0].SongID)
	assert.Equal(t, "Artist Y", plays[0].Artist)
}
