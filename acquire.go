package main

import (
	"context"
	"fmt"
	"strings"
)

// addSongRequest is the submission body. Title, artist, rating and
// playlist only fill gaps the resolved metadata leaves open.
type addSongRequest struct {
	URL      string `json:"url"`
	Title    string `json:"title,omitempty"`
	Artist   string `json:"artist,omitempty"`
	Artwork  string `json:"artwork,omitempty"`
	Playlist string `json:"playlist,omitempty"`
	Rating   int    `json:"rating,omitempty"`
}

// acquirer sequences metadata resolution, asset download and the catalog
// write for a submitted URL. Every step must succeed before the next one
// starts; the catalog is only touched once both assets are on disk.
type acquirer struct {
	resolver metadataResolver
	fetcher  assetFetcher
	catalog  CatalogStore
}

func (a *acquirer) Submit(ctx context.Context, req addSongRequest) (SongEntry, error) {
	if !isYouTubeURL(req.URL) {
		return SongEntry{}, fmt.Errorf("%w: %q", ErrUnsupportedSource, req.URL)
	}

	id := extractVideoID(req.URL)
	if id == "" {
		return SongEntry{}, fmt.Errorf("%w: %q", ErrMalformedURL, req.URL)
	}

	info, err := a.resolver.Resolve(ctx, id)
	if err != nil {
		return SongEntry{}, err
	}

	_, err = a.fetcher.FetchAudio(ctx, req.URL, id)
	if err != nil {
		return SongEntry{}, err
	}

	thumbnailURL := info.ThumbnailURL
	if thumbnailURL == "" {
		thumbnailURL = req.Artwork
	}
	_, err = a.fetcher.FetchThumbnail(ctx, thumbnailURL, id)
	if err != nil {
		return SongEntry{}, err
	}

	entry := SongEntry{
		ID:      id,
		Title:   info.Title,
		Artist:  info.AuthorName,
		URL:     "/downloads/" + id + ".mp3",
		Artwork: "/downloads/" + id + ".jpg",
		Rating:  req.Rating,
	}
	if entry.Title == "" {
		entry.Title = req.Title
	}
	if entry.Artist == "" {
		entry.Artist = req.Artist
	}
	if req.Playlist != "" {
		entry.Playlists = []string{req.Playlist}
	}

	err = a.catalog.Append(entry)
	if err != nil {
		return SongEntry{}, err
	}

	return entry, nil
}

func isYouTubeURL(u string) bool {
	return strings.Contains(u, "youtube.com") || strings.Contains(u, "youtu.be")
}

// extractVideoID pulls the video id out of the common YouTube URL shapes:
// watch?v=, youtu.be/ and shorts/.
func extractVideoID(u string) string {
	var id string
	switch {
	case strings.Contains(u, "v="):
		id = strings.SplitN(u, "v=", 2)[1]
	case strings.Contains(u, "youtu.be/"):
		id = strings.SplitN(u, "youtu.be/", 2)[1]
	case strings.Contains(u, "shorts/"):
		id = strings.SplitN(u, "shorts/", 2)[1]
	default:
		return ""
	}

	if i := strings.IndexAny(id, "?&/"); i >= 0 {
		id = id[:i]
	}
	return id
}
