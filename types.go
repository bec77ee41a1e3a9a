package main

import "time"

type SongEntry struct {
	ID        string   `json:"id"`
	Title     string   `json:"title,omitempty"`
	Artist    string   `json:"artist,omitempty"`
	URL       string   `json:"url"`
	Artwork   string   `json:"artwork"`
	Rating    int      `json:"rating"`
	Playlists []string `json:"playlists,omitempty"`
}

func (e *SongEntry) String() string {
	str := `"` + e.Title + `"`
	if e.Artist != "" {
		str += ` by ` + e.Artist
	}
	return str
}

func (e *SongEntry) inPlaylist(id string) bool {
	for _, p := range e.Playlists {
		if p == id {
			return true
		}
	}
	return false
}

type Play struct {
	ID        uint64    `json:"id,omitempty"`
	SongID    string    `json:"song_id"`
	Title     string    `json:"title,omitempty"`
	Artist    string    `json:"artist,omitempty"`
	Seconds   int       `json:"seconds,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

type Playlist struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}
