package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

type Genre struct {
	ID   json.Number `json:"id"`
	Name string      `json:"name"`
	Slug string      `json:"slug"`
}

type DiscoverTrack struct {
	ID         json.Number `json:"id"`
	Name       string      `json:"name"`
	ArtistName string      `json:"artist_name"`
	AlbumName  string      `json:"album_name"`
	AlbumImage string      `json:"album_image"`
	Audio      string      `json:"audio"`
}

// jamendoClient browses the Jamendo public API for the discovery screens.
// The API is keyed by a client id; without one the discovery endpoints are
// disabled.
type jamendoClient struct {
	httpClient *http.Client
	baseURL    string
	clientID   string
	limiter    *rate.Limiter
}

func newJamendoClient(clientID string) *jamendoClient {
	return &jamendoClient{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		baseURL:  "https://api.jamendo.com/v3.0",
		clientID: clientID,
		limiter:  rate.NewLimiter(rate.Every(time.Second), 2),
	}
}

func (c *jamendoClient) Genres(ctx context.Context) ([]Genre, error) {
	q := url.Values{}
	q.Set("groupby", "parent_id")

	var genres []Genre
	err := c.get(ctx, "/genres/", q, &genres)
	if err != nil {
		return nil, err
	}
	return genres, nil
}

func (c *jamendoClient) TracksByGenres(ctx context.Context, genreIDs []string) ([]DiscoverTrack, error) {
	q := url.Values{}
	q.Set("limit", "50")
	q.Set("audioformat", "mp32")
	q.Set("include", "musicinfo")
	if len(genreIDs) > 0 {
		q.Set("genres", strings.Join(genreIDs, ","))
	}

	var tracks []DiscoverTrack
	err := c.get(ctx, "/tracks/", q, &tracks)
	if err != nil {
		return nil, err
	}
	return tracks, nil
}

func (c *jamendoClient) get(ctx context.Context, path string, q url.Values, results any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	q.Set("client_id", c.clientID)
	q.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("jamendo: unexpected status code %d", resp.StatusCode)
	}

	var payload struct {
		Results json.RawMessage `json:"results"`
	}
	err = json.NewDecoder(resp.Body).Decode(&payload)
	if err != nil {
		return fmt.Errorf("jamendo: %w", err)
	}
	if payload.Results == nil {
		return fmt.Errorf("jamendo: response has no results")
	}

	return json.Unmarshal(payload.Results, results)
}
