package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

// videoInfo is the subset of the oEmbed payload the pipeline needs.
type videoInfo struct {
	Title        string `json:"title"`
	AuthorName   string `json:"author_name"`
	ThumbnailURL string `json:"thumbnail_url"`
}

type metadataResolver interface {
	Resolve(ctx context.Context, videoID string) (videoInfo, error)
}

// oembedClient resolves video metadata from YouTube's public oEmbed
// endpoint. A single failed attempt fails the whole acquisition, so there
// is no retry here.
type oembedClient struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
}

func newOEmbedClient() *oembedClient {
	return &oembedClient{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		baseURL: "https://www.youtube.com/oembed",
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

func (c *oembedClient) Resolve(ctx context.Context, videoID string) (videoInfo, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return videoInfo{}, err
	}

	watchURL := "https://www.youtube.com/watch?v=" + videoID
	u := fmt.Sprintf("%s?url=%s&format=json", c.baseURL, url.QueryEscape(watchURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return videoInfo{}, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return videoInfo{}, fmt.Errorf("%w: %s", ErrMetadataUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return videoInfo{}, fmt.Errorf("%w: unexpected status code %d", ErrMetadataUnavailable, resp.StatusCode)
	}

	var info videoInfo
	err = json.NewDecoder(resp.Body).Decode(&info)
	if err != nil {
		return videoInfo{}, fmt.Errorf("%w: %s", ErrMetadataUnavailable, err)
	}

	return info, nil
}
