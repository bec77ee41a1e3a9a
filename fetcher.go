package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/lrstanley/go-ytdlp"
)

type assetFetcher interface {
	FetchAudio(ctx context.Context, sourceURL, id string) (string, error)
	FetchThumbnail(ctx context.Context, thumbnailURL, id string) (string, error)
}

// downloadFetcher writes both assets of a song into the downloads
// directory, named after the video id. Existing files with the same name
// are overwritten, last writer wins.
type downloadFetcher struct {
	dir        string
	httpClient *http.Client
}

func newDownloadFetcher(dir string) *downloadFetcher {
	return &downloadFetcher{
		dir: dir,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// FetchAudio extracts the audio track with yt-dlp and stores it as
// <id>.mp3.
func (f *downloadFetcher) FetchAudio(ctx context.Context, sourceURL, id string) (string, error) {
	path := filepath.Join(f.dir, id+".mp3")

	dl := ytdlp.New().
		ExtractAudio().
		AudioFormat("mp3").
		ForceOverwrites().
		Output(path)

	_, err := dl.Run(ctx, sourceURL)
	if err != nil {
		return "", &assetError{Kind: "audio", Err: err}
	}

	return path, nil
}

// FetchThumbnail downloads the artwork image and stores it as <id>.jpg.
func (f *downloadFetcher) FetchThumbnail(ctx context.Context, thumbnailURL, id string) (string, error) {
	path := filepath.Join(f.dir, id+".jpg")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, thumbnailURL, nil)
	if err != nil {
		return "", &assetError{Kind: "thumbnail", Err: err}
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", &assetError{Kind: "thumbnail", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &assetError{Kind: "thumbnail", Err: fmt.Errorf("unexpected status code %d", resp.StatusCode)}
	}

	fd, err := os.Create(path)
	if err != nil {
		return "", &assetError{Kind: "thumbnail", Err: err}
	}

	_, err = io.Copy(fd, resp.Body)
	if closeErr := fd.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return "", &assetError{Kind: "thumbnail", Err: err}
	}

	return path, nil
}

// listAudioFiles enumerates the downloads directory and returns the names
// of recognized audio files. This is a raw filesystem listing and can
// diverge from the catalog document.
func listAudioFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	files := []string{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch filepath.Ext(entry.Name()) {
		case ".mp3", ".m4a", ".webm":
			files = append(files, entry.Name())
		}
	}

	return files, nil
}
