package main

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedSource   = errors.New("unsupported source URL")
	ErrMalformedURL        = errors.New("could not extract a video id from URL")
	ErrMetadataUnavailable = errors.New("video metadata unavailable")
	ErrCatalogCorrupt      = errors.New("catalog document is corrupt")
	ErrDuplicateSong       = errors.New("song already in catalog")
	ErrSongNotFound        = errors.New("song not found")
)

// assetError identifies which asset of a submission failed to download.
type assetError struct {
	Kind string // "audio" or "thumbnail"
	Err  error
}

func (e *assetError) Error() string {
	return fmt.Sprintf("fetching %s asset: %s", e.Kind, e.Err)
}

func (e *assetError) Unwrap() error {
	return e.Err
}
