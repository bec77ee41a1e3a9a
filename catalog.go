package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// CatalogStore owns all reads and writes of the persisted song catalog.
type CatalogStore interface {
	Append(entry SongEntry) error
	Update(id string, fn func(*SongEntry) error) error
	Remove(id string) error
	Get(id string) (SongEntry, error)
	List() ([]SongEntry, error)
}

// jsonCatalog persists the catalog as a single JSON array on disk. Every
// mutation rewrites the whole document under one lock, so concurrent
// writers cannot lose each other's updates and readers never observe a
// partially written entry.
type jsonCatalog struct {
	mu   sync.Mutex
	path string
}

func newJSONCatalog(path string) *jsonCatalog {
	return &jsonCatalog{path: path}
}

func (c *jsonCatalog) Append(entry SongEntry) error {
	return c.update(func(songs []SongEntry) ([]SongEntry, error) {
		for _, s := range songs {
			if s.ID == entry.ID {
				return nil, fmt.Errorf("%w: %s", ErrDuplicateSong, entry.ID)
			}
		}
		return append(songs, entry), nil
	})
}

func (c *jsonCatalog) Update(id string, fn func(*SongEntry) error) error {
	return c.update(func(songs []SongEntry) ([]SongEntry, error) {
		for i := range songs {
			if songs[i].ID == id {
				if err := fn(&songs[i]); err != nil {
					return nil, err
				}
				return songs, nil
			}
		}
		return nil, fmt.Errorf("%w: %s", ErrSongNotFound, id)
	})
}

// Remove filters the entry out and rewrites the document. Removing an
// identifier that is not present is a no-op success.
func (c *jsonCatalog) Remove(id string) error {
	return c.update(func(songs []SongEntry) ([]SongEntry, error) {
		kept := songs[:0]
		for _, s := range songs {
			if s.ID != id {
				kept = append(kept, s)
			}
		}
		return kept, nil
	})
}

func (c *jsonCatalog) Get(id string) (SongEntry, error) {
	songs, err := c.List()
	if err != nil {
		return SongEntry{}, err
	}
	for _, s := range songs {
		if s.ID == id {
			return s, nil
		}
	}
	return SongEntry{}, fmt.Errorf("%w: %s", ErrSongNotFound, id)
}

func (c *jsonCatalog) List() ([]SongEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.unsafeLoad()
}

// unsafeLoad reads the catalog document without taking the lock.
func (c *jsonCatalog) unsafeLoad() ([]SongEntry, error) {
	raw, err := os.ReadFile(c.path)
	if os.IsNotExist(err) {
		return []SongEntry{}, nil
	} else if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}

	var songs []SongEntry
	err = json.Unmarshal(raw, &songs)
	if err != nil {
		// A corrupt document must fail loudly. Treating it as empty
		// would silently drop every stored entry on the next write.
		return nil, fmt.Errorf("%w: %s", ErrCatalogCorrupt, err)
	}

	return songs, nil
}

func (c *jsonCatalog) update(fn func(songs []SongEntry) ([]SongEntry, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	songs, err := c.unsafeLoad()
	if err != nil {
		return err
	}

	songs, err = fn(songs)
	if err != nil {
		return err
	}

	raw, err := json.MarshalIndent(songs, "", "  ")
	if err != nil {
		return err
	}

	// Write to a temporary file in the same directory and rename it over
	// the document so a crash mid-write leaves the previous version intact.
	tmp, err := os.CreateTemp(filepath.Dir(c.path), filepath.Base(c.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("writing catalog: %w", err)
	}

	_, err = tmp.Write(raw)
	if err == nil {
		err = tmp.Close()
	} else {
		tmp.Close()
	}
	if err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing catalog: %w", err)
	}

	err = os.Rename(tmp.Name(), c.path)
	if err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing catalog: %w", err)
	}

	return nil
}
