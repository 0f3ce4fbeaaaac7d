// Package catalog provides the three indexes over the timelapse archive:
// dated recording folders, the frames inside a folder, and the video
// recordings at the top level.
//
// The archive layout is fixed by the capture process:
//
//	<root>/YYYY-MM-DD/00001.png ...   recording folders (one per day)
//	<root>/2025-01-15-0930.mov ...    video recordings
//	<root>/.cache/<key>/00001.jpg ... extracted video frames (hidden)
//
// Hidden-prefixed top-level names are reserved for internal storage and
// never appear in the folder index.
package catalog

import (
	"context"
	"path"
	"sort"
	"strings"

	"lapse/internal/listing"
	"lapse/internal/storage"
)

const (
	// DateLayout is the naming convention for recording folders, one per
	// day of capture.
	DateLayout = "2006-01-02"

	// HiddenPrefix marks top-level names reserved for internal storage.
	HiddenPrefix = "."

	// CacheNamespace is the hidden top-level folder holding extracted
	// video frames, one sub-folder per cache key.
	CacheNamespace = ".cache"
)

// Catalog answers folder, file, and video listing queries against a
// single archive root.
type Catalog struct {
	store     storage.Store
	lister    *listing.Policy
	videoExts []string
}

// New creates a Catalog over the given store. videoExts is the
// recognized video extension allowlist (lower-case, dot included, e.g.
// ".mov").
func New(store storage.Store, videoExts []string) *Catalog {
	return &Catalog{
		store:     store,
		lister:    listing.NewPolicy(store),
		videoExts: videoExts,
	}
}

// Folders lists the dated recording folders at the archive top level.
// Hidden-prefixed entries are excluded. The listing order of the store is
// preserved; callers sort for display if they need another order.
func (c *Catalog) Folders(ctx context.Context) ([]string, error) {
	entries, err := c.store.List(ctx, "")
	if err != nil {
		return nil, err
	}

	folders := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Kind != storage.KindFolder {
			continue
		}
		if strings.HasPrefix(e.Name, HiddenPrefix) {
			continue
		}
		folders = append(folders, e.Name)
	}
	return folders, nil
}

// Files lists the frame files inside folder, sorted ascending. An empty
// folder name short-circuits to an empty result without touching storage.
// Cache folders go through the retrying policy so a listing issued while
// the extractor is still writing tolerates the lag.
func (c *Catalog) Files(ctx context.Context, folder string) ([]string, error) {
	if folder == "" {
		return nil, nil
	}
	return c.lister.Files(ctx, folder, IsCachePath(folder))
}

// Videos lists the recognized video recordings at the archive top level,
// sorted ascending by name. Names are date/time-derived, so this order is
// chronological; the most recent recording is the last element.
func (c *Catalog) Videos(ctx context.Context) ([]string, error) {
	entries, err := c.store.List(ctx, "")
	if err != nil {
		return nil, err
	}

	videos := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Kind != storage.KindFile {
			continue
		}
		if !c.isVideo(e.Name) {
			continue
		}
		videos = append(videos, e.Name)
	}
	sort.Strings(videos)
	return videos, nil
}

// isVideo reports whether name carries an allowlisted video extension.
func (c *Catalog) isVideo(name string) bool {
	ext := strings.ToLower(path.Ext(name))
	for _, allowed := range c.videoExts {
		if ext == allowed {
			return true
		}
	}
	return false
}

// IsCachePath reports whether folder lies under the hidden cache
// namespace.
func IsCachePath(folder string) bool {
	return folder == CacheNamespace || strings.HasPrefix(folder, CacheNamespace+"/")
}

// CacheFolder returns the archive-relative folder for a cache key.
func CacheFolder(key string) string {
	return path.Join(CacheNamespace, key)
}
