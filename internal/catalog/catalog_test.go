package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lapse/internal/storage"
)

// recordingStore serves a fixed top-level listing and counts calls.
type recordingStore struct {
	top   []storage.Entry
	calls int
}

func (s *recordingStore) List(_ context.Context, path string) ([]storage.Entry, error) {
	s.calls++
	if path == "" {
		return s.top, nil
	}
	return nil, nil
}

func (s *recordingStore) ReadFile(_ context.Context, _ string) ([]byte, error) {
	panic("not used")
}

func archiveStore() *recordingStore {
	return &recordingStore{top: []storage.Entry{
		{Name: ".cache", Kind: storage.KindFolder},
		{Name: ".screenshots.db", Kind: storage.KindFile},
		{Name: "2024-05-31", Kind: storage.KindFolder},
		{Name: "2024-06-01", Kind: storage.KindFolder},
		{Name: "2025-01-15-0930.mov", Kind: storage.KindFile},
		{Name: "2024-12-01-0800.mov", Kind: storage.KindFile},
		{Name: "notes.txt", Kind: storage.KindFile},
	}}
}

func TestFoldersExcludesHidden(t *testing.T) {
	c := New(archiveStore(), []string{".mov"})
	folders, err := c.Folders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-05-31", "2024-06-01"}, folders)
}

func TestVideosFiltersAndSorts(t *testing.T) {
	c := New(archiveStore(), []string{".mov"})
	videos, err := c.Videos(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-12-01-0800.mov", "2025-01-15-0930.mov"}, videos)
}

func TestVideosExtensionCaseInsensitive(t *testing.T) {
	store := &recordingStore{top: []storage.Entry{
		{Name: "a.MOV", Kind: storage.KindFile},
		{Name: "b.mp4", Kind: storage.KindFile},
	}}
	c := New(store, []string{".mov"})
	videos, err := c.Videos(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a.MOV"}, videos)
}

func TestFilesEmptyFolderNameShortCircuits(t *testing.T) {
	store := archiveStore()
	c := New(store, []string{".mov"})

	files, err := c.Files(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, files)
	assert.Zero(t, store.calls)
}

func TestIsCachePath(t *testing.T) {
	assert.True(t, IsCachePath(".cache"))
	assert.True(t, IsCachePath(".cache/abc123"))
	assert.False(t, IsCachePath("2024-06-01"))
	assert.False(t, IsCachePath(".cachemate"))
}

func TestCacheFolder(t *testing.T) {
	assert.Equal(t, ".cache/abc123", CacheFolder("abc123"))
}
