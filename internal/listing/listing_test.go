package listing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lapse/internal/storage"
)

// scriptedStore returns one scripted result per List call, in order.
type scriptedStore struct {
	results []listResult
	calls   int
}

type listResult struct {
	entries []storage.Entry
	err     error
}

func (s *scriptedStore) List(_ context.Context, _ string) ([]storage.Entry, error) {
	r := s.results[s.calls]
	s.calls++
	return r.entries, r.err
}

func (s *scriptedStore) ReadFile(_ context.Context, _ string) ([]byte, error) {
	panic("not used")
}

func newTestPolicy(store storage.Store) (*Policy, *int) {
	sleeps := 0
	p := NewPolicy(store)
	p.sleep = func(context.Context, time.Duration) error {
		sleeps++
		return nil
	}
	return p, &sleeps
}

func frames(names ...string) []storage.Entry {
	entries := make([]storage.Entry, len(names))
	for i, n := range names {
		entries[i] = storage.Entry{Name: n, Kind: storage.KindFile}
	}
	return entries
}

func TestFilesFirstAttemptSucceeds(t *testing.T) {
	store := &scriptedStore{results: []listResult{
		{entries: frames("00002.jpg", "00001.jpg")},
	}}
	p, sleeps := newTestPolicy(store)

	files, err := p.Files(context.Background(), ".cache/abc", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"00001.jpg", "00002.jpg"}, files)
	assert.Equal(t, 1, store.calls)
	assert.Equal(t, 0, *sleeps)
}

func TestFilesRetriesErrors(t *testing.T) {
	boom := errors.New("boom")
	store := &scriptedStore{results: []listResult{
		{err: boom},
		{err: boom},
		{entries: frames("00001.jpg")},
	}}
	p, sleeps := newTestPolicy(store)

	files, err := p.Files(context.Background(), ".cache/abc", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"00001.jpg"}, files)
	assert.Equal(t, 3, store.calls)
	assert.Equal(t, 2, *sleeps)
}

func TestFilesErrorAfterBudget(t *testing.T) {
	first := errors.New("first")
	last := errors.New("last")
	store := &scriptedStore{results: []listResult{
		{err: first}, {err: first}, {err: first}, {err: first}, {err: last},
	}}
	p, sleeps := newTestPolicy(store)

	_, err := p.Files(context.Background(), ".cache/abc", true)
	assert.ErrorIs(t, err, last)
	assert.Equal(t, Attempts, store.calls)
	assert.Equal(t, Attempts-1, *sleeps)
}

func TestFilesEmptyCachePathRetriedThenAccepted(t *testing.T) {
	store := &scriptedStore{results: []listResult{
		{}, {}, {}, {}, {},
	}}
	p, _ := newTestPolicy(store)

	files, err := p.Files(context.Background(), ".cache/abc", true)
	require.NoError(t, err)
	assert.Empty(t, files)
	assert.Equal(t, Attempts, store.calls)
}

func TestFilesEmptySuccessBeatsFinalError(t *testing.T) {
	// A cache folder that was observed empty and then vanished mid-retry
	// still counts as a successful empty listing.
	store := &scriptedStore{results: []listResult{
		{}, {}, {}, {}, {err: errors.New("gone")},
	}}
	p, _ := newTestPolicy(store)

	files, err := p.Files(context.Background(), ".cache/abc", true)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestFilesEmptyNonCachePathAcceptedImmediately(t *testing.T) {
	store := &scriptedStore{results: []listResult{{}}}
	p, _ := newTestPolicy(store)

	files, err := p.Files(context.Background(), "2024-06-01", false)
	require.NoError(t, err)
	assert.Empty(t, files)
	assert.Equal(t, 1, store.calls)
}

func TestFilesDropsFolderEntries(t *testing.T) {
	store := &scriptedStore{results: []listResult{
		{entries: []storage.Entry{
			{Name: "nested", Kind: storage.KindFolder},
			{Name: "00001.png", Kind: storage.KindFile},
		}},
	}}
	p, _ := newTestPolicy(store)

	files, err := p.Files(context.Background(), "2024-06-01", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"00001.png"}, files)
}

func TestFilesCancelledDuringSleep(t *testing.T) {
	store := &scriptedStore{results: []listResult{
		{err: errors.New("boom")},
	}}
	p := NewPolicy(store)
	p.sleep = func(ctx context.Context, _ time.Duration) error {
		return context.Canceled
	}

	_, err := p.Files(context.Background(), ".cache/abc", true)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, store.calls)
}
