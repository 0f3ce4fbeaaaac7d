package player

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPlayerDefaults(t *testing.T) {
	p := New()
	assert.Equal(t, ModeImages, p.Mode())
	assert.Empty(t, p.Folder())
	assert.Empty(t, p.Video())
	_, ok := p.CurrentFrame()
	assert.False(t, ok)
}

func TestSetFramesLandingPolicies(t *testing.T) {
	// A freshly loaded image folder opens on its last frame.
	p := New()
	p.SelectFolder("2024-06-01")
	p.SetFrames([]string{"00001.png", "00002.png", "00003.png"})
	assert.Equal(t, 2, p.Index())

	// A freshly extracted video sequence opens on its first.
	p.SetMode(ModeVideos)
	p.SelectVideo("a.mov")
	p.SetFrames([]string{"00001.jpg", "00002.jpg"})
	assert.Equal(t, 0, p.Index())
}

func TestNavigateClamps(t *testing.T) {
	p := New()
	p.SelectFolder("2024-06-01")
	p.SetFrames([]string{"a", "b", "c", "d", "e"})
	require.Equal(t, 4, p.Index())

	assert.False(t, p.Navigate(10), "already at the end")
	assert.Equal(t, 4, p.Index())

	assert.True(t, p.Navigate(-10))
	assert.Equal(t, 0, p.Index())

	assert.True(t, p.Navigate(3))
	assert.Equal(t, 3, p.Index())

	assert.True(t, p.Navigate(100))
	assert.Equal(t, 4, p.Index())
}

func TestSetIndexEmptySequence(t *testing.T) {
	p := New()
	assert.False(t, p.SetIndex(5))
	assert.Equal(t, 0, p.Index())
}

func TestAutoSelectFolderPrefersToday(t *testing.T) {
	p := New()
	folders := []string{"2024-05-30", "2024-05-31", "2024-06-01"}

	assert.True(t, p.AutoSelectFolder(folders, "2024-05-31"))
	assert.Equal(t, "2024-05-31", p.Folder())
}

func TestAutoSelectFolderFallsBackToLatest(t *testing.T) {
	p := New()
	folders := []string{"2024-06-01", "2024-05-30", "2024-05-31"}

	assert.True(t, p.AutoSelectFolder(folders, "2024-06-02"))
	assert.Equal(t, "2024-06-01", p.Folder())
}

func TestAutoSelectFolderNoopWhenSelected(t *testing.T) {
	p := New()
	p.SelectFolder("2024-05-30")
	assert.False(t, p.AutoSelectFolder([]string{"2024-06-01"}, "2024-06-01"))
	assert.Equal(t, "2024-05-30", p.Folder())
}

func TestAutoSelectFolderEmptyList(t *testing.T) {
	p := New()
	assert.False(t, p.AutoSelectFolder(nil, "2024-06-01"))
	assert.Empty(t, p.Folder())
}

func TestAutoSelectVideoTakesMostRecent(t *testing.T) {
	p := New()
	p.SetMode(ModeVideos)
	assert.True(t, p.AutoSelectVideo([]string{"2024-12-01.mov", "2025-01-15.mov"}))
	assert.Equal(t, "2025-01-15.mov", p.Video())
}

func TestSelectAdjacentVideoNoWrap(t *testing.T) {
	videos := []string{"a.mov", "b.mov", "c.mov"}
	p := New()
	p.SetMode(ModeVideos)
	p.SelectVideo("a.mov")

	assert.False(t, p.SelectAdjacentVideo(videos, -1), "no wrap below")
	assert.Equal(t, "a.mov", p.Video())

	assert.True(t, p.SelectAdjacentVideo(videos, 1))
	assert.Equal(t, "b.mov", p.Video())

	assert.True(t, p.SelectAdjacentVideo(videos, 1))
	assert.False(t, p.SelectAdjacentVideo(videos, 1), "no wrap above")
	assert.Equal(t, "c.mov", p.Video())
}

func TestSelectAdjacentVideoUnknownSelection(t *testing.T) {
	p := New()
	p.SetMode(ModeVideos)
	p.SelectVideo("gone.mov")
	assert.False(t, p.SelectAdjacentVideo([]string{"a.mov"}, 1))
}

func TestModeSwitchDropsSequence(t *testing.T) {
	p := New()
	p.SelectFolder("2024-06-01")
	p.SetFrames([]string{"a", "b"})

	assert.True(t, p.SetMode(ModeVideos))
	assert.Empty(t, p.Frames())
	assert.Equal(t, 0, p.Index())

	// Selections survive mode round-trips.
	assert.True(t, p.SetMode(ModeImages))
	assert.Equal(t, "2024-06-01", p.Folder())

	assert.False(t, p.SetMode(ModeImages), "same mode is a no-op")
}

func TestCommitDiscardsStaleGeneration(t *testing.T) {
	p := New()
	p.SelectFolder("2024-06-01")
	p.SetFrames([]string{"a", "b"})

	stale := p.Gen()
	p.Navigate(-1)

	assert.False(t, p.Commit(stale, "2024-06-01/b", []byte("late")))
	assert.Nil(t, p.Resource())

	assert.True(t, p.Commit(p.Gen(), "2024-06-01/a", []byte("fresh")))
	require.NotNil(t, p.Resource())
	assert.Equal(t, []byte("fresh"), p.Resource().Bytes())
}

func TestCommitRevokesPreviousResource(t *testing.T) {
	p := New()
	p.SelectFolder("2024-06-01")
	p.SetFrames([]string{"a", "b"})

	require.True(t, p.Commit(p.Gen(), "2024-06-01/b", []byte("one")))
	first := p.Resource()

	p.Navigate(-1)
	require.True(t, p.Commit(p.Gen(), "2024-06-01/a", []byte("two")))

	assert.True(t, first.Revoked())
	assert.Nil(t, first.Bytes())
	assert.False(t, p.Resource().Revoked())
	assert.Equal(t, []byte("two"), p.Resource().Bytes())
}

func TestFailClearsDisplay(t *testing.T) {
	p := New()
	p.SelectFolder("2024-06-01")
	p.SetFrames([]string{"a"})
	require.True(t, p.Commit(p.Gen(), "2024-06-01/a", []byte("x")))

	assert.True(t, p.Fail(p.Gen()))
	assert.Nil(t, p.Resource())

	assert.False(t, p.Fail(p.Gen()-1), "stale failure discarded")
}

func TestResourceAccountingBalancesAfterTeardown(t *testing.T) {
	p := New()
	p.SelectFolder("2024-06-01")
	p.SetFrames([]string{"a", "b", "c"})

	for i := 0; i < 3; i++ {
		require.True(t, p.SetIndex(i) || p.Index() == i)
		require.True(t, p.Commit(p.Gen(), "frame", []byte{byte(i)}))
	}
	p.Teardown()

	created, revoked := p.Stats()
	assert.Equal(t, 3, created)
	assert.Equal(t, created, revoked)

	// Teardown is idempotent.
	p.Teardown()
	_, revoked = p.Stats()
	assert.Equal(t, created, revoked)
}

func TestClearSelectionPerMode(t *testing.T) {
	p := New()
	p.SelectFolder("2024-06-01")
	p.SetMode(ModeVideos)
	p.SelectVideo("a.mov")

	p.ClearSelection()
	assert.Empty(t, p.Video())
	assert.Equal(t, "2024-06-01", p.Folder(), "images selection untouched")

	p.SetMode(ModeImages)
	p.ClearSelection()
	assert.Empty(t, p.Folder())
}
