package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lapse/internal/catalog"
)

func TestKeyDeterministic(t *testing.T) {
	mtime := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	a := Key("a.mov", 1000, mtime)
	b := Key("a.mov", 1000, mtime)
	assert.Equal(t, a, b)
	assert.Len(t, a, 16)
}

func TestKeyChangesWithContent(t *testing.T) {
	mtime := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	base := Key("a.mov", 1000, mtime)

	assert.NotEqual(t, base, Key("b.mov", 1000, mtime))
	assert.NotEqual(t, base, Key("a.mov", 1001, mtime))
	assert.NotEqual(t, base, Key("a.mov", 1000, mtime.Add(time.Second)))
}

func TestExtractFramesMissingSource(t *testing.T) {
	e := NewFFmpegExtractor(t.TempDir(), "")
	_, err := e.ExtractFrames(context.Background(), "missing.mov")
	assert.ErrorIs(t, err, ErrService)
}

func TestExtractFramesReusesPopulatedCache(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "a.mov")
	require.NoError(t, os.WriteFile(src, []byte("video"), 0o644))

	info, err := os.Stat(src)
	require.NoError(t, err)
	key := Key("a.mov", info.Size(), info.ModTime())

	dir := filepath.Join(root, catalog.CacheNamespace, key)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "00001.jpg"), []byte("jpg"), 0o644))

	// A populated cache folder short-circuits before ffmpeg is invoked, so
	// a nonexistent binary proves the reuse path.
	e := NewFFmpegExtractor(root, "definitely-not-a-binary")
	got, err := e.ExtractFrames(context.Background(), "a.mov")
	require.NoError(t, err)
	assert.Equal(t, key, got)
}

func TestInvalidateRemovesCachedFrames(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "a.mov")
	require.NoError(t, os.WriteFile(src, []byte("video"), 0o644))

	info, err := os.Stat(src)
	require.NoError(t, err)
	dir := filepath.Join(root, catalog.CacheNamespace, Key("a.mov", info.Size(), info.ModTime()))
	require.NoError(t, os.MkdirAll(dir, 0o755))

	e := NewFFmpegExtractor(root, "")
	require.NoError(t, e.Invalidate("a.mov"))
	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}

func TestInvalidateMissingSourceIsNoop(t *testing.T) {
	e := NewFFmpegExtractor(t.TempDir(), "")
	assert.NoError(t, e.Invalidate("missing.mov"))
}

func TestLastLine(t *testing.T) {
	assert.Equal(t, "real error", lastLine([]byte("banner\nprogress\nreal error\n")))
	assert.Equal(t, "only", lastLine([]byte("only")))
	assert.Equal(t, "", lastLine(nil))
}
