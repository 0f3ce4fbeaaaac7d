// Package cache manages the extracted-frame cache for video recordings.
//
// Videos are never played directly. Before a video can be scrubbed its
// frames are materialized into the hidden cache namespace by an external
// ffmpeg invocation; this package owns both that boundary (Extractor) and
// the per-selection state machine tracking it (Manager).
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"lapse/internal/catalog"
	"lapse/internal/log"
)

// ErrService marks a failed extraction request. It is the only error kind
// the extractor produces; callers test for it with errors.Is.
var ErrService = errors.New("extraction service error")

// Extractor is the consumed boundary to the frame-extraction service.
// Requests are idempotent for an unchanged video: repeated calls are
// cheap and return the same key.
type Extractor interface {
	// ExtractFrames materializes the frames of the named video and
	// returns the cache key scoping them.
	ExtractFrames(ctx context.Context, video string) (string, error)
}

// Invalidator is implemented by extractors that can drop a video's cached
// frames so the next request re-extracts from scratch.
type Invalidator interface {
	Invalidate(video string) error
}

// FFmpegExtractor extracts video frames with the ffmpeg binary into
// <root>/.cache/<key>/. The key is content-addressed over the video's
// name, size, and modification time, so an unchanged video maps to the
// same populated folder and re-extraction short-circuits.
type FFmpegExtractor struct {
	root string
	bin  string
}

// NewFFmpegExtractor creates an extractor writing under the archive root.
// bin may be empty to use "ffmpeg" from PATH.
func NewFFmpegExtractor(root, bin string) *FFmpegExtractor {
	if bin == "" {
		bin = "ffmpeg"
	}
	return &FFmpegExtractor{root: root, bin: bin}
}

// ExtractFrames implements Extractor.
func (e *FFmpegExtractor) ExtractFrames(ctx context.Context, video string) (string, error) {
	src := filepath.Join(e.root, video)
	info, err := os.Stat(src)
	if err != nil {
		return "", fmt.Errorf("%w: stat %q: %v", ErrService, video, err)
	}

	key := Key(video, info.Size(), info.ModTime())
	dir := filepath.Join(e.root, catalog.CacheNamespace, key)

	logger := log.With("cache")

	if populated(dir) {
		logger.Debug().Str("video", video).Str("key", key).Msg("reusing cached frames")
		return key, nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: create cache folder: %v", ErrService, err)
	}

	logger.Info().Str("video", video).Str("key", key).Msg("extracting frames")

	cmd := exec.CommandContext(ctx, e.bin,
		"-i", src,
		"-vsync", "vfr",
		"-q:v", "3",
		"-y",
		filepath.Join(dir, "%05d.jpg"),
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		os.RemoveAll(dir)
		logger.Error().Str("video", video).Err(err).Msg("ffmpeg failed")
		return "", fmt.Errorf("%w: ffmpeg: %v: %s", ErrService, err, lastLine(out))
	}

	return key, nil
}

// Invalidate removes the cached frames for video, if any exist for its
// current content. The next extraction request starts from scratch.
func (e *FFmpegExtractor) Invalidate(video string) error {
	info, err := os.Stat(filepath.Join(e.root, video))
	if err != nil {
		// No source means no computable key; nothing cached to drop.
		return nil
	}
	key := Key(video, info.Size(), info.ModTime())
	return os.RemoveAll(filepath.Join(e.root, catalog.CacheNamespace, key))
}

// Key derives the content-addressed cache key for a video recording.
func Key(name string, size int64, mtime time.Time) string {
	sum := sha256.Sum256(fmt.Appendf(nil, "%s|%d|%d", name, size, mtime.UnixNano()))
	return hex.EncodeToString(sum[:])[:16]
}

// populated reports whether dir exists and already holds at least one
// entry.
func populated(dir string) bool {
	entries, err := os.ReadDir(dir)
	return err == nil && len(entries) > 0
}

// lastLine trims ffmpeg output down to its final non-empty line, which is
// where ffmpeg puts the actual failure reason.
func lastLine(out []byte) string {
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) == 0 {
		return ""
	}
	return strings.TrimSpace(lines[len(lines)-1])
}
