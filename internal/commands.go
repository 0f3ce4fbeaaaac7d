package internal

import (
	"context"
	"path"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shirou/gopsutil/v3/disk"

	"lapse/internal/cache"
	"lapse/internal/framedb"
	"lapse/internal/watch"
)

// Commands are the viewer's only source of side effects. Each one runs in
// its own goroutine under Bubble Tea, performs a single bounded piece of
// I/O, and resolves into one typed message.

// loadFolders lists the dated recording folders.
func (m Model) loadFolders() tea.Cmd {
	cat := m.catalog
	return func() tea.Msg {
		folders, err := cat.Folders(context.Background())
		return foldersLoadedMsg{folders: folders, err: err}
	}
}

// loadVideos lists the video recordings.
func (m Model) loadVideos() tea.Cmd {
	cat := m.catalog
	return func() tea.Msg {
		videos, err := cat.Videos(context.Background())
		return videosLoadedMsg{videos: videos, err: err}
	}
}

// loadFiles lists the frame files of folder. Cache folders go through the
// bounded retry policy, so this command can take a few seconds to
// resolve; the folder is captured for the supersession check on arrival.
func (m Model) loadFiles(folder string) tea.Cmd {
	cat := m.catalog
	return func() tea.Msg {
		files, err := cat.Files(context.Background(), folder)
		return filesLoadedMsg{folder: folder, files: files, err: err}
	}
}

// requestExtraction asks the external service for the video's frames.
func (m Model) requestExtraction(video string) tea.Cmd {
	ex := m.extractor
	return func() tea.Msg {
		key, err := ex.ExtractFrames(context.Background(), video)
		return extractionDoneMsg{video: video, key: key, err: err}
	}
}

// invalidateAndExtract drops the cached frames for video before
// re-requesting extraction. Used by refresh in videos mode.
func (m Model) invalidateAndExtract(video string) tea.Cmd {
	ex := m.extractor
	return func() tea.Msg {
		if inv, ok := ex.(cache.Invalidator); ok {
			if err := inv.Invalidate(video); err != nil {
				return extractionDoneMsg{video: video, err: err}
			}
		}
		key, err := ex.ExtractFrames(context.Background(), video)
		return extractionDoneMsg{video: video, key: key, err: err}
	}
}

// loadFrame fetches the raw bytes of one frame file for display. gen ties
// the result to the playback state it was issued for.
func (m Model) loadFrame(gen uint64, folder, name string) tea.Cmd {
	store := m.store
	return func() tea.Msg {
		data, err := store.ReadFile(context.Background(), path.Join(folder, name))
		return frameLoadedMsg{gen: gen, path: path.Join(folder, name), data: data, err: err}
	}
}

// lookupFrameTime resolves the capture timestamp for a numbered frame.
func (m Model) lookupFrameTime(gen uint64, name string) tea.Cmd {
	meta := m.meta
	return func() tea.Msg {
		n, ok := framedb.FrameNumber(name)
		if !ok || meta == nil {
			return frameTimeMsg{gen: gen}
		}
		t, found, err := meta.FrameTime(context.Background(), n)
		if err != nil || !found {
			return frameTimeMsg{gen: gen}
		}
		return frameTimeMsg{gen: gen, t: t, ok: true}
	}
}

// watchArchive waits for the next top-level change. The command re-arms
// itself from Update after each event.
func watchArchive(w *watch.Watcher) tea.Cmd {
	return func() tea.Msg {
		if w == nil || !w.Next() {
			return watcherClosedMsg{}
		}
		return archiveChangedMsg{}
	}
}

// measureDiskFree samples the free space on the filesystem holding the
// archive root.
func (m Model) measureDiskFree() tea.Cmd {
	root := m.store.Root()
	return func() tea.Msg {
		usage, err := disk.Usage(root)
		if err != nil {
			return diskFreeMsg{err: err}
		}
		return diskFreeMsg{free: usage.Free}
	}
}

// scheduleDiskFree re-samples free space periodically; extraction and
// ongoing capture both eat disk.
func scheduleDiskFree() tea.Cmd {
	return tea.Tick(30*time.Second, func(time.Time) tea.Msg {
		return diskTickMsg{}
	})
}
