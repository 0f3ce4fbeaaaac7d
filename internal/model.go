// Package internal provides the core application model and state
// management for the lapse TUI.
//
// This package implements the Bubble Tea model pattern for the viewer.
// The model handles:
//   - View-mode switching between dated image folders and video recordings
//   - Folder/video selection, auto-selection, and frame scrubbing
//   - The frame cache lifecycle for videos (request, resolve, refresh)
//   - Display-resource fetching with supersession of stale results
//   - Per-index error retention so one failing index never blocks the rest
//
// All mutation happens inside Update; background commands only report
// results back as messages. Stale in-flight results are discarded by
// comparing the state they were issued for (folder name, playback
// generation) against the current state before committing.
package internal

import (
	"slices"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"lapse/internal/cache"
	"lapse/internal/catalog"
	"lapse/internal/framedb"
	"lapse/internal/player"
	"lapse/internal/storage"
	"lapse/internal/watch"
)

// Model represents the complete application state for the lapse TUI.
// It implements the tea.Model interface.
type Model struct {
	// Wired services, constructed once at startup
	store     *storage.DirStore
	catalog   *catalog.Catalog
	extractor cache.Extractor
	frames    *cache.Manager
	player    *player.Player
	meta      *framedb.DB    // nil when the capture process has no database yet
	watcher   *watch.Watcher // nil when the archive cannot be watched

	// Index data
	folders []string // dated recording folders, as listed
	videos  []string // video recordings, chronological ascending

	// Cursor position in the list pane (folders or videos, per mode)
	cursor int

	// Independent last-error per index; one failing index never blocks
	// the others
	folderErr error
	videoErr  error
	fileErr   error
	frameErr  error

	// Refresh bookkeeping: selection to restore once its index reloads,
	// and whether the next video selection drops cached frames first
	restoreFolder  string
	restoreVideo   string
	invalidateNext bool

	// Capture timestamp of the frame under the cursor, when known
	frameTime   time.Time
	frameTimeOK bool

	diskFree     uint64
	loadingFiles bool

	// Display dimensions
	width  int
	height int
}

// NewModel creates the viewer model with its collaborators wired in.
// meta and watcher may be nil; the corresponding features are disabled.
func NewModel(cfg Config, store *storage.DirStore, extractor cache.Extractor, meta *framedb.DB, watcher *watch.Watcher) Model {
	return Model{
		store:     store,
		catalog:   catalog.New(store, cfg.VideoExtensions),
		extractor: extractor,
		frames:    cache.NewManager(),
		player:    player.New(),
		meta:      meta,
		watcher:   watcher,
		width:     100,
		height:    30,
	}
}

// Init implements tea.Model.Init and kicks off the initial index loads,
// the free-space sampler, and the archive watcher.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.loadFolders(),
		m.loadVideos(),
		m.measureDiskFree(),
		scheduleDiskFree(),
	}
	if m.watcher != nil {
		cmds = append(cmds, watchArchive(m.watcher))
	}
	return tea.Batch(cmds...)
}

// today returns the folder name the capture process uses for the current
// date.
func today() string {
	return time.Now().Format(catalog.DateLayout)
}

// activeFolder resolves the archive folder frames are currently served
// from: the selected recording folder in images mode, the cache folder in
// videos mode (empty until extraction is Ready).
func (m Model) activeFolder() string {
	if m.player.Mode() == player.ModeVideos {
		return m.frames.FramesFolder()
	}
	return m.player.Folder()
}

// activeList returns the list the cursor pane shows for the current mode.
func (m Model) activeList() []string {
	if m.player.Mode() == player.ModeVideos {
		return m.videos
	}
	return m.folders
}

// syncCursor aligns the list cursor with the current selection.
func (m *Model) syncCursor() {
	if i := slices.Index(m.activeList(), m.player.Selected()); i >= 0 {
		m.cursor = i
	} else {
		m.cursor = 0
	}
}

// Update implements tea.Model.Update and is the single transition
// function for every event in the viewer.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case foldersLoadedMsg:
		return m.handleFoldersLoaded(msg)

	case videosLoadedMsg:
		return m.handleVideosLoaded(msg)

	case filesLoadedMsg:
		return m.handleFilesLoaded(msg)

	case extractionDoneMsg:
		return m.handleExtractionDone(msg)

	case frameLoadedMsg:
		if msg.err != nil {
			// A failed fetch clears the display rather than keeping a
			// stale frame up.
			if m.player.Fail(msg.gen) {
				m.frameErr = msg.err
			}
			return m, nil
		}
		if m.player.Commit(msg.gen, msg.path, msg.data) {
			m.frameErr = nil
		}
		return m, nil

	case frameTimeMsg:
		if msg.gen == m.player.Gen() {
			m.frameTime = msg.t
			m.frameTimeOK = msg.ok
		}
		return m, nil

	case archiveChangedMsg:
		// Something appeared or vanished at the top level; re-list both
		// indexes and re-arm the watcher. Selections survive when still
		// present on disk.
		return m, tea.Batch(watchArchive(m.watcher), m.loadFolders(), m.loadVideos())

	case watcherClosedMsg:
		m.watcher = nil
		return m, nil

	case diskFreeMsg:
		if msg.err == nil {
			m.diskFree = msg.free
		}
		return m, nil

	case diskTickMsg:
		return m, tea.Batch(m.measureDiskFree(), scheduleDiskFree())

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// handleFoldersLoaded commits a folder index result and drives the
// auto-selection policy for images mode.
func (m Model) handleFoldersLoaded(msg foldersLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.folderErr = msg.err
		return m, nil
	}
	m.folderErr = nil
	m.folders = msg.folders

	if m.player.Mode() != player.ModeImages {
		return m, nil
	}

	var cmd tea.Cmd
	switch {
	case m.restoreFolder != "":
		// Refresh transited the selection through null; put it back if
		// the folder still exists, else fall back to auto-selection.
		target := m.restoreFolder
		m.restoreFolder = ""
		if slices.Contains(m.folders, target) {
			cmd = m.selectFolder(target)
		} else if m.player.AutoSelectFolder(m.folders, today()) {
			cmd = m.startFolderLoad()
		}
	case m.player.Folder() == "":
		if m.player.AutoSelectFolder(m.folders, today()) {
			cmd = m.startFolderLoad()
		}
	case !slices.Contains(m.folders, m.player.Folder()):
		// The selected folder disappeared from disk.
		m.player.ClearSelection()
		if m.player.AutoSelectFolder(m.folders, today()) {
			cmd = m.startFolderLoad()
		}
	}
	m.syncCursor()
	return m, cmd
}

// handleVideosLoaded commits a video index result and drives the
// auto-selection policy for videos mode. The index is chronological
// ascending; auto-selection takes the most recent, i.e. last, entry.
func (m Model) handleVideosLoaded(msg videosLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.videoErr = msg.err
		return m, nil
	}
	m.videoErr = nil
	m.videos = msg.videos

	if m.player.Mode() != player.ModeVideos {
		return m, nil
	}

	var cmd tea.Cmd
	switch {
	case m.restoreVideo != "":
		target := m.restoreVideo
		m.restoreVideo = ""
		if slices.Contains(m.videos, target) {
			cmd = m.selectVideo(target)
		} else if m.player.AutoSelectVideo(m.videos) {
			cmd = m.startVideoExtraction()
		}
	case m.player.Video() == "":
		if m.player.AutoSelectVideo(m.videos) {
			cmd = m.startVideoExtraction()
		}
	case !slices.Contains(m.videos, m.player.Video()):
		m.player.ClearSelection()
		m.frames.Clear()
		if m.player.AutoSelectVideo(m.videos) {
			cmd = m.startVideoExtraction()
		}
	}
	m.syncCursor()
	return m, cmd
}

// handleFilesLoaded commits a frame listing, unless the selection moved
// on while the listing was in flight.
func (m Model) handleFilesLoaded(msg filesLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.folder != m.activeFolder() {
		// Superseded: the result belongs to a folder no longer on
		// display.
		return m, nil
	}
	m.loadingFiles = false
	if msg.err != nil {
		m.fileErr = msg.err
		return m, nil
	}
	m.fileErr = nil
	m.player.SetFrames(msg.files)
	return m, m.fetchCurrent()
}

// handleExtractionDone resolves the frame cache state machine and, on
// success, lists the freshly materialized cache folder.
func (m Model) handleExtractionDone(msg extractionDoneMsg) (tea.Model, tea.Cmd) {
	if !m.frames.Resolve(msg.video, msg.key, msg.err) {
		// Superseded: the selection or mode changed while extracting.
		return m, nil
	}
	if m.frames.Phase() != cache.PhaseReady {
		return m, nil
	}
	m.loadingFiles = true
	// The cache folder may still be filling up; the listing policy's
	// bounded retries absorb the lag.
	return m, m.loadFiles(m.frames.FramesFolder())
}

// handleKey routes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.teardown()
		return m, tea.Quit

	case "tab", "v":
		if m.player.Mode() == player.ModeImages {
			return m, m.setMode(player.ModeVideos)
		}
		return m, m.setMode(player.ModeImages)

	case "up", "k":
		return m, m.moveCursor(-1)

	case "down", "j":
		return m, m.moveCursor(1)

	case "left", "h":
		// In videos mode left/right steps the video selection itself;
		// frame scrubbing uses , and . there.
		if m.player.Mode() == player.ModeVideos {
			return m, m.stepVideo(-1)
		}
		return m, m.navigate(-1)

	case "right", "l":
		if m.player.Mode() == player.ModeVideos {
			return m, m.stepVideo(1)
		}
		return m, m.navigate(1)

	case ",":
		return m, m.navigate(-1)

	case ".":
		return m, m.navigate(1)

	case "shift+left", "<":
		return m, m.navigate(-10)

	case "shift+right", ">":
		return m, m.navigate(10)

	case "ctrl+left":
		return m, m.navigate(-100)

	case "ctrl+right":
		return m, m.navigate(100)

	case "home", "g":
		return m, m.jumpTo(0)

	case "end", "G":
		return m, m.jumpTo(len(m.player.Frames()) - 1)

	case "r":
		return m, m.refresh()
	}

	return m, nil
}

// moveCursor shifts the selection in the list pane: folders in images
// mode, videos in videos mode. No wrap-around at the boundaries.
func (m *Model) moveCursor(step int) tea.Cmd {
	list := m.activeList()
	if len(list) == 0 {
		return nil
	}

	i := m.cursor + step
	if i < 0 {
		i = 0
	}
	if i >= len(list) {
		i = len(list) - 1
	}
	if list[i] == m.player.Selected() {
		m.cursor = i
		return nil
	}
	m.cursor = i

	if m.player.Mode() == player.ModeVideos {
		return m.selectVideo(list[i])
	}
	return m.selectFolder(list[i])
}

// stepVideo moves the video selection by step positions in the
// chronological list, with no wrap at either end.
func (m *Model) stepVideo(step int) tea.Cmd {
	if !m.player.SelectAdjacentVideo(m.videos, step) {
		return nil
	}
	m.syncCursor()
	return m.startVideoExtraction()
}

// navigate scrubs the frame index by step, clamped to the sequence.
func (m *Model) navigate(step int) tea.Cmd {
	if !m.player.Navigate(step) {
		return nil
	}
	m.frameTimeOK = false
	return m.fetchCurrent()
}

// jumpTo moves the frame index to an absolute position, clamped.
func (m *Model) jumpTo(i int) tea.Cmd {
	if !m.player.SetIndex(i) {
		return nil
	}
	m.frameTimeOK = false
	return m.fetchCurrent()
}

// setMode switches the view mode and re-triggers the fetch machinery for
// the new mode's selection.
func (m *Model) setMode(mode player.Mode) tea.Cmd {
	if !m.player.SetMode(mode) {
		return nil
	}
	m.frameErr = nil
	m.fileErr = nil
	m.frameTimeOK = false
	m.loadingFiles = false

	var cmd tea.Cmd
	if mode == player.ModeVideos {
		if m.player.Video() == "" {
			m.player.AutoSelectVideo(m.videos)
		}
		if m.player.Video() != "" {
			cmd = m.startVideoExtraction()
		}
	} else {
		// Leaving video mode: the cache drops its key and returns to
		// idle.
		m.frames.Clear()
		if m.player.Folder() == "" {
			m.player.AutoSelectFolder(m.folders, today())
		}
		if m.player.Folder() != "" {
			cmd = m.startFolderLoad()
		}
	}
	m.syncCursor()
	return cmd
}

// refresh forces a full re-fetch of the active mode's index by transiting
// the selection through null and back; the restore fields re-apply it
// when the index arrives, which re-runs the selection machinery
// idempotently. In videos mode the cached frames are also dropped so the
// next extraction starts fresh.
func (m *Model) refresh() tea.Cmd {
	m.frameTimeOK = false
	m.loadingFiles = false

	if m.player.Mode() == player.ModeVideos {
		m.restoreVideo = m.player.Video()
		m.invalidateNext = true
		m.player.ClearSelection()
		m.frames.Clear()
		return m.loadVideos()
	}

	m.restoreFolder = m.player.Folder()
	m.player.ClearSelection()
	return m.loadFolders()
}

// selectFolder installs a recording-folder selection and starts loading
// its frames.
func (m *Model) selectFolder(name string) tea.Cmd {
	m.player.SelectFolder(name)
	m.syncCursor()
	return m.startFolderLoad()
}

// startFolderLoad begins listing the currently selected folder.
func (m *Model) startFolderLoad() tea.Cmd {
	m.fileErr = nil
	m.frameTimeOK = false
	m.loadingFiles = true
	return m.loadFiles(m.player.Folder())
}

// selectVideo installs a video selection and requests its frames from
// the extraction service.
func (m *Model) selectVideo(name string) tea.Cmd {
	m.player.SelectVideo(name)
	m.syncCursor()
	return m.startVideoExtraction()
}

// startVideoExtraction moves the cache to Requesting for the selected
// video, dropping any prior key immediately so stale frames are never
// shown, and dispatches the extraction request.
func (m *Model) startVideoExtraction() tea.Cmd {
	v := m.player.Video()
	m.fileErr = nil
	m.frameTimeOK = false
	m.loadingFiles = false
	m.frames.Request(v)
	if m.invalidateNext {
		m.invalidateNext = false
		return m.invalidateAndExtract(v)
	}
	return m.requestExtraction(v)
}

// fetchCurrent spawns the fetch for the frame the index points at, tagged
// with the current generation, plus the capture-time lookup for numbered
// image frames.
func (m *Model) fetchCurrent() tea.Cmd {
	name, ok := m.player.CurrentFrame()
	if !ok {
		return nil
	}
	folder := m.activeFolder()
	if folder == "" {
		return nil
	}

	gen := m.player.Gen()
	cmds := []tea.Cmd{m.loadFrame(gen, folder, name)}
	if m.player.Mode() == player.ModeImages && m.meta != nil {
		cmds = append(cmds, m.lookupFrameTime(gen, name))
	}
	return tea.Batch(cmds...)
}

// teardown releases everything the model owns. The display resource is
// revoked exactly once here.
func (m *Model) teardown() {
	m.player.Teardown()
	if m.watcher != nil {
		m.watcher.Close()
	}
	if m.meta != nil {
		m.meta.Close()
	}
}

// Teardown releases held resources. Exposed for main, which calls it on
// the final model when the program ends without a quit key.
func (m Model) Teardown() {
	m.teardown()
}
