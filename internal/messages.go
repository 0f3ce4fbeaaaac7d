package internal

import "time"

// Bubble Tea messages produced by background commands. Every asynchronous
// effect the viewer spawns resolves into exactly one of these and
// re-enters Update, where supersession guards decide whether the result
// still applies.

// foldersLoadedMsg carries the result of listing the dated recording
// folders.
type foldersLoadedMsg struct {
	folders []string
	err     error
}

// filesLoadedMsg carries the frame listing for one folder. The folder the
// listing was issued for rides along so stale results (selection moved
// on before the listing resolved) can be discarded.
type filesLoadedMsg struct {
	folder string
	files  []string
	err    error
}

// videosLoadedMsg carries the result of listing the video recordings.
type videosLoadedMsg struct {
	videos []string
	err    error
}

// extractionDoneMsg carries the outcome of a frame-extraction request.
type extractionDoneMsg struct {
	video string
	key   string
	err   error
}

// frameLoadedMsg carries fetched frame bytes tagged with the playback
// generation they were fetched for.
type frameLoadedMsg struct {
	gen  uint64
	path string
	data []byte
	err  error
}

// frameTimeMsg carries the capture timestamp looked up for the frame the
// cursor is on, tagged with the generation it belongs to.
type frameTimeMsg struct {
	gen uint64
	t   time.Time
	ok  bool
}

// archiveChangedMsg signals that something at the archive top level
// changed on disk.
type archiveChangedMsg struct{}

// watcherClosedMsg signals that the filesystem watcher shut down.
type watcherClosedMsg struct{}

// diskFreeMsg carries the free-space measurement for the archive root.
type diskFreeMsg struct {
	free uint64
	err  error
}

// diskTickMsg schedules the next free-space sample.
type diskTickMsg struct{}
