package cache

import "lapse/internal/catalog"

// Phase is the state of the frame cache for the active video selection.
type Phase int

const (
	PhaseIdle       Phase = iota // no video selected
	PhaseRequesting              // extraction requested, not yet resolved
	PhaseReady                   // frames materialized, key available
	PhaseFailed                  // request errored; error retained
)

// String returns the string representation of a phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRequesting:
		return "requesting"
	case PhaseReady:
		return "ready"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Manager tracks the extraction state machine for the currently selected
// video. It is mutated only from the UI's single update loop; resolution
// results arriving for a superseded request are discarded by comparing
// the captured video name against the current one.
//
// Keys are not persisted across process restarts. Idempotent
// re-extraction is the external service's job: requesting an
// already-cached video is cheap and returns the same key.
type Manager struct {
	phase Phase
	video string
	key   string
	err   error
}

// NewManager returns a Manager in the Idle phase.
func NewManager() *Manager {
	return &Manager{phase: PhaseIdle}
}

// Request records that extraction for video is in flight. Any previously
// held key is dropped immediately so stale frames are never listed while
// the new request resolves.
func (m *Manager) Request(video string) {
	m.phase = PhaseRequesting
	m.video = video
	m.key = ""
	m.err = nil
}

// Resolve applies the outcome of an extraction request. The result is
// ignored (returning false) when it belongs to a video that is no longer
// the pending one.
func (m *Manager) Resolve(video, key string, err error) bool {
	if m.phase != PhaseRequesting || video != m.video {
		return false
	}
	if err != nil {
		m.phase = PhaseFailed
		m.key = ""
		m.err = err
		return true
	}
	m.phase = PhaseReady
	m.key = key
	m.err = nil
	return true
}

// Clear returns the manager to Idle, dropping any key and retained error.
// Called when the video selection goes away or the view leaves video
// mode.
func (m *Manager) Clear() {
	*m = Manager{phase: PhaseIdle}
}

// Phase returns the current phase.
func (m *Manager) Phase() Phase { return m.phase }

// Video returns the video the current phase refers to, or "" when Idle.
func (m *Manager) Video() string { return m.video }

// Key returns the cache key, or "" unless Ready.
func (m *Manager) Key() string { return m.key }

// Err returns the retained extraction error, or nil unless Failed.
func (m *Manager) Err() error { return m.err }

// FramesFolder returns the archive-relative folder holding the extracted
// frames, or "" unless Ready.
func (m *Manager) FramesFolder() string {
	if m.phase != PhaseReady {
		return ""
	}
	return catalog.CacheFolder(m.key)
}
