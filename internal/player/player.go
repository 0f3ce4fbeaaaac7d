// Package player implements the playback state machine: view mode,
// selection, clamped frame index, auto-selection, navigation, and the
// display-resource lifecycle.
//
// The Player is a plain state record with pure transitions; it issues no
// I/O itself. The UI update loop drives it with events (selection
// changes, fetched frame data, navigation commands) and reads back what
// to fetch next. Every transition that changes which frame should be on
// display bumps a generation counter; fetch results re-entering the loop
// carry the generation they were issued for, and stale ones are discarded
// instead of cancelled.
package player

import "slices"

// Mode is the active view mode.
type Mode int

const (
	ModeImages Mode = iota // browse dated recording folders
	ModeVideos             // browse video recordings via the frame cache
)

// String returns the string representation of a mode.
func (m Mode) String() string {
	switch m {
	case ModeImages:
		return "images"
	case ModeVideos:
		return "videos"
	default:
		return "unknown"
	}
}

// Player holds the complete playback state. Exactly one of the folder and
// video selections is meaningful per mode. The frame index is always
// clamped to the active sequence, or 0 when the sequence is empty.
type Player struct {
	mode   Mode
	folder string // selected recording folder (images mode)
	video  string // selected video recording (videos mode)

	frames []string // active frame sequence
	index  int

	gen uint64 // fetch generation; bumped whenever sequence or index moves

	res     *Resource
	created int
	revoked int
}

// New returns a Player in images mode with nothing selected.
func New() *Player {
	return &Player{mode: ModeImages}
}

// Mode returns the active view mode.
func (p *Player) Mode() Mode { return p.mode }

// Folder returns the selected recording folder, or "".
func (p *Player) Folder() string { return p.folder }

// Video returns the selected video recording, or "".
func (p *Player) Video() string { return p.video }

// Selected returns the selection meaningful for the active mode.
func (p *Player) Selected() string {
	if p.mode == ModeVideos {
		return p.video
	}
	return p.folder
}

// Frames returns the active frame sequence.
func (p *Player) Frames() []string { return p.frames }

// Index returns the clamped current frame index.
func (p *Player) Index() int { return p.index }

// Gen returns the current fetch generation. A fetch issued now must carry
// this value back into Commit or Fail.
func (p *Player) Gen() uint64 { return p.gen }

// CurrentFrame returns the file name of the frame the index points at.
func (p *Player) CurrentFrame() (string, bool) {
	if len(p.frames) == 0 {
		return "", false
	}
	return p.frames[p.index], true
}

func (p *Player) bump() { p.gen++ }

// SetMode switches the view mode. The active sequence is dropped; the
// caller re-fetches for the mode's own selection. Switching to the same
// mode is a no-op.
func (p *Player) SetMode(mode Mode) bool {
	if mode == p.mode {
		return false
	}
	p.mode = mode
	p.frames = nil
	p.index = 0
	p.bump()
	return true
}

// SelectFolder sets the recording-folder selection and clears the active
// sequence until the folder's files arrive.
func (p *Player) SelectFolder(name string) {
	p.folder = name
	p.frames = nil
	p.index = 0
	p.bump()
}

// SelectVideo sets the video selection and clears the active sequence
// until the extracted frames arrive.
func (p *Player) SelectVideo(name string) {
	p.video = name
	p.frames = nil
	p.index = 0
	p.bump()
}

// ClearSelection drops the active mode's selection and the sequence.
func (p *Player) ClearSelection() {
	if p.mode == ModeVideos {
		p.video = ""
	} else {
		p.folder = ""
	}
	p.frames = nil
	p.index = 0
	p.bump()
}

// SetFrames installs the active frame sequence. A freshly loaded image
// folder lands on its last frame; a freshly extracted video sequence
// lands on its first. Distinct policies, both deliberate.
func (p *Player) SetFrames(names []string) {
	p.frames = names
	if p.mode == ModeImages && len(names) > 0 {
		p.index = len(names) - 1
	} else {
		p.index = 0
	}
	p.bump()
}

// SetIndex moves the frame index to i, clamped to the sequence bounds.
// Returns false when the clamped position equals the current one, in
// which case no new fetch is needed.
func (p *Player) SetIndex(i int) bool {
	if len(p.frames) == 0 {
		i = 0
	} else if i < 0 {
		i = 0
	} else if i >= len(p.frames) {
		i = len(p.frames) - 1
	}
	if i == p.index {
		return false
	}
	p.index = i
	p.bump()
	return true
}

// Navigate moves the frame index by step (negative for backwards),
// clamped to the sequence bounds.
func (p *Player) Navigate(step int) bool {
	return p.SetIndex(p.index + step)
}

// AutoSelectFolder applies the folder auto-selection policy: when no
// folder is selected and the list is non-empty, pick today's folder if
// present, else the lexicographically greatest (most recent) one.
// Returns true when a selection was made.
func (p *Player) AutoSelectFolder(folders []string, today string) bool {
	if p.folder != "" || len(folders) == 0 {
		return false
	}
	pick := folders[0]
	for _, f := range folders {
		if f == today {
			pick = f
			break
		}
		if f > pick {
			pick = f
		}
	}
	p.SelectFolder(pick)
	return true
}

// AutoSelectVideo applies the video auto-selection policy: when no video
// is selected and the list is non-empty, pick the most recent entry. The
// video index is chronologically ascending, so that is the last element.
func (p *Player) AutoSelectVideo(videos []string) bool {
	if p.video != "" || len(videos) == 0 {
		return false
	}
	p.SelectVideo(videos[len(videos)-1])
	return true
}

// SelectAdjacentVideo moves the video selection by step positions in the
// chronological video list, with no effect at the boundaries. Returns
// true when the selection changed.
func (p *Player) SelectAdjacentVideo(videos []string, step int) bool {
	if len(videos) == 0 {
		return false
	}
	i := slices.Index(videos, p.video)
	if i < 0 {
		return false
	}
	j := i + step
	if j < 0 || j >= len(videos) || j == i {
		return false
	}
	p.SelectVideo(videos[j])
	return true
}

// Commit installs fetched frame bytes as the new display resource,
// provided gen still matches the current generation. The previous
// resource is revoked only after the new one is in place, so a stale
// resource is never displayed past its replacement and the display never
// goes dark during a successful swap. Stale results are discarded.
func (p *Player) Commit(gen uint64, path string, data []byte) bool {
	if gen != p.gen {
		return false
	}
	res := &Resource{Path: path, data: data}
	p.created++
	old := p.res
	p.res = res
	if old != nil {
		old.revoke()
		p.revoked++
	}
	return true
}

// Fail clears the display after a fetch for the current generation
// failed. The prior resource is not retained. Stale failures are
// discarded.
func (p *Player) Fail(gen uint64) bool {
	if gen != p.gen {
		return false
	}
	p.dropResource()
	return true
}

// Resource returns the live display resource, or nil.
func (p *Player) Resource() *Resource { return p.res }

// Teardown revokes whatever resource is currently held. Called exactly
// once when the UI unmounts.
func (p *Player) Teardown() {
	p.dropResource()
}

func (p *Player) dropResource() {
	if p.res == nil {
		return
	}
	p.res.revoke()
	p.revoked++
	p.res = nil
}

// Stats returns the lifetime creation and revocation counts. After
// Teardown the two are equal: no leaked resources, no double revokes.
func (p *Player) Stats() (created, revoked int) {
	return p.created, p.revoked
}
