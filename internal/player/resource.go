package player

// Resource is the ephemeral handle to the decoded bytes of the frame
// currently on display. Exactly one Resource is live at a time; the
// Player revokes a superseded Resource the moment its replacement is
// committed, and revokes the final one on teardown.
type Resource struct {
	// Path is the archive-relative file the bytes came from.
	Path string

	data    []byte
	revoked bool
}

// Bytes returns the frame bytes, or nil once the resource is revoked.
func (r *Resource) Bytes() []byte {
	if r.revoked {
		return nil
	}
	return r.data
}

// Len returns the byte size of the frame, or 0 once revoked.
func (r *Resource) Len() int {
	if r.revoked {
		return 0
	}
	return len(r.data)
}

// Revoked reports whether the resource has been released.
func (r *Resource) Revoked() bool {
	return r.revoked
}

// revoke releases the bytes. Only the owning Player calls this.
func (r *Resource) revoke() {
	r.data = nil
	r.revoked = true
}
