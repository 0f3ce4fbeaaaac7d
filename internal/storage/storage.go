// Package storage provides read-only filesystem access rooted at the
// timelapse archive directory.
//
// All paths handed to a Store are slash-separated and relative to the
// archive root; the archive is treated as a sandbox and the package never
// creates, modifies, or deletes anything inside it. Recording folders and
// the hidden frame cache are written by external processes (the capture
// scheduler and the frame extractor) and only ever read here.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrIO marks any filesystem failure: the path does not exist, is not
// readable, or the read itself failed. It is the only error kind this
// package produces; callers test for it with errors.Is.
var ErrIO = errors.New("storage error")

// Kind classifies a directory entry as exactly one of folder or file.
type Kind int

const (
	KindFolder Kind = iota // a sub-directory
	KindFile               // a regular file
)

// Entry is a single classified directory entry. Entries are produced for
// one listing call and never persisted.
type Entry struct {
	Name string
	Kind Kind
}

// Store is the storage boundary consumed by the indexes and the playback
// machinery. Implementations must return listings in a deterministic
// order for a given directory state.
type Store interface {
	// List enumerates the entries of the directory at path.
	List(ctx context.Context, path string) ([]Entry, error)

	// ReadFile returns the raw bytes of the file at path.
	ReadFile(ctx context.Context, path string) ([]byte, error)
}

// DirStore is the production Store backed by a directory tree on disk.
type DirStore struct {
	root string
}

// NewDirStore creates a DirStore rooted at the given absolute directory.
func NewDirStore(root string) *DirStore {
	return &DirStore{root: root}
}

// Root returns the absolute archive root this store reads from.
func (s *DirStore) Root() string {
	return s.root
}

// resolve maps a slash-separated relative path onto the archive root.
// An empty path addresses the root itself.
func (s *DirStore) resolve(path string) string {
	if path == "" {
		return s.root
	}
	return filepath.Join(s.root, filepath.FromSlash(path))
}

// List enumerates the directory at path, classifying each entry as folder
// or file. Entries that are neither (symlinks, sockets, devices) are
// dropped. The result is sorted ascending by name, which os.ReadDir
// guarantees.
func (s *DirStore) List(ctx context.Context, path string) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dirEntries, err := os.ReadDir(s.resolve(path))
	if err != nil {
		return nil, fmt.Errorf("%w: list %q: %v", ErrIO, path, err)
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		switch {
		case de.IsDir():
			entries = append(entries, Entry{Name: de.Name(), Kind: KindFolder})
		case de.Type().IsRegular():
			entries = append(entries, Entry{Name: de.Name(), Kind: KindFile})
		}
	}
	return entries, nil
}

// ReadFile returns the contents of the file at path.
func (s *DirStore) ReadFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.resolve(path))
	if err != nil {
		return nil, fmt.Errorf("%w: read %q: %v", ErrIO, path, err)
	}
	return data, nil
}
