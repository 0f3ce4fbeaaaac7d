// Package framedb reads the frame metadata database maintained by the
// capture process.
//
// The capture scheduler records one row per screenshot (frame number plus
// UTC and local capture timestamps) in a SQLite file at the archive root.
// The viewer only ever reads it, to show when the frame under the cursor
// was taken. A missing database simply disables the readout.
package framedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// FileName is the database file name inside the archive root. The hidden
// prefix keeps it out of the folder index.
const FileName = ".screenshots.db"

// DB is a read-only handle to the frame metadata database.
type DB struct {
	db *sql.DB
}

// Open opens the metadata database inside the given archive root.
// Returns (nil, nil) when the file does not exist: the capture process
// has not created it yet and the readout is simply unavailable.
func Open(root string) (*DB, error) {
	path := filepath.Join(root, FileName)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("stat %s: %w", FileName, err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", FileName, err)
	}
	return &DB{db: db}, nil
}

// Close releases the database handle.
func (d *DB) Close() error {
	return d.db.Close()
}

// FrameTime returns the local capture time recorded for a frame number.
// The second return is false when no row exists for the frame.
func (d *DB) FrameTime(ctx context.Context, frame int) (time.Time, bool, error) {
	var localTime string
	err := d.db.QueryRowContext(ctx,
		"SELECT local_time FROM screenshots WHERE frame_number = ?", frame,
	).Scan(&localTime)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}

	t, err := time.Parse(time.RFC3339, localTime)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parse local_time %q: %w", localTime, err)
	}
	return t, true, nil
}

// FrameNumber extracts the frame number from a sequential frame file name
// like "00042.png". Returns false for names that are not plain numbered
// frames.
func FrameNumber(name string) (int, bool) {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	n, err := strconv.Atoi(base)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
