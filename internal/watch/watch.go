// Package watch notifies the UI of changes at the archive top level so
// folder and video lists refresh without polling. The capture scheduler
// creates a new dated folder at midnight and new video recordings at any
// time; both appear as create events on the root directory.
package watch

import (
	"github.com/fsnotify/fsnotify"

	"lapse/internal/log"
)

// Watcher coalesces filesystem events on the archive root into a simple
// "something changed" signal.
type Watcher struct {
	fs     *fsnotify.Watcher
	events chan struct{}
}

// New starts watching the archive root. Only the top level is watched;
// frame churn inside recording folders is irrelevant to the lists.
func New(root string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(root); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{fs: fw, events: make(chan struct{}, 1)}
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	logger := log.With("watch")
	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				close(w.events)
				return
			}
			if ev.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			// Coalesce bursts: one pending signal is enough.
			select {
			case w.events <- struct{}{}:
			default:
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				close(w.events)
				return
			}
			// Watch errors are non-fatal; manual refresh still works.
			logger.Warn().Err(err).Msg("watch error")
		}
	}
}

// Next blocks until something at the archive top level changes. Returns
// false once the watcher is closed.
func (w *Watcher) Next() bool {
	_, ok := <-w.events
	return ok
}

// Close stops the watcher and unblocks any pending Next call.
func (w *Watcher) Close() error {
	return w.fs.Close()
}
