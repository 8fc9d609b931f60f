// Package notify carries the cross-process reload signal. The main process
// touches a marker file in the shared container after repository mutations;
// widgets and extensions watch it and refresh their presentations.
package notify

import (
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/tkoster/linkmark/internal/logger"
)

// Notifier emits the "reload all presentations" signal.
type Notifier struct {
	path string
	log  logger.Logger
}

// NewNotifier creates a Notifier writing to the given marker file path.
func NewNotifier(path string, log logger.Logger) *Notifier {
	return &Notifier{path: path, log: log}
}

// ReloadPresentations signals external observers to refresh. Safe on a nil
// receiver so repositories can run without a wired notifier in tests.
func (n *Notifier) ReloadPresentations() {
	if n == nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(n.path), 0755); err != nil {
		n.log.Warn("reload signal failed", logger.Error(err))
		return
	}
	stamp := []byte(time.Now().Format(time.RFC3339Nano) + "\n")
	tmp := n.path + ".tmp"
	if err := os.WriteFile(tmp, stamp, 0644); err != nil {
		n.log.Warn("reload signal failed", logger.Error(err))
		return
	}
	if err := os.Rename(tmp, n.path); err != nil {
		n.log.Warn("reload signal failed", logger.Error(err))
	}
}

// Watcher observes the marker file and surfaces debounced reload events.
type Watcher struct {
	fw     *fsnotify.Watcher
	events chan struct{}
	done   chan struct{}
}

// NewWatcher starts watching the marker file at path. The containing
// directory must exist.
func NewWatcher(path string, log logger.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{
		fw:     fw,
		events: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}

	marker := filepath.Base(path)
	go func() {
		for {
			select {
			case ev, ok := <-fw.Events:
				if !ok {
					return
				}
				if filepath.Base(ev.Name) != marker {
					continue
				}
				if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Rename) {
					continue
				}
				// Coalesce bursts: a pending event already covers this one.
				select {
				case w.events <- struct{}{}:
				default:
				}
			case err, ok := <-fw.Errors:
				if !ok {
					return
				}
				log.Warn("reload watcher error", logger.Error(err))
			case <-w.done:
				return
			}
		}
	}()

	return w, nil
}

// Events returns the reload event channel.
func (w *Watcher) Events() <-chan struct{} {
	return w.events
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fw.Close()
}
