package orchestrator

import (
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// SignalWatcher lets an operator steer a running coordinator through
// the filesystem: dropping a file named "drain" into the signals
// directory stops queued tasks from being dispatched, removing it
// resumes dispatch, and a file named "kill" requests cooperative
// cancellation of every running workflow.
type SignalWatcher struct {
	dir     string
	coord   *Coordinator
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewSignalWatcher creates the signals directory under root/.devteam
// and starts watching it. Returns nil with no error if the watcher
// cannot be created; signals are an operator convenience, not a
// required capability.
func NewSignalWatcher(root string, coord *Coordinator) (*SignalWatcher, error) {
	dir := filepath.Join(root, ".devteam", "signals")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	sw := &SignalWatcher{
		dir:   dir,
		coord: coord,
		done:  make(chan struct{}),
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, err
	}
	sw.watcher = watcher

	// Apply signals already present before the watch started.
	if _, err := os.Stat(filepath.Join(dir, "drain")); err == nil {
		coord.SetDraining(true)
	}

	go sw.watch()

	return sw, nil
}

// watch applies signal file events to the coordinator.
func (sw *SignalWatcher) watch() {
	for {
		select {
		case <-sw.done:
			return
		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			base := filepath.Base(event.Name)
			switch {
			case base == "drain" && event.Op&(fsnotify.Create|fsnotify.Write) != 0:
				sw.coord.SetDraining(true)
			case base == "drain" && event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				sw.coord.SetDraining(false)
			case base == "kill" && event.Op&(fsnotify.Create|fsnotify.Write) != 0:
				sw.coord.CancelRunning("kill signal")
			}
		case <-sw.watcher.Errors:
			// Ignore errors, keep watching
		}
	}
}

// Close stops the watcher.
func (sw *SignalWatcher) Close() error {
	close(sw.done)
	if sw.watcher != nil {
		return sw.watcher.Close()
	}
	return nil
}
