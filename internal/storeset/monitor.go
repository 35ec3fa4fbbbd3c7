package storeset

import (
	"log/slog"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// defaultDebounce coalesces bursts of filesystem events (many editors emit
// write+rename+create for a single save) into a single rebuild, while
// still honoring the "any event triggers a full rebuild" coarseness
// spec.md §4.4 calls for: every event still leads to exactly one rebuild,
// just not one rebuild per individual event in a burst.
const defaultDebounce = 200 * time.Millisecond

// Monitor watches a set of top-level directories (and the subdirectories
// they currently contain) for changes and invokes onChange after each
// debounced burst of events. It does not rebuild the StoreSet itself —
// that responsibility belongs to whoever owns the StoreSet (the authority
// package), matching spec.md §4.4's "emits a changed notification to the
// enclosing authority" and the ownership note in spec.md §3 that the
// Authority exclusively owns the StoreSet and its monitors.
type Monitor struct {
	watcher *fsnotify.Watcher
	logger  *slog.Logger

	wg     sync.WaitGroup
	stopCh chan struct{}
}

// Watch installs a watch on every top-level path plus its current direct
// subdirectories (so edits inside e.g. /etc/polkit-1/localauthority/50-local.d
// are seen, not just creation of the subdirectory itself), and starts the
// debounced event loop. onChange is invoked on its own goroutine-free call
// path (synchronously from the monitor's loop goroutine) — callers that do
// expensive work in onChange should keep it non-blocking or dispatch
// further.
func Watch(logger *slog.Logger, topLevels []string, onChange func()) (*Monitor, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, top := range topLevels {
		addWatchTree(watcher, logger, top)
	}

	m := &Monitor{
		watcher: watcher,
		logger:  logger,
		stopCh:  make(chan struct{}),
	}

	m.wg.Add(1)
	go m.loop(onChange)

	return m, nil
}

// addWatchTree watches dir and its immediate subdirectories. Failure to
// watch a path is logged and otherwise ignored — a missing directory today
// may be created later, and a later rebuild will pick it up once events
// start flowing for its parent.
func addWatchTree(watcher *fsnotify.Watcher, logger *slog.Logger, dir string) {
	if err := watcher.Add(dir); err != nil {
		logger.Warn("storeset: failed to watch top-level path", "path", dir, "error", err)
		return
	}
	entries, err := readDirNames(dir)
	if err != nil {
		return
	}
	for _, name := range entries {
		_ = watcher.Add(dir + "/" + name)
	}
}

// Refresh re-scans each top-level path's current direct subdirectories and
// adds a watch for any that aren't already watched. fsnotify/inotify only
// reports events on a watched directory's direct children, not
// recursively, so a subdirectory created after Watch (or after a previous
// Refresh) would otherwise never produce an event of its own — the
// top-level's watch fires once for its creation, a rebuild picks up its
// initial contents, but edits to files inside it afterward go unseen.
// Callers are expected to call Refresh once per rebuild (authority.rebuild
// does, right after storeset.Build) so the watch set never falls behind
// the directories the StoreSet now spans.
func (m *Monitor) Refresh(topLevels []string) {
	watched := make(map[string]bool)
	for _, p := range m.watcher.WatchList() {
		watched[p] = true
	}

	for _, top := range topLevels {
		if !watched[top] {
			if err := m.watcher.Add(top); err != nil {
				m.logger.Warn("storeset: failed to watch top-level path", "path", top, "error", err)
				continue
			}
			watched[top] = true
		}

		entries, err := readDirNames(top)
		if err != nil {
			continue
		}
		for _, name := range entries {
			full := top + "/" + name
			if watched[full] {
				continue
			}
			if err := m.watcher.Add(full); err != nil {
				m.logger.Warn("storeset: failed to watch subdirectory", "path", full, "error", err)
				continue
			}
			watched[full] = true
		}
	}
}

func (m *Monitor) loop(onChange func()) {
	defer m.wg.Done()

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-m.stopCh:
			if timer != nil {
				timer.Stop()
			}
			return
		case _, ok := <-m.watcher.Events:
			if !ok {
				return
			}
			if timer == nil {
				timer = time.NewTimer(defaultDebounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(defaultDebounce)
			}
			timerC = timer.C
		case err, ok := <-m.watcher.Errors:
			if !ok {
				return
			}
			m.logger.Warn("storeset: watcher error", "error", err)
		case <-timerC:
			timerC = nil
			onChange()
		}
	}
}

// Stop tears down the watcher and blocks until the monitor's goroutine has
// exited, so callers (and goleak-instrumented tests) can rely on no
// watcher goroutine outliving Stop.
func (m *Monitor) Stop() {
	close(m.stopCh)
	_ = m.watcher.Close()
	m.wg.Wait()
}
