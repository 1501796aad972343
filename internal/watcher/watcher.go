// Package watcher drives incremental reindexing from filesystem change
// events. Directory-walk and debounce structure are ported from
// internal/indexing/watcher.go and debounced_rebuilder.go: fsnotify for
// raw events, a single coalescing timer per watcher rather than a
// separate rebuilder type, since this server's incremental index
// update is already a single operation per batch.
package watcher

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/doctordisrespect/narsil-mcp/internal/reposvc"
)

// DefaultDebounce is the batch coalescing window, implementation-chosen
// within a conventional debounce range.
const DefaultDebounce = 200 * time.Millisecond

// EventKind classifies a coalesced filesystem change.
type EventKind int

const (
	EventCreate EventKind = iota
	EventWrite
	EventRemove
	EventRename
)

func (k EventKind) String() string {
	switch k {
	case EventCreate:
		return "create"
	case EventWrite:
		return "write"
	case EventRemove:
		return "remove"
	case EventRename:
		return "rename"
	default:
		return "unknown"
	}
}

// Batch is a coalesced set of paths grouped by what happened to them,
// handed to the Watcher's callback once the debounce window elapses.
// Removals are listed first in processing order by convention, to free
// resources before creates/changes are applied.
type Batch struct {
	Removed []string
	Changed []string
	Created []string
}

// Stats reports cumulative watch activity.
type Stats struct {
	EventsProcessed int64
	ErrorCount      int64
	LastEventTime   time.Time
	Active          bool
}

// Watcher monitors a repository root and delivers debounced, coalesced
// batches of file events to OnBatch.
type Watcher struct {
	repo     reposvc.Repository
	fsw      *fsnotify.Watcher
	debounce time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	events map[string]EventKind
	timer  *time.Timer

	statsMu sync.RWMutex
	stats   Stats

	// OnBatch is invoked from the watcher's own goroutine each time the
	// debounce timer fires with at least one pending event.
	OnBatch func(Batch)
}

// New creates a Watcher for repo with the given debounce window (zero
// uses DefaultDebounce).
func New(repo reposvc.Repository, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		repo:     repo,
		fsw:      fsw,
		debounce: debounce,
		ctx:      ctx,
		cancel:   cancel,
		events:   make(map[string]EventKind),
	}, nil
}

// Start adds recursive watches under the repository root and begins
// processing events. Symlinked directories are not followed, matching
// reposvc.Config.FollowSymlinks' default of false.
func (w *Watcher) Start() error {
	if err := w.addWatches(w.repo.Path); err != nil {
		return fmt.Errorf("add watches under %s: %w", w.repo.Path, err)
	}
	w.wg.Add(1)
	go w.processEvents()
	return nil
}

// Stop cancels processing and closes the underlying fsnotify watcher.
func (w *Watcher) Stop() error {
	w.cancel()
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	err := w.fsw.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) addWatches(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		name := d.Name()
		if path != root && strings.HasPrefix(name, ".") {
			return filepath.SkipDir
		}
		if w.shouldIgnoreDir(path) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			log.Printf("watcher: failed to add watch for %s: %v", path, err)
		}
		return nil
	})
}

func (w *Watcher) shouldIgnoreDir(path string) bool {
	rel, err := filepath.Rel(w.repo.Path, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)
	return w.repo.Config.Excluded(rel + "/")
}

func (w *Watcher) processEvents() {
	defer w.wg.Done()
	for {
		select {
		case <-w.ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.recordError()
			log.Printf("watcher: error: %v", err)
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	info, err := os.Stat(ev.Name)
	if err != nil {
		if ev.Op&fsnotify.Remove != 0 {
			w.addPending(ev.Name, EventRemove)
		}
		return
	}

	if info.IsDir() {
		if ev.Op&fsnotify.Create != 0 && !w.shouldIgnoreDir(ev.Name) {
			if err := w.fsw.Add(ev.Name); err != nil {
				log.Printf("watcher: failed to add watch for new directory %s: %v", ev.Name, err)
			}
		}
		return
	}

	if info.Size() > w.repo.Config.MaxFileSize {
		return
	}
	rel, err := filepath.Rel(w.repo.Path, ev.Name)
	if err == nil && w.repo.Config.Excluded(filepath.ToSlash(rel)) {
		return
	}

	var kind EventKind
	switch {
	case ev.Op&fsnotify.Create != 0:
		kind = EventCreate
	case ev.Op&fsnotify.Write != 0:
		kind = EventWrite
	case ev.Op&fsnotify.Remove != 0:
		kind = EventRemove
	case ev.Op&fsnotify.Rename != 0:
		kind = EventRename
	default:
		return
	}
	w.addPending(ev.Name, kind)
}

func (w *Watcher) addPending(path string, kind EventKind) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.events[path] = kind
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flush)
}

func (w *Watcher) flush() {
	w.mu.Lock()
	events := w.events
	w.events = make(map[string]EventKind)
	w.mu.Unlock()

	if len(events) == 0 {
		return
	}

	var batch Batch
	for path, kind := range events {
		switch kind {
		case EventRemove:
			batch.Removed = append(batch.Removed, path)
		case EventCreate:
			batch.Created = append(batch.Created, path)
		case EventWrite, EventRename:
			batch.Changed = append(batch.Changed, path)
		}
	}

	w.recordEvents(int64(len(events)))
	if w.OnBatch != nil {
		w.OnBatch(batch)
	}
}

func (w *Watcher) recordEvents(n int64) {
	w.statsMu.Lock()
	defer w.statsMu.Unlock()
	w.stats.EventsProcessed += n
	w.stats.LastEventTime = time.Now()
}

func (w *Watcher) recordError() {
	w.statsMu.Lock()
	defer w.statsMu.Unlock()
	w.stats.ErrorCount++
}

// Stats returns a snapshot of cumulative watch activity.
func (w *Watcher) Stats() Stats {
	w.statsMu.RLock()
	defer w.statsMu.RUnlock()
	s := w.stats
	s.Active = w.ctx.Err() == nil
	return s
}
