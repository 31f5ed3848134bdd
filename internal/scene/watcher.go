package scene

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/elamaunt/gdshrapt-go/internal/logging"
)

// EventKind classifies a scene file change.
type EventKind int

const (
	EventChanged EventKind = iota
	EventCreated
	EventDeleted
	EventRenamed
)

// Event is delivered to consumers after debouncing. For content
// changes, Renames maps old node paths to new names computed from
// line-keyed pre/post snapshots.
type Event struct {
	Kind    EventKind
	Path    string
	Renames map[string]string
}

const (
	debounceWindow = 300 * time.Millisecond
	ownWriteWindow = 2 * time.Second
)

// Watcher reloads scenes on file-system changes. Raw notifications are
// debounced per path; writes the process itself performed within the
// suppression window are ignored to prevent event storms.
type Watcher struct {
	provider *Provider
	fs       *fsnotify.Watcher
	events   chan Event
	log      logging.Logger

	mu        sync.Mutex
	pending   map[string]*time.Timer
	ownWrites map[string]time.Time
	closed    bool
	done      chan struct{}
}

// NewWatcher starts watching the given directories for scene files.
func NewWatcher(provider *Provider, dirs []string, log logging.Logger) (*Watcher, error) {
	if log == nil {
		log = logging.Nop
	}
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		provider:  provider,
		fs:        fs,
		events:    make(chan Event, 64),
		log:       log,
		pending:   map[string]*time.Timer{},
		ownWrites: map[string]time.Time{},
		done:      make(chan struct{}),
	}
	for _, dir := range dirs {
		if err := fs.Add(dir); err != nil {
			fs.Close()
			return nil, err
		}
	}
	go w.run()
	return w, nil
}

// Events is the consumer-facing channel. No ordering guarantees exist
// between concurrent changes; consumers must be idempotent.
func (w *Watcher) Events() <-chan Event { return w.events }

// MarkOwnWrite suppresses events for a path the caller is about to
// write itself.
func (w *Watcher) MarkOwnWrite(path string) {
	w.mu.Lock()
	w.ownWrites[path] = time.Now()
	w.mu.Unlock()
}

// Close stops the watcher and its event channel.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	for _, t := range w.pending {
		t.Stop()
	}
	w.mu.Unlock()
	err := w.fs.Close()
	<-w.done
	close(w.events)
	return err
}

func (w *Watcher) run() {
	defer close(w.done)
	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !isSceneFile(ev.Name) {
				continue
			}
			w.handle(ev)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Warnf("scene watcher: %v", err)
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	if at, ok := w.ownWrites[ev.Name]; ok {
		if time.Since(at) < ownWriteWindow {
			w.mu.Unlock()
			return
		}
		delete(w.ownWrites, ev.Name)
	}
	// Debounce: restart the timer on every raw notification so a
	// burst collapses into one delivery.
	if t, ok := w.pending[ev.Name]; ok {
		t.Stop()
	}
	path := ev.Name
	op := ev.Op
	w.pending[path] = time.AfterFunc(debounceWindow, func() {
		w.mu.Lock()
		delete(w.pending, path)
		closed := w.closed
		w.mu.Unlock()
		if !closed {
			w.deliver(path, op)
		}
	})
	w.mu.Unlock()
}

func (w *Watcher) deliver(path string, op fsnotify.Op) {
	switch {
	case op.Has(fsnotify.Remove):
		w.provider.RemoveScene(path)
		w.send(Event{Kind: EventDeleted, Path: path})
	case op.Has(fsnotify.Rename):
		w.provider.RemoveScene(path)
		w.send(Event{Kind: EventRenamed, Path: path})
	case op.Has(fsnotify.Create):
		w.provider.LoadScene(path)
		w.send(Event{Kind: EventCreated, Path: path})
	default:
		before := w.provider.Scene(path)
		after := w.provider.LoadScene(path)
		w.send(Event{
			Kind:    EventChanged,
			Path:    path,
			Renames: ComputeRenameDelta(before, after),
		})
	}
}

func (w *Watcher) send(ev Event) {
	select {
	case w.events <- ev:
	default:
		w.log.Warnf("scene watcher: dropping event for %s (consumer stalled)", ev.Path)
	}
}

// ComputeRenameDelta compares line-keyed snapshots of two parses of
// the same scene: a node block still sitting on the same line but
// carrying a different name is reported as old path → new name.
func ComputeRenameDelta(before, after *SceneInfo) map[string]string {
	if before == nil || after == nil {
		return nil
	}
	byLine := map[int]*NodeInfo{}
	for _, n := range after.Nodes {
		byLine[n.Line] = n
	}
	var renames map[string]string
	for _, old := range before.Nodes {
		if now, ok := byLine[old.Line]; ok && now.Name != old.Name {
			if renames == nil {
				renames = map[string]string{}
			}
			renames[old.Path] = now.Name
		}
	}
	return renames
}

func isSceneFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tscn", ".scn":
		return true
	}
	return false
}
