// Package watch turns writes to the note database into change events, so a
// viewer in one process sees saves made by another.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// KindStorageChanged is the only event kind.
const KindStorageChanged = "storage_changed"

// DefaultDebounce is how long the watcher waits for writes to settle.
const DefaultDebounce = 100 * time.Millisecond

// Event reports that stored notes, settings or tags may have changed.
type Event struct {
	Kind string    `json:"kind"`
	At   time.Time `json:"at"`
}

// Watcher observes a directory for changes to files with a given prefix.
type Watcher struct {
	dir      string
	prefix   string
	debounce time.Duration
	logger   zerolog.Logger

	events chan Event

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

// New watches dir for writes to files whose name starts with prefix
// (the database file and its -wal and -shm companions).
func New(dir, prefix string, logger zerolog.Logger) *Watcher {
	return &Watcher{
		dir:      dir,
		prefix:   prefix,
		debounce: DefaultDebounce,
		logger:   logger.With().Str("component", "watch").Logger(),
		events:   make(chan Event, 1),
	}
}

// SetDebounce changes the settle window. Call before Start.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Events delivers change events. It is closed when the watcher stops.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Start begins watching. The loop runs until ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fw.Add(w.dir); err != nil {
		_ = fw.Close()
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}

	lifecycle.Go(ctx, func(ctx context.Context) error {
		return w.run(ctx, fw)
	}, lifecycle.WithErrorHandler(func(err error) {
		w.logger.Error().Err(err).Msg("watcher panic")
	}))
	return nil
}

func (w *Watcher) run(ctx context.Context, fw *fsnotify.Watcher) error {
	defer w.shutdown()
	defer fw.Close()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if w.relevant(event) {
				w.schedule()
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn().Err(err).Msg("fsnotify error")
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	return strings.HasPrefix(filepath.Base(event.Name), w.prefix)
}

// schedule restarts the settle timer; one event is emitted per burst.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.emit)
}

func (w *Watcher) emit() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	w.timer = nil
	select {
	case w.events <- Event{Kind: KindStorageChanged, At: time.Now()}:
	default:
		// A change is already queued; the reader will reload anyway.
	}
}

func (w *Watcher) shutdown() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopped = true
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	close(w.events)
}
