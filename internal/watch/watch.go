// Package watch converts images as they appear or change under a source
// directory, for use while developing the site.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/backmassage/folio/internal/logging"
	"github.com/backmassage/folio/internal/naming"
	"github.com/backmassage/folio/internal/pipeline"
)

const defaultDebounce = 300 * time.Millisecond

// Converter is the single-file conversion step. *pipeline.Converter
// satisfies it.
type Converter interface {
	Convert(ctx context.Context, path string) (*pipeline.Record, pipeline.Outcome, error)
}

// Watcher debounces filesystem events per path and hands settled image
// paths to a Converter, one at a time, from the goroutine running Run.
type Watcher struct {
	root     string
	debounce time.Duration
	conv     Converter
	log      *logging.Logger

	mu      sync.Mutex
	timers  map[string]*time.Timer
	ready   chan string
	done    chan struct{}
	started chan struct{}

	// OnRecord, when set, is called after each successful conversion.
	OnRecord func(*pipeline.Record)
}

// New creates a watcher for root. A non-positive debounce uses 300ms.
func New(root string, debounce time.Duration, conv Converter, log *logging.Logger) *Watcher {
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	return &Watcher{
		root:     root,
		debounce: debounce,
		conv:     conv,
		log:      log,
		timers:   map[string]*time.Timer{},
		ready:    make(chan string, 16),
		done:     make(chan struct{}),
		started:  make(chan struct{}),
	}
}

// Started is closed once every existing directory is being watched.
func (w *Watcher) Started() <-chan struct{} { return w.started }

// Run watches until ctx is cancelled. It returns an error only when the
// watch cannot be set up.
func (w *Watcher) Run(ctx context.Context) error {
	fi, err := os.Stat(w.root)
	if err != nil {
		return fmt.Errorf("watch %s: %w", w.root, err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("watch %s: not a directory", w.root)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()
	defer w.stop()

	if err := addRecursive(fw, w.root); err != nil {
		return fmt.Errorf("watch %s: %w", w.root, err)
	}
	close(w.started)
	w.log.Success("Watching %s for new or changed images (debounce %s)", w.root, w.debounce)

	for {
		select {
		case <-ctx.Done():
			w.log.Info("Watcher stopped")
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handle(fw, ev)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("Watcher error: %v", err)

		case path := <-w.ready:
			w.convert(ctx, path)
		}
	}
}

func (w *Watcher) handle(fw *fsnotify.Watcher, ev fsnotify.Event) {
	if ev.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			w.log.Debug("Watching new directory %s", ev.Name)
			if err := addRecursive(fw, ev.Name); err != nil {
				w.log.Warn("Cannot watch %s: %v", ev.Name, err)
			}
			// Files moved in together with the directory produce no events.
			w.scheduleExisting(ev.Name)
			return
		}
	}
	if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return
	}
	if !naming.IsSource(ev.Name) {
		return
	}
	w.schedule(ev.Name)
}

func (w *Watcher) scheduleExisting(dir string) {
	files, err := pipeline.Discover(dir)
	if err != nil {
		w.log.Warn("Cannot scan %s: %v", dir, err)
		return
	}
	for _, f := range files {
		w.schedule(f)
	}
}

// schedule (re)starts the debounce timer for path. When it fires, path is
// queued for conversion on the Run goroutine.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	var t *time.Timer
	t = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		if cur, ok := w.timers[path]; ok && cur == t {
			delete(w.timers, path)
		}
		w.mu.Unlock()

		select {
		case w.ready <- path:
		case <-w.done:
		}
	})
	w.timers[path] = t
}

func (w *Watcher) convert(ctx context.Context, path string) {
	if _, err := os.Stat(path); err != nil {
		w.log.Debug("Gone before conversion: %s", path)
		return
	}
	rec, outcome, err := w.conv.Convert(ctx, path)
	if err != nil || outcome != pipeline.OutcomeConverted {
		return
	}
	if w.OnRecord != nil {
		w.OnRecord(rec)
	}
}

func (w *Watcher) stop() {
	w.mu.Lock()
	for p, t := range w.timers {
		t.Stop()
		delete(w.timers, p)
	}
	w.mu.Unlock()
	close(w.done)
}

func addRecursive(fw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if d.Name() == ".git" || d.Name() == "node_modules" {
			return filepath.SkipDir
		}
		return fw.Add(path)
	})
}
