// Package watch keeps reporting the lockers of a target while it changes.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/umputun/deadlock/pkg/lock"
	"github.com/umputun/deadlock/pkg/unlock"
)

// default timings
const (
	DefaultDebounce = 250 * time.Millisecond
	DefaultInterval = 5 * time.Second
)

// ErrTargetGone is returned by Run when the watched target disappears.
var ErrTargetGone = errors.New("watched target is gone")

//go:generate moq -out mocks/scanner.go -pkg mocks -skip-ensure -fmt goimports . Scanner

// Scanner discovers the lockers of a target without touching them.
type Scanner interface {
	Scan(ctx context.Context, t unlock.Target) (lock.Set, error)
}

// Options tune the watcher. Zero values use defaults.
type Options struct {
	Debounce time.Duration // quiet period after a filesystem event before rescanning
	Interval time.Duration // periodic rescan, processes can take locks without touching the filesystem
}

// Watcher rescans a target whenever it changes and reports the lockers when they differ
// from the previous report.
type Watcher struct {
	target   unlock.Target
	scanner  Scanner
	report   func(lock.Set)
	opts     Options
	fsw      *fsnotify.Watcher
	mu       sync.Mutex
	started  bool
	previous lock.Set
	reported bool
}

// New makes a Watcher for the target. report is called from Run's goroutine.
func New(t unlock.Target, scanner Scanner, report func(lock.Set), opts Options) (*Watcher, error) {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	return &Watcher{target: t, scanner: scanner, report: report, opts: opts, fsw: fsw}, nil
}

// Run scans once, then keeps rescanning on filesystem events and on every interval tick.
// Returns nil when ctx is canceled and ErrTargetGone if the target is removed.
func (w *Watcher) Run(ctx context.Context) error {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return errors.New("watcher already started")
	}
	w.started = true
	w.mu.Unlock()
	defer w.Close()

	watchRoot := w.target.Path
	if w.target.Kind == unlock.KindFile {
		// a file is watched through its directory so replacements are noticed too
		watchRoot = filepath.Dir(w.target.Path)
		if err := w.fsw.Add(watchRoot); err != nil {
			return fmt.Errorf("watch %s: %w", watchRoot, err)
		}
	} else if err := w.addRecursive(watchRoot); err != nil {
		return err
	}

	if err := w.rescan(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(w.opts.Interval)
	defer ticker.Stop()
	var debounce <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			if event.Has(fsnotify.Create) && w.target.Kind == unlock.KindDirectory {
				w.watchNewDir(event.Name)
			}
			debounce = time.After(w.opts.Debounce)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			log.Printf("[WARN] fsnotify error: %v", err)

		case <-debounce:
			debounce = nil
			if err := w.rescan(ctx); err != nil {
				return err
			}

		case <-ticker.C:
			if err := w.rescan(ctx); err != nil {
				return err
			}
		}
	}
}

// relevant filters events for a file target down to the file itself.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if w.target.Kind == unlock.KindDirectory {
		return true
	}
	return filepath.Clean(event.Name) == w.target.Path
}

// rescan reports the lockers if they changed since the last report.
func (w *Watcher) rescan(ctx context.Context) error {
	if _, err := os.Stat(w.target.Path); errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s: %w", w.target.Path, ErrTargetGone)
	}

	lockers, err := w.scanner.Scan(ctx, w.target)
	if err != nil {
		if ctx.Err() != nil {
			return nil //nolint:nilerr // cancellation ends the watch, Run returns on ctx.Done
		}
		log.Printf("[WARN] scan of %s failed: %v", w.target.Path, err)
		return nil
	}

	if w.reported && sameLockers(w.previous, lockers) {
		return nil
	}
	w.previous, w.reported = lockers, true
	w.report(lockers)
	return nil
}

// addRecursive adds a directory and all its subdirectories to the watcher.
func (w *Watcher) addRecursive(dir string) error {
	walkErr := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			// skip directories that can't be accessed
			if d != nil && d.IsDir() && path != dir {
				return filepath.SkipDir
			}
			return err
		}
		if d.IsDir() {
			// best-effort: continue walking even if we can't watch a specific directory
			if err := w.fsw.Add(path); err != nil {
				log.Printf("[WARN] failed to watch directory %s: %v", path, err)
			}
		}
		return nil
	})
	if walkErr != nil {
		return fmt.Errorf("walk directory %s: %w", dir, walkErr)
	}
	return nil
}

// watchNewDir starts watching a directory created inside the target.
func (w *Watcher) watchNewDir(path string) {
	info, err := os.Lstat(path)
	if err != nil || !info.IsDir() {
		return
	}
	if err := w.addRecursive(path); err != nil {
		log.Printf("[WARN] failed to watch new directory %s: %v", path, err)
	}
}

// Close stops the watcher and releases resources.
func (w *Watcher) Close() error {
	if err := w.fsw.Close(); err != nil {
		return fmt.Errorf("close fsnotify watcher: %w", err)
	}
	return nil
}

// sameLockers compares two sets by identity, in order.
func sameLockers(a, b lock.Set) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].PID != b[i].PID || a[i].ExecPath != b[i].ExecPath || a[i].Resolved != b[i].Resolved {
			return false
		}
	}
	return true
}
