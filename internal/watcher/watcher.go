// Package watcher reports source files whose content settled after a change.
package watcher

import (
	"crypto/sha256"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Detector names the language of a path, or "unknown".
type Detector interface {
	DetectPath(path string) string
}

// Event is a source file ready for analysis.
type Event struct {
	Path     string
	Language string
	Hash     [32]byte
}

type Watcher struct {
	fsWatcher *fsnotify.Watcher
	detector  Detector
	ignored   []string
	debounce  time.Duration

	// path -> last change seen
	pending map[string]time.Time
	// path -> content hash last reported
	reported map[string][32]byte
	mu       sync.Mutex

	events chan Event
	errors chan error

	done     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// New creates a watcher that reports a file once it has been quiet for debounce.
// Directories named in ignored are not watched.
func New(d Detector, debounce time.Duration, ignored []string) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	return &Watcher{
		fsWatcher: fsWatcher,
		detector:  d,
		ignored:   ignored,
		debounce:  debounce,
		pending:   make(map[string]time.Time),
		reported:  make(map[string][32]byte),
		events:    make(chan Event, 100),
		errors:    make(chan error, 10),
		done:      make(chan struct{}),
	}, nil
}

func (w *Watcher) Events() <-chan Event {
	return w.events
}

func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Add watches a directory tree or the directory holding a single file.
// Existing files are recorded so that only later changes are reported.
func (w *Watcher) Add(paths ...string) error {
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		info, err := os.Stat(abs)
		if err != nil {
			return err
		}
		if !info.IsDir() {
			if err := w.fsWatcher.Add(filepath.Dir(abs)); err != nil {
				return err
			}
			w.remember(abs)
			continue
		}
		if err := w.addTree(abs); err != nil {
			return err
		}
	}
	return nil
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && slices.Contains(w.ignored, d.Name()) {
				return filepath.SkipDir
			}
			return w.fsWatcher.Add(path)
		}
		w.remember(path)
		return nil
	})
}

// remember stores the current hash of a source file without reporting it.
func (w *Watcher) remember(path string) {
	if w.detector.DetectPath(path) == "unknown" {
		return
	}
	hash, _, err := HashFile(path)
	if err != nil {
		return
	}
	w.mu.Lock()
	w.reported[path] = hash
	w.mu.Unlock()
}

// Start runs the event and debounce loops.
func (w *Watcher) Start() {
	w.wg.Add(2)
	go w.eventLoop()
	go w.debounceLoop()
}

// Stop shuts the loops down and closes the channels. It is safe to call twice.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		w.wg.Wait()
		close(w.events)
		close(w.errors)
		err = w.fsWatcher.Close()
	})
	return err
}

// WatchedDirs lists the directories registered with the OS.
func (w *Watcher) WatchedDirs() []string {
	return w.fsWatcher.WatchList()
}

func (w *Watcher) eventLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			info, err := os.Stat(event.Name)
			if err != nil {
				continue
			}
			if info.IsDir() {
				if event.Op&fsnotify.Create != 0 && !slices.Contains(w.ignored, info.Name()) {
					if err := w.addTree(event.Name); err != nil {
						w.report(err)
					}
				}
				continue
			}
			if w.detector.DetectPath(event.Name) == "unknown" {
				continue
			}

			w.mu.Lock()
			w.pending[event.Name] = time.Now()
			w.mu.Unlock()

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.report(err)
		}
	}
}

func (w *Watcher) report(err error) {
	select {
	case w.errors <- err:
	default:
	}
}

func (w *Watcher) debounceLoop() {
	defer w.wg.Done()

	tick := max(w.debounce/4, 10*time.Millisecond)
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return
		case now := <-ticker.C:
			w.flushStable(now)
		}
	}
}

// flushStable emits files quiet for the debounce interval whose content changed since
// they were last reported.
func (w *Watcher) flushStable(now time.Time) {
	threshold := now.Add(-w.debounce)

	var stable []string
	w.mu.Lock()
	for path, last := range w.pending {
		if last.Before(threshold) {
			stable = append(stable, path)
			delete(w.pending, path)
		}
	}
	w.mu.Unlock()
	slices.Sort(stable)

	for _, path := range stable {
		hash, _, err := HashFile(path)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				w.report(err)
			}
			continue
		}

		w.mu.Lock()
		prev, seen := w.reported[path]
		if seen && prev == hash {
			w.mu.Unlock()
			continue
		}
		w.reported[path] = hash
		w.mu.Unlock()

		event := Event{Path: path, Language: w.detector.DetectPath(path), Hash: hash}
		select {
		case w.events <- event:
		case <-w.done:
			return
		}
	}
}

// HashFile computes the SHA-256 of a file's content.
func HashFile(path string) ([32]byte, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return [32]byte{}, 0, err
	}
	defer f.Close()

	h := sha256.New()
	size, err := io.Copy(h, f)
	if err != nil {
		return [32]byte{}, 0, err
	}

	var hash [32]byte
	copy(hash[:], h.Sum(nil))
	return hash, size, nil
}
