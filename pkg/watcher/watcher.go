// Package watcher reports changes to model files, using fsnotify where it is
// reliable and polling elsewhere.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultPollInterval is the default polling interval for fallback mode.
const DefaultPollInterval = 2 * time.Second

// ForcePollEnvVar forces polling mode when set to a true value.
const ForcePollEnvVar = "MB_FORCE_POLL"

// Common errors.
var (
	ErrFileRemoved    = errors.New("watched file was removed")
	ErrPermission     = errors.New("permission denied")
	ErrAlreadyStarted = errors.New("watcher already started")
	ErrNoPaths        = errors.New("no files to watch")
)

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounceDuration sets the debounce duration.
func WithDebounceDuration(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounceDuration = d
	}
}

// WithPollInterval sets the polling interval for fallback mode.
func WithPollInterval(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.pollInterval = d
	}
}

// WithOnChange sets the callback invoked after one or more files changed.
// It receives the changed paths, sorted.
func WithOnChange(fn func(paths []string)) WatcherOption {
	return func(w *Watcher) {
		w.onChange = fn
	}
}

// WithOnError sets the callback invoked on errors.
func WithOnError(fn func(error)) WatcherOption {
	return func(w *Watcher) {
		w.onError = fn
	}
}

// WithForcePoll forces polling mode even if fsnotify is available.
func WithForcePoll(force bool) WatcherOption {
	return func(w *Watcher) {
		w.forcePoll = force
	}
}

type fileState struct {
	mtime time.Time
	size  int64
}

// Watcher monitors a set of model files. Changes arriving close together
// are reported once.
type Watcher struct {
	paths            []string
	debounceDuration time.Duration
	pollInterval     time.Duration
	onChange         func([]string)
	onError          func(error)
	forcePoll        bool
	fsType           FilesystemType

	fsWatcher   *fsnotify.Watcher
	debouncer   *Debouncer
	useFallback bool
	states      map[string]fileState
	pending     map[string]bool

	ctx      context.Context
	cancel   context.CancelFunc
	started  bool
	mu       sync.RWMutex
	changeCh chan struct{}
}

// NewWatcher creates a watcher for paths.
func NewWatcher(paths []string, opts ...WatcherOption) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, ErrNoPaths
	}
	abs := make([]string, 0, len(paths))
	for _, p := range paths {
		a, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", p, err)
		}
		abs = append(abs, a)
	}

	w := &Watcher{
		paths:            abs,
		debounceDuration: DefaultDebounceDuration,
		pollInterval:     DefaultPollInterval,
		onChange:         func([]string) {},
		onError:          func(error) {},
		changeCh:         make(chan struct{}, 1),
		pending:          make(map[string]bool),
	}

	for _, opt := range opts {
		opt(w)
	}

	w.debouncer = NewDebouncer(w.debounceDuration)

	return w, nil
}

// Start begins watching.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return ErrAlreadyStarted
	}

	w.ctx, w.cancel = context.WithCancel(context.Background())
	w.useFallback = w.forcePoll || envBool(ForcePollEnvVar)

	w.fsType = DetectFilesystemType(w.paths[0])
	if isRemoteFilesystem(w.fsType) {
		w.useFallback = true
	}

	w.states = make(map[string]fileState, len(w.paths))
	for _, p := range w.paths {
		info, err := os.Stat(p)
		if err != nil {
			if os.IsPermission(err) {
				w.cancel()
				return ErrPermission
			}
			// not created yet
			w.states[p] = fileState{}
			continue
		}
		w.states[p] = fileState{mtime: info.ModTime(), size: info.Size()}
	}

	if !w.useFallback {
		if fsw, err := w.newFsWatcher(); err == nil {
			w.fsWatcher = fsw
			go w.watchFsnotify()
		} else {
			w.useFallback = true
		}
	}

	if w.useFallback {
		go w.watchPolling()
	}

	w.started = true
	return nil
}

// newFsWatcher watches the directories of all paths. Watching directories
// catches editors that replace files by renaming.
func (w *Watcher) newFsWatcher() (*fsnotify.Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	for _, p := range w.paths {
		dir := filepath.Dir(p)
		if seen[dir] {
			continue
		}
		seen[dir] = true
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, err
		}
	}
	return fsw, nil
}

// Stop stops watching. The Changed channel is not closed, so a goroutine
// blocked on it stays blocked.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.started {
		return
	}

	if w.cancel != nil {
		w.cancel()
	}

	if w.fsWatcher != nil {
		w.fsWatcher.Close()
		w.fsWatcher = nil
	}

	w.debouncer.Cancel()
	w.started = false
}

// IsPolling returns true if the watcher is using polling mode.
func (w *Watcher) IsPolling() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.useFallback
}

// IsStarted returns true if the watcher is running.
func (w *Watcher) IsStarted() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.started
}

// Changed returns a channel that receives when files change.
func (w *Watcher) Changed() <-chan struct{} {
	return w.changeCh
}

// Paths returns the watched paths.
func (w *Watcher) Paths() []string {
	return append([]string(nil), w.paths...)
}

// FilesystemType returns the classification of the first watched path.
func (w *Watcher) FilesystemType() FilesystemType {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.fsType
}

// PollInterval returns the polling interval used when polling mode is active.
func (w *Watcher) PollInterval() time.Duration {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.pollInterval
}

func envBool(name string) bool {
	v := strings.TrimSpace(os.Getenv(name))
	switch strings.ToLower(v) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}

func (w *Watcher) watched(name string) bool {
	for _, p := range w.paths {
		if p == name {
			return true
		}
	}
	return false
}

func (w *Watcher) watchFsnotify() {
	w.mu.RLock()
	if w.fsWatcher == nil {
		w.mu.RUnlock()
		return
	}
	events := w.fsWatcher.Events
	errs := w.fsWatcher.Errors
	ctx := w.ctx
	w.mu.RUnlock()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-events:
			if !ok {
				return
			}
			name, err := filepath.Abs(event.Name)
			if err != nil || !w.watched(name) {
				continue
			}

			switch {
			case event.Op&fsnotify.Remove != 0:
				w.onError(fmt.Errorf("%w: %s", ErrFileRemoved, name))

			case event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0:
				w.markChanged(name)
			}

		case err, ok := <-errs:
			if !ok {
				return
			}
			w.onError(err)
		}
	}
}

func (w *Watcher) watchPolling() {
	w.mu.RLock()
	ctx := w.ctx
	interval := w.pollInterval
	w.mu.RUnlock()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, p := range w.paths {
				w.poll(p)
			}
		}
	}
}

func (w *Watcher) poll(path string) {
	info, err := os.Stat(path)
	if err != nil {
		switch {
		case os.IsNotExist(err):
			w.mu.Lock()
			prev := w.states[path]
			w.states[path] = fileState{}
			w.mu.Unlock()
			// only report files that existed before
			if !prev.mtime.IsZero() {
				w.onError(fmt.Errorf("%w: %s", ErrFileRemoved, path))
			}
		case os.IsPermission(err):
			w.onError(ErrPermission)
		default:
			w.onError(err)
		}
		return
	}

	w.mu.Lock()
	prev := w.states[path]
	changed := info.ModTime().After(prev.mtime) || info.Size() != prev.size
	if changed {
		w.states[path] = fileState{mtime: info.ModTime(), size: info.Size()}
	}
	w.mu.Unlock()

	if changed {
		w.markChanged(path)
	}
}

func (w *Watcher) markChanged(path string) {
	w.mu.Lock()
	w.pending[path] = true
	w.mu.Unlock()
	w.debouncer.Trigger(w.notifyChange)
}

// notifyChange invokes the onChange callback and signals the change channel.
func (w *Watcher) notifyChange() {
	w.mu.Lock()
	started := w.started
	changed := make([]string, 0, len(w.pending))
	for p := range w.pending {
		changed = append(changed, p)
	}
	w.pending = make(map[string]bool)
	w.mu.Unlock()

	if !started || len(changed) == 0 {
		return
	}
	sort.Strings(changed)

	w.onChange(changed)

	select {
	case w.changeCh <- struct{}{}:
	default:
	}
}
