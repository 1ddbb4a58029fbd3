// Package watch re-runs checks when project files change.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounceDefault = 200 * time.Millisecond

// DefaultIgnore lists directory names never watched: VCS metadata, build
// outputs and dependency trees that the checks themselves rewrite.
var DefaultIgnore = []string{".git", ".hg", ".svn", "node_modules", "target", "vendor", "dist", "build", ".venv", "__pycache__", "zuu"}

// RunFunc performs one check run. A non-nil error stops watching.
type RunFunc func(ctx context.Context) error

// Config controls a Watcher.
type Config struct {
	Root     string
	Debounce time.Duration // default 200ms
	Ignore   []string      // extra directory names, root-relative or absolute paths
	Run      RunFunc
}

// Watcher runs a check, then runs it again after each burst of file changes.
// Runs never overlap: changes during a run schedule exactly one more.
type Watcher struct {
	cfg     Config
	ignore  []string
	fs      *fsnotify.Watcher
	trigger chan struct{}
}

// New creates a watcher for cfg.Root.
func New(cfg Config) (*Watcher, error) {
	if cfg.Run == nil {
		return nil, errors.New("run function is required")
	}
	if cfg.Root == "" {
		cfg.Root = "."
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = debounceDefault
	}

	// events carry absolute names once the tree is added by absolute path
	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}
	cfg.Root = root

	ignore := slices.Clone(DefaultIgnore)
	for _, p := range cfg.Ignore {
		p = filepath.Clean(p)
		if filepath.IsAbs(p) {
			rel, err := filepath.Rel(root, p)
			if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
				continue // outside the tree, never watched
			}
			p = rel
		}
		ignore = append(ignore, p)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	return &Watcher{
		cfg:     cfg,
		ignore:  ignore,
		fs:      fw,
		trigger: make(chan struct{}, 1),
	}, nil
}

// Run blocks until ctx is cancelled or a run fails.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() { _ = w.fs.Close() }()

	if err := w.addTree(w.cfg.Root); err != nil {
		return err
	}
	slog.Info("watching for changes", "root", w.cfg.Root, "debounce", w.cfg.Debounce)

	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.watchEvents(ctx)
	}()
	defer func() {
		cancel()
		wg.Wait()
	}()

	for {
		if err := w.cfg.Run(ctx); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return nil
		case <-w.trigger:
			slog.Debug("change detected, re-running checks")
		}
	}
}

func (w *Watcher) watchEvents(ctx context.Context) {
	var mu sync.Mutex
	var pending *time.Timer

	for {
		select {
		case <-ctx.Done():
			mu.Lock()
			if pending != nil {
				pending.Stop()
			}
			mu.Unlock()
			return

		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if w.ignored(event.Name) || event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
				continue
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addTree(event.Name); err != nil {
						slog.Warn("watch new directory", "path", event.Name, "error", err)
					}
				}
			}

			slog.Debug("file changed", "path", event.Name, "op", event.Op.String())
			mu.Lock()
			if pending != nil {
				pending.Stop()
			}
			pending = time.AfterFunc(w.cfg.Debounce, w.fire)
			mu.Unlock()

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			slog.Warn("watcher error", "error", err)
		}
	}
}

// fire schedules a run; a run already pending absorbs it.
func (w *Watcher) fire() {
	select {
	case w.trigger <- struct{}{}:
	default:
	}
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// directories can vanish between the event and the walk
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.cfg.Root && w.ignored(path) {
			return filepath.SkipDir
		}
		if err := w.fs.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

// ignored reports whether path lies in an ignored directory.
func (w *Watcher) ignored(path string) bool {
	rel, err := filepath.Rel(w.cfg.Root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, ig := range w.ignore {
		ig = filepath.ToSlash(ig)
		if rel == ig || strings.HasPrefix(rel, ig+"/") {
			return true
		}
		for _, part := range strings.Split(rel, "/") {
			if part == ig {
				return true
			}
		}
	}
	return false
}
