package driver

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"raven/internal/buildpipeline"
	"raven/internal/source"
)

// DefaultDebounce collapses bursts of file events (editors often write a
// file in several steps) into a single rebuild.
const DefaultDebounce = 150 * time.Millisecond

// WatchFunc receives the outcome of every build started by Watch.
type WatchFunc func(buildpipeline.Result, error)

// Watch builds opts once and then again after every change to a source file
// under opts.Roots, until ctx is cancelled. Each build runs with a fresh
// registry. Builds never overlap: events arriving during a build schedule
// exactly one rebuild after it.
func Watch(ctx context.Context, opts Options, debounce time.Duration, onResult WatchFunc) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	ext := opts.Extension
	if ext == "" {
		ext = ".rv"
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()

	for _, root := range opts.Roots {
		if err := addWatches(w, root); err != nil {
			return fmt.Errorf("watch %s: %w", root, err)
		}
	}

	rebuild := func() {
		res, err := Build(ctx, opts)
		if ctx.Err() != nil {
			return
		}
		onResult(res, err)
	}
	rebuild()

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				// новый каталог слушаем и пересобираем: в нём уже могут быть исходники
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = addWatches(w, ev.Name) //nolint:errcheck
					timer, fire = resetTimer(timer, debounce)
					continue
				}
			}
			if !relevant(ev, ext) {
				continue
			}
			timer, fire = resetTimer(timer, debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				timer, fire = resetTimer(timer, debounce)
				continue
			}
			return fmt.Errorf("watch: %w", err)
		case <-fire:
			fire = nil
			rebuild()
		}
	}
}

func resetTimer(t *time.Timer, d time.Duration) (*time.Timer, <-chan time.Time) {
	if t == nil {
		t = time.NewTimer(d)
	} else {
		t.Reset(d)
	}
	return t, t.C
}

func relevant(ev fsnotify.Event, ext string) bool {
	if !source.HasExtension(ev.Name, ext) {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename)
}

// addWatches registers root and every non-hidden directory below it;
// fsnotify does not watch recursively. A file root watches its directory.
func addWatches(w *fsnotify.Watcher, root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return w.Add(filepath.Dir(root))
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}
