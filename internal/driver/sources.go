package driver

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"raven/internal/source"
)

// ErrNoSources is returned by Discover when no root contains a source file.
var ErrNoSources = errors.New("no source files found")

// Discover returns the sorted list of files with extension ext found under
// roots. A root may be a file or a directory; directories are walked
// recursively and hidden directories are skipped.
func Discover(roots []string, ext string) ([]string, error) {
	if ext == "" {
		ext = ".rv"
	}
	seen := make(map[string]struct{})
	var files []string
	add := func(p string) {
		p = filepath.Clean(p)
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		files = append(files, p)
	}
	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("discover %s: %w", root, err)
		}
		if !info.IsDir() {
			if source.HasExtension(root, ext) {
				add(root)
			}
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if source.HasExtension(path, ext) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("discover %s: %w", root, err)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoSources, strings.Join(roots, ", "))
	}
	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// LoadSources reads paths on a bounded I/O pool, separate from the CPU
// workers of the pipeline. A file that cannot be read keeps its error in
// Input.Err; only cancellation aborts the load.
func LoadSources(ctx context.Context, paths []string, jobs int) ([]source.Input, error) {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	// индексы уникальны для каждой горутины, мьютекс не нужен
	inputs := make([]source.Input, len(paths))
	if len(paths) == 0 {
		return inputs, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))
	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			// #nosec G304 -- path comes from Discover or the command line
			content, err := os.ReadFile(path)
			inputs[i] = source.Input{Path: path, Content: content, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return inputs, nil
}
