package driver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"raven/internal/buildpipeline"
	"raven/internal/trace"
)

// Options describes one build over source roots.
type Options struct {
	Roots     []string
	Target    string
	Extension string
	// BaseDir anchors module names; "" means the common directory of Roots.
	BaseDir   string
	Jobs      int
	IOJobs    int
	MaxErrors uint
	Heartbeat time.Duration
	Progress  buildpipeline.ProgressSink
}

// Build discovers and loads the sources of opts.Roots and runs the pipeline
// over them.
func Build(ctx context.Context, opts Options) (buildpipeline.Result, error) {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeDriver, "discover", trace.CurrentSpan(ctx).SpanID)
	paths, err := Discover(opts.Roots, opts.Extension)
	span.End(fmt.Sprintf("%d files", len(paths)))
	if err != nil {
		return buildpipeline.Result{State: buildpipeline.StateFailed}, err
	}

	span = trace.Begin(tracer, trace.ScopeDriver, "load", trace.CurrentSpan(ctx).SpanID)
	inputs, err := LoadSources(ctx, paths, opts.IOJobs)
	span.End("")
	if err != nil {
		return buildpipeline.Result{State: buildpipeline.StateFailed}, err
	}

	base := opts.BaseDir
	if base == "" {
		base = CommonDir(opts.Roots)
	}
	return buildpipeline.Run(ctx, &buildpipeline.Request{
		Inputs:    inputs,
		Target:    opts.Target,
		Extension: opts.Extension,
		BaseDir:   base,
		Workers:   opts.Jobs,
		MaxErrors: opts.MaxErrors,
		Heartbeat: opts.Heartbeat,
		Progress:  opts.Progress,
	})
}

// CommonDir returns the deepest directory containing every root. A file
// root contributes its parent directory.
func CommonDir(roots []string) string {
	var common []string
	for i, root := range roots {
		dir := filepath.Clean(root)
		if info, err := os.Stat(dir); err == nil && !info.IsDir() {
			dir = filepath.Dir(dir)
		}
		if abs, err := filepath.Abs(dir); err == nil {
			dir = abs
		}
		parts := strings.Split(filepath.ToSlash(dir), "/")
		if i == 0 {
			common = parts
			continue
		}
		n := 0
		for n < len(common) && n < len(parts) && common[n] == parts[n] {
			n++
		}
		common = common[:n]
	}
	if len(common) == 0 {
		return ""
	}
	out := strings.Join(common, "/")
	if out == "" {
		out = "/"
	}
	return filepath.FromSlash(out)
}
