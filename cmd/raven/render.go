package main

import (
	"fmt"
	"io"
	"strings"

	"raven/internal/buildpipeline"
	"raven/internal/diag"
	"raven/internal/diagfmt"
	"raven/internal/lsp"
	"raven/internal/source"
	"raven/internal/version"
)

// renderOptions are the check/run flags that shape diagnostic output.
type renderOptions struct {
	format    string
	withNotes bool
	suggest   bool
	preview   bool
	fullPath  bool
	args      []string
}

var diagnosticFormats = []string{"pretty", "short", "json", "msgpack", "sarif", "lsp"}

func validateFormat(format string) error {
	for _, f := range diagnosticFormats {
		if f == format {
			return nil
		}
	}
	return fmt.Errorf("unknown format %q (expected %s)", format, strings.Join(diagnosticFormats, "|"))
}

func pathMode(fullPath bool) diagfmt.PathMode {
	if fullPath {
		return diagfmt.PathModeAbsolute
	}
	return diagfmt.PathModeRelative
}

// resultBag копирует диагностики результата в Bag для форматтеров.
func resultBag(res *buildpipeline.Result, limit int, withTimings bool) *diag.Bag {
	bag := diag.NewBag(0)
	for i, d := range res.Diagnostics {
		if limit > 0 && i >= limit {
			break
		}
		bag.Add(d)
	}
	if withTimings {
		bag.Add(res.Timings.Diagnostic("pipeline"))
	}
	return bag
}

// renderResult writes the diagnostics of res to out in the selected format.
// Pretty and short output put timings on stderr; machine formats embed them.
func renderResult(out, errOut io.Writer, res *buildpipeline.Result, g globalOptions, ro renderOptions) error {
	fs := res.FileSet
	if fs == nil {
		fs = source.NewFileSet()
	}
	machine := ro.format != "pretty" && ro.format != "short"
	bag := resultBag(res, g.maxDiagnostics, machine && g.timings)

	var err error
	switch ro.format {
	case "pretty":
		diagfmt.Pretty(out, bag, fs, diagfmt.PrettyOpts{
			Color:       g.color,
			Context:     2,
			PathMode:    pathMode(ro.fullPath),
			ShowNotes:   true,
			ShowFixes:   ro.suggest,
			ShowPreview: ro.preview,
		})
	case "short":
		diagfmt.Short(out, bag, fs, pathMode(ro.fullPath))
	case "json", "msgpack":
		opts := diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode(ro.fullPath),
			IncludeNotes:     ro.withNotes,
			IncludeFixes:     ro.suggest,
			IncludePreviews:  ro.preview,
		}
		if ro.format == "json" {
			err = diagfmt.JSON(out, bag, fs, opts)
		} else {
			err = diagfmt.MsgPack(out, bag, fs, opts)
		}
	case "sarif":
		err = diagfmt.Sarif(out, bag, fs, diagfmt.SarifRunMeta{
			ToolName:       "raven",
			ToolVersion:    version.Version,
			InvocationArgs: ro.args,
		})
	case "lsp":
		err = lsp.Write(out, bag, fs)
	default:
		err = validateFormat(ro.format)
	}
	if err != nil {
		return err
	}

	if !machine && g.timings && !g.quiet {
		fmt.Fprint(errOut, res.Timings.Summary())
	}
	if dropped := len(res.Diagnostics) - g.maxDiagnostics; g.maxDiagnostics > 0 && dropped > 0 && !machine {
		fmt.Fprintf(errOut, "... %d more diagnostics not shown\n", dropped)
	}
	return nil
}

