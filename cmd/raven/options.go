package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"raven/internal/driver"
	"raven/internal/project"
)

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	color          bool
	quiet          bool
	timings        bool
	maxDiagnostics int
	jobs           int
	ui             uiMode
}

func readGlobalOptions(cmd *cobra.Command) (globalOptions, error) {
	flags := cmd.Root().PersistentFlags()
	var opts globalOptions

	colorFlag, err := flags.GetString("color")
	if err != nil {
		return opts, fmt.Errorf("failed to get color flag: %w", err)
	}
	switch colorFlag {
	case "on":
		opts.color = true
	case "off":
		opts.color = false
	case "auto":
		opts.color = isTerminal(os.Stdout)
	default:
		return opts, fmt.Errorf("invalid --color value %q (expected auto|on|off)", colorFlag)
	}

	if opts.quiet, err = flags.GetBool("quiet"); err != nil {
		return opts, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if opts.timings, err = flags.GetBool("timings"); err != nil {
		return opts, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if opts.maxDiagnostics, err = flags.GetInt("max-diagnostics"); err != nil {
		return opts, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if opts.jobs, err = flags.GetInt("jobs"); err != nil {
		return opts, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if opts.jobs < 0 {
		return opts, fmt.Errorf("--jobs must not be negative")
	}
	uiFlag, err := flags.GetString("ui")
	if err != nil {
		return opts, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if opts.ui, err = readUIMode(uiFlag); err != nil {
		return opts, err
	}
	return opts, nil
}

type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return uiModeAuto, nil
	case "on":
		return uiModeOn, nil
	case "off":
		return uiModeOff, nil
	default:
		return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
}

func shouldUseTUI(mode uiMode) bool {
	switch mode {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	default:
		return isTerminal(os.Stdout)
	}
}

// buildFlags are the per-command flags that select what gets compiled.
type buildFlags struct {
	entry     string
	extension string
}

func (b *buildFlags) register(cmd *cobra.Command, entryHelp string) {
	cmd.Flags().StringVar(&b.entry, "entry", "", entryHelp)
	cmd.Flags().StringVar(&b.extension, "ext", "", "source file extension (default .rv)")
}

// resolveBuild turns command arguments into driver options. Without
// arguments the sources come from raven.toml found above the working
// directory; flags override manifest values.
func resolveBuild(args []string, bf buildFlags, g globalOptions, useManifestEntry bool) (driver.Options, error) {
	opts := driver.Options{
		Roots:     args,
		Target:    bf.entry,
		Extension: bf.extension,
		Jobs:      g.jobs,
	}
	if g.maxDiagnostics > 0 {
		opts.MaxErrors = uint(g.maxDiagnostics)
	}
	if len(args) > 0 {
		return opts, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return opts, err
	}
	m, ok, err := project.Load(wd)
	if err != nil {
		return opts, err
	}
	if !ok {
		return opts, fmt.Errorf("no source paths given and no %s found in %s or its parents", project.ManifestName, wd)
	}
	opts.Roots = m.SourceRoots()
	if len(opts.Roots) == 1 {
		opts.BaseDir = opts.Roots[0]
	} else {
		opts.BaseDir = m.Root
	}
	if opts.Target == "" && useManifestEntry {
		opts.Target = m.Config.Build.Entry
	}
	if opts.Extension == "" {
		opts.Extension = m.Config.Build.Extension
	}
	if opts.Jobs == 0 {
		opts.Jobs = m.Config.Build.Jobs
	}
	return opts, nil
}
