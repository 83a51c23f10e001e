package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"raven/internal/buildpipeline"
	"raven/internal/driver"
)

type checkFlags struct {
	buildFlags
	render   renderOptions
	watch    bool
	debounce time.Duration
}

func newCheckCmd() *cobra.Command {
	var cf checkFlags
	cmd := &cobra.Command{
		Use:   "check [flags] [file.rv|directory]...",
		Short: "Check raven sources for errors",
		Long: `Check parses and resolves every source file concurrently and reports all
diagnostics. Without arguments the sources listed in raven.toml are checked.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, &cf)
		},
	}
	cf.register(cmd, "also verify that this fully qualified function exists")
	cmd.Flags().StringVar(&cf.render.format, "format", "pretty", "output format (pretty|short|json|msgpack|sarif|lsp)")
	cmd.Flags().BoolVar(&cf.render.withNotes, "with-notes", false, "include diagnostic notes in machine output")
	cmd.Flags().BoolVar(&cf.render.suggest, "suggest", false, "include fix suggestions in output")
	cmd.Flags().BoolVar(&cf.render.preview, "preview", false, "preview suggested fixes")
	cmd.Flags().BoolVar(&cf.render.fullPath, "fullpath", false, "emit absolute file paths in output")
	cmd.Flags().BoolVar(&cf.watch, "watch", false, "re-check whenever a source file changes")
	cmd.Flags().DurationVar(&cf.debounce, "debounce", driver.DefaultDebounce, "quiet period before a watch rebuild")
	return cmd
}

func runCheck(cmd *cobra.Command, args []string, cf *checkFlags) error {
	if err := validateFormat(cf.render.format); err != nil {
		return err
	}
	g, err := readGlobalOptions(cmd)
	if err != nil {
		return err
	}
	opts, err := resolveBuild(args, cf.buildFlags, g, false)
	if err != nil {
		return err
	}
	if opts.Heartbeat, err = cmd.Root().PersistentFlags().GetDuration("trace-heartbeat"); err != nil {
		return fmt.Errorf("failed to get trace-heartbeat flag: %w", err)
	}
	cf.render.args = os.Args[1:]
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()

	if cf.watch {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return driver.Watch(ctx, opts, cf.debounce, func(res buildpipeline.Result, err error) {
			if err != nil {
				fmt.Fprintf(errOut, "error: %v\n", err)
				return
			}
			if rerr := reportCheck(out, errOut, &res, g, cf.render); rerr != nil && !errors.Is(rerr, errReported) {
				fmt.Fprintf(errOut, "error: %v\n", rerr)
			}
		})
	}

	res, err := build(cmd.Context(), out, "checking", opts, g, cf.render.format == "pretty")
	if err != nil {
		return err
	}
	return reportCheck(out, errOut, &res, g, cf.render)
}

// reportCheck prints the diagnostics and a one-line summary for pretty output.
func reportCheck(out, errOut io.Writer, res *buildpipeline.Result, g globalOptions, ro renderOptions) error {
	if err := renderResult(out, errOut, res, g, ro); err != nil {
		return err
	}
	if res.State == buildpipeline.StateFailed {
		return errReported
	}
	if ro.format == "pretty" && !g.quiet {
		fmt.Fprintf(errOut, "ok: %d files checked\n", res.FileSet.Len())
	}
	return nil
}
