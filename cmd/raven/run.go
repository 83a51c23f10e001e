package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"raven/internal/backend/jit"
	"raven/internal/buildpipeline"
	"raven/internal/project"
	"raven/internal/source"
)

type runFlags struct {
	buildFlags
	render renderOptions
}

func newRunCmd() *cobra.Command {
	var rf runFlags
	cmd := &cobra.Command{
		Use:   "run [flags] [file.rv|directory]...",
		Short: "Compile and execute a raven program",
		Long: `Run compiles the sources, JIT-compiles the entry function and prints the
value it returns. The entry defaults to raven.toml's [build].entry, to
<module>::main for a single file argument, and to main::main otherwise.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExecution(cmd, args, &rf)
		},
	}
	rf.register(cmd, "fully qualified entry function")
	cmd.Flags().StringVar(&rf.render.format, "format", "pretty", "diagnostic format (pretty|short|json|msgpack|sarif|lsp)")
	cmd.Flags().BoolVar(&rf.render.fullPath, "fullpath", false, "emit absolute file paths in output")
	return cmd
}

// defaultEntry picks the entry for explicit arguments without --entry.
func defaultEntry(args []string, ext string) string {
	if ext == "" {
		ext = project.DefaultExtension
	}
	if len(args) == 1 && filepath.Ext(args[0]) == ext {
		if st, err := os.Stat(args[0]); err == nil && !st.IsDir() {
			return source.ModuleName(filepath.Base(args[0])) + "::main"
		}
	}
	return project.DefaultEntry
}

func runExecution(cmd *cobra.Command, args []string, rf *runFlags) error {
	if err := validateFormat(rf.render.format); err != nil {
		return err
	}
	g, err := readGlobalOptions(cmd)
	if err != nil {
		return err
	}
	opts, err := resolveBuild(args, rf.buildFlags, g, true)
	if err != nil {
		return err
	}
	if opts.Target == "" {
		opts.Target = defaultEntry(args, opts.Extension)
	}
	rf.render.args = os.Args[1:]
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()

	res, err := build(cmd.Context(), errOut, "compiling", opts, g, rf.render.format == "pretty")
	if err != nil {
		return err
	}
	// диагностики идут в stderr, stdout остаётся за результатом программы
	if err := renderResult(errOut, errOut, &res, g, rf.render); err != nil {
		return err
	}
	if res.State == buildpipeline.StateFailed {
		return errReported
	}
	if res.Entry == nil {
		return fmt.Errorf("no entry point compiled for %s", opts.Target)
	}

	value, err := res.Entry.Call()
	if err != nil {
		var trap *jit.Trap
		if errors.As(err, &trap) {
			fmt.Fprint(errOut, trap.FormatWithFiles(res.FileSet))
			return errReported
		}
		return err
	}
	fmt.Fprintln(out, value)
	return nil
}
