package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"raven/internal/project"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [path|name]",
		Short: "Initialize a new raven project",
		Long: `Initialize a new raven project by creating a project manifest (raven.toml)
and a hello-world entry point (src/main.rv). If [path|name] is omitted, initializes
the current directory. If a non-existing name is provided, a directory will be
created.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	target := wd
	if len(args) == 1 && args[0] != "." {
		target = args[0]
		if !filepath.IsAbs(target) {
			target = filepath.Join(wd, target)
		}
	}

	res, err := project.Init(target)
	if err != nil {
		return err
	}

	g, err := readGlobalOptions(cmd)
	if err != nil {
		return err
	}
	if g.quiet {
		return nil
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "initialized raven project in %s\n", res.Dir)
	for _, f := range res.Created {
		fmt.Fprintf(out, "  created %s\n", f)
	}
	for _, f := range res.Kept {
		fmt.Fprintf(out, "  kept    %s\n", f)
	}
	return nil
}
