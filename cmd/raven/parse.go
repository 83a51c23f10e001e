package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"raven/internal/ast"
	"raven/internal/diagfmt"
	"raven/internal/driver"
)

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse [flags] file.rv",
		Short: "Parse a raven source file and print it back",
		Long: `Parse builds the syntax tree of a single file and prints it in canonical
form. Syntax errors and duplicate declarations go to stderr.`,
		Args: cobra.ExactArgs(1),
		RunE: runParse,
	}
}

func runParse(cmd *cobra.Command, args []string) error {
	g, err := readGlobalOptions(cmd)
	if err != nil {
		return err
	}
	result, err := driver.Parse(cmd.Context(), args[0], g.maxDiagnostics)
	if err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}
	if result.Bag.Len() > 0 {
		diagfmt.Pretty(cmd.ErrOrStderr(), result.Bag, result.FileSet, diagfmt.PrettyOpts{
			Color:     g.color,
			Context:   2,
			ShowNotes: true,
		})
	}
	if result.AST != nil {
		if err := ast.Format(cmd.OutOrStdout(), result.AST); err != nil {
			return err
		}
	}
	if result.Bag.HasErrors() {
		return errReported
	}
	return nil
}
