package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"raven/internal/diagfmt"
	"raven/internal/driver"
)

func newTokenizeCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "tokenize [flags] file.rv",
		Short: "Tokenize a raven source file",
		Long:  `Tokenize breaks down a raven source file into its constituent tokens`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTokenize(cmd, args[0], format)
		},
	}
	cmd.Flags().StringVar(&format, "format", "pretty", "output format (pretty|json)")
	return cmd
}

func runTokenize(cmd *cobra.Command, filePath, format string) error {
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}
	g, err := readGlobalOptions(cmd)
	if err != nil {
		return err
	}

	result, err := driver.Tokenize(filePath, g.maxDiagnostics)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	// Выводим диагностику в stderr, если есть
	if result.Bag.HasErrors() || result.Bag.HasWarnings() {
		diagfmt.Pretty(cmd.ErrOrStderr(), result.Bag, result.FileSet, diagfmt.PrettyOpts{
			Color:   g.color,
			Context: 2,
		})
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		return diagfmt.FormatTokensJSON(out, result.Tokens)
	}
	return diagfmt.FormatTokensPretty(out, result.Tokens)
}
