// Copyright © 2024 The ELPS authors

package cmd

import (
	"fmt"

	"github.com/luthersystems/minilisp/parser"
	"github.com/spf13/cobra"
)

// CheckCommand creates the "check" cobra command, which reads files with
// the strict reader.
func CheckCommand() *cobra.Command {
	var (
		excludes []string
		verbose  bool
	)
	cmd := &cobra.Command{
		Use:   "check [flags] files...",
		Short: "Check lisp files for syntax errors",
		Long: `Read lisp files with the strict reader and report unbalanced
parentheses. Nothing is evaluated. The default reader silently recovers
from these errors, so check is useful before running files.

A directory argument ending in /... checks every .lisp file beneath it.

Examples:
  minilisp check prog.lisp
  minilisp check --exclude vendor ./...`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := expandArgs(args)
			if err != nil {
				return err
			}
			sources, err := readSources(filterExcludes(files, excludes), false)
			if err != nil {
				return err
			}
			r := parser.NewStrictReader()
			cache := sourceCache{}
			failed := 0
			for _, src := range sources {
				cache[src.name] = src.text
				if _, err := readString(r, src.name, src.text); err != nil {
					cache.renderError(cmd.ErrOrStderr(), err)
					failed++
					continue
				}
				if verbose {
					fmt.Fprintf(cmd.OutOrStdout(), "ok\t%s\n", src.name) //nolint:errcheck // best-effort output
				}
			}
			if failed > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "%d of %d files failed\n", failed, len(sources)) //nolint:errcheck // best-effort output
				return errReported
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&excludes, "exclude", nil,
		"Skip files whose path, name or directory matches a pattern")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false,
		"Print each file that passes")
	return cmd
}

func init() {
	rootCmd.AddCommand(CheckCommand())
}
