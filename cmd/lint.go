// Copyright © 2024 The ELPS authors

package cmd

import (
	"fmt"
	"strings"

	"github.com/luthersystems/minilisp/lint"
	"github.com/spf13/cobra"
)

// LintCommand creates the "lint" cobra command.
func LintCommand(opts ...Option) *cobra.Command {
	cfg := newCmdConfig(opts...)
	var (
		jsonOut  bool
		checks   string
		listAll  bool
		excludes []string
	)
	cmd := &cobra.Command{
		Use:   "lint [flags] files...",
		Short: "Run static analysis checks on lisp files",
		Long: `Run static analysis checks on lisp files.

The linter reports likely mistakes, similar to "go vet" for Go. Each check
is an independent analyzer that examines the expressions read from a file.
Names are resolved against the natives and prelude of a session configured
by the global flags.

Exit codes:
  0  No problems found
  1  One or more problems were reported, or bad invocation

Available checks (use --checks to select specific ones):
` + lint.AnalyzerDoc() + `
Examples:
  minilisp lint prog.lisp
  minilisp lint --json prog.lisp
  minilisp lint --checks=special-form-arity,cond-structure ./...`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if listAll {
				for _, name := range lint.AnalyzerNames() {
					fmt.Fprintln(cmd.OutOrStdout(), name) //nolint:errcheck // best-effort output
				}
				return nil
			}
			if len(args) == 0 {
				return fmt.Errorf("no files to lint")
			}
			var names []string
			if checks != "" {
				names = strings.Split(checks, ",")
			}
			analyzers, err := lint.SelectAnalyzers(names)
			if err != nil {
				return err
			}
			s, err := cfg.newSession()
			if err != nil {
				return err
			}
			files, err := expandArgs(args)
			if err != nil {
				return err
			}
			sources, err := readSources(filterExcludes(files, excludes), false)
			if err != nil {
				return err
			}

			l := &lint.Linter{Analyzers: analyzers, Scope: s.Scope()}
			cache := sourceCache{}
			var all []lint.Diagnostic
			for _, src := range sources {
				cache[src.name] = src.text
				diags, err := l.LintFile([]byte(src.text), src.name)
				if err != nil {
					return err
				}
				all = append(all, diags...)
			}
			if len(all) == 0 {
				return nil
			}
			if jsonOut {
				if err := lint.FormatJSON(cmd.OutOrStdout(), all); err != nil {
					return err
				}
			} else {
				cache.renderLint(cmd.ErrOrStderr(), all)
			}
			return errReported
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false,
		"Output diagnostics as JSON")
	cmd.Flags().StringVar(&checks, "checks", "",
		"Comma-separated list of checks to run (default: all)")
	cmd.Flags().BoolVar(&listAll, "list", false,
		"List available checks and exit")
	cmd.Flags().StringSliceVar(&excludes, "exclude", nil,
		"Skip files whose path, name or directory matches a pattern")
	return cmd
}

func init() {
	rootCmd.AddCommand(LintCommand())
}
