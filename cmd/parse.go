// Copyright © 2024 The ELPS authors

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ParseCommand creates the "parse" cobra command, which prints expression
// trees without evaluating them.
func ParseCommand(opts ...Option) *cobra.Command {
	cfg := newCmdConfig(opts...)
	var expression bool
	cmd := &cobra.Command{
		Use:   "parse [flags] files|exprs...",
		Short: "Print the expression trees read from lisp code",
		Long: `Read lisp code and print the debug rendering of each top-level
expression tree, one per line, without evaluating anything.

Example:
  minilisp parse -e '(+ 1 2.5)'
  Form([Atom(Symbol("+")), Atom(Int(1)), Atom(Float(2.5))])`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sources, err := readSources(args, expression)
			if err != nil {
				return err
			}
			s, err := cfg.newSession()
			if err != nil {
				return err
			}
			cache := sourceCache{}
			failed := false
			for _, src := range sources {
				cache[src.name] = src.text
				tree, warnings, err := readProgram(s, src.name, src.text)
				cache.renderWarnings(cmd.ErrOrStderr(), warnings)
				if err != nil {
					cache.renderError(cmd.ErrOrStderr(), err)
					failed = true
					continue
				}
				for _, expr := range tree.Forms {
					fmt.Fprintln(cmd.OutOrStdout(), expr.GoString()) //nolint:errcheck // best-effort output
				}
			}
			if failed {
				return errReported
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&expression, "expression", "e", false,
		"Interpret arguments as lisp expressions")
	return cmd
}

func init() {
	rootCmd.AddCommand(ParseCommand())
}
