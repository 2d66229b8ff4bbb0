// Copyright © 2018 The ELPS authors

package cmd

import (
	"fmt"

	"github.com/luthersystems/minilisp/lisp"
	"github.com/spf13/cobra"
)

// RunCommand creates the "run" cobra command.
func RunCommand(opts ...Option) *cobra.Command {
	cfg := newCmdConfig(opts...)
	var (
		expression  bool
		printValues bool
	)
	cmd := &cobra.Command{
		Use:   "run [flags] files|exprs...",
		Short: "Run lisp code",
		Long: `Run lisp code supplied via the command line or files.

All sources are evaluated in one session, in order, so definitions made by
one source are visible to the next. Evaluation stops at the first error.
A directory argument ending in /... runs every .lisp file beneath it.

Examples:
  minilisp run prog.lisp
  minilisp run -p -e '(define (double x) (* 2 x))' '(double 21)'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sources, err := readSources(args, expression)
			if err != nil {
				return err
			}
			out, err := outputFormat()
			if err != nil {
				return err
			}
			prof, stop, err := startTracing(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer stop()
			var extra []lisp.Config
			if prof != nil {
				extra = append(extra, lisp.WithProfiler(prof))
			}
			s, err := cfg.newSession(extra...)
			if err != nil {
				return err
			}

			cache := sourceCache{}
			for _, src := range sources {
				cache[src.name] = src.text
				tree, warnings, err := readProgram(s, src.name, src.text)
				cache.renderWarnings(cmd.ErrOrStderr(), warnings)
				if err != nil {
					cache.renderError(cmd.ErrOrStderr(), err)
					return errReported
				}
				v, err := s.EvalExpr(tree)
				if err != nil {
					cache.renderError(cmd.ErrOrStderr(), err)
					return errReported
				}
				if printValues {
					fmt.Fprintln(cmd.OutOrStdout(), out.Render(v)) //nolint:errcheck // best-effort output
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&expression, "expression", "e", false,
		"Interpret arguments as lisp expressions")
	cmd.Flags().BoolVarP(&printValues, "print", "p", false,
		"Print the value of each source to stdout")
	return cmd
}

func init() {
	rootCmd.AddCommand(RunCommand())
}
