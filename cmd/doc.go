// Copyright © 2021 The ELPS authors

package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/luthersystems/minilisp/docs"
	"github.com/luthersystems/minilisp/lisp"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"
)

// DocCommand creates the "doc" cobra command.
func DocCommand(opts ...Option) *cobra.Command {
	cfg := newCmdConfig(opts...)
	var guide bool
	cmd := &cobra.Command{
		Use:   "doc [flags] [QUERY]",
		Short: "Show documentation for special forms, procedures and prelude definitions",
		Long: `Show built-in documentation for special forms and native procedures, and
the definitions of names bound by the prelude.

Without a query every documented name is listed with a summary.

Examples:
  minilisp doc                     List everything
  minilisp doc cond                Show docs for the cond special form
  minilisp doc +                   Show docs for a native procedure
  minilisp doc square              Show the prelude definition of square
  minilisp doc --guide             Show the language guide`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if guide {
				_, err := io.WriteString(cmd.OutOrStdout(), docs.LangGuide)
				return err
			}
			s, err := cfg.newSession()
			if err != nil {
				return err
			}
			out := bufio.NewWriter(cmd.OutOrStdout())
			defer out.Flush() //nolint:errcheck // best-effort flush on exit
			if len(args) == 0 {
				return renderDocIndex(out, s.Scope())
			}
			return renderDoc(out, s.Scope(), args[0])
		},
	}
	cmd.Flags().BoolVar(&guide, "guide", false, "Print the language guide")
	return cmd
}

func init() {
	rootCmd.AddCommand(DocCommand())
}

// renderDoc writes the documentation for name.  Special forms cannot be
// shadowed so they are searched first.
func renderDoc(w io.Writer, scope *lisp.Scope, name string) error {
	for _, op := range lisp.SpecialForms() {
		if op.Name() == name {
			args := "any number of arguments"
			if op.Arity() >= 0 {
				args = fmt.Sprintf("%d arguments", op.Arity()-1)
			}
			_, err := fmt.Fprintf(w, "special form %s, %s\n\n%s\n", name, args, formatDoc(op.Doc()))
			return err
		}
	}
	if fun, ok := scope.Native(name); ok {
		_, err := fmt.Fprintf(w, "native procedure %s\n\n%s\n", name, formatDoc(fun.Doc()))
		return err
	}
	if v, ok := scope.Lookup(name); ok {
		_, err := fmt.Fprintf(w, "variable %s\n\n%s\n", name, indent.String(v.String(), 2))
		return err
	}
	return fmt.Errorf("no documentation for %s", name)
}

// renderDocIndex lists every documented name with the first sentence of
// its documentation.
func renderDocIndex(w io.Writer, scope *lisp.Scope) error {
	ew := &errWriter{w: w}
	ew.printf("Special forms:\n")
	for _, op := range lisp.SpecialForms() {
		ew.printf("  %-8s %s\n", op.Name(), docSummary(op.Doc()))
	}
	ew.printf("\nNative procedures:\n")
	for _, fun := range scope.Natives() {
		ew.printf("  %-8s %s\n", fun.Name(), docSummary(fun.Doc()))
	}
	if names := scope.Variables(); len(names) > 0 {
		ew.printf("\nVariables:\n")
		for _, name := range names {
			v, _ := scope.Lookup(name)
			ew.printf("  %-8s %s\n", name, v.String())
		}
	}
	return ew.err
}

// formatDoc joins the lines of a doc string and wraps them in an indented
// block.
func formatDoc(doc string) string {
	doc = strings.Join(strings.Fields(doc), " ")
	if doc == "" {
		return "  (no documentation)"
	}
	return indent.String(wordwrap.String(doc, 72), 2)
}

func docSummary(doc string) string {
	doc = strings.Join(strings.Fields(doc), " ")
	if i := strings.Index(doc, ". "); i >= 0 {
		return doc[:i+1]
	}
	return doc
}

type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, a ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, a...)
}
