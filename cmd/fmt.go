// Copyright © 2024 The ELPS authors

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/luthersystems/minilisp/formatter"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"
)

// FmtCommand creates the "fmt" cobra command.
func FmtCommand() *cobra.Command {
	var (
		write      bool
		diff       bool
		list       bool
		indentSize int
		excludes   []string
	)
	cmd := &cobra.Command{
		Use:   "fmt [flags] [files...]",
		Short: "Format lisp source files",
		Long: `Format lisp source files, similar to gofmt for Go.

Normalizes spacing and indentation. Line breaks between the elements of a
form are kept. Files must read cleanly with the strict reader. The
formatter is idempotent.

With no files, reads from stdin and writes to stdout.
With files, prints formatted output to stdout unless -w is given.

Modes:
  (default)   Print formatted code to stdout
  -w          Write result back to source file
  -d          Display a diff of changes
  -l          List files that would be changed

Examples:
  minilisp fmt prog.lisp
  minilisp fmt -w ./...
  minilisp fmt -l ./...
  cat prog.lisp | minilisp fmt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := formatter.DefaultConfig()
			cfg.IndentSize = indentSize
			stdout := cmd.OutOrStdout()

			if len(args) == 0 {
				src, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("reading stdin: %w", err)
				}
				out, err := formatter.Format(src, cfg)
				if err != nil {
					sourceCache{"<stdin>": string(src)}.renderError(cmd.ErrOrStderr(), err)
					return errReported
				}
				_, err = stdout.Write(out)
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
			cache := sourceCache{}
			failed := false
			for _, src := range sources {
				cache[src.name] = src.text
				out, err := formatter.FormatFile([]byte(src.text), src.name, cfg)
				if err != nil {
					cache.renderError(cmd.ErrOrStderr(), err)
					failed = true
					continue
				}
				changed := string(out) != src.text
				switch {
				case list:
					if changed {
						fmt.Fprintln(stdout, src.name) //nolint:errcheck // best-effort output
						failed = true
					}
				case diff:
					if changed {
						if err := writeDiff(stdout, src.name, src.text, string(out)); err != nil {
							return err
						}
					}
				case write:
					if changed {
						if err := writeFormatted(src.name, out); err != nil {
							return err
						}
					}
				default:
					if _, err := stdout.Write(out); err != nil {
						return err
					}
				}
			}
			if failed {
				return errReported
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false,
		"Write result to (source) file instead of stdout.")
	cmd.Flags().BoolVarP(&diff, "diff", "d", false,
		"Display diffs instead of rewriting files.")
	cmd.Flags().BoolVarP(&list, "list", "l", false,
		"List files whose formatting differs from minilisp fmt's.")
	cmd.Flags().IntVar(&indentSize, "indent-size", 2,
		"Number of spaces per indentation level.")
	cmd.Flags().StringSliceVar(&excludes, "exclude", nil,
		"Skip files whose path, name or directory matches a pattern")
	return cmd
}

func writeDiff(w io.Writer, path string, original, formatted string) error {
	return difflib.WriteUnifiedDiff(w, difflib.UnifiedDiff{
		A:        difflib.SplitLines(original),
		B:        difflib.SplitLines(formatted),
		FromFile: path,
		ToFile:   path,
		Context:  3,
	})
}

func writeFormatted(path string, out []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, info.Mode().Perm())
}

func init() {
	rootCmd.AddCommand(FmtCommand())
}
