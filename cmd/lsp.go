// Copyright © 2024 The ELPS authors

package cmd

import (
	"fmt"

	"github.com/luthersystems/minilisp/lsp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// LSPCommand creates the "lsp" cobra command.  Natives and session
// configuration passed as options are offered for completion and hover.
func LSPCommand(opts ...Option) *cobra.Command {
	cfg := newCmdConfig(opts...)
	var (
		stdio bool
		port  int
	)
	cmd := &cobra.Command{
		Use:   "lsp [flags]",
		Short: "Start the minilisp Language Server Protocol server",
		Long: `Start an LSP server for minilisp source files.

The language server provides diagnostics from both readers, hover
documentation, go-to-definition, find references, completion and document
symbols.

Transport modes:
  --stdio      Use stdin/stdout for LSP communication (default)
  --port N     Listen for an LSP client on TCP port N

Examples:
  minilisp lsp
  minilisp lsp --port 7998`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			config, err := cfg.sessionConfig()
			if err != nil {
				return err
			}
			srv, err := lsp.New(
				lsp.WithSessionConfig(config...),
				lsp.WithLogger(logrus.StandardLogger()),
			)
			if err != nil {
				return err
			}
			if !stdio && port > 0 {
				addr := fmt.Sprintf("localhost:%d", port)
				if err := srv.RunTCP(addr); err != nil {
					return fmt.Errorf("lsp server error: %w", err)
				}
				return nil
			}
			if err := srv.RunStdio(); err != nil {
				return fmt.Errorf("lsp server error: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&stdio, "stdio", false,
		"Use stdin/stdout for LSP communication (default behavior)")
	cmd.Flags().IntVar(&port, "port", 0,
		"TCP port for LSP server (use instead of --stdio)")
	return cmd
}

func init() {
	rootCmd.AddCommand(LSPCommand())
}
