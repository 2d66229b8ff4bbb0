// Copyright © 2018 The ELPS authors

package cmd

import (
	"github.com/luthersystems/minilisp/lisp"
	"github.com/luthersystems/minilisp/repl"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// REPLCommand creates the "repl" cobra command.
func REPLCommand(opts ...Option) *cobra.Command {
	cfg := newCmdConfig(opts...)
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive REPL",
		Long: `Start an interactive read-eval-print loop.

Each line is read and evaluated at the top level. Definitions persist for
the rest of the session. Errors are printed and the loop continues. Tab
completes special forms, procedures and defined names. Ctrl-C clears the
line. Ctrl-D, :quit or :q exits.

Example REPL session:
  minilisp> (define (square x) (* x x))
  Symbol("square")
  minilisp> (square 5)
  Int(25)
  minilisp> (if 0 1 2)
  Int(2)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := outputFormat()
			if err != nil {
				return err
			}
			prof, stop, err := startTracing(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer stop()
			config, err := cfg.sessionConfig()
			if err != nil {
				return err
			}
			if prof != nil {
				config = append(config, lisp.WithProfiler(prof))
			}
			replOpts := []repl.Option{
				repl.WithSessionConfig(config...),
				repl.WithOutput(out),
				repl.WithColor(colorMode()),
			}
			if viper.IsSet("repl.history") {
				replOpts = append(replOpts, repl.WithHistoryFile(viper.GetString("repl.history")))
			}
			return repl.RunRepl(viper.GetString("repl.prompt"), replOpts...)
		},
	}
	cmd.Flags().String("prompt", "minilisp> ", "Prompt printed before each line")
	cmd.Flags().String("history", "", "History file (default is $HOME/.minilisp_history)")
	bindFlag(cmd, "repl.prompt", "prompt")
	bindFlag(cmd, "repl.history", "history")
	return cmd
}

func bindFlag(cmd *cobra.Command, key string, flag string) {
	if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func init() {
	rootCmd.AddCommand(REPLCommand())
}
