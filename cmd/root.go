// Copyright © 2018 The ELPS authors

package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// errReported is returned by commands which have already rendered their
// errors.  Execute exits with a failure status without printing it.
var errReported = errors.New("errors reported")

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "minilisp",
	Short: "A small REPL-driven lisp",
	Long: `minilisp evaluates a small lisp over integers, floats, strings, symbols
and booleans. Definitions accumulate in a session, one top-level expression
at a time.

Getting started:
  minilisp repl                    Start an interactive REPL
  minilisp run file.lisp           Run a lisp source file
  minilisp run -p -e '(+ 1 2)'     Evaluate an expression and print it
  minilisp parse -e '(+ 1 2)'      Print the expression tree
  minilisp check src/...           Check syntax strictly
  minilisp lint src/...            Report likely mistakes
  minilisp fmt -w src/...          Format source files in place
  minilisp doc cond                Show documentation for a name

Language overview:
  Special forms are define, lambda, if, cond, and and or.
  Scoping is dynamic: a procedure sees the bindings of its caller.
  Only top-level definitions persist from one expression to the next.
  false, 0 and nil are falsy. if and cond only accept exactly true.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return configureLogging()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.minilisp.yaml)")
	flags.String("color", "auto", `Control colored output: "auto", "always", or "never".`)
	flags.String("log-level", "warn", "Log level: debug, info, warn or error.")
	flags.String("reader", "rd", `Source reader: "rd" (lenient) or "parsec" (strict).`)
	flags.String("prelude", "", "Lisp file evaluated after the builtin prelude.")
	flags.Bool("no-prelude", false, "Do not load the builtin prelude.")
	flags.Int("max-depth", 0, "Maximum evaluation depth (0 for the default).")
	flags.String("trace", "", `Trace procedure application: "otel" or "opencensus".`)
	flags.StringP("output", "o", "debug", `Result rendering: "debug" or "lisp".`)

	mustBindPFlag("color", "color")
	mustBindPFlag("log.level", "log-level")
	mustBindPFlag("reader", "reader")
	mustBindPFlag("prelude", "prelude")
	mustBindPFlag("no-prelude", "no-prelude")
	mustBindPFlag("eval.max-depth", "max-depth")
	mustBindPFlag("trace", "trace")
	mustBindPFlag("output", "output")
}

func mustBindPFlag(key string, flag string) {
	err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag))
	if err != nil {
		panic(err)
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		if err == nil {
			// Search config in home directory with name ".minilisp" (without extension).
			viper.AddConfigPath(home)
		}
		viper.SetConfigName(".minilisp")
	}

	// MINILISP_REPL_PROMPT sets repl.prompt, MINILISP_NO_PRELUDE sets no-prelude
	viper.SetEnvPrefix("minilisp")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		logrus.WithField("config", viper.ConfigFileUsed()).Debug("Using config file")
	} else if cfgFile != "" {
		logrus.WithError(err).Warn("Unable to read config file")
	}
}

// configureLogging sets up the standard logger, which sessions created by
// the commands log through.
func configureLogging() error {
	level, err := logrus.ParseLevel(viper.GetString("log.level"))
	if err != nil {
		return err
	}
	logrus.SetOutput(os.Stderr)
	logrus.SetLevel(level)
	return nil
}
