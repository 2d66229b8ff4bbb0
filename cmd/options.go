// Copyright © 2024 The ELPS authors

package cmd

import "github.com/luthersystems/minilisp/lisp"

// Option configures an exported command factory (RunCommand, DocCommand,
// LintCommand, LSPCommand).
type Option func(*cmdConfig)

type cmdConfig struct {
	natives []lisp.NativeDef
	config  []lisp.Config
}

func newCmdConfig(opts ...Option) *cmdConfig {
	var cfg cmdConfig
	for _, o := range opts {
		o(&cfg)
	}
	return &cfg
}

// WithNatives registers additional native procedures alongside the
// defaults in every session the command creates, so that embedders can
// expose their own procedures.
func WithNatives(natives ...lisp.NativeDef) Option {
	return func(c *cmdConfig) { c.natives = append(c.natives, natives...) }
}

// WithSessionConfig adds lisp.Config applied after the configuration the
// command derives from its flags.
func WithSessionConfig(config ...lisp.Config) Option {
	return func(c *cmdConfig) { c.config = append(c.config, config...) }
}
