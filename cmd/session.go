// Copyright © 2024 The ELPS authors

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/luthersystems/minilisp/lisp"
	"github.com/luthersystems/minilisp/parser"
	"github.com/luthersystems/minilisp/parser/rdparser"
	"github.com/luthersystems/minilisp/repl"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// newReader returns the reader named by the reader setting.
func newReader() (lisp.Reader, error) {
	switch name := viper.GetString("reader"); name {
	case "", "rd":
		return parser.NewReader(), nil
	case "parsec":
		return parser.NewStrictReader(), nil
	default:
		return nil, fmt.Errorf("unknown reader: %q", name)
	}
}

func outputFormat() (repl.Output, error) {
	return repl.ParseOutput(viper.GetString("output"))
}

// sessionConfig derives session configuration from settings and cfg.
func (cfg *cmdConfig) sessionConfig() ([]lisp.Config, error) {
	reader, err := newReader()
	if err != nil {
		return nil, err
	}
	config := []lisp.Config{
		lisp.WithReader(reader),
		lisp.WithLogger(logrus.StandardLogger()),
	}
	if len(cfg.natives) > 0 {
		natives := append(lisp.DefaultNatives(), cfg.natives...)
		config = append(config, lisp.WithNatives(natives...))
	}
	if viper.GetBool("no-prelude") {
		config = append(config, lisp.WithoutPrelude())
	}
	if depth := viper.GetInt("eval.max-depth"); depth != 0 {
		config = append(config, lisp.WithMaxDepth(depth))
	}
	if path := viper.GetString("prelude"); path != "" {
		b, err := os.ReadFile(path) //nolint:gosec // user specified prelude
		if err != nil {
			return nil, fmt.Errorf("prelude: %w", err)
		}
		config = append(config, lisp.WithPrelude(path, string(b)))
	}
	return append(config, cfg.config...), nil
}

// newSession creates a session from settings and cfg.  The extra config is
// applied last.
func (cfg *cmdConfig) newSession(extra ...lisp.Config) (*lisp.Session, error) {
	config, err := cfg.sessionConfig()
	if err != nil {
		return nil, err
	}
	return lisp.NewSession(append(config, extra...)...)
}

// readProgram reads text with the session reader, collecting warnings when
// the reader records them.
func readProgram(s *lisp.Session, name string, text string) (*lisp.Expr, []*rdparser.Warning, error) {
	if wr, ok := s.Reader.(rdparser.WarningReader); ok {
		return wr.ReadWarnings(name, strings.NewReader(text))
	}
	tree, err := s.Read(name, text)
	return tree, nil, err
}

type source struct {
	name string
	text string
}

// readSources returns the text of each file in args or, when expressions
// is true, each argument as source text.
func readSources(args []string, expressions bool) ([]source, error) {
	sources := make([]source, len(args))
	if expressions {
		for i := range args {
			sources[i] = source{fmt.Sprintf("<expr-%d>", i+1), args[i]}
		}
		return sources, nil
	}
	files, err := expandArgs(args)
	if err != nil {
		return nil, err
	}
	sources = sources[:0]
	for _, path := range files {
		b, err := os.ReadFile(path) //nolint:gosec // user specified source
		if err != nil {
			return nil, err
		}
		sources = append(sources, source{path, string(b)})
	}
	return sources, nil
}

func readString(r lisp.Reader, name string, text string) (*lisp.Expr, error) {
	return r.Read(name, strings.NewReader(text))
}
