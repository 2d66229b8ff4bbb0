// Copyright © 2018 The ELPS authors

// Package repl implements an interactive read-eval-print loop over a
// lisp.Session.
package repl

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ergochat/readline"
	"github.com/luthersystems/minilisp/diagnostic"
	"github.com/luthersystems/minilisp/lisp"
	"github.com/luthersystems/minilisp/parser"
	"github.com/luthersystems/minilisp/parser/rdparser"
	"github.com/sirupsen/logrus"
)

// Output selects how evaluation results are printed.
type Output string

// Possible Output values
const (
	OutputDebug Output = "debug" // variant and value, e.g. Int(3)
	OutputLisp  Output = "lisp"  // lisp syntax, e.g. 3
)

// ParseOutput validates the name of an Output.
func ParseOutput(s string) (Output, error) {
	switch Output(s) {
	case "", OutputDebug:
		return OutputDebug, nil
	case OutputLisp:
		return OutputLisp, nil
	}
	return "", fmt.Errorf("unknown output format: %q", s)
}

// Render returns the printed form of v.
func (o Output) Render(v lisp.Value) string {
	if o == OutputLisp {
		return v.String()
	}
	return v.GoString()
}

// InputName is the source name given to each line read by the REPL.
const InputName = "stdin"

type config struct {
	stdin       io.ReadCloser
	stdout      io.Writer
	stderr      io.Writer
	historyFile string
	output      Output
	color       diagnostic.ColorMode
	session     []lisp.Config
}

func newConfig(opts ...Option) *config {
	config := &config{
		stdout:      os.Stdout,
		stderr:      os.Stderr,
		historyFile: historyPath(),
		output:      OutputDebug,
	}
	for _, opt := range opts {
		opt(config)
	}
	return config
}

type Option func(*config)

// WithStdin allows overriding the input to the REPL.
func WithStdin(stdin io.ReadCloser) Option {
	return func(c *config) {
		c.stdin = stdin
	}
}

// WithStdout allows overriding where results are printed.
func WithStdout(stdout io.Writer) Option {
	return func(c *config) {
		c.stdout = stdout
	}
}

// WithStderr allows overriding where errors and warnings are printed.
func WithStderr(stderr io.Writer) Option {
	return func(c *config) {
		c.stderr = stderr
	}
}

// WithHistoryFile sets the file lines are saved to.  An empty path disables
// history.  The default is ~/.minilisp_history.
func WithHistoryFile(path string) Option {
	return func(c *config) {
		c.historyFile = path
	}
}

// WithOutput sets how results are printed.
func WithOutput(o Output) Option {
	return func(c *config) {
		c.output = o
	}
}

// WithColor sets when diagnostics use ANSI colors.
func WithColor(mode diagnostic.ColorMode) Option {
	return func(c *config) {
		c.color = mode
	}
}

// WithSessionConfig adds config used by RunRepl to create its session.
func WithSessionConfig(cfgs ...lisp.Config) Option {
	return func(c *config) {
		c.session = append(c.session, cfgs...)
	}
}

// RunRepl runs a repl in a new session using the default reader.
func RunRepl(prompt string, opts ...Option) error {
	cfg := newConfig(opts...)
	config := append([]lisp.Config{
		lisp.WithReader(parser.NewReader()),
		lisp.WithStderr(cfg.stderr),
	}, cfg.session...)
	s, err := lisp.NewSession(config...)
	if err != nil {
		return fmt.Errorf("session initialization failure: %w", err)
	}
	return RunSession(s, prompt, opts...)
}

// RunSession runs a repl which evaluates each line entered in s.  It
// returns when the input ends or a quit command is read.
func RunSession(s *lisp.Session, prompt string, opts ...Option) error {
	cfg := newConfig(opts...)
	ensureHistoryFilePermissions(cfg.historyFile)

	rlCfg := &readline.Config{
		Stdout:            cfg.stdout,
		Stderr:            cfg.stderr,
		Prompt:            prompt,
		HistoryFile:       cfg.historyFile,
		HistorySearchFold: true,
		AutoComplete:      &symbolCompleter{session: s},
	}
	if cfg.stdin != nil {
		rlCfg.Stdin = cfg.stdin
	}
	rl, err := readline.NewEx(rlCfg)
	if err != nil {
		return err
	}
	defer rl.Close() //nolint:errcheck // best-effort cleanup

	r := &repl{session: s, cfg: cfg}
	s.Log.WithField("history", cfg.historyFile).Debug("REPL started")
	for {
		line, err := rl.ReadLine()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if isQuit(line) {
			return nil
		}
		r.evalLine(line)
	}
}

type repl struct {
	session *lisp.Session
	cfg     *config
	lines   int
}

// evalLine evaluates one line of input and prints the result.  Errors are
// printed and do not end the loop.
func (r *repl) evalLine(line string) {
	r.lines++
	log := r.session.Log.WithField("line", r.lines)
	tree, warnings, err := r.read(line)
	for _, w := range warnings {
		r.render(line, diagnostic.Warning(w.Source, w.Message))
	}
	if err != nil {
		log.WithError(err).Debug("Read failed")
		r.render(line, diagnostic.FromError(err))
		return
	}
	v, err := r.session.EvalExpr(tree)
	if err != nil {
		r.render(line, diagnostic.FromError(err))
		return
	}
	log.WithFields(logrus.Fields{
		"input":  line,
		"result": v.GoString(),
	}).Debug("Evaluated line")
	fmt.Fprintln(r.cfg.stdout, r.cfg.output.Render(v)) //nolint:errcheck // best-effort REPL output
}

func (r *repl) read(line string) (*lisp.Expr, []*rdparser.Warning, error) {
	if wr, ok := r.session.Reader.(rdparser.WarningReader); ok {
		return wr.ReadWarnings(InputName, strings.NewReader(line))
	}
	tree, err := r.session.Read(InputName, line)
	return tree, nil, err
}

func (r *repl) render(line string, d diagnostic.Diagnostic) {
	rend := &diagnostic.Renderer{
		Color:        r.cfg.color,
		SourceReader: diagnostic.MemorySource(map[string]string{InputName: line}),
	}
	_ = rend.Render(r.cfg.stderr, d)
}

func isQuit(line string) bool {
	return line == ":quit" || line == ":q"
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".minilisp_history")
}

// ensureHistoryFilePermissions creates the history file readable only by
// its owner, or restricts an existing one.
func ensureHistoryFilePermissions(path string) {
	if path == "" {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600) //nolint:gosec // user history file
	if err != nil {
		return
	}
	_ = f.Close()
	_ = os.Chmod(path, 0600)
}
