// Copyright © 2024 The ELPS authors

// Package lsp implements a Language Server Protocol server for minilisp.
// It provides diagnostics, lint warnings, hover, completion, document symbols,
// formatting, go-to-definition and references.
package lsp

import (
	"os"
	"sync"
	"time"

	"github.com/luthersystems/minilisp/lint"
	"github.com/luthersystems/minilisp/lisp"
	"github.com/luthersystems/minilisp/parser"
	"github.com/sirupsen/logrus"
	"github.com/tliron/glsp"
	glspserver "github.com/tliron/glsp/server"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

const serverName = "minilisp-lsp"

// Server is the minilisp language server.
type Server struct {
	handler protocol.Handler
	glspSrv *glspserver.Server
	docs    *DocumentStore
	log     logrus.FieldLogger

	// scope holds the natives and prelude definitions available to every
	// document.
	scope  *lisp.Scope
	config []lisp.Config
	linter *lint.Linter

	// Debouncer for didChange notifications.
	debounceMu sync.Mutex
	debounce   map[string]*time.Timer

	// Context for sending notifications (captured from latest request).
	notifyMu sync.Mutex
	notify   glsp.NotifyFunc

	// exitFn is called on the LSP exit notification. Defaults to os.Exit.
	exitFn func(int)
}

// Option configures the LSP server.
type Option func(*Server)

// WithSessionConfig configures the session whose natives and prelude
// definitions are offered for completion and hover.
func WithSessionConfig(config ...lisp.Config) Option {
	return func(s *Server) { s.config = append(s.config, config...) }
}

// WithLogger sets the logger for server events.
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Server) { s.log = log }
}

// New creates a new language server.
func New(opts ...Option) (*Server, error) {
	s := &Server{
		docs:     NewDocumentStore(),
		log:      logrus.StandardLogger(),
		debounce: make(map[string]*time.Timer),
		exitFn:   os.Exit,
	}
	for _, o := range opts {
		o(s)
	}
	config := append([]lisp.Config{
		lisp.WithReader(parser.NewReader()),
		lisp.WithLogger(s.log),
	}, s.config...)
	session, err := lisp.NewSession(config...)
	if err != nil {
		return nil, err
	}
	s.scope = session.Scope()
	s.linter = &lint.Linter{Analyzers: lint.DefaultAnalyzers(), Scope: s.scope}

	s.handler = protocol.Handler{
		Initialize: s.initialize,
		Shutdown:   s.shutdown,
		Exit:       s.exit,
		SetTrace:   s.setTrace,

		TextDocumentDidOpen:   s.textDocumentDidOpen,
		TextDocumentDidChange: s.textDocumentDidChange,
		TextDocumentDidSave:   s.textDocumentDidSave,
		TextDocumentDidClose:  s.textDocumentDidClose,

		TextDocumentHover:          s.textDocumentHover,
		TextDocumentDefinition:     s.textDocumentDefinition,
		TextDocumentReferences:     s.textDocumentReferences,
		TextDocumentCompletion:     s.textDocumentCompletion,
		TextDocumentDocumentSymbol: s.textDocumentDocumentSymbol,
		TextDocumentFormatting:     s.textDocumentFormatting,
	}

	s.glspSrv = glspserver.NewServer(&s.handler, serverName, false)
	return s, nil
}

// RunStdio starts the server using stdio transport.
func (s *Server) RunStdio() error {
	s.log.Info("Serving LSP on stdio")
	return s.glspSrv.RunStdio()
}

// RunTCP starts the server listening on the given address.
func (s *Server) RunTCP(addr string) error {
	s.log.WithField("addr", addr).Info("Serving LSP over TCP")
	return s.glspSrv.RunTCP(addr)
}

// initialize handles the LSP initialize request.
func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	s.captureNotify(ctx)
	if params.ClientInfo != nil {
		s.log.WithField("client", params.ClientInfo.Name).Debug("Initializing")
	}

	capabilities := s.handler.CreateServerCapabilities()

	// Override text document sync to full.
	syncKind := protocol.TextDocumentSyncKindFull
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    &syncKind,
		Save:      &protocol.SaveOptions{IncludeText: boolPtr(false)},
	}
	capabilities.CompletionProvider = &protocol.CompletionOptions{
		TriggerCharacters: []string{"("},
	}

	version := "0.1.0"
	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    serverName,
			Version: &version,
		},
	}, nil
}

// shutdown handles the LSP shutdown request.
func (s *Server) shutdown(ctx *glsp.Context) error {
	s.debounceMu.Lock()
	for _, t := range s.debounce {
		t.Stop()
	}
	s.debounce = make(map[string]*time.Timer)
	s.debounceMu.Unlock()
	return nil
}

// exit handles the LSP exit notification by terminating the process.
func (s *Server) exit(_ *glsp.Context) error {
	s.exitFn(0)
	return nil
}

// setTrace handles the $/setTrace notification (required by some clients).
func (s *Server) setTrace(_ *glsp.Context, _ *protocol.SetTraceParams) error {
	return nil
}

// captureNotify stores the notification function from the context for
// async use (e.g., publishing diagnostics after a debounce).
func (s *Server) captureNotify(ctx *glsp.Context) {
	s.notifyMu.Lock()
	s.notify = ctx.Notify
	s.notifyMu.Unlock()
}

// sendNotification sends a notification to the client.
func (s *Server) sendNotification(method string, params any) {
	s.notifyMu.Lock()
	fn := s.notify
	s.notifyMu.Unlock()
	if fn != nil {
		fn(method, params)
	}
}

func boolPtr(b bool) *bool {
	return &b
}

func strPtr(s string) *string {
	return &s
}
