// Copyright © 2018 The ELPS authors

package rdparser

import (
	"errors"
	"fmt"
	"io"

	"github.com/luthersystems/minilisp/lisp"
	"github.com/luthersystems/minilisp/parser/token"
)

type reader struct {
}

// NewReader returns a lenient lisp.Reader.  The reader does not fail on
// unbalanced parentheses, see Parser.
func NewReader() lisp.Reader {
	return &reader{}
}

// Read implements lisp.Reader.
func (*reader) Read(name string, r io.Reader) (*lisp.Expr, error) {
	p := New(token.NewScanner(name, r))
	return p.ParseProgram()
}

// ReadWarnings is like Read but also returns the warnings recorded while
// parsing.
func (*reader) ReadWarnings(name string, r io.Reader) (*lisp.Expr, []*Warning, error) {
	p := New(token.NewScanner(name, r))
	expr, err := p.ParseProgram()
	return expr, p.Warnings(), err
}

// WarningReader is a lisp.Reader that reports the input it recovered from.
type WarningReader interface {
	lisp.Reader
	ReadWarnings(name string, r io.Reader) (*lisp.Expr, []*Warning, error)
}

var _ WarningReader = (*reader)(nil)

// Warning describes input the Parser recovered from.
type Warning struct {
	Source  *token.Location
	Message string
}

func (w *Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Source, w.Message)
}

// Parser is a lenient lisp parser.  A closing parenthesis with no matching
// open parenthesis is skipped, and a form left open at the end of the input
// is closed implicitly.  Both are recorded as warnings.
type Parser struct {
	src      *TokenSource
	warnings []*Warning
}

// NewFromSource initializes and returns a Parser that reads tokens from src.
func NewFromSource(src *TokenSource) *Parser {
	return &Parser{
		src: src,
	}
}

// New initializes and returns a new Parser that reads tokens from scanner.
func New(scanner *token.Scanner) *Parser {
	return NewFromSource(NewTokenSource(scanner))
}

// Warnings returns the warnings recorded while parsing.
func (p *Parser) Warnings() []*Warning {
	return p.warnings
}

// ParseProgram parses the remaining input and returns a form containing each
// top-level expression.  An error is returned only if the input could not be
// scanned.
func (p *Parser) ParseProgram() (*lisp.Expr, error) {
	root := &lisp.Expr{
		Type:   lisp.ExprForm,
		Forms:  []*lisp.Expr{},
		Source: p.src.Peek().Source,
	}
	for {
		switch p.src.Peek().Type {
		case token.EOF:
			return root, nil
		case token.PAREN_R:
			p.src.Scan()
			p.warnf(p.src.Token.Source, "unmatched )")
		default:
			expr, err := p.ParseExpression()
			if err != nil {
				return nil, err
			}
			root.Forms = append(root.Forms, expr)
		}
	}
}

// ParseExpression parses a single atom or form.
func (p *Parser) ParseExpression() (*lisp.Expr, error) {
	switch p.src.Peek().Type {
	case token.ATOM:
		p.src.Scan()
		return &lisp.Expr{
			Type:   lisp.ExprAtom,
			Atom:   lisp.ParseAtom(p.src.Token.Text),
			Source: p.src.Token.Source,
		}, nil
	case token.PAREN_L:
		return p.parseForm()
	case token.ERROR, token.INVALID:
		p.src.Scan()
		return nil, &token.LocationError{
			Err:    errors.New(p.src.Token.Text),
			Source: p.src.Token.Source,
		}
	default:
		p.src.Scan()
		return nil, &token.LocationError{
			Err:    fmt.Errorf("unexpected token: %v", p.src.Token.Type),
			Source: p.src.Token.Source,
		}
	}
}

func (p *Parser) parseForm() (*lisp.Expr, error) {
	p.src.AcceptType(token.PAREN_L)
	form := &lisp.Expr{
		Type:   lisp.ExprForm,
		Forms:  []*lisp.Expr{},
		Source: p.src.Token.Source,
	}
	for {
		switch p.src.Peek().Type {
		case token.PAREN_R:
			p.src.Scan()
			return form, nil
		case token.EOF:
			p.warnf(form.Source, "unmatched (")
			return form, nil
		default:
			expr, err := p.ParseExpression()
			if err != nil {
				return nil, err
			}
			form.Forms = append(form.Forms, expr)
		}
	}
}

func (p *Parser) warnf(loc *token.Location, format string, v ...interface{}) {
	p.warnings = append(p.warnings, &Warning{
		Source:  loc,
		Message: fmt.Sprintf(format, v...),
	})
}
