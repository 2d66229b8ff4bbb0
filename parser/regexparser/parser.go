// Copyright © 2018 The ELPS authors

/*
Package regexparser provides a strict lisp parser built from parser
combinators.

	expr := '(' <expr>* ')' | <atom>
	atom := /[^[:space:]()]+/

Atoms are classified with lisp.ParseAtom, the same way the default reader
classifies them, but unlike the default reader unbalanced parentheses are
reported as errors.
*/
package regexparser

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/luthersystems/minilisp/lisp"
	"github.com/luthersystems/minilisp/parser/token"
	parsec "github.com/prataprc/goparsec"
)

// NewReader returns a strict lisp.Reader.
func NewReader() lisp.Reader {
	return &parsecReader{}
}

type parsecReader struct{}

func (p *parsecReader) Read(name string, r io.Reader) (*lisp.Expr, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(name, b)
}

// ErrUnmatchedOpen and ErrUnmatchedClose are wrapped by the
// *token.LocationError returned for unbalanced input.
var (
	ErrUnmatchedOpen  = errors.New("unmatched (")
	ErrUnmatchedClose = errors.New("unmatched )")
)

// Parse parses text and returns a form containing each top-level
// expression.  The first syntax error is returned as a *token.LocationError.
func Parse(name string, text []byte) (*lisp.Expr, error) {
	lines := newLineIndex(name, text)
	parser := newParsecParser(lines)
	root := &lisp.Expr{
		Type:   lisp.ExprForm,
		Forms:  []*lisp.Expr{},
		Source: lines.location(0),
	}
	s := parsec.NewScanner(text)
	node, s := parser(s)
	for node != nil {
		expr, err := nodeExpr(lines, node)
		if err != nil {
			return nil, err
		}
		root.Forms = append(root.Forms, expr)
		node, s = parser(s)
	}
	_, s = s.SkipWS()
	if !s.Endof() {
		cursor := s.GetCursor()
		return nil, syntaxError(lines, text, cursor)
	}
	return root, nil
}

// syntaxError describes the input at cursor, where no expression could be
// parsed.  Text there always starts with a parenthesis because any other
// character begins an atom.
func syntaxError(lines *lineIndex, text []byte, cursor int) error {
	if text[cursor] == ')' {
		return &token.LocationError{Err: ErrUnmatchedClose, Source: lines.location(cursor)}
	}
	// Find the innermost open parenthesis left unclosed.
	var open []int
	for i := cursor; i < len(text); i++ {
		switch text[i] {
		case '(':
			open = append(open, i)
		case ')':
			if len(open) == 0 {
				return &token.LocationError{Err: ErrUnmatchedClose, Source: lines.location(i)}
			}
			open = open[:len(open)-1]
		}
	}
	if len(open) == 0 {
		return &token.LocationError{
			Err:    fmt.Errorf("unexpected source text: %q", text[cursor]),
			Source: lines.location(cursor),
		}
	}
	return &token.LocationError{Err: ErrUnmatchedOpen, Source: lines.location(open[len(open)-1])}
}

func newParsecParser(lines *lineIndex) parsec.Parser {
	openP := parsec.Atom("(", "OPENP")
	closeP := parsec.Atom(")", "CLOSEP")
	atom := parsec.Token(`[^\s()]+`, "ATOM")

	var expr parsec.Parser // forward declaration allows for recursive parsing
	exprList := parsec.Kleene(nil, &expr)
	form := parsec.And(formNode(lines), openP, exprList, closeP)
	expr = parsec.OrdChoice(nil, atom, form)
	return expr
}

func formNode(lines *lineIndex) parsec.Nodify {
	return func(nodes []parsec.ParsecNode) parsec.ParsecNode {
		nodes = cleanParsecNodeList(nodes)
		form := &lisp.Expr{
			Type:  lisp.ExprForm,
			Forms: make([]*lisp.Expr, 0, len(nodes)),
		}
		for _, n := range nodes {
			switch n := n.(type) {
			case *parsec.Terminal:
				switch n.Name {
				case "OPENP":
					form.Source = lines.location(n.Position)
				case "ATOM":
					form.Forms = append(form.Forms, terminalExpr(lines, n))
				}
			case *lisp.Expr:
				form.Forms = append(form.Forms, n)
			}
		}
		return form
	}
}

func terminalExpr(lines *lineIndex, term *parsec.Terminal) *lisp.Expr {
	return &lisp.Expr{
		Type:   lisp.ExprAtom,
		Atom:   lisp.ParseAtom(term.Value),
		Source: lines.location(term.Position),
	}
}

func nodeExpr(lines *lineIndex, root parsec.ParsecNode) (*lisp.Expr, error) {
	nodes := cleanParsecNodeList([]parsec.ParsecNode{root})
	if len(nodes) != 1 {
		return nil, fmt.Errorf("unexpected parse result: %d nodes", len(nodes))
	}
	switch n := nodes[0].(type) {
	case *lisp.Expr:
		return n, nil
	case *parsec.Terminal:
		return terminalExpr(lines, n), nil
	default:
		return nil, fmt.Errorf("unexpected parse node: %T", n)
	}
}

func cleanParsecNodeList(lis []parsec.ParsecNode) []parsec.ParsecNode {
	var nodes []parsec.ParsecNode
	for _, n := range lis {
		switch node := n.(type) {
		case nil:
		case []parsec.ParsecNode:
			nodes = append(nodes, cleanParsecNodeList(node)...)
		default:
			nodes = append(nodes, node)
		}
	}
	return nodes
}

// lineIndex converts byte offsets into locations.
type lineIndex struct {
	file   string
	starts []int
}

func newLineIndex(file string, text []byte) *lineIndex {
	idx := &lineIndex{file: file, starts: []int{0}}
	for i, c := range text {
		if c == '\n' {
			idx.starts = append(idx.starts, i+1)
		}
	}
	return idx
}

func (idx *lineIndex) location(pos int) *token.Location {
	line := sort.Search(len(idx.starts), func(i int) bool { return idx.starts[i] > pos })
	return &token.Location{
		File: idx.file,
		Pos:  pos,
		Line: line,
		Col:  pos - idx.starts[line-1] + 1,
	}
}
