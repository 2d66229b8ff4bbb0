// Copyright © 2024 The ELPS authors

// Package formatter reformats minilisp source code.  Source is read with the
// strict reader and written back with normalized spacing and indentation.
// Line breaks between the elements of a form are kept but the indentation of
// every line is recomputed, and closing parentheses always follow the last
// element of their form.
package formatter

import (
	"strings"

	"github.com/luthersystems/minilisp/parser/regexparser"
	"github.com/luthersystems/minilisp/parser/token"
)

// Format formats minilisp source code. If cfg is nil, DefaultConfig() is used.
func Format(source []byte, cfg *Config) ([]byte, error) {
	return FormatFile(source, "<stdin>", cfg)
}

// FormatFile formats minilisp source code, using filename for error messages.
// Unbalanced input is returned as a *token.LocationError.
func FormatFile(source []byte, filename string, cfg *Config) ([]byte, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	tree, err := regexparser.Parse(filename, source)
	if err != nil {
		return nil, err
	}

	pr := newPrinter(cfg, scanLayout(filename, source))
	pr.writeTopLevel(tree.Forms)

	result := pr.buf.String()

	// Ensure exactly one trailing newline (if there's any content)
	if len(result) > 0 {
		result = strings.TrimRight(result, "\n") + "\n"
	}
	return []byte(result), nil
}

// layout holds the source details the expression tree does not record.
type layout struct {
	// lexemes maps the byte offset of each atom to its source text.
	lexemes map[int]string
	// closeLines maps the byte offset of each open parenthesis to the line
	// of its matching close parenthesis.
	closeLines map[int]int
}

func scanLayout(filename string, source []byte) *layout {
	l := &layout{
		lexemes:    make(map[int]string),
		closeLines: make(map[int]int),
	}
	var open []int
	for _, tok := range token.Tokenize(filename, string(source)) {
		switch tok.Type {
		case token.ATOM:
			l.lexemes[tok.Source.Pos] = tok.Text
		case token.PAREN_L:
			open = append(open, tok.Source.Pos)
		case token.PAREN_R:
			if len(open) > 0 {
				l.closeLines[open[len(open)-1]] = tok.Source.Line
				open = open[:len(open)-1]
			}
		}
	}
	return l
}
