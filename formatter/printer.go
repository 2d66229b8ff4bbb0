// Copyright © 2024 The ELPS authors

package formatter

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/luthersystems/minilisp/lisp"
)

type printer struct {
	buf    bytes.Buffer
	cfg    *Config
	layout *layout
	col    int  // current column (0-indexed, in runes)
	atBOL  bool // at beginning of line (nothing written on current line)
}

func newPrinter(cfg *Config, l *layout) *printer {
	return &printer{
		cfg:    cfg,
		layout: l,
		atBOL:  true,
	}
}

// writeTopLevel writes a sequence of top-level expressions, one per line.
func (p *printer) writeTopLevel(exprs []*lisp.Expr) {
	for i, expr := range exprs {
		if i > 0 {
			for j := 0; j < p.blankLinesBetween(exprs[i-1], expr); j++ {
				p.newline()
			}
		}
		p.writeIndent(0)
		p.writeExpr(expr)
		p.newline()
	}
}

// writeExpr dispatches to the appropriate printer for a node type.
func (p *printer) writeExpr(e *lisp.Expr) {
	if e.Type == lisp.ExprAtom {
		p.writeString(p.atomText(e))
		return
	}
	p.writeForm(e)
}

// atomText returns the source text of an atom so numbers keep their
// original spelling.  Atoms without a matching lexeme are rendered from
// their value.
func (p *printer) atomText(e *lisp.Expr) string {
	if e.Source != nil {
		if text, ok := p.layout.lexemes[e.Source.Pos]; ok && lisp.ParseAtom(text).Equal(e.Atom) {
			return text
		}
	}
	return e.Atom.String()
}

// writeForm writes a parenthesized form (procedure call, special form or
// data list such as a cond clause).
func (p *printer) writeForm(e *lisp.Expr) {
	if len(e.Forms) == 0 {
		p.writeString("()")
		return
	}

	p.writeString("(")
	bracketCol := p.col - 1 // column of the opening bracket

	// Write the first child (head).
	// For data lists (non-symbol head), preserve first-child-on-new-line.
	head := e.Forms[0]
	name, isCall := head.SymbolName()
	if !isCall && line(head) > line(e) {
		p.newline()
		p.writeIndent(bracketCol + 1)
	}
	p.writeExpr(head)
	firstArgCol := p.col + 1 // column where the first arg would go (after space)

	// Look up indent rule based on head symbol
	rule := &IndentRule{Style: IndentAlign}
	if isCall {
		rule = p.cfg.RuleFor(name)
	} else {
		// Align subsequent elements just inside the bracket.
		firstArgCol = bracketCol + 1
	}

	// When the first argument wraps to a new line, fall back to body indent
	// to avoid rightward drift from long form names.
	if isCall && len(e.Forms) > 1 && p.newlineBetween(head, e.Forms[1]) {
		if rule.Style == IndentAlign {
			rule = &IndentRule{Style: IndentBody}
		}
	}

	for i := 1; i < len(e.Forms); i++ {
		prev, child := e.Forms[i-1], e.Forms[i]
		if p.newlineBetween(prev, child) {
			p.newline()
			for j := 0; j < p.blankLinesBetween(prev, child); j++ {
				p.newline()
			}
			p.writeIndent(p.computeChildIndent(rule, firstArgCol, bracketCol))
		} else {
			p.writeString(" ")
		}
		p.writeExpr(child)
	}
	p.writeString(")")
}

// computeChildIndent determines the indentation of a child which starts a
// new line.
func (p *printer) computeChildIndent(rule *IndentRule, firstArgCol int, bracketCol int) int {
	switch rule.Style {
	case IndentBody:
		return bracketCol + p.cfg.IndentSize
	default: // IndentAlign
		return firstArgCol
	}
}

// newlineBetween reports whether next started on a later line than the end
// of prev in the source.
func (p *printer) newlineBetween(prev, next *lisp.Expr) bool {
	return line(next) > p.endLine(prev)
}

// blankLinesBetween returns the number of blank lines between prev and
// next in the source, clamped to the configured maximum.
func (p *printer) blankLinesBetween(prev, next *lisp.Expr) int {
	n := line(next) - p.endLine(prev) - 1
	if n < 0 {
		return 0
	}
	if n > p.cfg.MaxBlankLines {
		n = p.cfg.MaxBlankLines
	}
	return n
}

// endLine returns the last source line occupied by e.
func (p *printer) endLine(e *lisp.Expr) int {
	if e.Type == lisp.ExprAtom {
		return line(e)
	}
	if e.Source != nil {
		if end, ok := p.layout.closeLines[e.Source.Pos]; ok {
			return end
		}
	}
	end := line(e)
	for _, c := range e.Forms {
		if n := p.endLine(c); n > end {
			end = n
		}
	}
	return end
}

func line(e *lisp.Expr) int {
	if e.Source == nil {
		return 0
	}
	return e.Source.Line
}

// writeIndent writes spaces to reach the desired column.
func (p *printer) writeIndent(col int) {
	if !p.atBOL {
		return
	}
	p.buf.WriteString(strings.Repeat(" ", col))
	p.col = col
	p.atBOL = false
}

// writeString writes a string, updating column tracking.
func (p *printer) writeString(s string) {
	if p.atBOL && s != "" {
		p.atBOL = false
	}
	p.buf.WriteString(s)
	p.col += utf8.RuneCountInString(s)
}

// newline writes a newline and marks beginning of line.
func (p *printer) newline() {
	p.buf.WriteByte('\n')
	p.col = 0
	p.atBOL = true
}
