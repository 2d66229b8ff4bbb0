// Copyright © 2024 The ELPS authors

package lsp

import (
	"net/url"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/luthersystems/minilisp/astutil"
	"github.com/luthersystems/minilisp/lisp"
	"github.com/luthersystems/minilisp/parser/token"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// toLSPPosition converts a 1-based source location to a 0-based LSP position.
func toLSPPosition(loc *token.Location) protocol.Position {
	line := loc.Line
	col := loc.Col
	if line > 0 {
		line--
	}
	if col > 0 {
		col--
	}
	return protocol.Position{
		Line:      safeUint(line),
		Character: safeUint(col),
	}
}

// safeUint converts a non-negative int to protocol.UInteger, clamping
// negative values to zero.
func safeUint(n int) protocol.UInteger {
	if n < 0 {
		return 0
	}
	return protocol.UInteger(n) // #nosec G115 -- line/col are always small positive ints
}

// toLSPRange converts a location to a range width characters wide on the
// location's line.  Locations do not carry an end so callers pass the
// length of the text at loc.
func toLSPRange(loc *token.Location, width int) protocol.Range {
	start := toLSPPosition(loc)
	return protocol.Range{
		Start: start,
		End: protocol.Position{
			Line:      start.Line,
			Character: start.Character + safeUint(width),
		},
	}
}

// symbolRange returns the range covered by a symbol atom.
func symbolRange(loc *token.Location, name string) protocol.Range {
	return toLSPRange(loc, utf8.RuneCountInString(name))
}

// symbolAt returns the symbol atom in tree covering the 0-based LSP
// position.
func symbolAt(tree *lisp.Expr, line, col int) *lisp.Expr {
	if tree == nil {
		return nil
	}
	var found *lisp.Expr
	astutil.Symbols(tree.Forms, func(e *lisp.Expr) bool {
		loc := e.Source
		if loc == nil || loc.Line != line+1 {
			return true
		}
		start := loc.Col - 1
		if col >= start && col <= start+utf8.RuneCountInString(e.Atom.Str) {
			found = e
			return false
		}
		return true
	})
	return found
}

// wordAtPosition extracts the symbol-like word at the given 0-based LSP
// position from the document content. The cursor can be inside or at the
// end of a word; in both cases the full word is returned.
func wordAtPosition(content string, line, col int) string {
	lines := strings.Split(content, "\n")
	if line < 0 || line >= len(lines) {
		return ""
	}
	ln := []rune(lines[line])
	if col < 0 || col > len(ln) {
		return ""
	}
	start := col
	for start > 0 && isSymbolChar(ln[start-1]) {
		start--
	}
	end := col
	for end < len(ln) && isSymbolChar(ln[end]) {
		end++
	}
	return string(ln[start:end])
}

// isSymbolChar reports whether c can appear in an atom.  Anything that is
// not whitespace or a parenthesis can.
func isSymbolChar(c rune) bool {
	switch c {
	case '(', ')', ' ', '\t', '\r', '\n', '"':
		return false
	}
	return true
}

// uriToPath converts a file:// URI to a filesystem path.  Other URIs are
// returned unchanged.
func uriToPath(uri string) string {
	u, err := url.Parse(uri)
	if err != nil || u.Scheme != "file" {
		return uri
	}
	return filepath.FromSlash(u.Path)
}

// pathToURI converts a filesystem path to a file:// URI.
func pathToURI(path string) string {
	if strings.HasPrefix(path, "file://") {
		return path
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return u.String()
}
