// Copyright © 2024 The ELPS authors

package diagnostic

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
)

// DefaultWidth is the column at which notes are wrapped.
const DefaultWidth = 80

// Renderer formats diagnostics as annotated source snippets.
type Renderer struct {
	// Color controls ANSI color output. Default is ColorAuto.
	Color ColorMode
	// Width is the column notes wrap at.  Zero means DefaultWidth.
	Width int
	// SourceReader reads source text by file name.  If nil, os.ReadFile is
	// used.
	SourceReader func(string) ([]byte, error)
}

// MemorySource returns a SourceReader serving the named texts.  It is
// used for input which never touches the file system, such as REPL lines.
func MemorySource(sources map[string]string) func(string) ([]byte, error) {
	return func(name string) ([]byte, error) {
		s, ok := sources[name]
		if !ok {
			return nil, os.ErrNotExist
		}
		return []byte(s), nil
	}
}

// Render writes a single diagnostic to w.
func (r *Renderer) Render(w io.Writer, d Diagnostic) error {
	p := choosePalette(r.Color, w)
	bw := bufio.NewWriter(w)
	ew := &errWriter{w: bw}

	sevColor := p.boldRed
	switch d.Severity {
	case SeverityWarning:
		sevColor = p.yellow
	case SeverityNote:
		sevColor = p.boldCyan
	}
	ew.printf("%s%s%s:%s %s%s%s\n", sevColor, p.bold, d.Severity, p.reset, p.bold, d.Message, p.reset)

	for _, span := range d.Spans {
		r.writeSpan(ew, span, p)
	}
	for _, note := range d.Notes {
		ew.printf("   %s=%s note: %s\n", p.boldCyan, p.reset, r.wrapNote(note))
	}

	if ew.err != nil {
		return ew.err
	}
	return bw.Flush()
}

// RenderAll writes all diagnostics to w separated by blank lines.
func (r *Renderer) RenderAll(w io.Writer, diags []Diagnostic) error {
	for i, d := range diags {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := r.Render(w, d); err != nil {
			return err
		}
	}
	return nil
}

// wrapNote wraps long notes and indents continuation lines under the
// first.
func (r *Renderer) wrapNote(note string) string {
	width := r.Width
	if width <= 0 {
		width = DefaultWidth
	}
	const prefix = len("   = note: ")
	if width <= prefix+10 {
		return note
	}
	wrapped := wordwrap.String(note, width-prefix)
	first, rest, ok := strings.Cut(wrapped, "\n")
	if !ok {
		return wrapped
	}
	return first + "\n" + indent.String(rest, uint(prefix))
}

// errWriter captures the first write error and drops subsequent writes.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, a ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, a...)
}

func (r *Renderer) writeSpan(ew *errWriter, span Span, p palette) {
	loc := span.File
	if span.Line > 0 {
		loc = fmt.Sprintf("%s:%d", span.File, span.Line)
		if span.Col > 0 {
			loc = fmt.Sprintf("%s:%d:%d", span.File, span.Line, span.Col)
		}
	}
	ew.printf("  %s-->%s %s\n", p.boldBlue, p.reset, loc)

	source := []rune(r.readSourceLine(span.File, span.Line))
	if len(source) == 0 {
		ew.printf("   %s|%s\n", p.boldBlue, p.reset)
		return
	}

	lineStr := strconv.Itoa(span.Line)
	pad := strings.Repeat(" ", len(lineStr))

	ew.printf(" %s%s |%s\n", p.boldBlue, pad, p.reset)
	ew.printf(" %s%s |%s  %s\n", p.boldBlue, lineStr, p.reset, expandTabs(string(source)))

	col := span.Col
	if col <= 0 {
		col = 1
	}
	endCol := span.EndCol
	if endCol <= 0 {
		endCol = tokenEnd(source, col)
	}
	if endCol < col {
		endCol = col
	}
	prefix := ""
	if col-1 <= len(source) {
		prefix = string(source[:col-1])
	}
	underPad := strings.Repeat(" ", len([]rune(expandTabs(prefix))))
	underline := strings.Repeat("^", endCol-col+1)
	ew.printf(" %s%s |%s  %s%s%s%s", p.boldBlue, pad, p.reset, underPad, p.boldRed, underline, p.reset)
	if span.Label != "" {
		ew.printf(" %s%s%s", p.boldRed, span.Label, p.reset)
	}
	ew.printf("\n")
	ew.printf(" %s%s |%s\n", p.boldBlue, pad, p.reset)
}

func (r *Renderer) readSourceLine(file string, line int) string {
	if line <= 0 || file == "" {
		return ""
	}
	reader := r.SourceReader
	if reader == nil {
		reader = os.ReadFile
	}
	data, err := reader(file)
	if err != nil {
		return ""
	}
	lines := strings.Split(string(data), "\n")
	if line > len(lines) {
		return ""
	}
	return strings.TrimRight(lines[line-1], "\r")
}

// tokenEnd returns the 1-based column of the last rune of the token
// starting at col.  A parenthesis is a token of its own.
func tokenEnd(source []rune, col int) int {
	if col > len(source) {
		return col
	}
	if source[col-1] == '(' || source[col-1] == ')' {
		return col
	}
	end := col
	for end < len(source) {
		ch := source[end]
		if ch == ' ' || ch == '\t' || ch == '(' || ch == ')' {
			break
		}
		end++
	}
	return end
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}
