// Copyright © 2024 The ELPS authors

package diagnostic

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testRenderer returns a Renderer with colors disabled reading sources from
// memory.
func testRenderer(sources map[string]string) *Renderer {
	return &Renderer{
		Color:        ColorNever,
		SourceReader: MemorySource(sources),
	}
}

func render(t *testing.T, r *Renderer, d Diagnostic) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, d))
	return buf.String()
}

func TestRenderError(t *testing.T) {
	r := testRenderer(map[string]string{
		"test.lisp": `(+ 1 "two")`,
	})
	d := Diagnostic{
		Severity: SeverityError,
		Message:  "type-mismatch: +: argument is not a number: string",
		Spans: []Span{
			{File: "test.lisp", Line: 1, Col: 6, Label: "offending value"},
		},
	}
	got := render(t, r, d)
	assert.Contains(t, got, "error: type-mismatch: +: argument is not a number: string")
	assert.Contains(t, got, "--> test.lisp:1:6")
	assert.Contains(t, got, `(+ 1 "two")`)
	assert.Contains(t, got, `       ^^^^^ offending value`)
}

func TestRenderWarning(t *testing.T) {
	r := testRenderer(map[string]string{
		"test.lisp": "(define x 1)\n(define y 2))",
	})
	d := Diagnostic{
		Severity: SeverityWarning,
		Message:  "unmatched )",
		Spans:    []Span{{File: "test.lisp", Line: 2, Col: 13}},
	}
	got := render(t, r, d)
	assert.Contains(t, got, "warning: unmatched )")
	assert.Contains(t, got, "--> test.lisp:2:13")
	assert.Contains(t, got, "(define y 2))")
	lines := strings.Split(got, "\n")
	var underline string
	for _, line := range lines {
		if strings.Contains(line, "^") {
			underline = line
		}
	}
	assert.Equal(t, "   |  "+strings.Repeat(" ", 12)+"^", underline)
}

func TestRenderMissingSource(t *testing.T) {
	r := testRenderer(nil)
	d := Diagnostic{
		Severity: SeverityError,
		Message:  "boom",
		Spans:    []Span{{File: "gone.lisp", Line: 3, Col: 1}},
	}
	got := render(t, r, d)
	assert.Contains(t, got, "--> gone.lisp:3:1")
	assert.NotContains(t, got, "^")
}

func TestRenderNotes(t *testing.T) {
	r := testRenderer(nil)
	r.Width = 30
	d := Diagnostic{
		Severity: SeverityError,
		Message:  "boom",
		Notes:    []string{"in square", "a note long enough that it has to be wrapped"},
	}
	got := render(t, r, d)
	assert.Contains(t, got, "= note: in square\n")
	assert.Contains(t, got, "= note: a note long enough\n")
	assert.Contains(t, got, "\n           that it has to be\n")
}

func TestRenderUnicodeColumns(t *testing.T) {
	r := testRenderer(map[string]string{
		"test.lisp": `(concat "héllo" x)`,
	})
	d := Diagnostic{
		Severity: SeverityError,
		Message:  "boom",
		Spans:    []Span{{File: "test.lisp", Line: 1, Col: 17}},
	}
	got := render(t, r, d)
	assert.Contains(t, got, "  "+strings.Repeat(" ", 16)+"^\n")
}

func TestRenderColor(t *testing.T) {
	r := testRenderer(nil)
	r.Color = ColorAlways
	got := render(t, r, Diagnostic{Severity: SeverityError, Message: "boom"})
	assert.Contains(t, got, "\033[1;31m")

	// a buffer is never a terminal
	r.Color = ColorAuto
	got = render(t, r, Diagnostic{Severity: SeverityError, Message: "boom"})
	assert.Equal(t, "error: boom\n", got)
}

func TestRenderAll(t *testing.T) {
	r := testRenderer(nil)
	var buf bytes.Buffer
	err := r.RenderAll(&buf, []Diagnostic{
		{Severity: SeverityWarning, Message: "one"},
		{Severity: SeverityNote, Message: "two"},
	})
	require.NoError(t, err)
	assert.Equal(t, "warning: one\n\nnote: two\n", buf.String())
}

func TestParseColorMode(t *testing.T) {
	for _, test := range []struct {
		in   string
		mode ColorMode
		ok   bool
	}{
		{"", ColorAuto, true},
		{"auto", ColorAuto, true},
		{"always", ColorAlways, true},
		{"never", ColorNever, true},
		{"sometimes", ColorAuto, false},
	} {
		mode, ok := ParseColorMode(test.in)
		assert.Equal(t, test.mode, mode, test.in)
		assert.Equal(t, test.ok, ok, test.in)
	}
}
