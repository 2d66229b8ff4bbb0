// Copyright © 2024 The ELPS authors

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/luthersystems/minilisp/diagnostic"
	"github.com/luthersystems/minilisp/lint"
	"github.com/luthersystems/minilisp/parser/rdparser"
	"github.com/spf13/viper"
)

func colorMode() diagnostic.ColorMode {
	mode, _ := diagnostic.ParseColorMode(viper.GetString("color"))
	return mode
}

// sourceCache remembers the text of evaluated sources so diagnostics can
// show them without reading files again.  Expressions given on the command
// line only exist here.
type sourceCache map[string]string

func (c sourceCache) read(name string) ([]byte, error) {
	if text, ok := c[name]; ok {
		return []byte(text), nil
	}
	return os.ReadFile(name) //nolint:gosec // reads user-specified source files for display
}

func (c sourceCache) renderer() *diagnostic.Renderer {
	return &diagnostic.Renderer{Color: colorMode(), SourceReader: c.read}
}

// renderError renders err with diagnostic formatting.
func (c sourceCache) renderError(w io.Writer, err error) {
	_ = c.renderer().Render(w, diagnostic.FromError(err))
}

// renderWarnings renders reader warnings with diagnostic formatting.
func (c sourceCache) renderWarnings(w io.Writer, warnings []*rdparser.Warning) {
	ds := make([]diagnostic.Diagnostic, len(warnings))
	for i, warn := range warnings {
		ds[i] = diagnostic.Warning(warn.Source, warn.Message)
	}
	_ = c.renderer().RenderAll(w, ds)
}

// renderLint renders lint findings with diagnostic formatting.
func (c sourceCache) renderLint(w io.Writer, diags []lint.Diagnostic) {
	ds := make([]diagnostic.Diagnostic, len(diags))
	for i, d := range diags {
		sev := diagnostic.SeverityWarning
		switch d.Severity {
		case lint.SeverityError:
			sev = diagnostic.SeverityError
		case lint.SeverityInfo:
			sev = diagnostic.SeverityNote
		}
		ds[i] = diagnostic.Diagnostic{
			Severity: sev,
			Message:  fmt.Sprintf("%s (%s)", d.Message, d.Analyzer),
			Notes:    d.Notes,
		}
		if span, ok := diagnostic.SpanAt(d.Pos.Location(), ""); ok {
			ds[i].Spans = []diagnostic.Span{span}
		}
	}
	_ = c.renderer().RenderAll(w, ds)
}
