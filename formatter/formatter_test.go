// Copyright © 2024 The ELPS authors

package formatter

import (
	"testing"

	"github.com/luthersystems/minilisp/lisp"
	"github.com/luthersystems/minilisp/parser/regexparser"
	"github.com/luthersystems/minilisp/parser/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type formatTest struct {
	name     string
	input    string
	expected string
	config   *Config
}

func runFormatTests(t *testing.T, tests []formatTest) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.config
			got, err := Format([]byte(tt.input), cfg)
			require.NoError(t, err, "Format failed")
			assert.Equal(t, tt.expected, string(got), "formatted output mismatch")

			// Idempotency: formatting the output again should produce identical output
			got2, err := Format(got, cfg)
			require.NoError(t, err, "Format (idempotency) failed")
			assert.Equal(t, string(got), string(got2), "not idempotent")

			roundTripEqual(t, tt.input, string(got))
		})
	}
}

// roundTripEqual reads both sources and compares the resulting trees,
// ignoring source locations.
func roundTripEqual(t *testing.T, original, formatted string) {
	t.Helper()
	a, err := regexparser.Parse("original", []byte(original))
	require.NoError(t, err)
	b, err := regexparser.Parse("formatted", []byte(formatted))
	require.NoError(t, err)
	assert.True(t, a.Equal(b), "tree mismatch after round-trip:\n%v\n%v", a, b)
}

func TestFormatSpacing(t *testing.T) {
	runFormatTests(t, []formatTest{
		{"empty", "", "", nil},
		{"collapse spaces", "(+   1    2)", "(+ 1 2)\n", nil},
		{"trim padding", "  ( +\t1 2 )  \n\n", "(+ 1 2)\n", nil},
		{"empty form", "( )", "()\n", nil},
		{"atom", "x", "x\n", nil},
		{"numbers keep spelling", "(+ 1.50 007)", "(+ 1.50 007)\n", nil},
		{"strings", `(concat "a" "b")`, "(concat \"a\" \"b\")\n", nil},
	})
}

func TestFormatTopLevel(t *testing.T) {
	runFormatTests(t, []formatTest{
		{
			"one per line",
			"(+ 1 2) x",
			"(+ 1 2)\nx\n",
			nil,
		},
		{
			"blank lines clamped",
			"(define a 1)\n\n\n\n(define b 2)",
			"(define a 1)\n\n(define b 2)\n",
			nil,
		},
		{
			"blank line kept",
			"(define a 1)\n\n(define b 2)\n",
			"(define a 1)\n\n(define b 2)\n",
			nil,
		},
		{
			"blank lines removed",
			"(define a 1)\n\n\n(define b 2)",
			"(define a 1)\n(define b 2)\n",
			&Config{IndentSize: 2, MaxBlankLines: 0, Rules: DefaultRules()},
		},
		{
			"closing paren on its own line",
			"(define x\n  1\n)\n(foo)",
			"(define x\n  1)\n(foo)\n",
			nil,
		},
	})
}

func TestFormatIndent(t *testing.T) {
	runFormatTests(t, []formatTest{
		{
			"define body",
			"(define (sq x)\n(* x x))",
			"(define (sq x)\n  (* x x))\n",
			nil,
		},
		{
			"if branches",
			"(if (> x 0)\n1\n2)",
			"(if (> x 0)\n  1\n  2)\n",
			nil,
		},
		{
			"lambda body",
			"(lambda (x)\n      (+ x 1))",
			"(lambda (x)\n  (+ x 1))\n",
			nil,
		},
		{
			"call aligns with first argument",
			"(+ 1\n2\n    3)",
			"(+ 1\n   2\n   3)\n",
			nil,
		},
		{
			"first argument wraps",
			"(concat\n\"a\"\n\"b\")",
			"(concat\n  \"a\"\n  \"b\")\n",
			nil,
		},
		{
			"cond clauses",
			"(cond ((= x 1) 2)\n(else 3))",
			"(cond ((= x 1) 2)\n      (else 3))\n",
			nil,
		},
		{
			"nested",
			"(define (f x)\n(if (> x 0)\nx\n(- x)))",
			"(define (f x)\n  (if (> x 0)\n    x\n    (- x)))\n",
			nil,
		},
		{
			"columns count runes",
			"(é 1\n2)",
			"(é 1\n   2)\n",
			nil,
		},
		{
			"indent size",
			"(define (sq x)\n(* x x))",
			"(define (sq x)\n    (* x x))\n",
			&Config{IndentSize: 4, MaxBlankLines: 1, Rules: DefaultRules()},
		},
	})
}

func TestFormatPrelude(t *testing.T) {
	got, err := FormatFile([]byte(lisp.Prelude), lisp.PreludeName, nil)
	require.NoError(t, err)
	assert.Equal(t, lisp.Prelude, string(got))
}

func TestFormatError(t *testing.T) {
	for _, tt := range []struct {
		name  string
		input string
		err   error
		line  int
	}{
		{"unmatched open", "(define x 1)\n(+ 1", regexparser.ErrUnmatchedOpen, 2},
		{"unmatched close", "1)", regexparser.ErrUnmatchedClose, 1},
	} {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FormatFile([]byte(tt.input), "test.lisp", nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.err)
			var locErr *token.LocationError
			require.ErrorAs(t, err, &locErr)
			assert.Equal(t, "test.lisp", locErr.Source.File)
			assert.Equal(t, tt.line, locErr.Source.Line)
		})
	}
}

func TestRuleFor(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, IndentBody, cfg.RuleFor("define").Style)
	assert.Equal(t, IndentAlign, cfg.RuleFor("cond").Style)
	assert.Equal(t, IndentAlign, cfg.RuleFor("square").Style)
}
