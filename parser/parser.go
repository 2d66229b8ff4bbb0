// Copyright © 2018 The ELPS authors

package parser

import (
	"github.com/luthersystems/minilisp/lisp"
	"github.com/luthersystems/minilisp/parser/rdparser"
	"github.com/luthersystems/minilisp/parser/regexparser"
)

// NewReader returns the default lisp.Reader, which accepts unbalanced
// parentheses.
func NewReader() lisp.Reader {
	return rdparser.NewReader()
}

// NewStrictReader returns a lisp.Reader which rejects unbalanced
// parentheses.
func NewStrictReader() lisp.Reader {
	return regexparser.NewReader()
}
