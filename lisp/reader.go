// Copyright © 2018 The ELPS authors

package lisp

import "io"

// Reader turns source text into an expression tree.  The returned Expr is
// always a form whose children are the top-level expressions of the source,
// in order.
type Reader interface {
	Read(name string, r io.Reader) (*Expr, error)
}
