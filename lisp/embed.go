// Copyright © 2018 The ELPS authors

package lisp

import _ "embed"

// PreludeName is the source name reported for the builtin prelude.
const PreludeName = "<prelude>"

// Prelude is evaluated at the top level of every new session unless the
// session is configured WithoutPrelude.  It defines true, false and nil,
// which the reader has no literal syntax for, along with a few small
// procedures.
//
//go:embed prelude.lisp
var Prelude string

type preludeSource struct {
	name string
	text string
}
