// Copyright © 2018 The ELPS authors

package lisp

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/luthersystems/minilisp/parser/token"
)

// Condition names the class of an evaluation error.
type Condition string

// Conditions signaled by the evaluator and the native library.
const (
	// CondTypeMismatch is signaled when a procedure receives an operand of
	// the wrong variant.
	CondTypeMismatch Condition = "type-mismatch"
	// CondArityMismatch is signaled when a lambda or special form receives
	// the wrong number of arguments.
	CondArityMismatch Condition = "arity-mismatch"
	// CondMalformedSpecialForm is signaled when a special form has the right
	// number of arguments but one of them has the wrong shape.
	CondMalformedSpecialForm Condition = "malformed-special-form"
	// CondDivideByZero is signaled by integer division or remainder by zero.
	CondDivideByZero Condition = "division-by-zero"
	// CondStackOverflow is signaled when nested evaluation exceeds the
	// configured maximum depth.
	CondStackOverflow Condition = "stack-overflow"
)

// Sentinel errors for use with errors.Is.  An *ErrorVal matches the sentinel
// with the same condition.
var (
	ErrTypeMismatch         = &ErrorVal{Condition: CondTypeMismatch}
	ErrArityMismatch        = &ErrorVal{Condition: CondArityMismatch}
	ErrMalformedSpecialForm = &ErrorVal{Condition: CondMalformedSpecialForm}
	ErrDivideByZero         = &ErrorVal{Condition: CondDivideByZero}
	ErrStackOverflow        = &ErrorVal{Condition: CondStackOverflow}
)

// ErrorVal is a recoverable evaluation error.  Evaluation stops at the first
// ErrorVal and the session scope is left as it was before the failing
// top-level expression.
type ErrorVal struct {
	Condition Condition
	// Procedure is the name of the native procedure, lambda or special form
	// that signaled the error, if known.
	Procedure string
	// Value is the offending operand for type errors.
	Value   *Value
	Message string
	// Source is the location of the expression being evaluated.
	Source *token.Location
	// Stack holds the names of the procedures being applied when the error
	// was signaled, outermost first.
	Stack []string
}

// Errorf returns an *ErrorVal with the given condition and a formatted
// message.
func Errorf(cond Condition, format string, v ...interface{}) *ErrorVal {
	return &ErrorVal{
		Condition: cond,
		Message:   fmt.Sprintf(format, v...),
	}
}

// TypeMismatch returns an error describing v as an invalid operand.
func TypeMismatch(v Value, format string, args ...interface{}) *ErrorVal {
	err := Errorf(CondTypeMismatch, format, args...)
	err.Value = &v
	return err
}

// Error implements the error interface.  The condition precedes the message,
// and the source location precedes both when known.
func (e *ErrorVal) Error() string {
	if e.Source != nil && e.Source.Pos >= 0 {
		return fmt.Sprintf("%s: %s", e.Source, e.baseMessage())
	}
	return e.baseMessage()
}

func (e *ErrorVal) baseMessage() string {
	msg := e.Message
	if e.Procedure != "" {
		msg = e.Procedure + ": " + msg
	}
	return fmt.Sprintf("%s: %s", e.Condition, msg)
}

// ErrorMessage returns the message without location or condition.
func (e *ErrorVal) ErrorMessage() string {
	return e.Message
}

// Is reports whether target is an *ErrorVal with the same condition.
func (e *ErrorVal) Is(target error) bool {
	t, ok := target.(*ErrorVal)
	if !ok {
		return false
	}
	return t.Condition == e.Condition
}

// WriteTrace writes the error and the procedure stack to w.
func (e *ErrorVal) WriteTrace(w io.Writer) (int, error) {
	bw := bufio.NewWriter(w)
	var n int
	var err error
	wrote := func(_n int, _err error) bool {
		n += _n
		err = _err
		return err == nil
	}
	if !wrote(bw.WriteString(e.Error())) {
		return n, err
	}
	if !wrote(bw.WriteString("\n")) {
		return n, err
	}
	for i := len(e.Stack) - 1; i >= 0; i-- {
		if !wrote(fmt.Fprintf(bw, "  in %s\n", e.Stack[i])) {
			return n, err
		}
	}
	return n, bw.Flush()
}

// annotate fills in context the signaling code did not have.  Fields already
// set are kept so the innermost context wins.
func (e *ErrorVal) annotate(proc string, src *token.Location, stack []string) {
	if e.Procedure == "" {
		e.Procedure = proc
	}
	if e.Source == nil || e.Source.Pos < 0 {
		e.Source = src
	}
	if e.Stack == nil && len(stack) > 0 {
		e.Stack = append([]string(nil), stack...)
	}
}

// arityError returns a CondArityMismatch error for the named procedure or
// form.
func arityError(name string, want string, got int) *ErrorVal {
	err := Errorf(CondArityMismatch, "expected %s argument%s (got %d)", want, plural(want), got)
	err.Procedure = name
	return err
}

func malformed(name string, format string, v ...interface{}) *ErrorVal {
	err := Errorf(CondMalformedSpecialForm, format, v...)
	err.Procedure = name
	return err
}

func plural(count string) string {
	if count == "1" || strings.HasSuffix(count, " 1") {
		return ""
	}
	return "s"
}
