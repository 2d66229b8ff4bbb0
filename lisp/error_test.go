// Copyright © 2018 The ELPS authors

package lisp

import (
	"bytes"
	"errors"
	"testing"

	"github.com/luthersystems/minilisp/parser/token"
	"github.com/stretchr/testify/assert"
)

func TestErrorVal(t *testing.T) {
	err := TypeMismatch(String("x"), "argument is not a number: %v", LString)
	assert.Equal(t, "type-mismatch: argument is not a number: string", err.Error())
	assert.Equal(t, "argument is not a number: string", err.ErrorMessage())

	err.annotate("+", &token.Location{File: "test", Pos: 3, Line: 1, Col: 4}, []string{"f", "g"})
	assert.Equal(t, "test:1:4: type-mismatch: +: argument is not a number: string", err.Error())

	// the innermost annotation wins
	err.annotate("f", &token.Location{File: "test", Pos: 0, Line: 1, Col: 1}, nil)
	assert.Equal(t, "+", err.Procedure)
	assert.Equal(t, 4, err.Source.Col)
	assert.Equal(t, []string{"f", "g"}, err.Stack)

	assert.True(t, errors.Is(err, ErrTypeMismatch))
	assert.False(t, errors.Is(err, ErrArityMismatch))
	assert.False(t, errors.Is(err, errors.New("type-mismatch")))
}

func TestErrorValNativeSource(t *testing.T) {
	err := Errorf(CondDivideByZero, "integer division by zero")
	err.annotate("/", nativeSource(), nil)
	assert.Equal(t, "division-by-zero: /: integer division by zero", err.Error())
}

func TestArityError(t *testing.T) {
	assert.Equal(t, "arity-mismatch: f: expected 1 argument (got 2)", arityError("f", "1", 2).Error())
	assert.Equal(t, "arity-mismatch: if: expected 3 arguments (got 1)", arityError("if", "3", 1).Error())
}

func TestWriteTrace(t *testing.T) {
	err := Errorf(CondStackOverflow, "maximum evaluation depth exceeded: %d", 10)
	err.annotate("loop", &token.Location{File: "test", Pos: 0, Line: 2, Col: 1}, []string{"outer", "loop"})
	var buf bytes.Buffer
	_, ioerr := err.WriteTrace(&buf)
	assert.NoError(t, ioerr)
	expect := "test:2:1: stack-overflow: loop: maximum evaluation depth exceeded: 10\n" +
		"  in loop\n" +
		"  in outer\n"
	assert.Equal(t, expect, buf.String())
}
