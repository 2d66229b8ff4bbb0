// Copyright © 2018 The ELPS authors

package lisp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopeDefine(t *testing.T) {
	s0 := NewScope()
	s1 := s0.Define("x", Int(1))
	s2 := s1.Define("x", Int(2))

	_, ok := s0.Lookup("x")
	assert.False(t, ok, "define modified its receiver")
	v, ok := s1.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, Int(1), v)
	v, ok = s2.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, Int(2), v)
	assert.Equal(t, 1, s2.Len())
}

func TestScopeBind(t *testing.T) {
	s := NewScope().Define("x", Int(1)).Define("y", Int(2))
	bound := s.Bind([]string{"x", "z"}, []Value{String("a"), String("b")})
	assert.Equal(t, []string{"x", "y", "z"}, bound.Variables())
	v, _ := bound.Lookup("x")
	assert.Equal(t, String("a"), v)
	v, _ = s.Lookup("x")
	assert.Equal(t, Int(1), v)
	assert.Equal(t, []string{"x", "y"}, s.Variables())

	assert.Panics(t, func() { s.Bind([]string{"a"}, nil) })
}

func TestScopeNatives(t *testing.T) {
	s := NewScope()
	fn, ok := s.Native("+")
	require.True(t, ok)
	assert.Equal(t, "+", fn.Name())
	_, ok = s.Native("define")
	assert.False(t, ok)
	assert.Len(t, s.Natives(), len(DefaultNatives()))

	// natives and variables are separate namespaces
	s = s.Define("+", Int(1))
	_, ok = s.Native("+")
	assert.True(t, ok)

	custom := NewScope(NewNative("one", func(args []Value) (Value, error) {
		return Int(1), nil
	}, "Returns 1."))
	natives := custom.Natives()
	require.Len(t, natives, 1)
	assert.Equal(t, "one", natives[0].Name())
	_, ok = custom.Native("+")
	assert.False(t, ok)
}

func TestScopeProcedures(t *testing.T) {
	body := Atom(Symbol("x"))
	s := NewScope().
		Define("id", Lambda([]string{"x"}, body)).
		Define("n", Int(3)).
		Define("const", Lambda([]string{"y"}, body))
	assert.Equal(t, []string{"const", "id"}, s.Procedures())
	assert.Equal(t, []string{"const", "id", "n"}, s.Variables())
}
