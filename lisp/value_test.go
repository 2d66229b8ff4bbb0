// Copyright © 2018 The ELPS authors

package lisp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAtom(t *testing.T) {
	tests := []struct {
		lexeme string
		value  Value
	}{
		{"123", Int(123)},
		{"-7", Int(-7)},
		{"+7", Int(7)},
		{"1.5", Float(1.5)},
		{"-0.25", Float(-0.25)},
		{"3.", Float(3)},
		{".5", Float(0.5)},
		{"2e3", Int(2000)},
		{"2.5e1", Float(25)},
		{"99999999999", Int(math.MaxInt32)},
		{"-99999999999", Int(math.MinInt32)},
		{`"hi"`, String("hi")},
		{`""`, String("")},
		{`"`, Symbol(`"`)},
		{`"abc`, Symbol(`"abc`)},
		{"foo", Symbol("foo")},
		{"+", Symbol("+")},
		{"-", Symbol("-")},
		{"...", Symbol("...")},
		{"inf", Symbol("inf")},
		{"NaN", Symbol("NaN")},
		{"-inf", Symbol("-inf")},
		{"1x", Symbol("1x")},
	}
	for _, test := range tests {
		assert.Equal(t, test.value, ParseAtom(test.lexeme), "lexeme %q", test.lexeme)
	}
}

func TestTruthy(t *testing.T) {
	falsy := []Value{Bool(false), Int(0), Nil()}
	for _, v := range falsy {
		assert.False(t, v.Truthy(), "%#v", v)
	}
	truthy := []Value{
		Bool(true), Int(1), Int(-1), Float(0), String(""), Tuple(nil),
		Symbol("x"), Native("+"), Lambda(nil, Atom(Int(0))),
	}
	for _, v := range truthy {
		assert.True(t, v.Truthy(), "%#v", v)
	}
	assert.True(t, Bool(true).IsTrue())
	assert.False(t, Int(1).IsTrue())
	assert.False(t, Symbol("true").IsTrue())
}

func TestValueGoString(t *testing.T) {
	tests := []struct {
		value  Value
		output string
	}{
		{Int(5), `Int(5)`},
		{Float(3), `Float(3.0)`},
		{Float(0.1), `Float(0.1)`},
		{Float(1e21), `Float(1e+21)`},
		{String("hi"), `Str("hi")`},
		{Symbol("foo"), `Symbol("foo")`},
		{Bool(true), `Bool(true)`},
		{Nil(), `Nil`},
		{Tuple(nil), `Tuple([])`},
		{Tuple([]Value{Int(1), String("a")}), `Tuple([Int(1), Str("a")])`},
		{Native("+"), `NativeProcedure("+")`},
		{
			Lambda([]string{"x"}, Form(Atom(Symbol("*")), Atom(Symbol("x")), Atom(Symbol("x")))),
			`Lambda([x], Form([Atom(Symbol("*")), Atom(Symbol("x")), Atom(Symbol("x"))]))`,
		},
	}
	for _, test := range tests {
		assert.Equal(t, test.output, test.value.GoString())
	}
}

func TestValueString(t *testing.T) {
	tests := []struct {
		value  Value
		output string
	}{
		{Int(-5), `-5`},
		{Float(2), `2.0`},
		{String("hi"), `"hi"`},
		{Symbol("foo"), `foo`},
		{Bool(false), `false`},
		{Nil(), `nil`},
		{Tuple([]Value{Int(1), Tuple(nil)}), `(1 ())`},
		{Native("not"), `<native not>`},
		{Lambda([]string{"a", "b"}, Form(Atom(Symbol("+")), Atom(Symbol("a")), Atom(Symbol("b")))), `(lambda (a b) (+ a b))`},
	}
	for _, test := range tests {
		assert.Equal(t, test.output, test.value.String())
	}
}

func TestValueEqual(t *testing.T) {
	assert.True(t, Int(1).Equal(Int(1)))
	assert.False(t, Int(1).Equal(Float(1)))
	assert.True(t, Nil().Equal(Nil()))
	assert.True(t, Tuple([]Value{Int(1), String("x")}).Equal(Tuple([]Value{Int(1), String("x")})))
	assert.False(t, Tuple([]Value{Int(1)}).Equal(Tuple([]Value{Int(1), Int(2)})))
	assert.False(t, String("x").Equal(Symbol("x")))
	body := Form(Atom(Symbol("x")))
	assert.True(t, Lambda([]string{"x"}, body).Equal(Lambda([]string{"x"}, Form(Atom(Symbol("x"))))))
	assert.False(t, Lambda([]string{"x"}, body).Equal(Lambda([]string{"y"}, body)))
}

func TestTruncInt32(t *testing.T) {
	assert.Equal(t, int32(2), TruncInt32(2.9))
	assert.Equal(t, int32(-2), TruncInt32(-2.9))
	assert.Equal(t, int32(math.MaxInt32), TruncInt32(1e12))
	assert.Equal(t, int32(math.MinInt32), TruncInt32(-1e12))
	assert.Equal(t, int32(math.MaxInt32), TruncInt32(math.Inf(1)))
	assert.Equal(t, int32(0), TruncInt32(math.NaN()))
}

func TestExprRendering(t *testing.T) {
	e := Form(Atom(Symbol("if")), Form(), Atom(String("a b")), Atom(Float(1)))
	assert.Equal(t, `(if () "a b" 1.0)`, e.String())
	assert.Equal(t, `Form([Atom(Symbol("if")), Form([]), Atom(Str("a b")), Atom(Float(1.0))])`, e.GoString())
	assert.Equal(t, 4, e.Len())
	assert.Equal(t, -1, e.Forms[0].Len())
	name, ok := e.Forms[0].SymbolName()
	assert.True(t, ok)
	assert.Equal(t, "if", name)
	_, ok = e.Forms[2].SymbolName()
	assert.False(t, ok)
}
