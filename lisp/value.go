// Copyright © 2018 The ELPS authors

package lisp

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// LType is the type of a Value
type LType uint8

// Possible LType values
const (
	// LInvalid (0) is not a valid lisp type.  The zero Value has this type.
	LInvalid LType = iota
	// LSymbol values store the symbol name in Value.Str.
	LSymbol
	// LString values store their text in Value.Str.
	LString
	// LInt values store a 32-bit integer in Value.Int.
	LInt
	// LFloat values store a float64 in Value.Float.
	LFloat
	// LBool values store a bool in Value.Bool.
	LBool
	// LNil is the canonical absent value.  It has no payload.
	LNil
	// LTuple values store an ordered sequence in Value.Cells.
	LTuple
	// LNative values reference a builtin procedure by its registered name,
	// stored in Value.Str.
	LNative
	// LLambda values use the following fields:
	//		Value.Params  parameter names
	//		Value.Body    the unevaluated body expression
	//
	// A lambda does not capture the scope it was created in.  Application
	// binds parameters over the caller's scope.
	LLambda
	// LTypeMax is not a real type but represents a value numerically greater
	// than all valid LType values.
	LTypeMax
)

var lvalTypeStrings = []string{
	LInvalid: "INVALID",
	LSymbol:  "symbol",
	LString:  "string",
	LInt:     "int",
	LFloat:   "float",
	LBool:    "bool",
	LNil:     "nil",
	LTuple:   "tuple",
	LNative:  "native",
	LLambda:  "lambda",
}

func (t LType) String() string {
	if t >= LType(len(lvalTypeStrings)) {
		return lvalTypeStrings[LInvalid]
	}
	return lvalTypeStrings[t]
}

// Value is a lisp value.  Exactly one variant, identified by Type, is active
// and only the fields documented for that variant are meaningful.  Values are
// immutable once constructed; slices held by a Value are never modified after
// construction so copying a Value is a cheap and safe operation.
type Value struct {
	// Str used by LSymbol, LString and LNative values
	Str string

	// Cells used by LTuple values.
	Cells []Value

	// Params and Body used by LLambda values.
	Params []string
	Body   *Expr

	// Fields used for numeric and boolean types.
	Float float64
	Int   int32
	Bool  bool

	// Type is the variant tag.
	Type LType
}

// Symbol returns a Value representing the symbol s.
func Symbol(s string) Value {
	return Value{Type: LSymbol, Str: s}
}

// String returns a Value representing the string str.
func String(str string) Value {
	return Value{Type: LString, Str: str}
}

// Int returns a Value representing the number x.
func Int(x int32) Value {
	return Value{Type: LInt, Int: x}
}

// Float returns a Value representing the number x.
func Float(x float64) Value {
	return Value{Type: LFloat, Float: x}
}

// Bool returns a Value representing b.
func Bool(b bool) Value {
	return Value{Type: LBool, Bool: b}
}

// Nil returns the canonical absent value.
func Nil() Value {
	return Value{Type: LNil}
}

// Tuple returns a Value holding cells.  The cells are used as backing storage
// and must not be modified by the caller afterwards.
func Tuple(cells []Value) Value {
	if cells == nil {
		cells = []Value{}
	}
	return Value{Type: LTuple, Cells: cells}
}

// Native returns a reference to the builtin registered under name.  Native
// values are created by the runtime, never by the reader.
func Native(name string) Value {
	return Value{Type: LNative, Str: name}
}

// Lambda returns a user procedure value.
func Lambda(params []string, body *Expr) Value {
	return Value{Type: LLambda, Params: params, Body: body}
}

// IsNumeric returns true if v has a numeric type.
func (v Value) IsNumeric() bool {
	return v.Type == LInt || v.Type == LFloat
}

// Truthy reports whether v acts as true in if-less boolean contexts (and, or,
// not).  Bool(false), Int(0) and Nil are falsy.  Everything else, including
// Float(0), the empty string and the empty tuple, is truthy.
func (v Value) Truthy() bool {
	switch v.Type {
	case LBool:
		return v.Bool
	case LInt:
		return v.Int != 0
	case LNil, LInvalid:
		return false
	default:
		return true
	}
}

// IsTrue reports whether v is exactly Bool(true).  The if and cond forms
// select a branch only for this value.
func (v Value) IsTrue() bool {
	return v.Type == LBool && v.Bool
}

// IsSymbol reports whether v is the symbol named name.
func (v Value) IsSymbol(name string) bool {
	return v.Type == LSymbol && v.Str == name
}

// Equal reports whether v and other are structurally equal.  Lambdas are
// equal when their parameters and bodies are equal.  Int(1) and Float(1) are
// not equal.
func (v Value) Equal(other Value) bool {
	if v.Type != other.Type {
		return false
	}
	switch v.Type {
	case LSymbol, LString, LNative:
		return v.Str == other.Str
	case LInt:
		return v.Int == other.Int
	case LFloat:
		return v.Float == other.Float
	case LBool:
		return v.Bool == other.Bool
	case LNil, LInvalid:
		return true
	case LTuple:
		if len(v.Cells) != len(other.Cells) {
			return false
		}
		for i := range v.Cells {
			if !v.Cells[i].Equal(other.Cells[i]) {
				return false
			}
		}
		return true
	case LLambda:
		if len(v.Params) != len(other.Params) {
			return false
		}
		for i := range v.Params {
			if v.Params[i] != other.Params[i] {
				return false
			}
		}
		return v.Body.Equal(other.Body)
	default:
		panic(fmt.Sprintf("invalid value type %d", v.Type))
	}
}

// String returns the lisp rendering of v, the form a user would type to
// produce it where such a form exists.
func (v Value) String() string {
	switch v.Type {
	case LSymbol:
		return v.Str
	case LString:
		return strconv.Quote(v.Str)
	case LInt:
		return strconv.FormatInt(int64(v.Int), 10)
	case LFloat:
		return formatFloat(v.Float)
	case LBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case LNil:
		return "nil"
	case LTuple:
		var buf bytes.Buffer
		buf.WriteString("(")
		for i, c := range v.Cells {
			if i > 0 {
				buf.WriteString(" ")
			}
			buf.WriteString(c.String())
		}
		buf.WriteString(")")
		return buf.String()
	case LNative:
		return "<native " + v.Str + ">"
	case LLambda:
		return fmt.Sprintf("(lambda (%s) %s)", strings.Join(v.Params, " "), v.Body)
	default:
		return "<invalid>"
	}
}

// GoString returns the debug rendering of v, naming the active variant and
// its payload, e.g. Int(5) or Tuple([Str("a"), Float(1.5)]).
func (v Value) GoString() string {
	switch v.Type {
	case LSymbol:
		return fmt.Sprintf("Symbol(%q)", v.Str)
	case LString:
		return fmt.Sprintf("Str(%q)", v.Str)
	case LInt:
		return fmt.Sprintf("Int(%d)", v.Int)
	case LFloat:
		return "Float(" + formatFloat(v.Float) + ")"
	case LBool:
		return fmt.Sprintf("Bool(%t)", v.Bool)
	case LNil:
		return "Nil"
	case LTuple:
		parts := make([]string, len(v.Cells))
		for i, c := range v.Cells {
			parts[i] = c.GoString()
		}
		return "Tuple([" + strings.Join(parts, ", ") + "])"
	case LNative:
		return fmt.Sprintf("NativeProcedure(%q)", v.Str)
	case LLambda:
		return fmt.Sprintf("Lambda([%s], %s)", strings.Join(v.Params, ", "), v.Body.GoString())
	default:
		return "Invalid"
	}
}

// formatFloat always renders a decimal point so floats can be told apart
// from integers.
func formatFloat(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// ParseAtom classifies a lexeme read from source text.  A lexeme which parses
// as a base-10 floating point number is a Float if it contains a decimal
// point and an Int otherwise.  A lexeme wrapped in double quotes is a String.
// Anything else is a Symbol.
func ParseAtom(lexeme string) Value {
	if looksNumeric(lexeme) {
		f, err := strconv.ParseFloat(lexeme, 64)
		if err == nil {
			if strings.Contains(lexeme, ".") {
				return Float(f)
			}
			return Int(TruncInt32(f))
		}
	}
	if len(lexeme) >= 2 && lexeme[0] == '"' && lexeme[len(lexeme)-1] == '"' {
		return String(lexeme[1 : len(lexeme)-1])
	}
	return Symbol(lexeme)
}

// looksNumeric rejects words such as "inf" and "nan" which strconv would
// otherwise accept as numbers.
func looksNumeric(lexeme string) bool {
	if lexeme == "" {
		return false
	}
	switch c := lexeme[0]; {
	case c >= '0' && c <= '9':
		return true
	case c == '+' || c == '-' || c == '.':
		return len(lexeme) > 1 && (lexeme[1] >= '0' && lexeme[1] <= '9' || lexeme[1] == '.')
	default:
		return false
	}
}

// TruncInt32 truncates f toward zero and saturates the result to the int32
// range.  NaN truncates to zero.
func TruncInt32(f float64) int32 {
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt32:
		return math.MaxInt32
	case f <= math.MinInt32:
		return math.MinInt32
	default:
		return int32(f)
	}
}
