// Copyright © 2018 The ELPS authors

package lisp

import (
	"math"
	"strings"
)

// NativeFunc is a builtin procedure.  It receives already evaluated
// arguments and cannot observe or modify the scope of its caller.
type NativeFunc func(args []Value) (Value, error)

// NativeDef is a builtin procedure registered in a Scope.
type NativeDef interface {
	Name() string
	Doc() string
	Call(args []Value) (Value, error)
}

type langNative struct {
	name string
	fun  NativeFunc
	doc  string
}

func (fun *langNative) Name() string {
	return fun.name
}

func (fun *langNative) Doc() string {
	return fun.doc
}

func (fun *langNative) Call(args []Value) (Value, error) {
	return fun.fun(args)
}

// NewNative returns a NativeDef that calls fn.
func NewNative(name string, fn NativeFunc, doc string) NativeDef {
	return &langNative{name, fn, doc}
}

var userNatives []*langNative
var langNatives = []*langNative{
	{"+", builtinAdd,
		`Returns the sum of its arguments. Returns 0 with no arguments.
		The result is a float if any argument is a float.`},
	{"-", builtinSub,
		`Subtracts the remaining arguments from the first. With a single
		argument returns its negation. Returns 0 with no arguments.`},
	{"*", builtinMul,
		`Returns the product of its arguments. Returns 1 with no
		arguments. The result is a float if any argument is a float.`},
	{"/", builtinDiv,
		`Divides the first argument by the remaining arguments. With a
		single argument returns its reciprocal. Integer division
		truncates toward zero and signals division-by-zero on 0.`},
	{"mod", builtinMod,
		`Returns the remainder of dividing the first integer by the
		second. The sign of the result follows the dividend.`},
	{">", builtinGT,
		`Returns true if each integer argument is greater than the next.
		Returns false if any argument is not an integer.`},
	{"<", builtinLT,
		`Returns true if each integer argument is less than the next.
		Returns false if any argument is not an integer.`},
	{"=", builtinEqNum,
		`Returns true if all integer arguments are equal. Returns false
		if any argument is not an integer.`},
	{">=", builtinGEq,
		`Returns true if each integer argument is greater than or equal
		to the next. Returns false if any argument is not an integer.`},
	{"<=", builtinLEq,
		`Returns true if each integer argument is less than or equal to
		the next. Returns false if any argument is not an integer.`},
	{"not", builtinNot,
		`Returns true if the argument is falsy (false, 0 or nil) and
		false otherwise.`},
	{"and", builtinAnd,
		`Procedure form of the and operator, reachable when the symbol
		and is passed as a value. All arguments are already evaluated.
		Returns false if any argument is falsy, otherwise the last
		argument. Returns true with no arguments.`},
	{"or", builtinOr,
		`Procedure form of the or operator, reachable when the symbol or
		is passed as a value. All arguments are already evaluated.
		Returns the first truthy argument, or nil if there is none.`},
	{"equal?", builtinEqual,
		`Returns true if the two arguments are structurally equal. An
		integer is never equal to a float.`},
	{"list", builtinList,
		`Returns a tuple containing its arguments.`},
	{"concat", builtinConcat,
		`Returns the concatenation of its string arguments.`},
}

// RegisterDefaultNative adds the given function to the list returned by
// DefaultNatives.
func RegisterDefaultNative(name string, fn NativeFunc, doc string) {
	userNatives = append(userNatives, &langNative{name, fn, doc})
}

// DefaultNatives returns the default set of NativeDef registered in scopes
// created by NewScope without arguments.
func DefaultNatives() []NativeDef {
	defs := make([]NativeDef, len(langNatives)+len(userNatives))
	for i := range langNatives {
		defs[i] = langNatives[i]
	}
	offset := len(langNatives)
	for i := range userNatives {
		defs[offset+i] = userNatives[i]
	}
	return defs
}

// numericFold accumulates args into a float64 starting from seed.  The
// returned flag is true if any argument was a float.
func numericFold(args []Value, seed float64, op func(acc, x float64) float64) (float64, bool, error) {
	acc := seed
	hasFloat := false
	for _, c := range args {
		switch c.Type {
		case LInt:
			acc = op(acc, float64(c.Int))
		case LFloat:
			hasFloat = true
			acc = op(acc, c.Float)
		default:
			return 0, false, TypeMismatch(c, "argument is not a number: %v", c.Type)
		}
	}
	return acc, hasFloat, nil
}

func numericResult(x float64, hasFloat bool) Value {
	if hasFloat {
		return Float(x)
	}
	return Int(TruncInt32(x))
}

func toFloat(v Value) float64 {
	if v.Type == LInt {
		return float64(v.Int)
	}
	return v.Float
}

func add(acc, x float64) float64 { return acc + x }
func sub(acc, x float64) float64 { return acc - x }
func mul(acc, x float64) float64 { return acc * x }

func builtinAdd(args []Value) (Value, error) {
	sum, hasFloat, err := numericFold(args, 0, add)
	if err != nil {
		return Nil(), err
	}
	return numericResult(sum, hasFloat), nil
}

func builtinMul(args []Value) (Value, error) {
	prod, hasFloat, err := numericFold(args, 1, mul)
	if err != nil {
		return Nil(), err
	}
	return numericResult(prod, hasFloat), nil
}

func builtinSub(args []Value) (Value, error) {
	if len(args) == 0 {
		return Int(0), nil
	}
	if len(args) == 1 {
		diff, hasFloat, err := numericFold(args, 0, sub)
		if err != nil {
			return Nil(), err
		}
		return numericResult(diff, hasFloat), nil
	}
	first, firstFloat, err := numericFold(args[:1], 0, add)
	if err != nil {
		return Nil(), err
	}
	diff, hasFloat, err := numericFold(args[1:], first, sub)
	if err != nil {
		return Nil(), err
	}
	return numericResult(diff, hasFloat || firstFloat), nil
}

func builtinDiv(args []Value) (Value, error) {
	if len(args) == 0 {
		return Int(1), nil
	}
	operands := args
	if len(args) == 1 {
		operands = []Value{Int(1), args[0]}
	}
	for _, c := range operands {
		if !c.IsNumeric() {
			return Nil(), TypeMismatch(c, "argument is not a number: %v", c.Type)
		}
	}
	if numericListType(operands) == LFloat {
		quo := toFloat(operands[0])
		for _, c := range operands[1:] {
			quo /= toFloat(c)
		}
		return Float(quo), nil
	}
	quo := float64(operands[0].Int)
	for _, c := range operands[1:] {
		if c.Int == 0 {
			return Nil(), Errorf(CondDivideByZero, "integer division by zero")
		}
		quo = math.Trunc(quo / float64(c.Int))
	}
	return Int(TruncInt32(quo)), nil
}

func builtinMod(args []Value) (Value, error) {
	if len(args) != 2 {
		return Nil(), arityError("mod", "2", len(args))
	}
	a, b := args[0], args[1]
	if a.Type != LInt {
		return Nil(), TypeMismatch(a, "first argument is not an integer: %v", a.Type)
	}
	if b.Type != LInt {
		return Nil(), TypeMismatch(b, "second argument is not an integer: %v", b.Type)
	}
	if b.Int == 0 {
		return Nil(), Errorf(CondDivideByZero, "integer division by zero")
	}
	if b.Int == -1 {
		// avoids the MinInt32 % -1 overflow trap
		return Int(0), nil
	}
	return Int(a.Int % b.Int), nil
}

func numericListType(cells []Value) LType {
	for _, c := range cells {
		if c.Type == LFloat {
			return LFloat
		}
	}
	return LInt
}

// compareInts applies cmp to each adjacent pair of arguments.  Any argument
// which is not an integer makes the comparison false.
func compareInts(args []Value, cmp func(a, b int32) bool) (Value, error) {
	for _, c := range args {
		if c.Type != LInt {
			return Bool(false), nil
		}
	}
	for i := 1; i < len(args); i++ {
		if !cmp(args[i-1].Int, args[i].Int) {
			return Bool(false), nil
		}
	}
	return Bool(true), nil
}

func builtinGT(args []Value) (Value, error) {
	return compareInts(args, func(a, b int32) bool { return a > b })
}

func builtinLT(args []Value) (Value, error) {
	return compareInts(args, func(a, b int32) bool { return a < b })
}

func builtinEqNum(args []Value) (Value, error) {
	return compareInts(args, func(a, b int32) bool { return a == b })
}

func builtinGEq(args []Value) (Value, error) {
	return compareInts(args, func(a, b int32) bool { return a >= b })
}

func builtinLEq(args []Value) (Value, error) {
	return compareInts(args, func(a, b int32) bool { return a <= b })
}

func builtinNot(args []Value) (Value, error) {
	if len(args) != 1 {
		return Nil(), arityError("not", "1", len(args))
	}
	return Bool(!args[0].Truthy()), nil
}

func builtinAnd(args []Value) (Value, error) {
	if len(args) == 0 {
		return Bool(true), nil
	}
	for _, c := range args {
		if !c.Truthy() {
			return Bool(false), nil
		}
	}
	return args[len(args)-1], nil
}

func builtinOr(args []Value) (Value, error) {
	for _, c := range args {
		if c.Truthy() {
			return c, nil
		}
	}
	return Nil(), nil
}

func builtinEqual(args []Value) (Value, error) {
	if len(args) != 2 {
		return Nil(), arityError("equal?", "2", len(args))
	}
	return Bool(args[0].Equal(args[1])), nil
}

func builtinList(args []Value) (Value, error) {
	cells := make([]Value, len(args))
	copy(cells, args)
	return Tuple(cells), nil
}

func builtinConcat(args []Value) (Value, error) {
	var buf strings.Builder
	for _, c := range args {
		if c.Type != LString {
			return Nil(), TypeMismatch(c, "argument is not a string: %v", c.Type)
		}
		buf.WriteString(c.Str)
	}
	return String(buf.String()), nil
}
