// Copyright © 2018 The ELPS authors

package lisp

import (
	"errors"
	"fmt"
)

// DefaultMaxDepth is the nesting depth at which an Evaluator signals
// stack-overflow when no other limit is configured.
const DefaultMaxDepth = 10000

// Evaluator walks expression trees.  An Evaluator is not safe for concurrent
// use.  Sessions each own their Evaluator.
type Evaluator struct {
	// Profiler, if non-nil and enabled, observes every procedure
	// application.
	Profiler Profiler
	// MaxDepth limits the nesting of Eval calls.  Zero means
	// DefaultMaxDepth and a negative value disables the limit.
	MaxDepth int

	depth int
	stack []string
}

// Stack returns the names of the procedures currently being applied,
// outermost first.
func (ev *Evaluator) Stack() []string {
	return append([]string(nil), ev.stack...)
}

func (ev *Evaluator) maxDepth() int {
	if ev.MaxDepth == 0 {
		return DefaultMaxDepth
	}
	return ev.MaxDepth
}

// EvalProgram evaluates each child of the root form produced by a Reader as
// a top-level expression, threading the scope from one to the next, and
// returns the value of the last one.  An empty program evaluates to the
// empty tuple.
//
// When an expression fails the returned scope is the one produced by the
// expressions preceding it.
func (ev *Evaluator) EvalProgram(tree *Expr, scope *Scope) (Value, *Scope, error) {
	if tree.Type != ExprForm {
		return ev.Eval(tree, scope, true)
	}
	result := Tuple(nil)
	for _, expr := range tree.Forms {
		v, next, err := ev.Eval(expr, scope, true)
		if err != nil {
			return Nil(), scope, err
		}
		result, scope = v, next
	}
	return result, scope, nil
}

// Eval evaluates tree in scope and returns the result along with the scope
// that should be used for subsequent evaluation.  When topLevel is false an
// ordinary form returns the scope it was given, discarding any bindings its
// elements made.
func (ev *Evaluator) Eval(tree *Expr, scope *Scope, topLevel bool) (Value, *Scope, error) {
	ev.depth++
	defer func() { ev.depth-- }()
	if limit := ev.maxDepth(); limit > 0 && ev.depth > limit {
		err := Errorf(CondStackOverflow, "maximum evaluation depth exceeded: %d", limit)
		err.annotate("", tree.Source, ev.stack)
		return Nil(), scope, err
	}

	switch tree.Type {
	case ExprAtom:
		if tree.Atom.Type == LSymbol {
			if v, ok := scope.Lookup(tree.Atom.Str); ok {
				return v, scope, nil
			}
		}
		return tree.Atom, scope, nil
	case ExprForm:
		if len(tree.Forms) == 0 {
			return Tuple(nil), scope, nil
		}
		if name, ok := tree.Forms[0].SymbolName(); ok {
			if op := lookupSpecialOp(name); op != nil {
				return ev.evalSpecialOp(op, tree, scope)
			}
		}
		return ev.evalForm(tree, scope, topLevel)
	default:
		panic(fmt.Sprintf("invalid expression type %d", tree.Type))
	}
}

func (ev *Evaluator) evalSpecialOp(op *langSpecialOp, form *Expr, scope *Scope) (Value, *Scope, error) {
	if op.arity >= 0 && len(form.Forms) != op.arity {
		err := arityError(op.name, fmt.Sprint(op.arity-1), len(form.Forms)-1)
		err.annotate(op.name, form.Source, ev.stack)
		return Nil(), scope, err
	}
	v, next, err := op.fun(ev, form, scope)
	if err != nil {
		var lerr *ErrorVal
		if errors.As(err, &lerr) {
			lerr.annotate(op.name, form.Source, ev.stack)
		}
		return Nil(), scope, err
	}
	return v, next, nil
}

// evalForm performs ordinary evaluation of a non-empty form which is not a
// special form.
func (ev *Evaluator) evalForm(form *Expr, scope *Scope, topLevel bool) (Value, *Scope, error) {
	results := make([]Value, 0, len(form.Forms))
	cur := scope
	for _, expr := range form.Forms {
		v, next, err := ev.Eval(expr, cur, false)
		if err != nil {
			return Nil(), scope, err
		}
		results = append(results, v)
		cur = next
	}
	if !topLevel {
		cur = scope
	}

	head, args := results[0], results[1:]
	switch head.Type {
	case LSymbol, LNative:
		if fun, ok := cur.Native(head.Str); ok {
			v, err := ev.callNative(fun, args, form)
			if err != nil {
				return Nil(), scope, err
			}
			return v, cur, nil
		}
	case LLambda:
		if len(args) > 0 {
			name, ok := form.Forms[0].SymbolName()
			if !ok {
				name = "lambda"
			}
			v, err := ev.apply(name, head, args, cur, form)
			if err != nil {
				return Nil(), scope, err
			}
			return v, cur, nil
		}
	}
	if len(results) == 1 {
		return results[0], cur, nil
	}
	return Tuple(results), cur, nil
}

func (ev *Evaluator) callNative(fun NativeDef, args []Value, form *Expr) (Value, error) {
	if ev.Profiler != nil && ev.Profiler.IsEnabled() {
		defer ev.Profiler.Start(fun.Name(), ProcNative, form.Source)()
	}
	v, err := fun.Call(args)
	if err != nil {
		var lerr *ErrorVal
		if !errors.As(err, &lerr) {
			return Nil(), fmt.Errorf("%s: %w", fun.Name(), err)
		}
		lerr.annotate(fun.Name(), form.Source, ev.stack)
		return Nil(), lerr
	}
	return v, nil
}

func (ev *Evaluator) apply(name string, fun Value, args []Value, scope *Scope, form *Expr) (Value, error) {
	if ev.Profiler != nil && ev.Profiler.IsEnabled() {
		defer ev.Profiler.Start(name, ProcLambda, form.Source)()
	}
	if len(fun.Params) != len(args) {
		err := arityError(name, fmt.Sprint(len(fun.Params)), len(args))
		err.annotate(name, form.Source, ev.stack)
		return Nil(), err
	}
	ev.stack = append(ev.stack, name)
	defer func() { ev.stack = ev.stack[:len(ev.stack)-1] }()
	return ev.Apply(fun.Params, args, fun.Body, scope)
}

// Apply binds params to args over scope and evaluates body in the extended
// scope.  The extended scope is discarded.  Apply returns an arity-mismatch
// error if the number of params and args differ.
func (ev *Evaluator) Apply(params []string, args []Value, body *Expr, scope *Scope) (Value, error) {
	if len(params) != len(args) {
		return Nil(), arityError("lambda", fmt.Sprint(len(params)), len(args))
	}
	v, _, err := ev.Eval(body, scope.Bind(params, args), false)
	return v, err
}
