// Copyright © 2018 The ELPS authors

package lisp

// SpecialOp implements a special form.  It receives the whole form,
// including the head symbol, and the scope the form is evaluated in.  The
// returned scope replaces the caller's scope.
type SpecialOp func(ev *Evaluator, form *Expr, scope *Scope) (Value, *Scope, error)

// SpecialForm describes a special form keyword.
type SpecialForm interface {
	Name() string
	// Arity is the required length of the form including the head symbol, or
	// -1 if any length is accepted.
	Arity() int
	Doc() string
}

type langSpecialOp struct {
	name  string
	arity int
	fun   SpecialOp
	doc   string
}

func (op *langSpecialOp) Name() string {
	return op.name
}

func (op *langSpecialOp) Arity() int {
	return op.arity
}

func (op *langSpecialOp) Doc() string {
	return op.doc
}

var langSpecialOps []*langSpecialOp

func init() {
	// assigned in init to break the initialization cycle through Eval
	langSpecialOps = []*langSpecialOp{
		{"define", 3, opDefine,
			`Binds a name in the current scope and returns the name as a
			symbol. (define name expr) evaluates expr and binds the result.
			(define (name p1 p2 ...) body) binds a lambda without evaluating
			body. A define only persists past the expression that contains it
			when it is entered at the top level.`},
		{"lambda", 3, opLambda,
			`Returns a procedure value taking the listed parameters. The body
			is evaluated when the procedure is applied, with parameters bound
			over the caller's scope. A lambda is only applied when at least
			one argument follows it.`},
		{"if", 4, opIf,
			`Evaluates the predicate. If the result is exactly true the
			consequent is evaluated and returned, otherwise the alternative
			is. Values such as 0 and nil select the alternative.`},
		{"cond", -1, opCond,
			`Evaluates the predicate of each (predicate expr) clause in order.
			The expression of the first clause whose predicate is exactly
			true, or the symbol else, is evaluated and returned. Returns nil
			when no clause matches.`},
		{"and", -1, opAnd,
			`Evaluates its arguments left to right. Returns false as soon as
			one is falsy (false, 0 or nil) without evaluating the rest.
			Otherwise returns the last value, or true with no arguments.`},
		{"or", -1, opOr,
			`Evaluates its arguments left to right and returns the first
			truthy value without evaluating the rest. Returns nil if no value
			is truthy.`},
	}
}

// SpecialForms returns the special forms recognized by the evaluator.
func SpecialForms() []SpecialForm {
	ops := make([]SpecialForm, len(langSpecialOps))
	for i := range langSpecialOps {
		ops[i] = langSpecialOps[i]
	}
	return ops
}

// IsSpecialForm reports whether name is a special form keyword.  Special
// forms cannot be shadowed by variables.
func IsSpecialForm(name string) bool {
	return lookupSpecialOp(name) != nil
}

func lookupSpecialOp(name string) *langSpecialOp {
	for _, op := range langSpecialOps {
		if op.name == name {
			return op
		}
	}
	return nil
}

func opDefine(ev *Evaluator, form *Expr, scope *Scope) (Value, *Scope, error) {
	target, expr := form.Forms[1], form.Forms[2]
	if name, ok := target.SymbolName(); ok {
		v, _, err := ev.Eval(expr, scope, false)
		if err != nil {
			return Nil(), scope, err
		}
		return Symbol(name), scope.Define(name, v), nil
	}
	if target.Type != ExprForm || len(target.Forms) == 0 {
		return Nil(), scope, malformed("define", "first argument is not a symbol or a procedure signature: %v", target)
	}
	name, ok := target.Forms[0].SymbolName()
	if !ok {
		return Nil(), scope, malformed("define", "procedure name is not a symbol: %v", target.Forms[0])
	}
	params, err := formals("define", target.Forms[1:])
	if err != nil {
		return Nil(), scope, err
	}
	return Symbol(name), scope.Define(name, Lambda(params, expr)), nil
}

func opLambda(ev *Evaluator, form *Expr, scope *Scope) (Value, *Scope, error) {
	list := form.Forms[1]
	if list.Type != ExprForm {
		return Nil(), scope, malformed("lambda", "first argument is not a parameter list: %v", list)
	}
	params, err := formals("lambda", list.Forms)
	if err != nil {
		return Nil(), scope, err
	}
	return Lambda(params, form.Forms[2]), scope, nil
}

func formals(name string, list []*Expr) ([]string, error) {
	params := make([]string, 0, len(list))
	for _, p := range list {
		s, ok := p.SymbolName()
		if !ok {
			return nil, malformed(name, "parameter is not a symbol: %v", p)
		}
		params = append(params, s)
	}
	return params, nil
}

func opIf(ev *Evaluator, form *Expr, scope *Scope) (Value, *Scope, error) {
	pred, _, err := ev.Eval(form.Forms[1], scope, false)
	if err != nil {
		return Nil(), scope, err
	}
	branch := form.Forms[3]
	if pred.IsTrue() {
		branch = form.Forms[2]
	}
	v, _, err := ev.Eval(branch, scope, false)
	return v, scope, err
}

func opCond(ev *Evaluator, form *Expr, scope *Scope) (Value, *Scope, error) {
	for _, clause := range form.Forms[1:] {
		if clause.Type != ExprForm || len(clause.Forms) != 2 {
			return Nil(), scope, malformed("cond", "clause is not a (predicate expr) pair: %v", clause)
		}
		pred, _, err := ev.Eval(clause.Forms[0], scope, false)
		if err != nil {
			return Nil(), scope, err
		}
		if pred.IsTrue() || pred.IsSymbol("else") {
			v, _, err := ev.Eval(clause.Forms[1], scope, false)
			return v, scope, err
		}
	}
	return Nil(), scope, nil
}

func opAnd(ev *Evaluator, form *Expr, scope *Scope) (Value, *Scope, error) {
	last := Bool(true)
	for _, expr := range form.Forms[1:] {
		v, _, err := ev.Eval(expr, scope, false)
		if err != nil {
			return Nil(), scope, err
		}
		if !v.Truthy() {
			return Bool(false), scope, nil
		}
		last = v
	}
	return last, scope, nil
}

func opOr(ev *Evaluator, form *Expr, scope *Scope) (Value, *Scope, error) {
	for _, expr := range form.Forms[1:] {
		v, _, err := ev.Eval(expr, scope, false)
		if err != nil {
			return Nil(), scope, err
		}
		if v.Truthy() {
			return v, scope, nil
		}
	}
	return Nil(), scope, nil
}
