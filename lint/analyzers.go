// Copyright © 2024 The ELPS authors

package lint

import (
	"github.com/luthersystems/minilisp/astutil"
	"github.com/luthersystems/minilisp/lisp"
)

// AnalyzerSpecialFormArity checks the length of fixed-arity special forms.
var AnalyzerSpecialFormArity = &Analyzer{
	Name:     "special-form-arity",
	Severity: SeverityError,
	Doc:      "Check argument counts of define, lambda and if.\n\nThese special forms take a fixed number of arguments and signal arity-mismatch otherwise. A missing else branch of if is the most common case.",
	Run: func(pass *Pass) error {
		arity := make(map[string]int)
		for _, op := range lisp.SpecialForms() {
			if op.Arity() >= 0 {
				arity[op.Name()] = op.Arity() - 1
			}
		}
		skip := skipNodes(pass.Exprs)
		astutil.WalkForms(pass.Exprs, func(form *lisp.Expr, depth int) {
			if skip[form] {
				return
			}
			head := astutil.HeadSymbol(form)
			want, ok := arity[head]
			if !ok {
				return
			}
			if argc := astutil.ArgCount(form); argc != want {
				pass.Reportf(astutil.SourceOf(form), "%s requires %d arguments, got %d", head, want, argc)
			}
		})
		return nil
	},
}

// AnalyzerDefineStructure checks the targets of define and the parameter
// lists of define and lambda.
var AnalyzerDefineStructure = &Analyzer{
	Name:     "define-structure",
	Severity: SeverityError,
	Doc:      "Check for malformed define and lambda forms.\n\nA define target must be a symbol or a (name params...) signature, and parameters must be symbols. Special form names cannot be defined.",
	Run: func(pass *Pass) error {
		astutil.WalkForms(pass.Exprs, func(form *lisp.Expr, depth int) {
			head := astutil.HeadSymbol(form)
			if head != "define" && head != "lambda" || astutil.ArgCount(form) < 1 {
				return
			}
			target := form.Forms[1]
			if head == "lambda" {
				if target.Type != lisp.ExprForm {
					pass.Reportf(astutil.SourceOf(target), "lambda parameters must be a list, got %v", target)
					return
				}
				checkParams(pass, head, target.Forms)
				return
			}
			if name, ok := target.SymbolName(); ok {
				checkDefinedName(pass, target, name)
				return
			}
			if target.Type != lisp.ExprForm || len(target.Forms) == 0 {
				pass.Reportf(astutil.SourceOf(target), "define target must be a symbol or a procedure signature, got %v", target)
				return
			}
			name, ok := target.Forms[0].SymbolName()
			if !ok {
				pass.Reportf(astutil.SourceOf(target.Forms[0]), "procedure name must be a symbol, got %v", target.Forms[0])
				return
			}
			checkDefinedName(pass, target.Forms[0], name)
			checkParams(pass, head, target.Forms[1:])
		})
		return nil
	},
}

func checkDefinedName(pass *Pass, atom *lisp.Expr, name string) {
	if lisp.IsSpecialForm(name) {
		pass.ReportWithNotes(astutil.SourceOf(atom),
			[]string{"special forms are recognized before variables are looked up"},
			"%s is a special form and cannot be redefined", name)
	}
}

func checkParams(pass *Pass, head string, params []*lisp.Expr) {
	seen := make(map[string]bool)
	for _, p := range params {
		name, ok := p.SymbolName()
		if !ok {
			pass.Reportf(astutil.SourceOf(p), "%s parameter must be a symbol, got %v", head, p)
			continue
		}
		if seen[name] {
			pass.Reportf(astutil.SourceOf(p), "%s parameter %s is repeated", head, name)
		}
		seen[name] = true
	}
}

// AnalyzerCondStructure checks for malformed cond clauses.
var AnalyzerCondStructure = &Analyzer{
	Name:     "cond-structure",
	Severity: SeverityError,
	Doc:      "Check for malformed cond clauses.\n\nEach clause must be a (predicate expr) pair. Clauses after an else clause can never be selected.",
	Run: func(pass *Pass) error {
		astutil.WalkForms(pass.Exprs, func(form *lisp.Expr, depth int) {
			if astutil.HeadSymbol(form) != "cond" {
				return
			}
			last := len(form.Forms) - 1
			for i := 1; i < len(form.Forms); i++ {
				clause := form.Forms[i]
				src := astutil.SourceOf(clause)
				if clause.Type != lisp.ExprForm || len(clause.Forms) != 2 {
					pass.Reportf(src, "cond clause %d is not a (predicate expr) pair", i)
					continue
				}
				if pred := clause.Forms[0]; pred.Type == lisp.ExprAtom && pred.Atom.IsSymbol("else") && i != last {
					pass.Report(Diagnostic{
						Pos:      positionOf(form.Forms[i+1]),
						Message:  "cond clause is unreachable after else",
						Severity: SeverityWarning,
					})
				}
			}
		})
		return nil
	},
}

var nativeArity = map[string]int{
	"not":    1,
	"mod":    2,
	"equal?": 2,
}

// AnalyzerNativeArity checks argument counts of fixed-arity natives.
var AnalyzerNativeArity = &Analyzer{
	Name:     "native-arity",
	Severity: SeverityError,
	Doc:      "Check argument counts for calls to fixed-arity natives.\n\nnot takes one argument and mod and equal? take two. Names the file binds itself are not checked.",
	Run: func(pass *Pass) error {
		userDefs := astutil.UserDefined(pass.Exprs)
		skip := skipNodes(pass.Exprs)
		astutil.WalkForms(pass.Exprs, func(form *lisp.Expr, depth int) {
			head := astutil.HeadSymbol(form)
			want, ok := nativeArity[head]
			if !ok || userDefs[head] || skip[form] {
				return
			}
			if argc := astutil.ArgCount(form); argc != want {
				pass.Reportf(astutil.SourceOf(form), "%s requires %d argument(s), got %d", head, want, argc)
			}
		})
		return nil
	},
}

// AnalyzerNestedDefine reports define forms below the top level.
var AnalyzerNestedDefine = &Analyzer{
	Name:     "nested-define",
	Severity: SeverityInfo,
	Doc:      "Report define forms nested inside other expressions.\n\nA nested define is visible to the rest of its enclosing form but is discarded afterwards. Only top-level defines persist.",
	Run: func(pass *Pass) error {
		skip := skipNodes(pass.Exprs)
		astutil.WalkForms(pass.Exprs, func(form *lisp.Expr, depth int) {
			if depth == 0 || skip[form] || astutil.HeadSymbol(form) != "define" {
				return
			}
			pass.Reportf(astutil.SourceOf(form), "nested define does not persist past the enclosing expression")
		})
		return nil
	},
}

// AnalyzerLiteralCondition reports if and cond predicates which are number
// or string literals.
var AnalyzerLiteralCondition = &Analyzer{
	Name:     "literal-condition",
	Severity: SeverityWarning,
	Doc:      "Report if and cond predicates that are number or string literals.\n\nOnly the value true selects a branch. Any literal, including 1, selects the alternative.",
	Run: func(pass *Pass) error {
		check := func(pred *lisp.Expr) {
			if pred.Type != lisp.ExprAtom || pred.Atom.Type == lisp.LSymbol {
				return
			}
			pass.ReportWithNotes(astutil.SourceOf(pred),
				[]string{"only true selects a branch, other values do not"},
				"condition %v is never true", pred.Atom)
		}
		skip := skipNodes(pass.Exprs)
		astutil.WalkForms(pass.Exprs, func(form *lisp.Expr, depth int) {
			if skip[form] {
				return
			}
			switch astutil.HeadSymbol(form) {
			case "if":
				if astutil.ArgCount(form) >= 1 {
					check(form.Forms[1])
				}
			case "cond":
				for _, clause := range form.Forms[1:] {
					if clause.Type == lisp.ExprForm && len(clause.Forms) == 2 {
						check(clause.Forms[0])
					}
				}
			}
		})
		return nil
	},
}

// AnalyzerUnappliedLambda reports procedures called without arguments.
var AnalyzerUnappliedLambda = &Analyzer{
	Name:     "unapplied-lambda",
	Severity: SeverityWarning,
	Doc:      "Report procedures called without arguments.\n\nA lambda is only applied when at least one argument follows it. Otherwise the form evaluates to the procedure itself.",
	Run: func(pass *Pass) error {
		procs := make(map[string]bool)
		for _, expr := range pass.Exprs {
			if astutil.HeadSymbol(expr) != "define" || astutil.ArgCount(expr) < 1 {
				continue
			}
			if name := astutil.HeadSymbol(expr.Forms[1]); name != "" {
				procs[name] = true
			}
		}
		skip := skipNodes(pass.Exprs)
		astutil.WalkForms(pass.Exprs, func(form *lisp.Expr, depth int) {
			if skip[form] || astutil.ArgCount(form) != 0 {
				return
			}
			head := form.Forms[0]
			if astutil.HeadSymbol(head) == "lambda" {
				pass.Reportf(astutil.SourceOf(form), "lambda without arguments is returned, not applied")
				return
			}
			if name, ok := head.SymbolName(); ok && procs[name] {
				pass.Reportf(astutil.SourceOf(form), "%s without arguments evaluates to the procedure, not its result", name)
			}
		})
		return nil
	},
}

// AnalyzerUnresolvedHead reports applications of names that are bound
// nowhere.  Such forms silently evaluate to a tuple of their elements.
// It requires a scope and does nothing without one.
var AnalyzerUnresolvedHead = &Analyzer{
	Name:     "unresolved-head",
	Severity: SeverityWarning,
	Doc:      "Report forms whose head names no procedure.\n\nA form whose head is not a special form, native or bound variable evaluates to a tuple of its elements instead of failing. This is usually a misspelled name.",
	Run: func(pass *Pass) error {
		if pass.Scope == nil {
			return nil
		}
		userDefs := astutil.UserDefined(pass.Exprs)
		skip := skipNodes(pass.Exprs)
		astutil.WalkForms(pass.Exprs, func(form *lisp.Expr, depth int) {
			if skip[form] {
				return
			}
			name, ok := form.Forms[0].SymbolName()
			if !ok || userDefs[name] || lisp.IsSpecialForm(name) {
				return
			}
			if _, ok := pass.Scope.Native(name); ok {
				return
			}
			if _, ok := pass.Scope.Lookup(name); ok {
				return
			}
			pass.ReportWithNotes(astutil.SourceOf(form),
				[]string{"the form evaluates to a tuple of its elements"},
				"%s is not a known procedure", name)
		})
		return nil
	},
}

// skipNodes returns forms that are never evaluated as applications:
// parameter lists and cond clauses.
func skipNodes(exprs []*lisp.Expr) map[*lisp.Expr]bool {
	skip := astutil.Formals(exprs)
	astutil.WalkForms(exprs, func(form *lisp.Expr, depth int) {
		if astutil.HeadSymbol(form) != "cond" {
			return
		}
		for _, clause := range form.Forms[1:] {
			skip[clause] = true
		}
	})
	return skip
}

func positionOf(e *lisp.Expr) Position {
	loc := astutil.SourceOf(e)
	if loc == nil {
		return Position{}
	}
	return Position{File: loc.File, Line: loc.Line, Col: loc.Col}
}
