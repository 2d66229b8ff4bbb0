// Copyright © 2018 The ELPS authors

package lisp

import (
	"github.com/benbjohnson/immutable"
)

// Scope maps names to bindings.  It holds two disjoint namespaces: natives,
// fixed when the scope is created, and variables, which grow through define
// and through parameter binding during procedure application.  User
// procedures live in variables as LLambda values.
//
// A Scope is an immutable value.  Define returns a new Scope that shares
// structure with its receiver, so extending a scope for one call and then
// discarding the extension costs only the bindings that were added.  Holding
// a *Scope therefore behaves like holding a copy.
type Scope struct {
	natives   *immutable.SortedMap[string, NativeDef]
	variables *immutable.SortedMap[string, Value]
}

// NewScope returns a scope with the given natives registered and no
// variables.  When natives is empty DefaultNatives is used.
func NewScope(natives ...NativeDef) *Scope {
	if len(natives) == 0 {
		natives = DefaultNatives()
	}
	nmap := immutable.NewSortedMap[string, NativeDef](nil)
	for _, n := range natives {
		nmap = nmap.Set(n.Name(), n)
	}
	return &Scope{
		natives:   nmap,
		variables: immutable.NewSortedMap[string, Value](nil),
	}
}

// Lookup returns the value bound to name in the variables namespace.
func (s *Scope) Lookup(name string) (Value, bool) {
	return s.variables.Get(name)
}

// Native returns the builtin registered under name.
func (s *Scope) Native(name string) (NativeDef, bool) {
	return s.natives.Get(name)
}

// Define returns a scope in which name is bound to v.  Any previous binding
// of name is replaced in the returned scope.  The receiver is unchanged.
func (s *Scope) Define(name string, v Value) *Scope {
	return &Scope{
		natives:   s.natives,
		variables: s.variables.Set(name, v),
	}
}

// Bind returns a scope in which each name in params is bound to the
// corresponding value in args.  Bind panics if the lengths differ; callers
// are expected to check arity first.
func (s *Scope) Bind(params []string, args []Value) *Scope {
	if len(params) != len(args) {
		panic("scope bind: parameter and argument counts differ")
	}
	vars := s.variables
	for i, name := range params {
		vars = vars.Set(name, args[i])
	}
	return &Scope{natives: s.natives, variables: vars}
}

// Len returns the number of variable bindings.
func (s *Scope) Len() int {
	return s.variables.Len()
}

// Variables returns the names of all variable bindings in sorted order.
func (s *Scope) Variables() []string {
	var names []string
	itr := s.variables.Iterator()
	for !itr.Done() {
		name, _, _ := itr.Next()
		names = append(names, name)
	}
	return names
}

// Procedures returns the names of variables bound to lambdas, in sorted
// order.
func (s *Scope) Procedures() []string {
	var names []string
	itr := s.variables.Iterator()
	for !itr.Done() {
		name, v, _ := itr.Next()
		if v.Type == LLambda {
			names = append(names, name)
		}
	}
	return names
}

// Natives returns the registered builtins in name order.
func (s *Scope) Natives() []NativeDef {
	defs := make([]NativeDef, 0, s.natives.Len())
	itr := s.natives.Iterator()
	for !itr.Done() {
		_, def, _ := itr.Next()
		defs = append(defs, def)
	}
	return defs
}
