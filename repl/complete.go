// Copyright © 2018 The ELPS authors

package repl

import (
	"sort"
	"strings"

	"github.com/luthersystems/minilisp/lisp"
)

// symbolCompleter implements readline.AutoCompleter by enumerating the
// special forms and the names bound in the session scope.
type symbolCompleter struct {
	session *lisp.Session
}

func (c *symbolCompleter) Do(line []rune, pos int) ([][]rune, int) {
	// Extract the word being typed (backwards from cursor to whitespace or open paren).
	start := pos
	for start > 0 {
		ch := line[start-1]
		if ch == ' ' || ch == '\t' || ch == '(' || ch == '\n' {
			break
		}
		start--
	}
	prefix := string(line[start:pos])
	if prefix == "" {
		return nil, 0
	}

	candidates := c.collectSymbols(prefix)
	if len(candidates) == 0 {
		return nil, 0
	}

	// Each entry is the suffix to append.
	result := make([][]rune, 0, len(candidates))
	for _, sym := range candidates {
		result = append(result, []rune(sym[len(prefix):]))
	}
	return result, len([]rune(prefix))
}

func (c *symbolCompleter) collectSymbols(prefix string) []string {
	seen := make(map[string]bool)
	var result []string
	add := func(name string) {
		if strings.HasPrefix(name, prefix) && !seen[name] {
			seen[name] = true
			result = append(result, name)
		}
	}
	for _, op := range lisp.SpecialForms() {
		add(op.Name())
	}
	scope := c.session.Scope()
	for _, fun := range scope.Natives() {
		add(fun.Name())
	}
	for _, name := range scope.Variables() {
		add(name)
	}
	sort.Strings(result)
	return result
}
