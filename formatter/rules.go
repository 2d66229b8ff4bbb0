// Copyright © 2024 The ELPS authors

package formatter

// IndentStyle determines how arguments in a form are indented.
type IndentStyle int

const (
	// IndentAlign indents subsequent lines to align with the first argument.
	IndentAlign IndentStyle = iota
	// IndentBody indents wrapped subforms at bracket column + indent size.
	// Arguments on the line of the head stay where they are, so a header
	// such as the parameter list of a define is kept beside the keyword.
	IndentBody
)

// IndentRule specifies the indentation behavior for a particular form.
type IndentRule struct {
	Style IndentStyle
}

// Config holds formatting configuration.
type Config struct {
	IndentSize    int                    // spaces per indent level (default: 2)
	MaxBlankLines int                    // max consecutive blank lines (default: 1)
	Rules         map[string]*IndentRule // form name -> rule
}

// DefaultConfig returns the default formatting configuration.
func DefaultConfig() *Config {
	return &Config{
		IndentSize:    2,
		MaxBlankLines: 1,
		Rules:         DefaultRules(),
	}
}

// DefaultRules returns the default indent rules table.
func DefaultRules() map[string]*IndentRule {
	return map[string]*IndentRule{
		"define": {Style: IndentBody},
		"lambda": {Style: IndentBody},
		"if":     {Style: IndentBody},
	}
}

// RuleFor returns the indent rule for the given form name.
// If no specific rule exists, returns the default first-arg alignment rule.
func (c *Config) RuleFor(name string) *IndentRule {
	if r, ok := c.Rules[name]; ok {
		return r
	}
	return &IndentRule{Style: IndentAlign}
}
