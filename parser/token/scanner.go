// Copyright © 2018 The ELPS authors

package token

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Scanner splits a byte stream (io.Reader) into tokens.  Parentheses are
// always tokens of their own and every other run of non-space characters is
// an ATOM.  Quoted strings receive no special treatment so a string literal
// cannot contain spaces or parentheses.
type Scanner struct {
	file string
	r    *bufio.Reader
	err  error

	pos  int // byte offset of the next rune
	line int
	col  int

	peeked bool
	c      rune
	n      int
}

// NewScanner initializes and returns a new Scanner.
func NewScanner(file string, r io.Reader) *Scanner {
	return &Scanner{
		file: file,
		r:    bufio.NewReader(r),
		line: 1,
		col:  1,
	}
}

// Tokenize scans text and returns all of its tokens.  The final token has
// type EOF.
func Tokenize(file string, text string) []*Token {
	s := NewScanner(file, strings.NewReader(text))
	var toks []*Token
	for {
		tok := s.Next()
		toks = append(toks, tok)
		if tok.Type == EOF || tok.Type == ERROR {
			return toks
		}
	}
}

// ReadToken returns the next token as a single element slice.
func (s *Scanner) ReadToken() []*Token {
	return []*Token{s.Next()}
}

// Next returns the next token in the stream.  At the end of the stream Next
// returns a token with type EOF.  If the stream cannot be read, or contains
// invalid utf-8, Next returns a token with type ERROR and Err returns the
// cause.  Subsequent calls return the same error token type.
func (s *Scanner) Next() *Token {
	for {
		c, ok := s.peek()
		if !ok {
			return s.endToken()
		}
		if !unicode.IsSpace(c) {
			break
		}
		s.advance()
	}
	loc := s.Loc()
	c, _ := s.peek()
	switch c {
	case '(':
		s.advance()
		return &Token{Type: PAREN_L, Text: "(", Source: loc}
	case ')':
		s.advance()
		return &Token{Type: PAREN_R, Text: ")", Source: loc}
	}
	var buf strings.Builder
	for {
		c, ok := s.peek()
		if !ok || c == '(' || c == ')' || unicode.IsSpace(c) {
			break
		}
		buf.WriteRune(c)
		s.advance()
	}
	if s.err != nil && s.err != io.EOF {
		return s.endToken()
	}
	return &Token{Type: ATOM, Text: buf.String(), Source: loc}
}

// Err returns the error which stopped the scanner, if any.  Reaching the end
// of the stream is not an error.
func (s *Scanner) Err() error {
	if s.err == io.EOF {
		return nil
	}
	return s.err
}

// Loc returns a Location referencing the next unscanned rune.
func (s *Scanner) Loc() *Location {
	return &Location{
		File: s.file,
		Pos:  s.pos,
		Line: s.line,
		Col:  s.col,
	}
}

func (s *Scanner) endToken() *Token {
	if err := s.Err(); err != nil {
		return &Token{Type: ERROR, Text: err.Error(), Source: s.Loc()}
	}
	return &Token{Type: EOF, Source: s.Loc()}
}

func (s *Scanner) peek() (rune, bool) {
	if s.peeked {
		return s.c, true
	}
	if s.err != nil {
		return 0, false
	}
	c, n, err := s.r.ReadRune()
	if err != nil {
		s.err = err
		return 0, false
	}
	if c == utf8.RuneError && n == 1 {
		s.err = fmt.Errorf("invalid utf-8 sequence in source text at byte %d", s.pos)
		return 0, false
	}
	s.peeked = true
	s.c, s.n = c, n
	return c, true
}

func (s *Scanner) advance() {
	if !s.peeked {
		return
	}
	s.peeked = false
	s.pos += s.n
	if s.c == '\n' {
		s.line++
		s.col = 1
		return
	}
	s.col++
}
