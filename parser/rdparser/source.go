// Copyright © 2018 The ELPS authors

package rdparser

import (
	"github.com/luthersystems/minilisp/parser/token"
)

// TokenStream is an arbitrary sequence of tokens.  Typically, a TokenStream
// will be a *token.Scanner but other implementations may be desirable, for
// instance to parse a token slice produced by token.Tokenize.
type TokenStream interface {
	// ReadToken returns a set of tokens from an input source.  When no more
	// tokens can be generated ReadToken returns a token with type token.EOF.
	// ReadToken never returns an empty slice.  In the presence of io errors a
	// TokenStream must return a token with type token.ERROR whenever called.
	ReadToken() []*token.Token
}

// TokenGenerator implements TokenStream.  The function will be called any time
// a TokenSource wants a token.
type TokenGenerator func() []*token.Token

// ReadToken implements TokenStream.
func (fn TokenGenerator) ReadToken() []*token.Token {
	return fn()
}

// TokenSlice returns a TokenStream that yields toks in order followed by EOF
// tokens.
func TokenSlice(toks []*token.Token) TokenStream {
	pos := &token.Location{}
	return TokenGenerator(func() []*token.Token {
		if len(toks) == 0 {
			return []*token.Token{{Type: token.EOF, Source: pos}}
		}
		tok := toks[0]
		toks = toks[1:]
		pos = tok.Source
		return []*token.Token{tok}
	})
}

// TokenSource abstracts a TokenStream by adding "memory" and providing methods
// to process and branch off the stream's tokens.
type TokenSource struct {
	lex   TokenStream
	Token *token.Token
	peek  []*token.Token
}

func NewTokenStreamSource(stream TokenStream) *TokenSource {
	return &TokenSource{
		lex: stream,
	}
}

// NewTokenSource initializes and returns a new TokenSource that scans tokens
// from scanner.
func NewTokenSource(scanner *token.Scanner) *TokenSource {
	return NewTokenStreamSource(scanner)
}

func (s *TokenSource) Peek() *token.Token {
	if len(s.peek) > 0 {
		return s.peek[0]
	}
	s.peek = s.lex.ReadToken()
	return s.peek[0]
}

func (s *TokenSource) AcceptType(typ ...token.Type) bool {
	for _, typ := range typ {
		if s.Peek().Type == typ {
			s.scan()
			return true
		}
	}
	return false
}

func (s *TokenSource) Scan() bool {
	if s.IsEOF() {
		s.Token = s.Peek()
		return false
	}
	s.scan()
	return true
}

func (s *TokenSource) IsEOF() bool {
	return s.Peek().Type == token.EOF
}

func (s *TokenSource) scan() {
	s.Token = s.Peek()
	s.peek = s.peek[1:]
}
