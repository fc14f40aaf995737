package token

import "iter"

// Token is a single lexical unit.
type Token struct {
	Kind    Kind
	Text    string
	Line    int
	EndLine int
}

// Stream is an EOF-terminated token sequence. It can be iterated any number of times.
type Stream struct {
	tokens []Token
}

// NewStream seals toks into a stream, appending the EOF marker on the line after the last token.
func NewStream(toks []Token) Stream {
	last := 1
	if n := len(toks); n > 0 {
		last = toks[n-1].EndLine
	}
	out := make([]Token, len(toks), len(toks)+1)
	copy(out, toks)
	out = append(out, Token{Kind: EOF, Line: last, EndLine: last})
	return Stream{tokens: out}
}

// Len returns the number of tokens, excluding EOF.
func (s Stream) Len() int {
	if len(s.tokens) == 0 {
		return 0
	}
	return len(s.tokens) - 1
}

// At returns the i-th token. At(Len()) is the EOF marker.
func (s Stream) At(i int) Token {
	if i < 0 || i >= len(s.tokens) {
		return Token{Kind: EOF}
	}
	return s.tokens[i]
}

// All yields every token in order, including the trailing EOF.
func (s Stream) All() iter.Seq[Token] {
	return func(yield func(Token) bool) {
		for _, t := range s.tokens {
			if !yield(t) {
				return
			}
		}
		if len(s.tokens) == 0 {
			yield(Token{Kind: EOF, Line: 1, EndLine: 1})
		}
	}
}

// Content yields the tokens that carry source content: no newlines, no EOF.
func (s Stream) Content() iter.Seq[Token] {
	return func(yield func(Token) bool) {
		for _, t := range s.tokens {
			if t.Kind.IsTrivia() {
				continue
			}
			if !yield(t) {
				return
			}
		}
	}
}
