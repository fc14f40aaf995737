package token

// Kind represents the lexical category of a token.
type Kind uint8

const (
	// Invalid marks a leaf the grammar could not place (inside an error region).
	Invalid Kind = iota
	// EOF marks the end of the token stream.
	EOF
	// Ident represents an identifier.
	Ident
	// Keyword represents a reserved word of the language.
	Keyword
	// Operator represents an operator or punctuation.
	Operator
	// Literal represents a numeric, string, boolean or null literal.
	Literal
	// Comment represents a line or block comment.
	Comment
	// Newline separates tokens that sit on different lines.
	Newline
)

var kindNames = [...]string{
	Invalid:  "invalid",
	EOF:      "eof",
	Ident:    "identifier",
	Keyword:  "keyword",
	Operator: "operator",
	Literal:  "literal",
	Comment:  "comment",
	Newline:  "newline",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsTrivia reports whether tokens of this kind are layout rather than content.
func (k Kind) IsTrivia() bool {
	return k == Newline || k == EOF
}
