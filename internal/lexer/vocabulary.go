package lexer

// Vocabulary maps grammar node types to token kinds for one language.
// Node types it does not mention fall back to structural rules: anonymous words are
// keywords, other anonymous leaves are operators.
type Vocabulary struct {
	// Comments are emitted whole, even when the grammar gives them children.
	Comments map[string]bool
	// Literals are emitted whole; string nodes with interpolations stay one token.
	Literals map[string]bool
	// Identifiers are named leaves that name things.
	Identifiers map[string]bool
	// Keywords are named leaves that behave like reserved words (this, super).
	Keywords map[string]bool
	// Skip lists layout-only leaves such as explicit line continuations.
	Skip map[string]bool
}

// Set builds a lookup table from node type names.
func Set(types ...string) map[string]bool {
	m := make(map[string]bool, len(types))
	for _, t := range types {
		m[t] = true
	}
	return m
}
