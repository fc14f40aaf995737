// Package language provides the per-language adapters: grammar, token vocabulary,
// tag sets and language-specific features. Everything downstream of an adapter is
// language-neutral.
package language

import (
	sitter "github.com/smacker/go-tree-sitter"

	"codect/internal/lexer"
	"codect/internal/syntax"
	"codect/internal/token"
)

// Adapter defines what each supported language must provide.
type Adapter interface {
	// Name is the canonical language identifier, e.g. "python".
	Name() string
	// Aliases are extra identifiers accepted by the registry, e.g. "py".
	Aliases() []string
	Grammar() *sitter.Language
	Vocabulary() lexer.Vocabulary
	Tags() syntax.TagSet
	// Extras computes language-specific features. root is nil when the source did not
	// parse; implementations then report only token-based values.
	Extras(root *syntax.Node, src []byte, toks token.Stream) map[string]float64
}
