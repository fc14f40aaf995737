package language

import (
	"context"

	"codect/internal/lexer"
	"codect/internal/parse"
	"codect/internal/syntax"
)

// Binding is the per-language toolset for one analysis.
type Binding struct {
	Adapter   Adapter
	Tokenizer *lexer.Tokenizer
	Builder   *syntax.Builder
	Tags      syntax.TagSet
	limits    parse.Limits
}

// Parse runs the adapter's grammar over src. The tree feeds both the tokenizer and the builder.
func (b *Binding) Parse(ctx context.Context, src []byte) (*parse.Tree, error) {
	return parse.Parse(ctx, b.Adapter.Grammar(), src, b.limits)
}
