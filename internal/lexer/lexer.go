// Package lexer turns a parsed source buffer into a token stream.
//
// Tokens are the leaves of the tree-sitter tree in source order. Because tree-sitter
// recovers from syntax errors, tokenization succeeds on malformed input; leaves inside
// error regions are still emitted so entropy and comment statistics stay meaningful.
package lexer

import (
	"context"
	"unicode"

	sitter "github.com/smacker/go-tree-sitter"

	"codect/internal/parse"
	"codect/internal/token"
)

const cancelCheckInterval = 4096

// Tokenizer emits tokens for one language.
type Tokenizer struct {
	vocab  Vocabulary
	limits parse.Limits
}

// New creates a tokenizer for vocab bounded by limits.
func New(vocab Vocabulary, limits parse.Limits) *Tokenizer {
	return &Tokenizer{vocab: vocab, limits: limits}
}

// Tokenize walks the leaves of tree and returns an EOF-terminated stream.
func (t *Tokenizer) Tokenize(ctx context.Context, tree *parse.Tree) (token.Stream, error) {
	cursor := sitter.NewTreeCursor(tree.Root())
	defer cursor.Close()

	var toks []token.Token
	content := 0
	prevEnd := 0

	for {
		node := cursor.CurrentNode()
		typ := node.Type()

		if !t.atomic(typ) && node.ChildCount() > 0 {
			cursor.GoToFirstChild()
			continue
		}

		if node.EndByte() > node.StartByte() && !t.vocab.Skip[typ] {
			start, end := tree.Span(node)
			if prevEnd > 0 && start > prevEnd {
				toks = append(toks, token.Token{Kind: token.Newline, Text: "\n", Line: prevEnd, EndLine: prevEnd})
			}
			toks = append(toks, token.Token{
				Kind:    t.classify(node),
				Text:    node.Content(tree.Source),
				Line:    start,
				EndLine: end,
			})
			prevEnd = end

			content++
			if t.limits.MaxTokens > 0 && content > t.limits.MaxTokens {
				return token.Stream{}, &parse.LimitError{Limit: "tokens", Max: t.limits.MaxTokens}
			}
			if content%cancelCheckInterval == 0 {
				if err := ctx.Err(); err != nil {
					return token.Stream{}, err
				}
			}
		}

		for !cursor.GoToNextSibling() {
			if !cursor.GoToParent() {
				return token.NewStream(toks), nil
			}
		}
	}
}

func (t *Tokenizer) atomic(typ string) bool {
	return t.vocab.Comments[typ] || t.vocab.Literals[typ]
}

func (t *Tokenizer) classify(node *sitter.Node) token.Kind {
	typ := node.Type()
	switch {
	case t.vocab.Comments[typ]:
		return token.Comment
	case t.vocab.Literals[typ]:
		return token.Literal
	case t.vocab.Identifiers[typ]:
		return token.Ident
	case t.vocab.Keywords[typ]:
		return token.Keyword
	case typ == "ERROR":
		return token.Invalid
	case !node.IsNamed():
		if isWord(typ) {
			return token.Keyword
		}
		return token.Operator
	default:
		return token.Literal
	}
}

func isWord(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && r != '_' {
			return false
		}
	}
	return true
}
