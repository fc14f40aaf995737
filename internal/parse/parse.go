// Package parse runs tree-sitter over a source buffer and hands the concrete tree to the
// tokenizer and the syntax-tree builder, so one analysis parses its input exactly once.
package parse

import (
	"context"
	"fmt"
	"sort"

	"fortio.org/safecast"
	sitter "github.com/smacker/go-tree-sitter"
)

// Tree is a parsed source buffer. Close releases the tree-sitter memory.
type Tree struct {
	tree   *sitter.Tree
	Source []byte
	// lineStarts holds the byte offset of every line start.
	lineStarts []int
}

// Parse parses src with grammar. Malformed source still yields a tree; errors are
// reported only for oversized input or cancellation.
func Parse(ctx context.Context, grammar *sitter.Language, src []byte, limits Limits) (*Tree, error) {
	if limits.MaxBytes > 0 && len(src) > limits.MaxBytes {
		return nil, &LimitError{Limit: "bytes", Max: limits.MaxBytes, Got: len(src)}
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(grammar)

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse source: %w", err)
	}
	return &Tree{tree: tree, Source: src, lineStarts: lineStarts(src)}, nil
}

// lineStarts splits on \n, \r\n and lone \r, matching how lines are counted.
// Tree-sitter rows only advance on \n.
func lineStarts(src []byte) []int {
	starts := []int{0}
	for i := 0; i < len(src); i++ {
		switch src[i] {
		case '\n':
			starts = append(starts, i+1)
		case '\r':
			if i+1 < len(src) && src[i+1] == '\n' {
				i++
			}
			starts = append(starts, i+1)
		}
	}
	return starts
}

// LineAt returns the 1-based line holding byte offset off.
func (t *Tree) LineAt(off int) int {
	return sort.SearchInts(t.lineStarts, off+1)
}

// Span returns the 1-based first and last lines covered by n.
func (t *Tree) Span(n *sitter.Node) (int, int) {
	start, end := Offset(n.StartByte()), Offset(n.EndByte())
	first := t.LineAt(start)
	if end <= start {
		return first, first
	}
	return first, t.LineAt(end - 1)
}

// Root returns the root node of the concrete syntax tree.
func (t *Tree) Root() *sitter.Node {
	return t.tree.RootNode()
}

// HasError reports whether tree-sitter had to recover from a syntax error.
func (t *Tree) HasError() bool {
	return t.Root().HasError()
}

// Close frees the underlying tree.
func (t *Tree) Close() {
	if t != nil && t.tree != nil {
		t.tree.Close()
	}
}

// Offset converts a tree-sitter byte offset to an int.
func Offset(b uint32) int {
	off, err := safecast.Conv[int](b)
	if err != nil {
		panic(fmt.Errorf("byte offset overflow: %w", err))
	}
	return off
}
