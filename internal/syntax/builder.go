package syntax

import (
	"errors"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"codect/internal/parse"
)

// ErrSyntax reports that the source did not parse cleanly for the declared language.
var ErrSyntax = errors.New("syntax error")

// Error locates the first syntax error.
type Error struct {
	Line int
	Near string
}

func (e *Error) Error() string {
	if e.Near != "" {
		return fmt.Sprintf("syntax error at line %d near %q", e.Line, e.Near)
	}
	return fmt.Sprintf("syntax error at line %d", e.Line)
}

func (e *Error) Is(target error) bool {
	return target == ErrSyntax
}

// Builder converts tree-sitter trees into syntax trees.
type Builder struct {
	// Drop lists node types that never become syntax nodes (comments).
	Drop   map[string]bool
	limits parse.Limits
}

// NewBuilder creates a builder that drops the given node types.
func NewBuilder(drop map[string]bool, limits parse.Limits) *Builder {
	return &Builder{Drop: drop, limits: limits}
}

// Build returns the syntax tree for tree. A tree containing error recovery yields *Error.
func (b *Builder) Build(tree *parse.Tree) (*Node, error) {
	root := tree.Root()
	if root.HasError() {
		return nil, locateError(tree)
	}

	nodes := 0
	var convert func(n *sitter.Node, depth int) (*Node, error)
	convert = func(n *sitter.Node, depth int) (*Node, error) {
		if b.limits.MaxDepth > 0 && depth > b.limits.MaxDepth {
			return nil, &parse.LimitError{Limit: "depth", Max: b.limits.MaxDepth}
		}
		nodes++
		if b.limits.MaxNodes > 0 && nodes > b.limits.MaxNodes {
			return nil, &parse.LimitError{Limit: "nodes", Max: b.limits.MaxNodes}
		}

		start, end := tree.Span(n)
		out := &Node{
			Tag:       n.Type(),
			StartLine: start,
			EndLine:   end,
			StartByte: parse.Offset(n.StartByte()),
			EndByte:   parse.Offset(n.EndByte()),
		}
		count := int(n.NamedChildCount())
		for i := 0; i < count; i++ {
			child := n.NamedChild(i)
			if child == nil || b.Drop[child.Type()] {
				continue
			}
			c, err := convert(child, depth+1)
			if err != nil {
				return nil, err
			}
			out.Children = append(out.Children, c)
		}
		return out, nil
	}

	return convert(root, 0)
}

// locateError finds the first ERROR or MISSING node in source order.
func locateError(tree *parse.Tree) *Error {
	root := tree.Root()
	cursor := sitter.NewTreeCursor(root)
	defer cursor.Close()

	for {
		n := cursor.CurrentNode()
		if n.IsMissing() {
			return &Error{Line: tree.LineAt(parse.Offset(n.StartByte())), Near: "missing " + n.Type()}
		}
		if n.Type() == "ERROR" {
			near := n.Content(tree.Source)
			if len(near) > 20 {
				near = near[:20]
			}
			return &Error{Line: tree.LineAt(parse.Offset(n.StartByte())), Near: near}
		}
		if n.HasError() && cursor.GoToFirstChild() {
			continue
		}
		for !cursor.GoToNextSibling() {
			if !cursor.GoToParent() {
				return &Error{Line: 1}
			}
		}
	}
}
