// Package syntax holds the language-neutral syntax tree the feature extractor walks.
package syntax

import "iter"

// Node is a named grammar node. Children are owned by their parent; a tree has one root
// and no cycles.
type Node struct {
	Tag       string  `json:"tag"`
	Children  []*Node `json:"children,omitempty"`
	StartLine int     `json:"start_line"`
	EndLine   int     `json:"end_line"`
	StartByte int     `json:"-"`
	EndByte   int     `json:"-"`
}

// Text returns the source slice the node spans.
func (n *Node) Text(src []byte) string {
	if n == nil || n.StartByte < 0 || n.EndByte > len(src) || n.StartByte > n.EndByte {
		return ""
	}
	return string(src[n.StartByte:n.EndByte])
}

// Lines returns the number of source lines the node spans.
func (n *Node) Lines() int {
	if n == nil {
		return 0
	}
	return n.EndLine - n.StartLine + 1
}

// FirstChild returns the first child with the given tag, or nil.
func (n *Node) FirstChild(tag string) *Node {
	for _, c := range n.Children {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

// Walk yields every node of the tree in pre-order together with its depth (root = 0).
func (n *Node) Walk() iter.Seq2[*Node, int] {
	return func(yield func(*Node, int) bool) {
		if n == nil {
			return
		}
		type frame struct {
			node  *Node
			depth int
		}
		stack := []frame{{n, 0}}
		for len(stack) > 0 {
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !yield(f.node, f.depth) {
				return
			}
			for i := len(f.node.Children) - 1; i >= 0; i-- {
				stack = append(stack, frame{f.node.Children[i], f.depth + 1})
			}
		}
	}
}
