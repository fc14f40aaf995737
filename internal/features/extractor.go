package features

import (
	"errors"
	"fmt"
	"math"

	"codect/internal/syntax"
	"codect/internal/token"
)

// ErrPartialFeatures signals that the syntax tree was unavailable and AST-based features
// are reported as zero. It accompanies a usable vector.
var ErrPartialFeatures = errors.New("partial features")

// PartialError carries the reason the tree was unavailable.
type PartialError struct {
	Cause error
}

func (e *PartialError) Error() string {
	if e.Cause == nil {
		return ErrPartialFeatures.Error()
	}
	return fmt.Sprintf("%s: %v", ErrPartialFeatures, e.Cause)
}

func (e *PartialError) Is(target error) bool {
	return target == ErrPartialFeatures
}

func (e *PartialError) Unwrap() error {
	return e.Cause
}

// ExtraFunc computes language-specific features; root is nil for partial analyses.
type ExtraFunc func(root *syntax.Node, src []byte, toks token.Stream) map[string]float64

// Input is everything the extractor reads.
type Input struct {
	Source []byte
	Tokens token.Stream
	// Root is nil when the source failed to parse; ParseErr then says why.
	Root     *syntax.Node
	ParseErr error
	Tags     syntax.TagSet
	Extras   ExtraFunc
}

// Extract computes the feature vector. When in.Root is nil it still returns the vector,
// together with a *PartialError.
func Extract(in Input) (*Vector, error) {
	v := &Vector{Extra: make(map[string]float64)}

	v.TotalLines = CountLines(in.Source)
	v.TokenEntropy = Entropy(in.Tokens)
	v.CommentRatio = commentRatio(in.Tokens, v.TotalLines)

	if in.Root != nil {
		v.FunctionCount, v.LoopCount, v.TryExceptCount = in.Tags.Counts(in.Root)
		v.MaxASTDepth = MaxDepth(in.Root)
	}
	tryPerFunction := 0.0
	if v.FunctionCount > 0 {
		tryPerFunction = float64(v.TryExceptCount) / float64(v.FunctionCount)
	}
	v.put("try_per_function", tryPerFunction)

	for k, val := range tokenFeatures(in.Source, in.Tokens, v.TokenEntropy) {
		v.put(k, val)
	}
	for k, val := range treeFeatures(in.Root, in.Tags) {
		v.put(k, val)
	}
	if in.Extras != nil {
		for k, val := range in.Extras(in.Root, in.Source, in.Tokens) {
			if isFixed(k) {
				continue
			}
			v.put(k, val)
		}
	}

	if in.Root == nil {
		return v, &PartialError{Cause: in.ParseErr}
	}
	return v, nil
}

// CountLines counts line terminators (\n, \r\n, lone \r), plus one for a final
// unterminated line. Empty input has zero lines.
func CountLines(src []byte) int {
	lines := 0
	for i := 0; i < len(src); i++ {
		switch src[i] {
		case '\n':
			lines++
		case '\r':
			lines++
			if i+1 < len(src) && src[i+1] == '\n' {
				i++
			}
		}
	}
	if n := len(src); n > 0 && src[n-1] != '\n' && src[n-1] != '\r' {
		lines++
	}
	return lines
}

// Entropy is the Shannon entropy in bits of the distribution of token texts,
// ignoring newline and EOF tokens.
func Entropy(toks token.Stream) float64 {
	counts := make(map[string]int)
	total := 0
	for tok := range toks.Content() {
		counts[tok.Text]++
		total++
	}
	if total == 0 || len(counts) < 2 {
		return 0
	}

	h := 0.0
	for _, c := range counts {
		p := float64(c) / float64(total)
		h += p * math.Log2(1/p)
	}
	return finite(h)
}

// MaxDepth returns the deepest node depth, counting the root as depth 0.
func MaxDepth(root *syntax.Node) int {
	deepest := 0
	for _, d := range root.Walk() {
		if d > deepest {
			deepest = d
		}
	}
	return deepest
}

func commentRatio(toks token.Stream, totalLines int) float64 {
	if totalLines == 0 {
		return 0
	}
	lines := make(map[int]struct{})
	for tok := range toks.Content() {
		if tok.Kind != token.Comment {
			continue
		}
		for l := tok.Line; l <= tok.EndLine; l++ {
			lines[l] = struct{}{}
		}
	}
	return min(float64(len(lines))/float64(totalLines), 1)
}
