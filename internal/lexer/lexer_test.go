package lexer

import (
	"context"
	"errors"
	"testing"

	"github.com/smacker/go-tree-sitter/python"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codect/internal/parse"
	"codect/internal/token"
)

var testVocab = Vocabulary{
	Comments:    Set("comment"),
	Literals:    Set("string", "integer", "float", "true", "false", "none"),
	Identifiers: Set("identifier"),
}

func tokenize(t *testing.T, src string, limits parse.Limits) (token.Stream, error) {
	t.Helper()
	tree, err := parse.Parse(context.Background(), python.GetLanguage(), []byte(src), limits)
	require.NoError(t, err)
	t.Cleanup(tree.Close)
	return New(testVocab, limits).Tokenize(context.Background(), tree)
}

func collect(s token.Stream) ([]token.Kind, []string) {
	var kinds []token.Kind
	var texts []string
	for tok := range s.All() {
		kinds = append(kinds, tok.Kind)
		texts = append(texts, tok.Text)
	}
	return kinds, texts
}

func TestTokenize_Function(t *testing.T) {
	s, err := tokenize(t, "def add(x, y):\n    return x + y\n", parse.DefaultLimits())
	require.NoError(t, err)

	kinds, texts := collect(s)
	assert.Equal(t, []string{"def", "add", "(", "x", ",", "y", ")", ":", "\n", "return", "x", "+", "y", ""}, texts)
	assert.Equal(t, token.Keyword, kinds[0])
	assert.Equal(t, token.Ident, kinds[1])
	assert.Equal(t, token.Operator, kinds[2])
	assert.Equal(t, token.Newline, kinds[8])
	assert.Equal(t, token.EOF, kinds[len(kinds)-1])
}

func TestTokenize_AtomicLiteralsAndComments(t *testing.T) {
	s, err := tokenize(t, "name = f\"hi {x}\"  # greet\n", parse.DefaultLimits())
	require.NoError(t, err)

	kinds, texts := collect(s)
	assert.Contains(t, texts, "f\"hi {x}\"")
	assert.Contains(t, texts, "# greet")
	assert.Contains(t, kinds, token.Comment)
	assert.Contains(t, kinds, token.Literal)
}

func TestTokenize_MultilineCommentSpan(t *testing.T) {
	s, err := tokenize(t, "x = \"\"\"a\nb\nc\"\"\"\n", parse.DefaultLimits())
	require.NoError(t, err)

	var lit token.Token
	for tok := range s.Content() {
		if tok.Kind == token.Literal {
			lit = tok
		}
	}
	assert.Equal(t, 1, lit.Line)
	assert.Equal(t, 3, lit.EndLine)
}

func TestTokenize_MalformedSource(t *testing.T) {
	s, err := tokenize(t, "print((1)\nx = [\n", parse.DefaultLimits())
	require.NoError(t, err, "tokenization must survive syntax errors")
	assert.Greater(t, s.Len(), 0)
}

func TestTokenize_EmptyAndWhitespace(t *testing.T) {
	for _, src := range []string{"", "   ", "\n\n\t\n"} {
		s, err := tokenize(t, src, parse.DefaultLimits())
		require.NoError(t, err)
		assert.Equal(t, 0, s.Len(), "source %q", src)
		kinds, _ := collect(s)
		assert.Equal(t, []token.Kind{token.EOF}, kinds)
	}
}

func TestTokenize_TokenLimit(t *testing.T) {
	_, err := tokenize(t, "a = b + c + d + e\n", parse.Limits{MaxTokens: 4})
	require.Error(t, err)
	assert.True(t, errors.Is(err, parse.ErrResourceLimitExceeded))
}
