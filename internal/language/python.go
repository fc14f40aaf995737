package language

import (
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"codect/internal/lexer"
	"codect/internal/syntax"
	"codect/internal/token"
)

// Python implements Adapter for Python 3.
type Python struct{}

func (p *Python) Name() string { return "python" }

func (p *Python) Aliases() []string { return []string{"py", "python3"} }

func (p *Python) Grammar() *sitter.Language {
	return python.GetLanguage()
}

func (p *Python) Vocabulary() lexer.Vocabulary {
	return lexer.Vocabulary{
		Comments:    lexer.Set("comment"),
		Literals:    lexer.Set("string", "integer", "float", "true", "false", "none", "ellipsis"),
		Identifiers: lexer.Set("identifier"),
		Skip:        lexer.Set("line_continuation"),
	}
}

func (p *Python) Tags() syntax.TagSet {
	return syntax.TagSet{
		Function: lexer.Set("function_definition", "lambda"),
		Loop:     lexer.Set("for_statement", "while_statement"),
		Try:      lexer.Set("try_statement"),
	}
}

var pythonComprehensions = lexer.Set(
	"list_comprehension", "dictionary_comprehension", "set_comprehension", "generator_expression",
)

func (p *Python) Extras(root *syntax.Node, src []byte, toks token.Stream) map[string]float64 {
	extras := map[string]float64{
		"documented_function_ratio": 0,
		"has_main_guard":            0,
		"uses_comprehensions":       0,
		"uses_f_strings":            0,
		"import_organization":       importOrganization(src),
	}

	for tok := range toks.Content() {
		if tok.Kind == token.Literal && isFString(tok.Text) {
			extras["uses_f_strings"] = 1
			break
		}
	}

	if root == nil {
		return extras
	}

	functions, documented := 0, 0
	for n := range root.Walk() {
		switch {
		case n.Tag == "function_definition":
			functions++
			if hasDocstring(n) {
				documented++
			}
		case n.Tag == "if_statement" && isMainGuard(n, src):
			extras["has_main_guard"] = 1
		case pythonComprehensions[n.Tag]:
			extras["uses_comprehensions"] = 1
		}
	}
	extras["documented_function_ratio"] = ratio(documented, functions)

	return extras
}

// hasDocstring reports whether the function body opens with a string expression.
func hasDocstring(fn *syntax.Node) bool {
	body := fn.FirstChild("block")
	if body == nil || len(body.Children) == 0 {
		return false
	}
	first := body.Children[0]
	if first.Tag != "expression_statement" || len(first.Children) == 0 {
		return false
	}
	return first.Children[0].Tag == "string" || first.Children[0].Tag == "concatenated_string"
}

func isMainGuard(n *syntax.Node, src []byte) bool {
	if len(n.Children) == 0 {
		return false
	}
	cond := strings.Join(strings.Fields(n.Children[0].Text(src)), "")
	cond = strings.ReplaceAll(cond, "'", `"`)
	return cond == `__name__=="__main__"` || cond == `"__main__"==__name__`
}

func isFString(lit string) bool {
	prefix, _, found := strings.Cut(lit, `"`)
	if !found || strings.Contains(prefix, "'") {
		prefix, _, found = strings.Cut(lit, "'")
	}
	return found && len(prefix) <= 3 && strings.ContainsAny(prefix, "fF")
}

// importOrganization scores how many runs of consecutive import lines are sorted.
func importOrganization(src []byte) float64 {
	type importLine struct {
		index int
		text  string
	}
	var imports []importLine
	for i, line := range strings.Split(string(src), "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "import ") || strings.HasPrefix(trimmed, "from ") {
			imports = append(imports, importLine{i, trimmed})
		}
	}
	if len(imports) < 2 {
		return 0
	}

	var groups [][]string
	current := []string{imports[0].text}
	for i := 1; i < len(imports); i++ {
		if imports[i].index-imports[i-1].index == 1 {
			current = append(current, imports[i].text)
			continue
		}
		groups = append(groups, current)
		current = []string{imports[i].text}
	}
	groups = append(groups, current)

	sorted := 0
	for _, g := range groups {
		if sort.StringsAreSorted(g) {
			sorted++
		}
	}
	return float64(sorted) / float64(len(groups))
}
