package language

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"

	"codect/internal/lexer"
	"codect/internal/syntax"
	"codect/internal/token"
)

// JavaScript implements Adapter for ECMAScript, including JSX.
type JavaScript struct{}

func (j *JavaScript) Name() string { return "javascript" }

func (j *JavaScript) Aliases() []string { return []string{"js", "node", "ecmascript"} }

func (j *JavaScript) Grammar() *sitter.Language {
	return javascript.GetLanguage()
}

func (j *JavaScript) Vocabulary() lexer.Vocabulary {
	return lexer.Vocabulary{
		Comments: lexer.Set("comment", "hash_bang_line"),
		Literals: lexer.Set("string", "template_string", "regex", "number", "true", "false", "null", "undefined"),
		Identifiers: lexer.Set(
			"identifier", "property_identifier", "shorthand_property_identifier",
			"shorthand_property_identifier_pattern", "statement_identifier", "private_property_identifier",
		),
		Keywords: lexer.Set("this", "super"),
	}
}

var jsFunctions = lexer.Set(
	"function_declaration", "function_expression", "function", "arrow_function",
	"method_definition", "generator_function_declaration", "generator_function",
)

func (j *JavaScript) Tags() syntax.TagSet {
	return syntax.TagSet{
		Function: jsFunctions,
		Loop:     lexer.Set("for_statement", "for_in_statement", "while_statement", "do_statement"),
		Try:      lexer.Set("try_statement"),
	}
}

// jsContainers hold statements; a function directly inside one (or bound by a declarator)
// is a declared function that documentation could be attached to.
var jsContainers = lexer.Set("program", "statement_block", "class_body", "export_statement", "variable_declarator")

var jsStatementParents = lexer.Set("program", "statement_block", "class_body")

func (j *JavaScript) Extras(root *syntax.Node, src []byte, toks token.Stream) map[string]float64 {
	extras := map[string]float64{
		"documented_function_ratio": 0,
		"arrow_function_ratio":      0,
		"strict_equality_ratio":     0,
		"uses_var":                  0,
	}
	extras["semicolon_consistency"], extras["semicolon_lines"] = semicolonConsistency(src)

	commentEnds := make(map[int]bool)
	strict, loose := 0, 0
	for tok := range toks.Content() {
		switch {
		case tok.Kind == token.Comment:
			commentEnds[tok.EndLine] = true
		case tok.Kind == token.Operator && (tok.Text == "===" || tok.Text == "!=="):
			strict++
		case tok.Kind == token.Operator && (tok.Text == "==" || tok.Text == "!="):
			loose++
		case tok.Kind == token.Keyword && tok.Text == "var":
			extras["uses_var"] = 1
		}
	}
	extras["strict_equality_ratio"] = ratio(strict, strict+loose)

	if root == nil {
		return extras
	}

	var functions, arrows, declared, documented int
	var visit func(n *syntax.Node, parent string, stmtLine int)
	visit = func(n *syntax.Node, parent string, stmtLine int) {
		if jsStatementParents[parent] {
			stmtLine = n.StartLine
		}
		if jsFunctions[n.Tag] {
			functions++
			if n.Tag == "arrow_function" {
				arrows++
			}
			if jsContainers[parent] {
				declared++
				if commentEnds[stmtLine-1] {
					documented++
				}
			}
		}
		for _, c := range n.Children {
			visit(c, n.Tag, stmtLine)
		}
	}
	visit(root, "", root.StartLine)

	extras["documented_function_ratio"] = ratio(documented, declared)
	extras["arrow_function_ratio"] = ratio(arrows, functions)
	return extras
}

// semicolonConsistency is the share of statement-ending lines that follow the majority
// style, with or without a trailing semicolon. Lines closing or opening a block, lines
// continuing an expression, and comments are not statement ends.
func semicolonConsistency(src []byte) (float64, float64) {
	with, total := 0, 0
	for _, line := range strings.Split(strings.ReplaceAll(string(src), "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || hasAnyPrefix(line, "//", "/*", "*") || hasAnySuffix(line, "{", "}", ",", "(", "[", "*/") {
			continue
		}
		total++
		if strings.HasSuffix(line, ";") {
			with++
		}
	}
	if total == 0 {
		return 0, 0
	}
	return float64(max(with, total-with)) / float64(total), float64(total)
}

func hasAnyPrefix(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func hasAnySuffix(s string, suffixes ...string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(s, suffix) {
			return true
		}
	}
	return false
}
