package features

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"codect/internal/syntax"
	"codect/internal/token"
)

const longLineWidth = 100

var (
	todoRe          = regexp.MustCompile(`(?i)\b(TODO|FIXME|HACK|XXX|BUG)\b`)
	debugPrintRe    = regexp.MustCompile(`print\s*\(\s*(f|r)?["'](?i:debug)|console\.(log|debug)\s*\(|\bdebugger\b`)
	genericNameRe   = regexp.MustCompile(`(?i)\b(foo|bar|baz|example|sample|demo|test)\b`)
	commentedCodeRe = regexp.MustCompile(`^(if|for|while|def|class|import|return|function|const|let|var)\b[\s(]`)
	placeholderRe   = regexp.MustCompile(`(?i)\b(your|insert|replace)\b|\b(todo|fixme):|\b(your|my|some)[-_]\w`)
)

// ordinaryNumbers are literals common enough not to count as magic.
var ordinaryNumbers = map[float64]bool{0: true, 1: true, 2: true, 10: true, 100: true, 1000: true}

// loopVariables are single-letter names conventional enough not to count against naming.
const loopVariables = "ijkxyzn"

// tokenFeatures are computed from the source text and tokens alone, so they survive a
// failed parse.
func tokenFeatures(src []byte, toks token.Stream, entropy float64) map[string]float64 {
	out := make(map[string]float64)

	distinct := make(map[string]struct{})
	var identifiers []string
	var comments []string
	var literals []string
	count := 0
	for tok := range toks.Content() {
		count++
		distinct[tok.Text] = struct{}{}
		switch tok.Kind {
		case token.Ident:
			identifiers = append(identifiers, tok.Text)
		case token.Comment:
			comments = append(comments, tok.Text)
		case token.Literal:
			literals = append(literals, tok.Text)
		}
	}
	out["token_count"] = float64(count)
	out["distinct_tokens"] = float64(len(distinct))
	if count >= 2 {
		out["normalized_entropy"] = entropy / math.Log2(float64(count))
	} else {
		out["normalized_entropy"] = 0
	}

	lines := splitLines(string(src))
	out["indentation_consistency"] = indentationConsistency(lines)
	out["quote_consistency"], out["quote_count"] = quoteConsistency(string(src))

	out["identifier_count"] = float64(len(identifiers))
	out["naming_consistency"] = namingConsistency(identifiers)
	out["single_letter_ratio"], out["avg_identifier_length"] = identifierShape(identifiers)

	out["generic_name_score"] = 0
	if len(lines) > 0 {
		hits := len(genericNameRe.FindAllStringIndex(string(src), -1))
		out["generic_name_score"] = min(float64(hits)/float64(len(lines)), 1)
	}

	out["has_todo_comments"] = 0
	out["has_commented_code"] = 0
	for _, c := range comments {
		if todoRe.MatchString(c) {
			out["has_todo_comments"] = 1
		}
		if commentedCodeRe.MatchString(commentBody(c)) {
			out["has_commented_code"] = 1
		}
	}
	out["has_debug_prints"] = flag(debugPrintRe.Match(src))
	out["placeholder_score"] = min(float64(len(placeholderRe.FindAllIndex(src, -1)))/10, 1)

	out["has_magic_numbers"] = 0
	for _, lit := range literals {
		if n, ok := numericValue(lit); ok && !ordinaryNumbers[n] {
			out["has_magic_numbers"] = 1
			break
		}
	}

	out["has_trailing_whitespace"] = 0
	out["has_long_lines"] = 0
	for _, line := range lines {
		if strings.TrimRight(line, " \t") != line {
			out["has_trailing_whitespace"] = 1
		}
		if runewidth.StringWidth(line) > longLineWidth {
			out["has_long_lines"] = 1
		}
	}

	return out
}

// treeFeatures need a syntax tree; they are zero without one.
func treeFeatures(root *syntax.Node, tags syntax.TagSet) map[string]float64 {
	out := map[string]float64{
		"function_length_variance": 0,
		"pattern_repetition":       0,
	}
	if root == nil {
		return out
	}

	var lengths []float64
	var statements []string
	for n := range root.Walk() {
		if tags.Function[n.Tag] {
			lengths = append(lengths, float64(n.Lines()))
		}
		if isStatement(n.Tag) {
			statements = append(statements, n.Tag)
		}
	}
	out["function_length_variance"] = stdDev(lengths)
	out["pattern_repetition"] = patternRepetition(statements)
	return out
}

func splitLines(src string) []string {
	if src == "" {
		return nil
	}
	src = strings.ReplaceAll(src, "\r\n", "\n")
	src = strings.ReplaceAll(src, "\r", "\n")
	lines := strings.Split(src, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// indentationConsistency is 1 when every indent is a multiple of the smallest one,
// 0.5 when not, and 0 when nothing is indented.
func indentationConsistency(lines []string) float64 {
	var indents []int
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if indent := len(line) - len(strings.TrimLeft(line, " \t")); indent > 0 {
			indents = append(indents, indent)
		}
	}
	if len(indents) == 0 {
		return 0
	}
	base := indents[0]
	for _, i := range indents {
		base = min(base, i)
	}
	for _, i := range indents {
		if i%base != 0 {
			return 0.5
		}
	}
	return 1
}

func quoteConsistency(src string) (float64, float64) {
	single := strings.Count(src, "'")
	double := strings.Count(src, `"`)
	total := single + double
	if total == 0 {
		return 0, 0
	}
	return float64(max(single, double)) / float64(total), float64(total)
}

type namingStyle int

const (
	styleLower namingStyle = iota
	styleSnake
	styleCamel
	stylePascal
	styleUpper
	styleMixed
)

func classifyName(name string) namingStyle {
	var hasUpper, hasLower, hasUnderscore bool
	for _, r := range name {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case r == '_':
			hasUnderscore = true
		}
	}
	first, _ := utf8.DecodeRuneInString(strings.TrimLeft(name, "_"))
	switch {
	case hasUpper && !hasLower:
		return styleUpper
	case !hasUpper && hasUnderscore:
		return styleSnake
	case !hasUpper:
		return styleLower
	case hasUnderscore:
		return styleMixed
	case unicode.IsUpper(first):
		return stylePascal
	default:
		return styleCamel
	}
}

// namingConsistency is the share of distinct multi-letter identifiers that follow the
// dominant style. All-lowercase single words fit both snake_case and camelCase.
func namingConsistency(identifiers []string) float64 {
	counts := make(map[namingStyle]int)
	seen := make(map[string]struct{})
	for _, name := range identifiers {
		if utf8.RuneCountInString(name) < 2 {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		counts[classifyName(name)]++
	}
	if len(seen) == 0 {
		return 0
	}

	best := max(
		counts[styleSnake]+counts[styleLower],
		counts[styleCamel]+counts[styleLower],
		counts[stylePascal],
		counts[styleUpper],
	)
	return float64(best) / float64(len(seen))
}

func identifierShape(identifiers []string) (singleLetterRatio, avgLength float64) {
	if len(identifiers) == 0 {
		return 0, 0
	}
	single, total := 0, 0
	for _, name := range identifiers {
		n := utf8.RuneCountInString(name)
		total += n
		if n == 1 && !strings.Contains(loopVariables, name) {
			single++
		}
	}
	return float64(single) / float64(len(identifiers)), float64(total) / float64(len(identifiers))
}

// numericValue parses a number literal in python or javascript syntax. Strings, booleans
// and other literals report false.
func numericValue(lit string) (float64, bool) {
	lit = strings.ReplaceAll(lit, "_", "")
	lit = strings.TrimRight(lit, "njJlL")
	if lit == "" || !strings.ContainsAny(lit[:1], "0123456789.") {
		return 0, false
	}
	if i, err := strconv.ParseInt(lit, 0, 64); err == nil {
		return float64(i), true
	}
	if f, err := strconv.ParseFloat(lit, 64); err == nil {
		return f, true
	}
	return 0, false
}

func commentBody(c string) string {
	c = strings.TrimSpace(c)
	for _, marker := range []string{"#", "//", "/*", "*"} {
		c = strings.TrimPrefix(c, marker)
	}
	c = strings.TrimSuffix(c, "*/")
	return strings.TrimSpace(c) + " "
}

func isStatement(tag string) bool {
	return strings.HasSuffix(tag, "_statement") ||
		strings.HasSuffix(tag, "_definition") ||
		strings.HasSuffix(tag, "_declaration")
}

// patternRepetition is the count of the most repeated statement-tag trigram relative to
// the number of statements.
func patternRepetition(statements []string) float64 {
	if len(statements) < 5 {
		return 0
	}
	counts := make(map[[3]string]int)
	best := 0
	for i := 0; i+2 < len(statements); i++ {
		key := [3]string{statements[i], statements[i+1], statements[i+2]}
		counts[key]++
		best = max(best, counts[key])
	}
	return min(float64(best)/float64(len(statements)), 1)
}

func stdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	variance := 0.0
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	return math.Sqrt(variance / float64(len(values)))
}

func flag(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
