// Package detector guesses the language of a snippet from its filename and content.
package detector

import (
	"bufio"
	"bytes"
	"path/filepath"
	"regexp"
	"strings"
)

// Unknown is returned when no rule matches.
const Unknown = "unknown"

// Detector maps filenames, shebangs and content markers to language names.
type Detector struct {
	extensionMap   map[string]string
	interpreterMap map[string]string
	markers        map[string][]*regexp.Regexp
}

// New seeds the detector with the languages codect can analyse.
func New() *Detector {
	d := &Detector{
		extensionMap:   make(map[string]string),
		interpreterMap: make(map[string]string),
		markers:        make(map[string][]*regexp.Regexp),
	}
	for _, ext := range []string{".py", ".pyw", ".pyi"} {
		d.extensionMap[ext] = "python"
	}
	for _, ext := range []string{".js", ".mjs", ".cjs", ".jsx"} {
		d.extensionMap[ext] = "javascript"
	}
	d.interpreterMap["python"] = "python"
	d.interpreterMap["python3"] = "python"
	d.interpreterMap["python2"] = "python"
	d.interpreterMap["node"] = "javascript"
	d.interpreterMap["nodejs"] = "javascript"
	d.interpreterMap["deno"] = "javascript"
	d.interpreterMap["bun"] = "javascript"

	d.markers["python"] = compile(
		`^\s*def \w+\s*\(.*\)\s*(->.*)?:\s*$`,
		`^\s*class \w+(\(.*\))?:\s*$`,
		`^\s*(from [\w.]+ )?import [\w., ]+$`,
		`^\s*(elif|except|finally|with)\b.*:\s*$`,
		`^\s*if __name__ == ['"]__main__['"]:`,
		`\bself\.\w+`,
		`\bprint\(`,
		`\b(True|False|None)\b`,
	)
	d.markers["javascript"] = compile(
		`^\s*function\*?\s*\w*\s*\(`,
		`^\s*(const|let|var) \w+\s*=`,
		`=>`,
		`\bconsole\.\w+\(`,
		`[!=]==`,
		`\brequire\(['"]`,
		`^\s*(export|import) .*from ['"]`,
		`;\s*$`,
		`\b(null|undefined)\b`,
	)
	return d
}

func compile(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, regexp.MustCompile(p))
	}
	return out
}

// Detect returns the best-effort language for a file path and its content.
// Either argument may be empty.
func (d *Detector) Detect(path string, content []byte) string {
	if path != "" {
		if lang := d.DetectPath(path); lang != Unknown {
			return lang
		}
	}
	if lang := d.shebang(content); lang != Unknown {
		return lang
	}
	return d.byContent(content)
}

// DetectPath looks only at the filename.
func (d *Detector) DetectPath(path string) string {
	if lang, ok := d.extensionMap[strings.ToLower(filepath.Ext(path))]; ok {
		return lang
	}
	return Unknown
}

// Extensions returns a copy of the extension-to-language map.
func (d *Detector) Extensions() map[string]string {
	out := make(map[string]string, len(d.extensionMap))
	for k, v := range d.extensionMap {
		out[k] = v
	}
	return out
}

func (d *Detector) shebang(content []byte) string {
	if !bytes.HasPrefix(content, []byte("#!")) {
		return Unknown
	}
	line, _, _ := bytes.Cut(content[2:], []byte("\n"))
	fields := strings.Fields(string(line))
	if len(fields) == 0 {
		return Unknown
	}
	interp := filepath.Base(fields[0])
	// #!/usr/bin/env [-S] python3
	if interp == "env" {
		interp = ""
		for _, f := range fields[1:] {
			if !strings.HasPrefix(f, "-") {
				interp = f
				break
			}
		}
	}
	if lang, ok := d.interpreterMap[interp]; ok {
		return lang
	}
	return Unknown
}

func (d *Detector) byContent(content []byte) string {
	if len(bytes.TrimSpace(content)) == 0 {
		return Unknown
	}

	hits := make(map[string]int, len(d.markers))
	sc := bufio.NewScanner(bytes.NewReader(content))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		line := sc.Text()
		for lang, rules := range d.markers {
			for _, re := range rules {
				if re.MatchString(line) {
					hits[lang]++
				}
			}
		}
	}

	py, js := hits["python"], hits["javascript"]
	switch {
	case py > js:
		return "python"
	case js > py:
		return "javascript"
	default:
		return Unknown
	}
}
