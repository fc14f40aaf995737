package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codect/internal/engine"
	"codect/internal/report"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "none.yaml")}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestLanguagesCmd(t *testing.T) {
	out, err := run(t, "", "languages")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "javascript"))
	assert.Contains(t, lines[0], ".mjs")
	assert.True(t, strings.HasPrefix(lines[1], "python"))
	assert.Contains(t, lines[1], ".pyw")
}

func TestAnalyzeCmd_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "add.py")
	require.NoError(t, os.WriteFile(path, []byte("def add(x, y):\n    return x + y\n"), 0o644))

	out, err := run(t, "", "analyze", path, "--json", "--detailed")
	require.NoError(t, err)

	var res engine.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 0, res.Result)
	assert.Equal(t, "python", res.Language)
	require.NotNil(t, res.Features)
	assert.Equal(t, 1, res.Features.FunctionCount)
}

func TestAnalyzeCmd_Stdin(t *testing.T) {
	out, err := run(t, "const a = 1;\n", "analyze", "-", "--language", "js", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"language": "javascript"`)
}

func TestAnalyzeCmd_Errors(t *testing.T) {
	_, err := run(t, "fn main() {}", "analyze", "-l", "rust")
	require.Error(t, err)
	assert.ErrorIs(t, err, engine.ErrUnsupportedLanguage)

	_, err = run(t, "hello", "analyze")
	assert.ErrorIs(t, err, engine.ErrLanguageRequired)

	_, err = run(t, "", "analyze", filepath.Join(t.TempDir(), "missing.py"))
	assert.Error(t, err)

	_, err = run(t, "x = 1", "analyze", "-l", "python", "--format", "xml")
	assert.Error(t, err)
}

func TestScanCmd(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.py"), []byte("x = 1\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.js"), []byte("let b = 2;\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "c.txt"), []byte("notes"), 0o644))

	out, err := run(t, "", "scan", dir, "--format", "json", "--jobs", "2")
	require.NoError(t, err)

	var rep report.ScanReport
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	require.Len(t, rep.Files, 2)
	assert.Equal(t, 2, rep.Summary.Files)
	assert.Equal(t, 0, rep.Summary.Failed)
}

func TestVersionCmd(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, Version)
}
