package crawler

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codect/internal/detector"
)

func tree(t *testing.T, files ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, f := range files {
		path := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("x = 1\n"), 0o644))
	}
	return root
}

func rel(t *testing.T, root string, files []File) []string {
	t.Helper()
	var out []string
	for _, f := range files {
		r, err := filepath.Rel(root, f.Path)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(r)+":"+f.Language)
	}
	return out
}

func TestCrawler_ScanProject(t *testing.T) {
	root := tree(t,
		"app/main.py",
		"app/util.js",
		"app/README.md",
		"web/app.min.js",
		"node_modules/lib/index.js",
		".git/hooks/pre-commit.py",
		"generated/out.py",
		"b.mjs",
	)

	c := NewCrawler(detector.New(), "generated")
	files, err := c.Collect(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"app/main.py:python",
		"app/util.js:javascript",
		"b.mjs:javascript",
	}, rel(t, root, files))
}

func TestCrawler_SingleFile(t *testing.T) {
	root := tree(t, "one.py", "two.txt")
	c := NewCrawler(detector.New())

	files, err := c.Collect(context.Background(), filepath.Join(root, "one.py"))
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "python", files[0].Language)

	files, err = c.Collect(context.Background(), filepath.Join(root, "two.txt"))
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestCrawler_StopsOnCallbackError(t *testing.T) {
	root := tree(t, "a.py", "b.py")
	stop := errors.New("stop")

	calls := 0
	err := NewCrawler(detector.New()).ScanProject(context.Background(), root, func(File) error {
		calls++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

func TestCrawler_MissingRoot(t *testing.T) {
	_, err := NewCrawler(detector.New()).Collect(context.Background(), filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
