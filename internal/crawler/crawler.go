package crawler

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Detector names the language of a path, or "unknown".
type Detector interface {
	DetectPath(path string) string
}

// File is one analysable source file.
type File struct {
	Path     string
	Language string
}

// Crawler scans a directory for source files.
type Crawler struct {
	detector Detector
	ignored  []string
}

// DefaultIgnored lists directory names that are never descended into.
var DefaultIgnored = []string{".git", ".hg", "vendor", "node_modules", "__pycache__", ".venv", "venv", ".tox", "dist", "build"}

// NewCrawler creates a crawler that also skips the extra directory names in exclude.
func NewCrawler(d Detector, exclude ...string) *Crawler {
	return &Crawler{
		detector: d,
		ignored:  append(slices.Clone(DefaultIgnored), exclude...),
	}
}

// ScanProject walks root in lexical order and calls onFile for each file with a known
// language. root may also be a single file. An error from onFile stops the walk.
func (c *Crawler) ScanProject(ctx context.Context, root string, onFile func(File) error) error {
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		if lang := c.detector.DetectPath(root); lang != "unknown" {
			return onFile(File{Path: root, Language: lang})
		}
		return nil
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if d.IsDir() {
			if path != root && slices.Contains(c.ignored, d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || isGenerated(d.Name()) {
			return nil
		}

		lang := c.detector.DetectPath(path)
		if lang == "unknown" {
			return nil
		}
		return onFile(File{Path: path, Language: lang})
	})
}

// Collect returns every file ScanProject would visit.
func (c *Crawler) Collect(ctx context.Context, root string) ([]File, error) {
	var files []File
	err := c.ScanProject(ctx, root, func(f File) error {
		files = append(files, f)
		return nil
	})
	return files, err
}

// isGenerated matches bundler output that is not worth classifying.
func isGenerated(name string) bool {
	return strings.HasSuffix(name, ".min.js") || strings.HasSuffix(name, ".bundle.js")
}
