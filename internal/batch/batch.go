// Package batch analyses many files in parallel.
package batch

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"codect/internal/crawler"
	"codect/internal/engine"
	"codect/internal/logger"
)

// Analyzer is satisfied by *engine.Engine.
type Analyzer interface {
	Analyze(ctx context.Context, req engine.Request) (*engine.Result, error)
}

// Item is the outcome for one file. Exactly one of Result and Err is set.
type Item struct {
	Path     string         `json:"path" msgpack:"path"`
	Language string         `json:"language" msgpack:"language"`
	Result   *engine.Result `json:"result,omitempty" msgpack:"result,omitempty"`
	Err      error          `json:"-" msgpack:"-"`
	// ErrCode mirrors engine.Code(Err) for serialised output.
	ErrCode string `json:"error,omitempty" msgpack:"error,omitempty"`
	// ChangedLines is filled by diff-driven runs.
	ChangedLines int `json:"changed_lines,omitempty" msgpack:"changed_lines,omitempty"`
}

// Runner fans analyses out over a bounded number of goroutines.
type Runner struct {
	analyzer Analyzer
	jobs     int
	detailed bool
}

// NewRunner returns a runner using jobs goroutines; jobs <= 0 means GOMAXPROCS.
func NewRunner(a Analyzer, jobs int, detailed bool) *Runner {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	return &Runner{analyzer: a, jobs: jobs, detailed: detailed}
}

// Run analyses files and returns items in input order. Per-file failures are recorded on
// the item; only cancellation aborts the run.
func (r *Runner) Run(ctx context.Context, files []crawler.File) ([]Item, error) {
	items := make([]Item, len(files))
	if len(files) == 0 {
		return items, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(r.jobs, len(files)))

	for i, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			items[i] = r.analyzeFile(gctx, f)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *Runner) analyzeFile(ctx context.Context, f crawler.File) Item {
	item := Item{Path: f.Path, Language: f.Language}

	data, err := os.ReadFile(f.Path)
	if err != nil {
		item.Err = fmt.Errorf("read %s: %w", f.Path, err)
		item.ErrCode = engine.CodeInternal
		return item
	}

	res, err := r.analyzer.Analyze(ctx, engine.Request{
		Code:     string(data),
		Language: f.Language,
		Filename: f.Path,
		Detailed: r.detailed,
	})
	if err != nil {
		item.Err = err
		item.ErrCode = engine.Code(err)
		logger.Warn("analysis failed", "file", f.Path, "err", err)
		return item
	}
	if res.Partial {
		logger.Debug("partial analysis", "file", f.Path, "warning", res.Warning)
	}
	item.Result = res
	return item
}

// Summary aggregates a run.
type Summary struct {
	Files     int            `json:"files" msgpack:"files"`
	Failed    int            `json:"failed" msgpack:"failed"`
	Partial   int            `json:"partial" msgpack:"partial"`
	AI        int            `json:"ai" msgpack:"ai"`
	MeanScore float64        `json:"mean_score" msgpack:"mean_score"`
	ByLabel   map[string]int `json:"by_label" msgpack:"by_label"`
}

func Summarize(items []Item) Summary {
	s := Summary{Files: len(items), ByLabel: make(map[string]int)}
	total, scored := 0.0, 0
	for _, it := range items {
		if it.Result == nil {
			s.Failed++
			continue
		}
		scored++
		total += it.Result.Score
		s.AI += it.Result.Result
		s.ByLabel[it.Result.Classification]++
		if it.Result.Partial {
			s.Partial++
		}
	}
	if scored > 0 {
		s.MeanScore = total / float64(scored)
	}
	return s
}
