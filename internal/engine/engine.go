// Package engine runs the analysis pipeline: language resolution, parsing, tokenizing,
// tree building, feature extraction and scoring.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"codect/internal/features"
	"codect/internal/language"
	"codect/internal/parse"
	"codect/internal/scoring"
)

// Detector guesses a language from a filename and content. It returns "unknown" or ""
// when it cannot tell.
type Detector interface {
	Detect(path string, content []byte) string
}

// Request is one analysis.
type Request struct {
	Code     string
	Language string
	Filename string
	Detailed bool
}

// Result is the verdict for one snippet.
type Result struct {
	Result         int     `json:"result"`
	Classification string  `json:"classification"`
	Language       string  `json:"language"`
	Score          float64 `json:"score"`
	Partial        bool    `json:"partial"`
	Warning        string  `json:"warning,omitempty"`

	Features      *features.Vector       `json:"features,omitempty"`
	Contributions []scoring.Contribution `json:"contributions,omitempty"`
}

// Engine is stateless after construction and safe for concurrent use.
type Engine struct {
	registry *language.Registry
	policy   scoring.Policy
	limits   parse.Limits
	detector Detector

	scorer *scoring.Scorer
}

// Option configures an Engine.
type Option func(*Engine)

func WithRegistry(r *language.Registry) Option {
	return func(e *Engine) { e.registry = r }
}

func WithPolicy(p scoring.Policy) Option {
	return func(e *Engine) { e.policy = p }
}

func WithLimits(l parse.Limits) Option {
	return func(e *Engine) { e.limits = l }
}

// WithDetector enables language detection for requests that name no language.
func WithDetector(d Detector) Option {
	return func(e *Engine) { e.detector = d }
}

// New builds an engine. It fails only when the scoring policy is invalid.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		registry: language.DefaultRegistry(),
		policy:   scoring.DefaultPolicy(),
		limits:   parse.DefaultLimits(),
	}
	for _, opt := range opts {
		opt(e)
	}

	scorer, err := scoring.NewScorer(e.policy)
	if err != nil {
		return nil, fmt.Errorf("invalid scoring policy: %w", err)
	}
	e.scorer = scorer
	return e, nil
}

// Languages lists the registered language names.
func (e *Engine) Languages() []string {
	return e.registry.Names()
}

// Policy returns the scoring policy in use.
func (e *Engine) Policy() scoring.Policy {
	return e.scorer.Policy()
}

// Limits returns the resource bounds in effect.
func (e *Engine) Limits() parse.Limits {
	return e.limits
}

// Analyze classifies req.Code. A syntax error does not fail the analysis: the result is
// marked partial and carries a warning.
func (e *Engine) Analyze(ctx context.Context, req Request) (*Result, error) {
	lang, err := e.resolve(req)
	if err != nil {
		return nil, err
	}

	b, err := e.registry.Bind(lang, e.limits)
	if err != nil {
		return nil, err
	}

	src := []byte(req.Code)
	tree, err := b.Parse(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", b.Adapter.Name(), err)
	}
	defer tree.Close()

	toks, err := b.Tokenizer.Tokenize(ctx, tree)
	if err != nil {
		return nil, fmt.Errorf("tokenize: %w", err)
	}

	root, buildErr := b.Builder.Build(tree)
	if buildErr != nil && !errors.Is(buildErr, ErrSyntax) {
		return nil, fmt.Errorf("build syntax tree: %w", buildErr)
	}

	vec, err := features.Extract(features.Input{
		Source:   src,
		Tokens:   toks,
		Root:     root,
		ParseErr: buildErr,
		Tags:     b.Tags,
		Extras:   b.Adapter.Extras,
	})
	partial := errors.Is(err, ErrPartialFeatures)
	if err != nil && !partial {
		return nil, fmt.Errorf("extract features: %w", err)
	}

	score := e.scorer.Score(vec)
	res := &Result{
		Result:         score.Result,
		Classification: score.Label,
		Language:       b.Adapter.Name(),
		Score:          score.Value,
		Partial:        partial,
	}
	if partial {
		res.Warning = err.Error()
	}
	if req.Detailed {
		res.Features = vec
		res.Contributions = score.Contributions
	}
	return res, nil
}

func (e *Engine) resolve(req Request) (string, error) {
	if lang := strings.TrimSpace(req.Language); lang != "" {
		return lang, nil
	}
	if e.detector == nil {
		return "", ErrLanguageRequired
	}
	lang := e.detector.Detect(req.Filename, []byte(req.Code))
	if lang == "" || lang == "unknown" {
		return "", ErrLanguageRequired
	}
	return lang, nil
}
