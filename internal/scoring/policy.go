package scoring

import (
	"errors"
	"fmt"
	"math"
)

// Signal turns one feature into a strength in [0,1] with a linear ramp from From to To.
// When From > To the ramp descends: small feature values give strong signals.
type Signal struct {
	Name    string  `yaml:"name" toml:"name" json:"name"`
	Feature string  `yaml:"feature" toml:"feature" json:"feature"`
	Weight  float64 `yaml:"weight" toml:"weight" json:"weight"`
	From    float64 `yaml:"from" toml:"from" json:"from"`
	To      float64 `yaml:"to" toml:"to" json:"to"`
	// Gate silences the signal unless feature Gate is at least GateMin.
	Gate    string  `yaml:"gate,omitempty" toml:"gate" json:"gate,omitempty"`
	GateMin float64 `yaml:"gate_min,omitempty" toml:"gate_min" json:"gate_min,omitempty"`
}

// Band labels scores at or above Min, up to the next band.
type Band struct {
	Min   float64 `yaml:"min" toml:"min" json:"min"`
	Label string  `yaml:"label" toml:"label" json:"label"`
}

// Policy is the tunable part of scoring. AI signals add to the score, human signals
// subtract from it; the result is clamped to [0,1].
type Policy struct {
	AI       []Signal `yaml:"ai" toml:"ai"`
	Human    []Signal `yaml:"human" toml:"human"`
	Bands    []Band   `yaml:"bands" toml:"bands"`
	Boundary float64  `yaml:"boundary" toml:"boundary"`
}

// DefaultPolicy returns the built-in heuristic. AI weights sum to 1.
func DefaultPolicy() Policy {
	return Policy{
		AI: []Signal{
			{Name: "documentation", Feature: "documented_function_ratio", Weight: 0.20, From: 0, To: 1},
			{Name: "comment_density", Feature: "comment_ratio", Weight: 0.10, From: 0.10, To: 0.40},
			{Name: "repeated_patterns", Feature: "pattern_repetition", Weight: 0.10, From: 0.15, To: 0.40},
			{Name: "naming_uniformity", Feature: "naming_consistency", Weight: 0.10, From: 0.70, To: 1.0, Gate: "identifier_count", GateMin: 8},
			{Name: "error_handling", Feature: "try_per_function", Weight: 0.10, From: 0.3, To: 1.0},
			{Name: "low_entropy", Feature: "normalized_entropy", Weight: 0.05, From: 0.90, To: 0.60, Gate: "token_count", GateMin: 40},
			{Name: "indent_uniformity", Feature: "indentation_consistency", Weight: 0.05, From: 0.5, To: 1.0},
			{Name: "shallow_structure", Feature: "max_ast_depth", Weight: 0.05, From: 12, To: 6, Gate: "function_count", GateMin: 1},
			{Name: "quote_uniformity", Feature: "quote_consistency", Weight: 0.05, From: 0.8, To: 1.0, Gate: "quote_count", GateMin: 4},
			{Name: "generic_names", Feature: "generic_name_score", Weight: 0.05, From: 0, To: 0.2},
			{Name: "placeholders", Feature: "placeholder_score", Weight: 0.05, From: 0, To: 0.3},
			{Name: "sorted_imports", Feature: "import_organization", Weight: 0.05, From: 0.5, To: 1.0},
			{Name: "semicolon_uniformity", Feature: "semicolon_consistency", Weight: 0.05, From: 0.8, To: 1.0, Gate: "semicolon_lines", GateMin: 5},
		},
		Human: []Signal{
			{Name: "todo_comments", Feature: "has_todo_comments", Weight: 0.20, From: 0, To: 1},
			{Name: "debug_prints", Feature: "has_debug_prints", Weight: 0.15, From: 0, To: 1},
			{Name: "commented_code", Feature: "has_commented_code", Weight: 0.10, From: 0, To: 1},
			{Name: "trailing_whitespace", Feature: "has_trailing_whitespace", Weight: 0.10, From: 0, To: 1},
			{Name: "magic_numbers", Feature: "has_magic_numbers", Weight: 0.10, From: 0, To: 1},
			{Name: "var_declarations", Feature: "uses_var", Weight: 0.10, From: 0, To: 1},
			{Name: "terse_names", Feature: "single_letter_ratio", Weight: 0.10, From: 0.1, To: 0.4},
			{Name: "uneven_functions", Feature: "function_length_variance", Weight: 0.10, From: 2, To: 10},
			{Name: "long_lines", Feature: "has_long_lines", Weight: 0.05, From: 0, To: 1},
			{Name: "main_guard", Feature: "has_main_guard", Weight: 0.05, From: 0, To: 1},
			{Name: "comprehensions", Feature: "uses_comprehensions", Weight: 0.05, From: 0, To: 1},
		},
		Bands: []Band{
			{Min: 0, Label: "Very Likely Human"},
			{Min: 0.2, Label: "Likely Human"},
			{Min: 0.4, Label: "Uncertain"},
			{Min: 0.6, Label: "Likely AI"},
			{Min: 0.8, Label: "High Confidence AI"},
		},
		Boundary: 0.6,
	}
}

// UncertainFrom returns where the band just below the boundary starts. Scores from there
// up to the boundary are close calls.
func (p Policy) UncertainFrom() float64 {
	from := p.Boundary
	for _, b := range p.Bands {
		if b.Min < p.Boundary {
			from = b.Min
		}
	}
	return from
}

// weightTolerance absorbs float error when summing AI weights written in config files.
const weightTolerance = 1e-6

// Validate checks that every signal is finite, that AI weights sum to 1, and that the
// bands describe a well-formed partition of [0,1].
func (p Policy) Validate() error {
	var errs []error
	for _, group := range [][]Signal{p.AI, p.Human} {
		for _, s := range group {
			if s.Feature == "" {
				errs = append(errs, fmt.Errorf("signal %q has no feature", s.Name))
			}
			if s.Weight < 0 || !finite(s.Weight) {
				errs = append(errs, fmt.Errorf("signal %q has invalid weight %v", s.Name, s.Weight))
			}
			if !finite(s.From) || !finite(s.To) || !finite(s.GateMin) {
				errs = append(errs, fmt.Errorf("signal %q has a non-finite ramp or gate", s.Name))
			}
		}
	}

	sum := 0.0
	for _, s := range p.AI {
		sum += s.Weight
	}
	if finite(sum) && math.Abs(sum-1) > weightTolerance {
		errs = append(errs, fmt.Errorf("AI weights sum to %v, want 1", sum))
	}

	if len(p.Bands) == 0 {
		errs = append(errs, errors.New("policy has no bands"))
	} else if p.Bands[0].Min != 0 {
		errs = append(errs, fmt.Errorf("first band must start at 0, got %v", p.Bands[0].Min))
	}
	for _, b := range p.Bands {
		if !finite(b.Min) {
			errs = append(errs, fmt.Errorf("band %q has non-finite minimum", b.Label))
		}
	}
	for i := 1; i < len(p.Bands); i++ {
		if p.Bands[i].Min <= p.Bands[i-1].Min || p.Bands[i].Min > 1 {
			errs = append(errs, fmt.Errorf("band %q is out of order", p.Bands[i].Label))
		}
	}

	if !(p.Boundary > 0 && p.Boundary <= 1) {
		errs = append(errs, fmt.Errorf("boundary %v outside (0,1]", p.Boundary))
	}
	return errors.Join(errs...)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
