// Package scoring turns a feature vector into a verdict. Scoring is a pure function of
// the policy and the vector.
package scoring

import (
	"math"

	"codect/internal/features"
)

// Contribution explains how one signal moved the score.
type Contribution struct {
	Signal   string  `json:"signal"`
	Feature  string  `json:"feature"`
	Value    float64 `json:"value"`
	Strength float64 `json:"strength"`
	Weighted float64 `json:"weighted"`
}

// Score is the scorer's verdict.
type Score struct {
	Value         float64        `json:"score"`
	Result        int            `json:"result"`
	Label         string         `json:"classification"`
	Contributions []Contribution `json:"contributions,omitempty"`
}

// Scorer applies a policy.
type Scorer struct {
	policy Policy
}

// NewScorer validates p and returns a scorer for it.
func NewScorer(p Policy) (*Scorer, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Scorer{policy: p}, nil
}

// Policy returns the policy in use.
func (s *Scorer) Policy() Policy {
	return s.policy
}

// Score weighs the vector's signals and places the result in a band.
func (s *Scorer) Score(v *features.Vector) Score {
	var out Score
	total := 0.0

	apply := func(sig Signal, sign float64) {
		value := v.Value(sig.Feature)
		strength := 0.0
		if sig.Gate == "" || v.Value(sig.Gate) >= sig.GateMin {
			strength = ramp(value, sig.From, sig.To)
		}
		weighted := sign * sig.Weight * strength
		total += weighted
		out.Contributions = append(out.Contributions, Contribution{
			Signal:   sig.Name,
			Feature:  sig.Feature,
			Value:    value,
			Strength: strength,
			Weighted: weighted,
		})
	}
	for _, sig := range s.policy.AI {
		apply(sig, 1)
	}
	for _, sig := range s.policy.Human {
		apply(sig, -1)
	}

	out.Value = round(clamp(total, 0, 1))
	out.Label = s.band(out.Value)
	if out.Value >= s.policy.Boundary {
		out.Result = 1
	}
	return out
}

func (s *Scorer) band(score float64) string {
	label := s.policy.Bands[0].Label
	for _, b := range s.policy.Bands {
		if score >= b.Min {
			label = b.Label
		}
	}
	return label
}

// ramp maps x linearly from [from,to] onto [0,1], clamping outside the interval.
func ramp(x, from, to float64) float64 {
	if math.IsNaN(x) {
		return 0
	}
	if from == to {
		if x >= to {
			return 1
		}
		return 0
	}
	return clamp((x-from)/(to-from), 0, 1)
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func round(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
