package parse

import (
	"errors"
	"fmt"
)

// ErrResourceLimitExceeded is returned when an input exceeds a safety bound.
var ErrResourceLimitExceeded = errors.New("resource limit exceeded")

// Limits bounds the work a single analysis may do. Zero disables a bound.
type Limits struct {
	MaxBytes  int `yaml:"max_bytes" toml:"max_bytes"`
	MaxTokens int `yaml:"max_tokens" toml:"max_tokens"`
	MaxDepth  int `yaml:"max_depth" toml:"max_depth"`
	MaxNodes  int `yaml:"max_nodes" toml:"max_nodes"`
}

// DefaultLimits returns the bounds used when none are configured.
func DefaultLimits() Limits {
	return Limits{
		MaxBytes:  1 << 20,
		MaxTokens: 200_000,
		MaxDepth:  512,
		MaxNodes:  500_000,
	}
}

// LimitError names the bound that was crossed.
type LimitError struct {
	Limit string
	Max   int
	Got   int
}

func (e *LimitError) Error() string {
	if e.Got > 0 {
		return fmt.Sprintf("%s: %s %d exceeds %d", ErrResourceLimitExceeded, e.Limit, e.Got, e.Max)
	}
	return fmt.Sprintf("%s: %s exceeds %d", ErrResourceLimitExceeded, e.Limit, e.Max)
}

func (e *LimitError) Is(target error) bool {
	return target == ErrResourceLimitExceeded
}
