package engine

import (
	"context"
	"errors"

	"codect/internal/features"
	"codect/internal/language"
	"codect/internal/parse"
	"codect/internal/syntax"
)

var (
	ErrUnsupportedLanguage   = language.ErrUnsupportedLanguage
	ErrPartialFeatures       = features.ErrPartialFeatures
	ErrResourceLimitExceeded = parse.ErrResourceLimitExceeded
	ErrSyntax                = syntax.ErrSyntax

	// ErrLanguageRequired is returned when no language was given and none could be detected.
	ErrLanguageRequired = errors.New("language required")
)

// Error codes reported to API and CLI clients.
const (
	CodeUnsupportedLanguage   = "unsupported_language"
	CodeLanguageRequired      = "language_required"
	CodePartialFeatures       = "partial_features"
	CodeResourceLimitExceeded = "resource_limit_exceeded"
	CodeCanceled              = "canceled"
	CodeInternal              = "internal"
)

// Code maps an error to a stable code. nil maps to "".
func Code(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnsupportedLanguage):
		return CodeUnsupportedLanguage
	case errors.Is(err, ErrLanguageRequired):
		return CodeLanguageRequired
	case errors.Is(err, ErrResourceLimitExceeded):
		return CodeResourceLimitExceeded
	case errors.Is(err, ErrPartialFeatures):
		return CodePartialFeatures
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return CodeCanceled
	default:
		return CodeInternal
	}
}
