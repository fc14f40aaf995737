package language

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"codect/internal/lexer"
	"codect/internal/parse"
	"codect/internal/syntax"
)

// ErrUnsupportedLanguage is returned for identifiers with no registered adapter.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// Registry maps language identifiers to adapters.
type Registry struct {
	mu       sync.RWMutex
	adapters map[string]Adapter
	aliases  map[string]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		adapters: make(map[string]Adapter),
		aliases:  make(map[string]string),
	}
}

// DefaultRegistry returns a registry with python and javascript registered.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&Python{})
	r.Register(&JavaScript{})
	return r
}

// Register adds an adapter, replacing any adapter of the same name.
func (r *Registry) Register(a Adapter) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := normalize(a.Name())
	r.adapters[name] = a
	for _, alias := range a.Aliases() {
		r.aliases[normalize(alias)] = name
	}
}

// Lookup returns the adapter for name, matching case-insensitively and through aliases.
func (r *Registry) Lookup(name string) (Adapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key := normalize(name)
	if canonical, ok := r.aliases[key]; ok {
		key = canonical
	}
	a, ok := r.adapters[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, name)
	}
	return a, nil
}

// Names lists canonical language names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Bind resolves name and returns a tokenizer and tree builder bound to its adapter.
func (r *Registry) Bind(name string, limits parse.Limits) (*Binding, error) {
	a, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}
	vocab := a.Vocabulary()
	return &Binding{
		Adapter:   a,
		Tokenizer: lexer.New(vocab, limits),
		Builder:   syntax.NewBuilder(vocab.Comments, limits),
		Tags:      a.Tags(),
		limits:    limits,
	}, nil
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
