package asset

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// ReadStrategy loads the data behind an input.
type ReadStrategy interface {
	Read(ctx context.Context, in *Input, columns []string) (*Table, error)
}

// WriteStrategy persists a table to an output.
type WriteStrategy interface {
	Write(ctx context.Context, out *Output, tbl *Table) error
}

// Registry holds the reader and writer strategies available to one asset
// run. Strategies are registered per run rather than globally so a run
// without a session simply has no spark strategy.
type Registry struct {
	mu      sync.RWMutex
	readers map[string]ReadStrategy
	writers map[string]WriteStrategy
}

// NewRegistry creates an empty strategy registry.
func NewRegistry() *Registry {
	return &Registry{
		readers: make(map[string]ReadStrategy),
		writers: make(map[string]WriteStrategy),
	}
}

// RegisterReader adds or replaces a reader strategy.
func (r *Registry) RegisterReader(name string, s ReadStrategy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.readers[name] = s
}

// RegisterWriter adds or replaces a writer strategy.
func (r *Registry) RegisterWriter(name string, s WriteStrategy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writers[name] = s
}

// Reader returns the named reader strategy. Unknown names error with the
// known set so a typo in io.yaml is diagnosable.
func (r *Registry) Reader(name string) (ReadStrategy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.readers[name]
	if !ok {
		return nil, fmt.Errorf("unknown reader strategy %q (available: %v)", name, keys(r.readers))
	}
	return s, nil
}

// Writer returns the named writer strategy.
func (r *Registry) Writer(name string) (WriteStrategy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.writers[name]
	if !ok {
		return nil, fmt.Errorf("unknown writer strategy %q (available: %v)", name, keys(r.writers))
	}
	return s, nil
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
