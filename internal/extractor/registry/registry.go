// Package registry keeps the record extractors available to a process,
// keyed by name, so the configured strategy can be looked up at startup.
package registry

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/davidbz/pricesync/internal/domain"
)

// Extractor is a named domain.RecordExtractor.
type Extractor interface {
	domain.RecordExtractor
	Name() string
}

// Registry holds extractors by name.
type Registry struct {
	mu         sync.RWMutex
	extractors map[string]Extractor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		mu:         sync.RWMutex{},
		extractors: make(map[string]Extractor),
	}
}

// Register adds an extractor to the registry.
func (r *Registry) Register(extractor Extractor) error {
	if extractor == nil {
		return errors.New("extractor cannot be nil")
	}

	name := extractor.Name()
	if name == "" {
		return errors.New("extractor name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.extractors[name]; exists {
		return fmt.Errorf("extractor %s already registered", name)
	}

	r.extractors[name] = extractor

	return nil
}

// Get retrieves an extractor by name. An unknown name is a configuration error.
func (r *Registry) Get(_ context.Context, name string) (Extractor, error) {
	if name == "" {
		return nil, errors.New("extractor name cannot be empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	extractor, exists := r.extractors[name]
	if !exists {
		return nil, fmt.Errorf("%w: extractor %s not registered", domain.ErrConfiguration, name)
	}

	return extractor, nil
}

// List returns the registered names in sorted order.
func (r *Registry) List(_ context.Context) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.extractors))
	for name := range r.extractors {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}
