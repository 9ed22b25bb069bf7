package finder

import (
	"fmt"
	"sync"
)

// Factory creates a new MappingFinder instance.
type Factory func() MappingFinder

// Registry manages registration and creation of named mapping finders.
// Grounded on the teacher's qc/simulator.RunnerRegistry: thread-safe
// name->factory map, deterministic errors, package-level default registry.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// defaultRegistry is pre-populated with the two finders spec'd in §4.2/4.3.
var defaultRegistry = NewRegistry()

func init() {
	defaultRegistry.MustRegister("random", func() MappingFinder { return NewRandomFinder(nil) })
	defaultRegistry.MustRegister("weighted-pm", func() MappingFinder { return NewWeightedPMFinder() })
}

// NewRegistry creates a new, empty finder registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register registers a finder factory under name. Thread-safe.
func (r *Registry) Register(name string, factory Factory) error {
	if name == "" {
		return fmt.Errorf("finder: name cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("finder: factory cannot be nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("finder: %q is already registered", name)
	}
	r.factories[name] = factory
	return nil
}

// MustRegister is like Register but panics on failure — intended for
// init()-time registration of built-in finders.
func (r *Registry) MustRegister(name string, factory Factory) {
	if err := r.Register(name, factory); err != nil {
		panic(fmt.Sprintf("finder: failed to register %q: %v", name, err))
	}
}

// Create instantiates the finder registered under name.
func (r *Registry) Create(name string) (MappingFinder, error) {
	r.mu.RLock()
	factory, exists := r.factories[name]
	r.mu.RUnlock()
	if !exists {
		return nil, fmt.Errorf("finder: unknown finder %q", name)
	}
	f := factory()
	if f == nil {
		return nil, fmt.Errorf("finder: factory for %q returned nil", name)
	}
	return f, nil
}

// List returns all registered finder names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	return names
}

// Package-level convenience wrappers over the default registry.

// Register registers a finder factory with the default registry.
func Register(name string, factory Factory) error { return defaultRegistry.Register(name, factory) }

// Create creates a finder using the default registry.
func Create(name string) (MappingFinder, error) { return defaultRegistry.Create(name) }

// List returns all registered finder names from the default registry.
func List() []string { return defaultRegistry.List() }

// DefaultRegistry returns the default finder registry, e.g. for tests
// that need to register a fake finder without polluting other tests.
func DefaultRegistry() *Registry { return defaultRegistry }
