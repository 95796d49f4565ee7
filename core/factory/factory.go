package factory

import (
	"fmt"
	"sort"
	"sync"

	"github.com/mitchellh/mapstructure"
)

// ModuleConfig selects a module implementation by type name and carries
// its raw, not yet decoded settings.
type ModuleConfig struct {
	Type string         `json:"type"`
	Conf map[string]any `json:"conf"`
}

// Factory builds an implementation of T from raw settings.
type Factory[T any] func(conf map[string]any) (T, error)

// Registry maps type names to factories. It is safe for concurrent use;
// registration typically happens from init functions.
type Registry[T any] struct {
	mu     sync.RWMutex
	byName map[string]Factory[T]
}

// NewRegistry returns an empty registry.
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{byName: map[string]Factory[T]{}}
}

// Register adds a factory under name. Names must be unique and non-empty.
func (r *Registry[T]) Register(name string, f Factory[T]) error {
	if name == "" {
		return fmt.Errorf("factory name must not be empty")
	}
	if f == nil {
		return fmt.Errorf("factory nil for %s", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.byName[name]; dup {
		return fmt.Errorf("factory already registered for %s", name)
	}
	r.byName[name] = f
	return nil
}

// Names returns the registered type names in sorted order.
func (r *Registry[T]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.byName))
	for n := range r.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Create looks up the factory for cfg.Type and invokes it with cfg.Conf.
func (r *Registry[T]) Create(cfg ModuleConfig) (T, error) {
	r.mu.RLock()
	f, ok := r.byName[cfg.Type]
	r.mu.RUnlock()
	if !ok {
		var zero T
		return zero, fmt.Errorf("unknown module type %q (known: %v)", cfg.Type, r.Names())
	}
	return f(cfg.Conf)
}

// Decode fills out using json tags, matching the tag convention of the
// configuration loader.
func Decode(data map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{TagName: "json", Result: out})
	if err != nil {
		return err
	}
	return dec.Decode(data)
}
