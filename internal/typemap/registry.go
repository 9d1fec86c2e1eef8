package typemap

import (
	"fmt"
	"sort"
)

// DefaultMapper is the identity of the built-in TypeMapper.
const DefaultMapper = "default"

// Factory builds a Mapper over the effective type map of a run.
type Factory func(types TypeMap) Mapper

// Registry holds named Mapper factories.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry returns a registry that knows the built-in mapper.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory)}
	r.Register(DefaultMapper, func(types TypeMap) Mapper {
		return New(types)
	})
	return r
}

// Register adds or replaces a named factory.
func (r *Registry) Register(name string, f Factory) {
	r.factories[name] = f
}

// Lookup returns the factory registered under name.
func (r *Registry) Lookup(name string) (Factory, error) {
	f, ok := r.factories[name]
	if !ok || f == nil {
		return nil, &InvalidTypeMapperError{Identity: name}
	}
	return f, nil
}

// Names lists the registered identities, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for n := range r.factories {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// InvalidTypeMapperError reports a type mapper identity that does not
// resolve to a Mapper.
type InvalidTypeMapperError struct {
	Identity string
}

func (e *InvalidTypeMapperError) Error() string {
	return fmt.Sprintf("the provided type mapper %q is invalid, please ensure it is registered and implements typemap.Mapper", e.Identity)
}
