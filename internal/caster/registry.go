package caster

import (
	"fmt"
	"sort"
)

const (
	DefaultCaster    = "default"
	PermissiveCaster = "permissive"
)

// Factory builds a Caster from the run's shared collaborators.
type Factory func(b Base) Caster

// Registry holds named Caster factories.
type Registry struct {
	factories map[string]Factory
	building  map[string]bool
}

// NewRegistry returns a registry that knows the built-in strategies.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory), building: make(map[string]bool)}
	r.Register(DefaultCaster, func(b Base) Caster { return Default{Base: b} })
	r.Register(PermissiveCaster, func(b Base) Caster { return Permissive{Base: b} })
	return r
}

// Register adds or replaces a named factory.
func (r *Registry) Register(name string, f Factory) {
	r.factories[name] = f
}

// RegisterOverride registers a custom caster that layers skip and
// directive rules over the strategy named parent. The parent is looked up
// when the caster is built, so registration order does not matter.
func (r *Registry) RegisterOverride(name, parent string, skip []string, directives map[string]string) error {
	if name == parent {
		return fmt.Errorf("caster %q cannot extend itself", name)
	}
	skipSet := make(map[string]bool, len(skip))
	for _, s := range skip {
		skipSet[s] = true
	}
	pinned := make(map[string]string, len(directives))
	for k, v := range directives {
		pinned[k] = v
	}

	r.Register(name, func(b Base) Caster {
		// A parent chain that leads back here never resolves.
		if r.building[name] {
			return nil
		}
		r.building[name] = true
		defer delete(r.building, name)

		f, ok := r.factories[parent]
		if !ok || f == nil {
			return nil
		}
		p := f(b)
		if p == nil {
			return nil
		}
		return Override{Base: b, Parent: p, Skip: skipSet, Directives: pinned}
	})
	return nil
}

// Build returns the caster registered under name.
func (r *Registry) Build(name string, b Base) (Caster, error) {
	f, ok := r.factories[name]
	if !ok || f == nil {
		return nil, &InvalidCasterError{Identity: name}
	}
	c := f(b)
	if c == nil {
		return nil, &InvalidCasterError{Identity: name}
	}
	return c, nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	f, ok := r.factories[name]
	return ok && f != nil
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
