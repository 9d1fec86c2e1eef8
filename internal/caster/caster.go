// Package caster decides, column by column, whether an entity attribute
// gets a cast directive and which one.
package caster

import (
	"fmt"

	"auto-cast/internal/directive"
	"auto-cast/internal/discovery"
	"auto-cast/internal/ordered"
	"auto-cast/internal/schema"
	"auto-cast/internal/typemap"
)

// Caster resolves the directives of one entity's columns.
type Caster interface {
	// Eligible reports whether col should receive a directive at all.
	Eligible(col schema.Column, e discovery.Entity) bool
	// Resolve returns the directive of an eligible column, or "" when the
	// column gets none.
	Resolve(col schema.Column, e discovery.Entity) (string, error)
}

// Base carries the collaborators every strategy resolves through.
type Base struct {
	Mapper  typemap.Mapper
	Grammar *directive.Grammar
}

// NewBase returns a Base, using the built-in grammar when g is nil.
func NewBase(m typemap.Mapper, g *directive.Grammar) Base {
	if g == nil {
		g = directive.New()
	}
	return Base{Mapper: m, Grammar: g}
}

// ResolveColumn asks the mapper for a candidate and validates it.
func (b Base) ResolveColumn(col schema.Column) (string, error) {
	candidate, ok := b.Mapper.Resolve(col, col.Type)
	if !ok || candidate == "" {
		return "", nil
	}
	return b.Validate(col, candidate)
}

// Validate returns candidate if the grammar accepts it.
func (b Base) Validate(col schema.Column, candidate string) (string, error) {
	if !b.Grammar.Validate(candidate) {
		return "", &InvalidDirectiveError{Column: col.Name, Type: col.Type, Directive: candidate}
	}
	return candidate, nil
}

// ResolveAll folds c over cols in order. Ineligible columns and columns
// without a directive are left out.
func ResolveAll(c Caster, cols []schema.Column, e discovery.Entity) (*ordered.Map[string, string], error) {
	out := ordered.New[string, string]()
	for _, col := range cols {
		if !c.Eligible(col, e) {
			continue
		}
		d, err := c.Resolve(col, e)
		if err != nil {
			return nil, fmt.Errorf("entity %s: %w", e.Name, err)
		}
		if d == "" {
			continue
		}
		out.Set(col.Name, d)
	}
	return out, nil
}

// InvalidDirectiveError reports a candidate the grammar rejected.
type InvalidDirectiveError struct {
	Column    string
	Type      schema.StorageType
	Directive string
}

func (e *InvalidDirectiveError) Error() string {
	return fmt.Sprintf("invalid cast type %q for column %q of type %q; valid cast types are any value the model casts property accepts",
		e.Directive, e.Column, string(e.Type))
}

// InvalidCasterError reports a caster identity that does not resolve to a
// Caster.
type InvalidCasterError struct {
	Identity string
}

func (e *InvalidCasterError) Error() string {
	return fmt.Sprintf("the provided caster %q is invalid, please ensure it is registered and implements caster.Caster", e.Identity)
}
