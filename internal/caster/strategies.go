package caster

import (
	"auto-cast/internal/discovery"
	"auto-cast/internal/schema"
)

// Default skips free-text columns and the entity's timestamp columns, which
// the host runtime already handles.
type Default struct {
	Base
}

var freeText = map[schema.StorageType]bool{
	schema.AsciiString: true,
	schema.String:      true,
	schema.Text:        true,
}

func (d Default) Eligible(col schema.Column, e discovery.Entity) bool {
	if freeText[col.Type] {
		return false
	}
	if col.Name != "" && (col.Name == e.CreatedAtColumn || col.Name == e.UpdatedAtColumn) {
		return false
	}
	return true
}

func (d Default) Resolve(col schema.Column, _ discovery.Entity) (string, error) {
	return d.ResolveColumn(col)
}

// Permissive gives every column the mapper's directive.
type Permissive struct {
	Base
}

func (Permissive) Eligible(schema.Column, discovery.Entity) bool { return true }

func (p Permissive) Resolve(col schema.Column, _ discovery.Entity) (string, error) {
	return p.ResolveColumn(col)
}

// Override layers per-column decisions over another strategy. Skip drops
// columns outright; Directives pins a column to an explicit directive,
// which still has to pass the grammar.
type Override struct {
	Base
	Parent     Caster
	Skip       map[string]bool
	Directives map[string]string
}

func (o Override) Eligible(col schema.Column, e discovery.Entity) bool {
	if o.Skip[col.Name] {
		return false
	}
	if _, ok := o.Directives[col.Name]; ok {
		return true
	}
	return o.Parent.Eligible(col, e)
}

func (o Override) Resolve(col schema.Column, e discovery.Entity) (string, error) {
	if d, ok := o.Directives[col.Name]; ok {
		return o.Validate(col, d)
	}
	return o.Parent.Resolve(col, e)
}

var (
	_ Caster = Default{}
	_ Caster = Permissive{}
	_ Caster = Override{}
)
