// Package manifest holds the published result of a resolution run and
// answers directive lookups against it.
package manifest

import (
	"encoding/json"
	"fmt"
	"sort"

	"auto-cast/internal/discovery"
	"auto-cast/internal/ordered"
	"auto-cast/internal/schema"
	"auto-cast/internal/typemap"

	"github.com/spf13/afero"
)

// Columns maps column names to directives in introspection order.
type Columns = ordered.Map[string, string]

// CastMap maps fully-qualified entity names to their columns in discovery
// order.
type CastMap = ordered.Map[string, *Columns]

// Model is anything that knows the fully-qualified name of its entity.
type Model interface {
	EntityName() string
}

// Manifest is the artifact of one run. Field order is the wire order.
type Manifest struct {
	DiscoverModelsUsing discovery.Params            `json:"discover_models_using"`
	DefaultTypesMap     typemap.TypeMap             `json:"default_types_map"`
	TypeMapper          string                      `json:"type_mapper"`
	DefaultCaster       string                      `json:"default_caster"`
	CustomCasters       ordered.Map[string, string] `json:"custom_casters"`
	Casts               CastMap                     `json:"casts"`
}

// JSON encodes the manifest with four-space indentation.
func (m *Manifest) JSON() ([]byte, error) {
	out, err := json.MarshalIndent(m, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode manifest: %w", err)
	}
	return out, nil
}

func (m *Manifest) String() string {
	out, err := m.JSON()
	if err != nil {
		return err.Error()
	}
	return string(out)
}

// Load decodes a manifest produced by JSON.
func Load(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to decode manifest: %w", err)
	}
	return &m, nil
}

// LoadFile reads and decodes a manifest from fsys.
func LoadFile(fsys afero.Fs, path string) (*Manifest, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}
	m, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Entities lists the resolved entity names in discovery order.
func (m *Manifest) Entities() []string {
	return m.Casts.Keys()
}

// SetEntity records the columns of one entity.
func (m *Manifest) SetEntity(name string, cols *Columns) {
	if cols == nil {
		cols = ordered.New[string, string]()
	}
	m.Casts.Set(name, cols)
}

// ForEntity returns a copy of an entity's columns; unknown entities have none.
func (m *Manifest) ForEntity(name string) *Columns {
	out := ordered.New[string, string]()
	cols, _ := m.Casts.Get(name)
	cols.Each(func(k, v string) bool {
		out.Set(k, v)
		return true
	})
	return out
}

// ForModel is ForEntity keyed by a model.
func (m *Manifest) ForModel(model Model) *Columns {
	return m.ForEntity(model.EntityName())
}

// ForColumn returns the directive of one column.
func (m *Manifest) ForColumn(entity, column string) (string, bool) {
	cols, ok := m.Casts.Get(entity)
	if !ok {
		return "", false
	}
	return cols.Get(column)
}

// ForSchemaColumn is ForColumn keyed by an introspected column.
func (m *Manifest) ForSchemaColumn(entity string, col schema.Column) (string, bool) {
	return m.ForColumn(entity, col.Name)
}

// Merge overlays explicit casts declared on the entity itself on top of
// the resolved ones. Explicit casts win; new columns follow in name order.
func (m *Manifest) Merge(entity string, explicit map[string]string) *Columns {
	out := m.ForEntity(entity)

	names := make([]string, 0, len(explicit))
	for k := range explicit {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		out.Set(k, explicit[k])
	}
	return out
}
