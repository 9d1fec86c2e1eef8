// Package typemap maps canonical storage types to cast directive keywords.
package typemap

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"auto-cast/internal/directive"
	"auto-cast/internal/ordered"
	"auto-cast/internal/schema"
)

// TypeMap is an ordered storage type -> keyword table. An entry with an
// empty keyword means "no directive" and encodes as JSON null.
type TypeMap struct {
	entries ordered.Map[schema.StorageType, string]
}

// Defaults maps every storage type to its homologous keyword.
func Defaults() TypeMap {
	var m TypeMap
	m.Set(schema.AsciiString, directive.String)
	m.Set(schema.BigInt, directive.String)
	m.Set(schema.Binary, directive.String)
	m.Set(schema.Blob, directive.String)
	m.Set(schema.Boolean, directive.Bool)
	m.Set(schema.Date, directive.Date)
	m.Set(schema.DateImmutable, directive.ImmutableDate)
	m.Set(schema.DateInterval, directive.Date)
	m.Set(schema.DateTime, directive.DateTime)
	m.Set(schema.DateTimeImmutable, directive.ImmutableDateTime)
	m.Set(schema.DateTimeTz, directive.DateTime)
	m.Set(schema.DateTimeTzImmutable, directive.ImmutableDateTime)
	m.Set(schema.Decimal, directive.Decimal)
	m.Set(schema.Float, directive.Float)
	m.Set(schema.Guid, directive.String)
	m.Set(schema.Integer, directive.Int)
	m.Set(schema.Json, directive.Json)
	m.Set(schema.SimpleArray, directive.Array)
	m.Set(schema.SmallInt, directive.Int)
	m.Set(schema.String, directive.String)
	m.Set(schema.Text, directive.String)
	m.Set(schema.Time, directive.String)
	m.Set(schema.TimeImmutable, directive.String)
	m.Set(schema.Unknown, "")
	return m
}

// Opinionated extends Defaults: big integers become ints, every date-like
// type becomes immutable and JSON is wrapped in an array object.
func Opinionated() TypeMap {
	m := Defaults()
	m.Set(schema.BigInt, directive.Int)
	m.Set(schema.Date, directive.ImmutableDate)
	m.Set(schema.DateInterval, directive.ImmutableDate)
	m.Set(schema.DateTime, directive.ImmutableDateTime)
	m.Set(schema.DateTimeTz, directive.ImmutableDateTime)
	m.Set(schema.Json, directive.AsArrayObject)
	return m
}

// Preset returns a named canonical map.
func Preset(name string) (TypeMap, bool) {
	switch strings.ToLower(name) {
	case "default", "defaults":
		return Defaults(), true
	case "opinionated":
		return Opinionated(), true
	}
	return TypeMap{}, false
}

// Set maps t to keyword; an empty keyword records an explicit "no directive".
func (m *TypeMap) Set(t schema.StorageType, keyword string) {
	m.entries.Set(t, keyword)
}

// Lookup returns the keyword for t. Absent and explicit-null entries
// both report false.
func (m TypeMap) Lookup(t schema.StorageType) (string, bool) {
	v, ok := m.entries.Get(t)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Has reports whether t has an entry, null or not.
func (m TypeMap) Has(t schema.StorageType) bool {
	return m.entries.Has(t)
}

// Types returns the mapped storage types in order.
func (m TypeMap) Types() []schema.StorageType {
	return m.entries.Keys()
}

// Len returns the number of entries.
func (m TypeMap) Len() int {
	return m.entries.Len()
}

// IsEmpty reports whether the map has no entries.
func (m TypeMap) IsEmpty() bool {
	return m.entries.Len() == 0
}

// Missing lists the canonical storage types without an entry.
func (m TypeMap) Missing() []schema.StorageType {
	var out []schema.StorageType
	for _, t := range schema.StorageTypes() {
		if !m.Has(t) {
			out = append(out, t)
		}
	}
	return out
}

// Clone returns an independent copy.
func (m TypeMap) Clone() TypeMap {
	var out TypeMap
	m.entries.Each(func(t schema.StorageType, v string) bool {
		out.Set(t, v)
		return true
	})
	return out
}

// Merge returns a copy of m with every entry of overrides applied on top.
func (m TypeMap) Merge(overrides TypeMap) TypeMap {
	out := m.Clone()
	overrides.entries.Each(func(t schema.StorageType, v string) bool {
		out.Set(t, v)
		return true
	})
	return out
}

// FromConfig builds a TypeMap from a decoded configuration mapping. Keys
// follow canonical storage type order, then any unrecognized keys sorted.
// Values must be strings or null.
func FromConfig(raw map[string]any) (TypeMap, error) {
	var m TypeMap
	lowered := make(map[string]any, len(raw))
	for k, v := range raw {
		lowered[strings.ToLower(k)] = v
	}

	var extra []string
	for k := range lowered {
		if !schema.StorageType(k).Valid() {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)

	keys := make([]string, 0, len(lowered))
	for _, t := range schema.StorageTypes() {
		if _, ok := lowered[string(t)]; ok {
			keys = append(keys, string(t))
		}
	}
	keys = append(keys, extra...)

	for _, k := range keys {
		switch v := lowered[k].(type) {
		case nil:
			m.Set(schema.StorageType(k), "")
		case string:
			m.Set(schema.StorageType(k), v)
		default:
			return TypeMap{}, fmt.Errorf("types map entry %q must be a string or null, got %T", k, v)
		}
	}
	return m, nil
}

// MarshalJSON encodes the map in entry order with null for "no directive".
func (m TypeMap) MarshalJSON() ([]byte, error) {
	out := ordered.New[schema.StorageType, *string]()
	m.entries.Each(func(t schema.StorageType, v string) bool {
		if v == "" {
			out.Set(t, nil)
		} else {
			kw := v
			out.Set(t, &kw)
		}
		return true
	})
	return json.Marshal(out)
}

// UnmarshalJSON decodes a JSON object, keeping its key order.
func (m *TypeMap) UnmarshalJSON(data []byte) error {
	var in ordered.Map[schema.StorageType, *string]
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	m.entries = ordered.Map[schema.StorageType, string]{}
	in.Each(func(t schema.StorageType, v *string) bool {
		if v == nil {
			m.Set(t, "")
		} else {
			m.Set(t, *v)
		}
		return true
	})
	return nil
}
