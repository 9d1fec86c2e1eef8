package typemap

import (
	"fmt"
	"strings"

	"auto-cast/internal/schema"
)

// Mapper turns a column of a given storage type into a candidate directive.
// It reports false when the column should get no directive.
type Mapper interface {
	Resolve(col schema.Column, t schema.StorageType) (string, bool)
}

// Rule is the handling rule of one storage type.
type Rule func(m *TypeMapper, col schema.Column, t schema.StorageType) (string, bool)

// Parameterizer injects column metadata into a looked-up keyword.
type Parameterizer func(keyword string, col schema.Column) string

// TypeMapper resolves directives through a TypeMap, with one rule per
// storage type.
type TypeMapper struct {
	types          TypeMap
	rules          map[schema.StorageType]Rule
	parameterizers map[schema.StorageType]Parameterizer
}

// Option configures a TypeMapper.
type Option func(*TypeMapper)

// WithRule replaces the handling rule of a storage type.
func WithRule(t schema.StorageType, r Rule) Option {
	return func(m *TypeMapper) {
		m.rules[t] = r
	}
}

// WithParameterizer attaches a parameterizer to a storage type and switches
// its rule to Parameterized. A later WithRule for the same type wins.
func WithParameterizer(t schema.StorageType, p Parameterizer) Option {
	return func(m *TypeMapper) {
		m.parameterizers[t] = p
		m.rules[t] = Parameterized
	}
}

// New builds a TypeMapper over types. An empty map falls back to Defaults.
func New(types TypeMap, opts ...Option) *TypeMapper {
	if types.IsEmpty() {
		types = Defaults()
	}
	m := &TypeMapper{
		types:          types.Clone(),
		rules:          make(map[schema.StorageType]Rule, len(schema.StorageTypes())),
		parameterizers: map[schema.StorageType]Parameterizer{schema.Decimal: Precision},
	}
	for _, t := range schema.StorageTypes() {
		m.rules[t] = ruleFor(t)
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ruleFor is the built-in dispatch; it must stay total over StorageTypes.
func ruleFor(t schema.StorageType) Rule {
	switch t {
	case schema.Decimal:
		return Parameterized
	case schema.AsciiString, schema.BigInt, schema.Binary, schema.Blob, schema.Boolean,
		schema.Date, schema.DateImmutable, schema.DateInterval,
		schema.DateTime, schema.DateTimeImmutable, schema.DateTimeTz, schema.DateTimeTzImmutable,
		schema.Float, schema.Guid, schema.Integer, schema.Json, schema.SimpleArray, schema.SmallInt,
		schema.String, schema.Text, schema.Time, schema.TimeImmutable, schema.Unknown:
		return Lookup
	}
	return nil
}

// Lookup is the plain table lookup rule.
func Lookup(m *TypeMapper, _ schema.Column, t schema.StorageType) (string, bool) {
	return m.types.Lookup(t)
}

// Parameterized looks t up and passes the keyword through the storage
// type's parameterizer, if any.
func Parameterized(m *TypeMapper, col schema.Column, t schema.StorageType) (string, bool) {
	kw, ok := m.types.Lookup(t)
	if !ok {
		return "", false
	}
	if p, ok := m.parameterizers[t]; ok {
		kw = p(kw, col)
	}
	return kw, true
}

// Precision appends ":<precision>" unless the keyword already carries a
// parameter or the column has no known precision.
func Precision(keyword string, col schema.Column) string {
	if strings.Contains(keyword, ":") || col.Precision == nil {
		return keyword
	}
	return fmt.Sprintf("%s:%d", keyword, *col.Precision)
}

// Resolve implements Mapper. Storage types outside the canonical set are
// treated as Unknown.
func (m *TypeMapper) Resolve(col schema.Column, t schema.StorageType) (string, bool) {
	if !t.Valid() {
		t = schema.Unknown
	}
	rule := m.rules[t]
	if rule == nil {
		return "", false
	}
	return rule(m, col, t)
}

// Types returns a copy of the effective type map.
func (m *TypeMapper) Types() TypeMap {
	return m.types.Clone()
}

// HasRule reports whether t has a handling rule.
func (m *TypeMapper) HasRule(t schema.StorageType) bool {
	return m.rules[t] != nil
}

var _ Mapper = (*TypeMapper)(nil)
