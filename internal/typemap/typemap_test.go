package typemap_test

import (
	"encoding/json"
	"testing"

	"auto-cast/internal/directive"
	"auto-cast/internal/schema"
	"auto-cast/internal/typemap"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalMaps_CoverEveryStorageType(t *testing.T) {
	maps := map[string]typemap.TypeMap{
		"default":     typemap.Defaults(),
		"opinionated": typemap.Opinionated(),
	}

	for name, m := range maps {
		t.Run(name, func(t *testing.T) {
			assert.Empty(t, m.Missing())
			assert.Equal(t, len(schema.StorageTypes()), m.Len())
			assert.Equal(t, schema.StorageTypes(), m.Types())
		})
	}
}

func TestCanonicalMaps_OnlyUseValidKeywords(t *testing.T) {
	g := directive.New()
	for _, m := range []typemap.TypeMap{typemap.Defaults(), typemap.Opinionated()} {
		for _, st := range m.Types() {
			if kw, ok := m.Lookup(st); ok {
				assert.True(t, g.Validate(kw), "%s -> %s", st, kw)
			}
		}
	}
}

func TestCanonicalMaps_UnknownIsNull(t *testing.T) {
	for _, m := range []typemap.TypeMap{typemap.Defaults(), typemap.Opinionated()} {
		assert.True(t, m.Has(schema.Unknown))
		_, ok := m.Lookup(schema.Unknown)
		assert.False(t, ok)
	}
}

func TestOpinionated(t *testing.T) {
	m := typemap.Opinionated()

	expect := map[schema.StorageType]string{
		schema.BigInt:       directive.Int,
		schema.Date:         directive.ImmutableDate,
		schema.DateInterval: directive.ImmutableDate,
		schema.DateTime:     directive.ImmutableDateTime,
		schema.DateTimeTz:   directive.ImmutableDateTime,
		schema.Json:         directive.AsArrayObject,
		schema.Boolean:      directive.Bool,
		schema.Decimal:      directive.Decimal,
	}
	for st, want := range expect {
		got, ok := m.Lookup(st)
		require.True(t, ok, st)
		assert.Equal(t, want, got, st)
	}

	// Defaults stay untouched.
	got, _ := typemap.Defaults().Lookup(schema.BigInt)
	assert.Equal(t, directive.String, got)
}

func TestPreset(t *testing.T) {
	m, ok := typemap.Preset("opinionated")
	require.True(t, ok)
	assert.Equal(t, typemap.Opinionated().Types(), m.Types())

	_, ok = typemap.Preset("Default")
	assert.True(t, ok)

	_, ok = typemap.Preset("relaxed")
	assert.False(t, ok)
}

func TestMerge(t *testing.T) {
	var overrides typemap.TypeMap
	overrides.Set(schema.Json, directive.Collection)
	overrides.Set(schema.Boolean, "")

	m := typemap.Defaults().Merge(overrides)

	got, ok := m.Lookup(schema.Json)
	require.True(t, ok)
	assert.Equal(t, directive.Collection, got)

	_, ok = m.Lookup(schema.Boolean)
	assert.False(t, ok)
	assert.Equal(t, typemap.Defaults().Types(), m.Types())
}

func TestFromConfig(t *testing.T) {
	m, err := typemap.FromConfig(map[string]any{
		"JSON":    "collection",
		"bigint":  "int",
		"unknown": nil,
		"zz_type": "string",
		"aa_type": "string",
	})
	require.NoError(t, err)

	assert.Equal(t, []schema.StorageType{schema.BigInt, schema.Json, schema.Unknown, "aa_type", "zz_type"}, m.Types())
	got, _ := m.Lookup(schema.Json)
	assert.Equal(t, "collection", got)

	_, err = typemap.FromConfig(map[string]any{"json": 3})
	assert.Error(t, err)
}

func TestTypeMap_JSON(t *testing.T) {
	var m typemap.TypeMap
	m.Set(schema.Json, directive.AsArrayObject)
	m.Set(schema.Unknown, "")
	m.Set(schema.BigInt, directive.Int)

	out, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, `{"json":"Illuminate\\Database\\Eloquent\\Casts\\AsArrayObject","unknown":null,"bigint":"int"}`, string(out))

	var back typemap.TypeMap
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, m.Types(), back.Types())
	assert.True(t, back.Has(schema.Unknown))

	again, err := json.Marshal(back)
	require.NoError(t, err)
	assert.Equal(t, string(out), string(again))
}

func TestClone_IsIndependent(t *testing.T) {
	m := typemap.Defaults()
	c := m.Clone()
	c.Set(schema.Json, directive.Collection)

	got, _ := m.Lookup(schema.Json)
	assert.Equal(t, directive.Json, got)
}
