package caster_test

import (
	"testing"

	"auto-cast/internal/caster"
	"auto-cast/internal/directive"
	"auto-cast/internal/discovery"
	"auto-cast/internal/schema"
	"auto-cast/internal/typemap"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var product = discovery.Entity{
	Name:            "App.Models.Product",
	Table:           "products",
	CreatedAtColumn: discovery.DefaultCreatedAt,
	UpdatedAtColumn: discovery.DefaultUpdatedAt,
}

func productColumns() []schema.Column {
	return []schema.Column{
		{Name: "id", Type: schema.BigInt},
		{Name: "price", Type: schema.Decimal, Precision: schema.IntPtr(2), Scale: schema.IntPtr(2)},
		{Name: "flag", Type: schema.Boolean},
		{Name: "label", Type: schema.String, Length: schema.IntPtr(255)},
		{Name: "created_at", Type: schema.DateTime, Nullable: true},
	}
}

func base(types typemap.TypeMap, opts ...directive.Option) caster.Base {
	return caster.NewBase(typemap.New(types), directive.New(opts...))
}

func TestDefault_EndToEnd(t *testing.T) {
	c := caster.Default{Base: base(typemap.Opinionated())}

	got, err := caster.ResolveAll(c, productColumns(), product)
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "price", "flag"}, got.Keys())
	assert.Equal(t, map[string]string{"id": "int", "price": "decimal:2", "flag": "bool"}, got.ToMap())
}

func TestDefault_Eligibility(t *testing.T) {
	c := caster.Default{Base: base(typemap.Defaults())}

	tests := []struct {
		col  schema.Column
		e    discovery.Entity
		want bool
	}{
		{schema.Column{Name: "body", Type: schema.Text}, product, false},
		{schema.Column{Name: "code", Type: schema.AsciiString}, product, false},
		{schema.Column{Name: "title", Type: schema.String}, product, false},
		{schema.Column{Name: "created_at", Type: schema.DateTime}, product, false},
		{schema.Column{Name: "updated_at", Type: schema.DateTime}, product, false},
		{schema.Column{Name: "published_at", Type: schema.DateTime}, product, true},
		{schema.Column{Name: "meta", Type: schema.Json}, product, true},
		// Entities without timestamp column names keep those columns.
		{schema.Column{Name: "created_at", Type: schema.DateTime}, discovery.Entity{Name: "Log"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.col.Name+"/"+string(tt.col.Type), func(t *testing.T) {
			assert.Equal(t, tt.want, c.Eligible(tt.col, tt.e))
		})
	}
}

func TestPermissive_KeepsEverythingMapped(t *testing.T) {
	c := caster.Permissive{Base: base(typemap.Opinionated())}

	got, err := caster.ResolveAll(c, productColumns(), product)
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "price", "flag", "label", "created_at"}, got.Keys())
	v, _ := got.Get("created_at")
	assert.Equal(t, directive.ImmutableDateTime, v)
}

func TestResolveAll_OmitsColumnsWithoutDirective(t *testing.T) {
	c := caster.Permissive{Base: base(typemap.Defaults())}
	cols := []schema.Column{
		{Name: "geo", Type: schema.Unknown},
		{Name: "n", Type: schema.Integer},
	}

	got, err := caster.ResolveAll(c, cols, product)
	require.NoError(t, err)
	assert.Equal(t, []string{"n"}, got.Keys())
}

func TestResolveAll_EmptyColumns(t *testing.T) {
	got, err := caster.ResolveAll(caster.Default{Base: base(typemap.Defaults())}, nil, product)
	require.NoError(t, err)
	assert.Zero(t, got.Len())
}

func TestResolveAll_RejectsInvalidDirective(t *testing.T) {
	var types typemap.TypeMap
	types.Set(schema.Json, "not_a_cast")
	c := caster.Default{Base: base(types)}

	_, err := caster.ResolveAll(c, []schema.Column{{Name: "meta", Type: schema.Json}}, product)
	require.Error(t, err)

	var invalid *caster.InvalidDirectiveError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "meta", invalid.Column)
	assert.Equal(t, schema.Json, invalid.Type)
	assert.Equal(t, "not_a_cast", invalid.Directive)
	assert.Contains(t, err.Error(), `"not_a_cast"`)
	assert.Contains(t, err.Error(), `"meta"`)
	assert.Contains(t, err.Error(), `"json"`)
}

func TestResolveAll_AcceptsRegisteredCapabilities(t *testing.T) {
	var types typemap.TypeMap
	types.Set(schema.Decimal, `App\Casts\Money`)
	types.Set(schema.Json, `App\Casts\Settings`)
	c := caster.Default{Base: base(types,
		directive.WithNames(directive.Castable, `App\Casts\Money`),
		directive.WithNames(directive.AttributeTransform, `App\Casts\Settings`),
	)}
	cols := []schema.Column{
		{Name: "total", Type: schema.Decimal, Precision: schema.IntPtr(10)},
		{Name: "settings", Type: schema.Json},
	}

	got, err := caster.ResolveAll(c, cols, product)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"total": `App\Casts\Money:10`, "settings": `App\Casts\Settings`}, got.ToMap())
}

func TestOverride(t *testing.T) {
	b := base(typemap.Opinionated())
	c := caster.Override{
		Base:       b,
		Parent:     caster.Default{Base: b},
		Skip:       map[string]bool{"flag": true},
		Directives: map[string]string{"label": directive.AsStringable, "id": directive.String},
	}

	got, err := caster.ResolveAll(c, productColumns(), product)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "price", "label"}, got.Keys())
	assert.Equal(t, map[string]string{"id": "string", "price": "decimal:2", "label": directive.AsStringable}, got.ToMap())

	c.Directives = map[string]string{"label": "nope"}
	_, err = caster.ResolveAll(c, productColumns(), product)
	var invalid *caster.InvalidDirectiveError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "label", invalid.Column)
}

func TestResolveAll_FollowsColumnOrder(t *testing.T) {
	faker := gofakeit.New(7)
	c := caster.Permissive{Base: base(typemap.Opinionated())}
	mapped := []schema.StorageType{schema.Integer, schema.Boolean, schema.Float, schema.Json, schema.Date}

	var cols []schema.Column
	var want []string
	seen := map[string]bool{}
	for len(cols) < 25 {
		name := faker.Noun() + "_" + faker.Word()
		if seen[name] {
			continue
		}
		seen[name] = true
		cols = append(cols, schema.Column{Name: name, Type: mapped[faker.Number(0, len(mapped)-1)]})
		want = append(want, name)
	}

	got, err := caster.ResolveAll(c, cols, product)
	require.NoError(t, err)
	assert.Equal(t, want, got.Keys())
}
