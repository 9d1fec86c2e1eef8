package cmd

import (
	"bytes"
	"testing"

	"auto-cast/internal/caster"
	"auto-cast/internal/discovery"
	"auto-cast/internal/engine"
	"auto-cast/internal/schema"
	"auto-cast/internal/typemap"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadYAML(t *testing.T, doc string) *viper.Viper {
	t.Helper()
	v := viper.New()
	setDefaults(v)
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(bytes.NewBufferString(doc)))
	return v
}

func TestGetActiveDBConfig(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		want    string
		wantErr string
	}{
		{
			name: "single active",
			doc: `
connections:
  - {name: main, driver: mysql, dsn: "root@tcp(localhost)/shop", active: true}
  - {name: archive, driver: postgres, dsn: "postgres://localhost/archive"}
`,
			want: "main",
		},
		{
			name: "lone connection is active",
			doc: `
connections:
  - {name: main, dsn: "root@tcp(localhost)/shop"}
`,
			want: "main",
		},
		{
			name: "none active",
			doc: `
connections:
  - {name: a, dsn: x}
  - {name: b, dsn: y}
`,
			wantErr: "no active connection",
		},
		{
			name: "two active",
			doc: `
connections:
  - {name: a, dsn: x, active: true}
  - {name: b, dsn: y, active: true}
`,
			wantErr: "multiple active",
		},
		{
			name: "missing dsn",
			doc: `
connections:
  - {name: a, active: true}
`,
			wantErr: "has no dsn",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GetActiveDBConfig(loadYAML(t, tt.doc))
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Name)
		})
	}
}

func TestEngineConfig(t *testing.T) {
	v := loadYAML(t, `
discover:
  directory: app/Models
  base_path: app
  base_namespace: App
casts:
  types_map:
    bigint: int
    json: collection
    unknown: ~
  custom_casters:
    - {entity: App.Models.User, caster: billing}
    - {entity: App.Models.Log, caster: permissive}
  casters:
    - name: billing
      skip: [legacy_flag]
      directives:
        - {column: total, directive: "decimal:4"}
  capabilities:
    castable: ['App\Casts\Money']
    enum: ['App\Enums\Status']
`)

	cfg, opts, err := engineConfig(v)
	require.NoError(t, err)
	assert.Len(t, opts, 3)

	assert.Equal(t, "app/Models", *cfg.Discover.Directory)
	assert.Equal(t, "app", *cfg.Discover.BasePath)
	assert.Equal(t, "App", *cfg.Discover.BaseNamespace)
	assert.Equal(t, "default", cfg.TypeMapper)
	assert.Equal(t, "default", cfg.DefaultCaster)

	assert.Equal(t, []schema.StorageType{schema.BigInt, schema.Json, schema.Unknown}, cfg.TypesMap.Types())
	assert.Equal(t, []string{"App.Models.User", "App.Models.Log"}, cfg.CustomCasters.Keys())
	identity, _ := cfg.CustomCasters.Get("App.Models.User")
	assert.Equal(t, "billing", identity)
}

func TestEngineConfig_DrivesARun(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "models/Invoice.yaml", []byte("table: invoices\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "schema.yaml", []byte(`
connections:
  main:
    tables:
      invoices:
        - {name: id, type: bigint}
        - {name: total, type: decimal, precision: 10}
        - {name: status, type: string}
        - {name: legacy_flag, type: boolean}
`), 0o644))

	v := loadYAML(t, `
schema:
  source: static
  file: schema.yaml
discover:
  directory: models
casts:
  types_map: opinionated
  default_caster: billing
  casters:
    - name: billing
      extends: default
      skip: [legacy_flag]
      directives:
        - {column: status, directive: 'App\Enums\Status'}
  capabilities:
    enum: ['App\Enums\Status']
`)

	cfg, opts, err := engineConfig(v)
	require.NoError(t, err)
	in, closer, err := openIntrospector(v, fs)
	require.NoError(t, err)
	defer closer()

	m, err := engine.Run(cfg, discovery.NewFinder(fs), in, opts...)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"id": "int", "total": "decimal:10", "status": `App\Enums\Status`},
		m.ForEntity("Invoice").ToMap())
}

func TestEngineConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown preset", "casts:\n  types_map: relaxed\n"},
		{"bad types map value", "casts:\n  types_map:\n    json: [a, b]\n"},
		{"unknown capability", "casts:\n  capabilities:\n    magic: [X]\n"},
		{"nameless caster", "casts:\n  casters:\n    - {extends: default}\n"},
		{"self extending caster", "casts:\n  casters:\n    - {name: a, extends: a}\n"},
		{"pin without directive", "casts:\n  casters:\n    - {name: a, directives: [{column: x}]}\n"},
		{"column pinned twice", "casts:\n  casters:\n    - {name: a, directives: [{column: x, directive: int}, {column: x, directive: bool}]}\n"},
		{"incomplete assignment", "casts:\n  custom_casters:\n    - {entity: App.Models.User}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := engineConfig(loadYAML(t, tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestDiscoverParams_UnsetKeysAreNil(t *testing.T) {
	v := viper.New()
	p := discoverParams(v)
	assert.Nil(t, p.Directory)
	assert.Nil(t, p.BasePath)
	assert.Nil(t, p.BaseNamespace)

	setDefaults(v)
	p = discoverParams(v)
	require.NotNil(t, p.Directory)
	assert.Equal(t, "app/Models", *p.Directory)
}

func TestTypesMap_Presets(t *testing.T) {
	tm, err := typesMap(loadYAML(t, "casts:\n  types_map: opinionated\n"))
	require.NoError(t, err)
	kw, _ := tm.Lookup(schema.BigInt)
	assert.Equal(t, "int", kw)

	tm, err = typesMap(loadYAML(t, "casts: {}\n"))
	require.NoError(t, err)
	assert.True(t, tm.IsEmpty())
}

func TestCasterRegistry(t *testing.T) {
	r, err := casterRegistry(loadYAML(t, `
casts:
  casters:
    - {name: strict, extends: permissive, skip: [notes]}
`))
	require.NoError(t, err)
	assert.True(t, r.Has("strict"))

	c, err := r.Build("strict", caster.NewBase(typemap.New(typemap.Defaults()), nil))
	require.NoError(t, err)
	assert.False(t, c.Eligible(schema.Column{Name: "notes", Type: schema.Text}, discovery.Entity{}))
	assert.True(t, c.Eligible(schema.Column{Name: "title", Type: schema.String}, discovery.Entity{}))
}

func TestCasterRegistry_PinnedColumnKeepsCase(t *testing.T) {
	r, err := casterRegistry(loadYAML(t, `
casts:
  casters:
    - name: pinned
      directives:
        - {column: isActive, directive: bool}
        - {column: meta, directive: json}
`))
	require.NoError(t, err)

	c, err := r.Build("pinned", caster.NewBase(typemap.New(typemap.Defaults()), nil))
	require.NoError(t, err)

	tests := []struct {
		col  schema.Column
		want string
	}{
		{schema.Column{Name: "isActive", Type: schema.String}, "bool"},
		{schema.Column{Name: "meta", Type: schema.String}, "json"},
	}
	for _, tt := range tests {
		t.Run(tt.col.Name, func(t *testing.T) {
			require.True(t, c.Eligible(tt.col, discovery.Entity{}))
			got, err := c.Resolve(tt.col, discovery.Entity{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
	assert.False(t, c.Eligible(schema.Column{Name: "isactive", Type: schema.String}, discovery.Entity{}))
}

func TestOpenIntrospector(t *testing.T) {
	fs := afero.NewMemMapFs()

	_, _, err := openIntrospector(loadYAML(t, "schema:\n  source: static\n"), fs)
	assert.ErrorContains(t, err, "schema.file")

	_, _, err = openIntrospector(loadYAML(t, "schema:\n  source: graphql\n"), fs)
	assert.ErrorContains(t, err, "unknown schema.source")

	_, _, err = openIntrospector(loadYAML(t, "schema:\n  source: database\n"), fs)
	assert.ErrorContains(t, err, "no active connection")
}

func TestDetectDriver(t *testing.T) {
	tests := map[string]string{
		"postgres://u:p@localhost/db":            "postgres",
		"host=localhost sslmode=disable":         "postgres",
		"sqlserver://sa:pw@localhost?database=x": "sqlserver",
		"oracle://u:p@localhost:1521/XE":         "oracle",
		"root:root@tcp(127.0.0.1:3306)/shop":     "mysql",
	}
	for dsn, want := range tests {
		assert.Equal(t, want, detectDriver(dsn), dsn)
	}
}
