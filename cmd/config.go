package cmd

import (
	"database/sql"
	"fmt"
	"strings"

	"auto-cast/internal/caster"
	"auto-cast/internal/dialect"
	"auto-cast/internal/directive"
	"auto-cast/internal/discovery"
	"auto-cast/internal/engine"
	"auto-cast/internal/schema"
	"auto-cast/internal/typemap"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

type DBConfig struct {
	Name   string `mapstructure:"name"`
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
	Schema string `mapstructure:"schema"`
	Active bool   `mapstructure:"active"`
}

// CasterConfig declares a custom caster on top of another one.
type CasterConfig struct {
	Name       string                  `mapstructure:"name"`
	Extends    string                  `mapstructure:"extends"`
	Skip       []string                `mapstructure:"skip"`
	Directives []PinnedDirectiveConfig `mapstructure:"directives"`
}

// PinnedDirectiveConfig pins one column to a directive. Viper lowercases
// mapping keys, so pins are a list to keep column names as written.
type PinnedDirectiveConfig struct {
	Column    string `mapstructure:"column"`
	Directive string `mapstructure:"directive"`
}

// CustomCasterConfig assigns a caster to one entity. Entity names carry
// dots, so assignments are a list rather than a mapping.
type CustomCasterConfig struct {
	Entity string `mapstructure:"entity"`
	Caster string `mapstructure:"caster"`
}

// GetConnections returns every configured connection.
func GetConnections(v *viper.Viper) ([]DBConfig, error) {
	var configs []DBConfig
	if err := v.UnmarshalKey("connections", &configs); err != nil {
		return nil, fmt.Errorf("failed to parse connections config: %w", err)
	}
	for i, c := range configs {
		if c.Name == "" {
			return nil, fmt.Errorf("connection #%d has no name", i+1)
		}
		if c.DSN == "" {
			return nil, fmt.Errorf("connection %q has no dsn", c.Name)
		}
	}
	return configs, nil
}

// GetActiveDBConfig returns the connection used by entities that do not
// name one.
func GetActiveDBConfig(v *viper.Viper) (*DBConfig, error) {
	configs, err := GetConnections(v)
	if err != nil {
		return nil, err
	}

	var activeConfig *DBConfig
	count := 0

	for i := range configs {
		if configs[i].Active {
			activeConfig = &configs[i]
			count++
		}
	}

	if count == 0 && len(configs) == 1 {
		return &configs[0], nil
	}
	if count == 0 {
		return nil, fmt.Errorf("no active connection found in config (set active: true)")
	}
	if count > 1 {
		return nil, fmt.Errorf("multiple active connections found (only one can be active)")
	}

	return activeConfig, nil
}

// optionalString returns nil for an unset key so the manifest can tell
// "not configured" apart from an empty value.
func optionalString(v *viper.Viper, key string) *string {
	if !v.IsSet(key) {
		return nil
	}
	s := v.GetString(key)
	return &s
}

// discoverParams reads the discover.* keys.
func discoverParams(v *viper.Viper) discovery.Params {
	return discovery.Params{
		Directory:     optionalString(v, "discover.directory"),
		BasePath:      optionalString(v, "discover.base_path"),
		BaseNamespace: optionalString(v, "discover.base_namespace"),
	}
}

// typesMap reads casts.types_map, which is either a preset name or a
// storage type -> keyword mapping.
func typesMap(v *viper.Viper) (typemap.TypeMap, error) {
	raw := v.Get("casts.types_map")
	switch m := raw.(type) {
	case nil:
		return typemap.TypeMap{}, nil
	case string:
		if m == "" {
			return typemap.TypeMap{}, nil
		}
		preset, ok := typemap.Preset(m)
		if !ok {
			return typemap.TypeMap{}, fmt.Errorf("unknown types map preset %q (use default or opinionated)", m)
		}
		return preset, nil
	case map[string]any:
		tm, err := typemap.FromConfig(m)
		if err != nil {
			return typemap.TypeMap{}, fmt.Errorf("casts.types_map: %w", err)
		}
		return tm, nil
	default:
		return typemap.TypeMap{}, fmt.Errorf("casts.types_map must be a preset name or a mapping, got %T", raw)
	}
}

// grammarOptions turns casts.capabilities into directive checks.
func grammarOptions(v *viper.Viper) ([]directive.Option, error) {
	caps := v.GetStringMapStringSlice("casts.capabilities")
	var opts []directive.Option
	for name, types := range caps {
		c, ok := directive.ParseCapability(strings.ToLower(name))
		if !ok {
			return nil, fmt.Errorf("unknown capability %q in casts.capabilities", name)
		}
		opts = append(opts, directive.WithNames(c, types...))
	}
	return opts, nil
}

// casterRegistry registers the casters declared under casts.casters.
func casterRegistry(v *viper.Viper) (*caster.Registry, error) {
	var configs []CasterConfig
	if err := v.UnmarshalKey("casts.casters", &configs); err != nil {
		return nil, fmt.Errorf("failed to parse casters config: %w", err)
	}

	r := caster.NewRegistry()
	for _, c := range configs {
		if c.Name == "" {
			return nil, fmt.Errorf("custom caster without name")
		}
		extends := c.Extends
		if extends == "" {
			extends = caster.DefaultCaster
		}
		pinned := make(map[string]string, len(c.Directives))
		for _, d := range c.Directives {
			if d.Column == "" || d.Directive == "" {
				return nil, fmt.Errorf("caster %s: pinned directives need both column and directive", c.Name)
			}
			if _, dup := pinned[d.Column]; dup {
				return nil, fmt.Errorf("caster %s: column %q is pinned twice", c.Name, d.Column)
			}
			pinned[d.Column] = d.Directive
		}
		if err := r.RegisterOverride(c.Name, extends, c.Skip, pinned); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// engineConfig assembles the run configuration and the registries from v.
func engineConfig(v *viper.Viper) (engine.Config, []engine.Option, error) {
	tm, err := typesMap(v)
	if err != nil {
		return engine.Config{}, nil, err
	}

	cfg := engine.Config{
		Discover:      discoverParams(v),
		TypesMap:      tm,
		TypeMapper:    v.GetString("casts.type_mapper"),
		DefaultCaster: v.GetString("casts.default_caster"),
	}

	var custom []CustomCasterConfig
	if err := v.UnmarshalKey("casts.custom_casters", &custom); err != nil {
		return engine.Config{}, nil, fmt.Errorf("failed to parse custom casters config: %w", err)
	}
	for _, c := range custom {
		if c.Entity == "" || c.Caster == "" {
			return engine.Config{}, nil, fmt.Errorf("custom caster assignments need both entity and caster")
		}
		cfg.CustomCasters.Set(c.Entity, c.Caster)
	}

	gopts, err := grammarOptions(v)
	if err != nil {
		return engine.Config{}, nil, err
	}
	casters, err := casterRegistry(v)
	if err != nil {
		return engine.Config{}, nil, err
	}

	opts := []engine.Option{
		engine.WithGrammar(directive.New(gopts...)),
		engine.WithCasters(casters),
		engine.WithMappers(typemap.NewRegistry()),
	}
	return cfg, opts, nil
}

// openIntrospector builds the column source named by schema.source. The
// returned closer releases any database handles.
func openIntrospector(v *viper.Viper, fs afero.Fs) (schema.Introspector, func(), error) {
	switch source := v.GetString("schema.source"); source {
	case "static":
		file := v.GetString("schema.file")
		if file == "" {
			return nil, nil, fmt.Errorf("schema.file is required when schema.source is static")
		}
		src, err := schema.LoadStaticFile(fs, file)
		if err != nil {
			return nil, nil, err
		}
		return src, func() {}, nil
	case "database", "":
		return openDatabases(v)
	default:
		return nil, nil, fmt.Errorf("unknown schema.source %q (use database or static)", source)
	}
}

func openDatabases(v *viper.Viper) (schema.Introspector, func(), error) {
	configs, err := GetConnections(v)
	if err != nil {
		return nil, nil, err
	}
	active, err := GetActiveDBConfig(v)
	if err != nil {
		return nil, nil, err
	}

	var dbs []*sql.DB
	closeAll := func() {
		for _, db := range dbs {
			db.Close()
		}
	}

	conns := make([]*schema.Connection, 0, len(configs))
	for _, c := range configs {
		driver := c.Driver
		if driver == "" {
			driver = detectDriver(c.DSN)
		}
		db, err := sql.Open(driver, c.DSN)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("failed to open connection %s: %w", c.Name, err)
		}
		dbs = append(dbs, db)
		if err := db.Ping(); err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("failed to connect to %s: %w", c.Name, err)
		}

		d := dialect.GetDialect(driver)
		schemaName, err := schema.CurrentSchema(db, d, c.Schema)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("connection %s: %w", c.Name, err)
		}
		logger.Debug("connected", "connection", c.Name, "driver", driver, "schema", schemaName)
		conns = append(conns, &schema.Connection{Name: c.Name, DB: db, Dialect: d, Schema: schemaName})
	}
	return schema.NewDBSource(active.Name, conns...), closeAll, nil
}

// detectDriver guesses the driver from a DSN when none is configured.
func detectDriver(dsn string) string {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"), strings.Contains(dsn, "sslmode"):
		return "postgres"
	case strings.HasPrefix(dsn, "sqlserver://"):
		return "sqlserver"
	case strings.HasPrefix(dsn, "oracle://"):
		return "oracle"
	default:
		return "mysql"
	}
}
