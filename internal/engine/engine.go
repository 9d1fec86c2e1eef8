// Package engine runs one resolution pass: discover entities, assign a
// caster to each, resolve every column and collect the manifest.
package engine

import (
	"fmt"
	"io"
	"log/slog"

	"auto-cast/internal/caster"
	"auto-cast/internal/directive"
	"auto-cast/internal/discovery"
	"auto-cast/internal/manifest"
	"auto-cast/internal/ordered"
	"auto-cast/internal/schema"
	"auto-cast/internal/typemap"

	"github.com/google/uuid"
)

// Config is the declarative input of a run.
type Config struct {
	Discover      discovery.Params
	TypesMap      typemap.TypeMap
	TypeMapper    string
	DefaultCaster string
	CustomCasters ordered.Map[string, string] // entity -> caster identity
}

type options struct {
	logger     *slog.Logger
	onProgress func(entity string)
	casters    *caster.Registry
	mappers    *typemap.Registry
	grammar    *directive.Grammar
}

// Option tweaks a run.
type Option func(*options)

// WithLogger sets the structured logger. Runs are silent by default.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithProgress is called after each entity has been resolved.
func WithProgress(fn func(entity string)) Option {
	return func(o *options) { o.onProgress = fn }
}

// WithCasters replaces the caster registry.
func WithCasters(r *caster.Registry) Option {
	return func(o *options) { o.casters = r }
}

// WithMappers replaces the type mapper registry.
func WithMappers(r *typemap.Registry) Option {
	return func(o *options) { o.mappers = r }
}

// WithGrammar replaces the directive grammar.
func WithGrammar(g *directive.Grammar) Option {
	return func(o *options) { o.grammar = g }
}

func newOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if o.casters == nil {
		o.casters = caster.NewRegistry()
	}
	if o.mappers == nil {
		o.mappers = typemap.NewRegistry()
	}
	if o.grammar == nil {
		o.grammar = directive.New()
	}
	return o
}

// Assignment pairs a discovered entity with its caster.
type Assignment struct {
	Entity   discovery.Entity
	Identity string
	Caster   caster.Caster
}

// Run resolves every discovered entity. It returns either a complete
// manifest or an error, never both.
func Run(cfg Config, d discovery.Discoverer, in schema.Introspector, opts ...Option) (*manifest.Manifest, error) {
	o := newOptions(opts)
	cfg = withDefaults(cfg)
	log := o.logger.With("run", uuid.NewString())

	// 1. Type mapper
	factory, err := o.mappers.Lookup(cfg.TypeMapper)
	if err != nil {
		return nil, err
	}
	effective := cfg.TypesMap
	if effective.IsEmpty() {
		effective = typemap.Defaults()
	}
	mapper := factory(effective)
	if mapper == nil {
		return nil, &typemap.InvalidTypeMapperError{Identity: cfg.TypeMapper}
	}
	if missing := effective.Missing(); len(missing) > 0 {
		log.Debug("types map does not cover every storage type", "missing", missing)
	}
	base := caster.NewBase(mapper, o.grammar)

	// 2. Discovery
	entities, err := d.Discover(cfg.Discover)
	if err != nil {
		return nil, fmt.Errorf("failed to discover entities: %w", err)
	}
	log.Info("discovered entities", "count", len(entities))

	// 3. Assignment, fully validated before any introspection
	assigned, err := Assign(entities, cfg, o.casters, base)
	if err != nil {
		return nil, err
	}

	// 4. Resolution
	m := &manifest.Manifest{
		DiscoverModelsUsing: cfg.Discover,
		DefaultTypesMap:     effective,
		TypeMapper:          cfg.TypeMapper,
		DefaultCaster:       cfg.DefaultCaster,
	}
	cfg.CustomCasters.Each(func(entity, identity string) bool {
		m.CustomCasters.Set(entity, identity)
		return true
	})

	for _, a := range assigned {
		cols, err := in.ColumnsOf(a.Entity.Table, a.Entity.Connection)
		if err != nil {
			return nil, fmt.Errorf("failed to introspect %s (table %s): %w", a.Entity.Name, a.Entity.Table, err)
		}

		casts, err := caster.ResolveAll(a.Caster, cols, a.Entity)
		if err != nil {
			return nil, err
		}
		m.SetEntity(a.Entity.Name, casts)

		log.Debug("resolved entity",
			"entity", a.Entity.Name,
			"caster", a.Identity,
			"columns", len(cols),
			"casts", casts.Len())
		if o.onProgress != nil {
			o.onProgress(a.Entity.Name)
		}
	}

	log.Info("resolution finished", "entities", len(assigned))
	return m, nil
}

// Assign picks the caster of every entity: its custom caster if one is
// configured, the default otherwise. Any identity that does not build a
// Caster fails the whole assignment.
func Assign(entities []discovery.Entity, cfg Config, r *caster.Registry, base caster.Base) ([]Assignment, error) {
	cfg = withDefaults(cfg)
	built := make(map[string]caster.Caster)

	out := make([]Assignment, 0, len(entities))
	for _, e := range entities {
		identity := cfg.DefaultCaster
		if custom, ok := cfg.CustomCasters.Get(e.Name); ok {
			identity = custom
		}

		c, ok := built[identity]
		if !ok {
			var err error
			c, err = r.Build(identity, base)
			if err != nil {
				return nil, fmt.Errorf("failed to assign caster to %s: %w", e.Name, err)
			}
			built[identity] = c
		}
		out = append(out, Assignment{Entity: e, Identity: identity, Caster: c})
	}
	return out, nil
}

func withDefaults(cfg Config) Config {
	if cfg.TypeMapper == "" {
		cfg.TypeMapper = typemap.DefaultMapper
	}
	if cfg.DefaultCaster == "" {
		cfg.DefaultCaster = caster.DefaultCaster
	}
	return cfg
}
