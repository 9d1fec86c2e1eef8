// Package directive decides whether a cast directive string is something the
// host runtime can apply.
//
// A directive is either a built-in keyword, a keyword followed by a
// parameter ("decimal:2"), or the name of a host type that implements one
// of the recognized capabilities. Only the part before the first ':' is
// checked; parameter syntax belongs to the keyword and is accepted as is.
package directive

import "strings"

// Capability identifies a behavioral contract an external type may satisfy.
type Capability int

const (
	// Castable types produce their own caster.
	Castable Capability = iota
	// AttributeTransform types convert values in both directions.
	AttributeTransform
	// InboundTransform types only convert values being written.
	InboundTransform
	// Enum types are enumerated value sets.
	Enum
)

func (c Capability) String() string {
	switch c {
	case Castable:
		return "castable"
	case AttributeTransform:
		return "attribute_transform"
	case InboundTransform:
		return "inbound_transform"
	case Enum:
		return "enum"
	default:
		return "unknown"
	}
}

// ParseCapability maps a configuration name to a Capability.
func ParseCapability(s string) (Capability, bool) {
	for _, c := range []Capability{Castable, AttributeTransform, InboundTransform, Enum} {
		if c.String() == s {
			return c, true
		}
	}
	return 0, false
}

// Check reports whether name implements a capability.
type Check func(name string) bool

// Grammar validates directive candidates. It is immutable once built.
type Grammar struct {
	checks   [4][]Check
	keywords map[string]struct{}
}

// Option configures a Grammar.
type Option func(*Grammar)

// WithCheck registers a predicate for a capability.
func WithCheck(c Capability, check Check) Option {
	return func(g *Grammar) {
		if c < Castable || c > Enum || check == nil {
			return
		}
		g.checks[c] = append(g.checks[c], check)
	}
}

// WithNames registers a fixed set of type names implementing a capability.
func WithNames(c Capability, names ...string) Option {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return WithCheck(c, func(name string) bool {
		_, ok := set[name]
		return ok
	})
}

// WithKeywords extends the primitive keyword set.
func WithKeywords(extra ...string) Option {
	return func(g *Grammar) {
		for _, k := range extra {
			g.keywords[k] = struct{}{}
		}
	}
}

// New builds a Grammar over the built-in keywords plus opts.
func New(opts ...Option) *Grammar {
	g := &Grammar{keywords: make(map[string]struct{}, len(keywords))}
	for _, k := range keywords {
		g.keywords[k] = struct{}{}
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Split returns the keyword segment and the parameter segment of a directive.
func Split(candidate string) (keyword, param string) {
	keyword, param, _ = strings.Cut(candidate, ":")
	return keyword, param
}

// Validate reports whether candidate is an acceptable directive.
func (g *Grammar) Validate(candidate string) bool {
	name, _ := Split(candidate)

	for _, c := range []Capability{Castable, AttributeTransform, InboundTransform, Enum} {
		if g.implements(c, name) {
			return true
		}
	}
	return g.isKeyword(name)
}

// Implements reports whether name satisfies capability c.
func (g *Grammar) Implements(c Capability, name string) bool {
	if c < Castable || c > Enum {
		return false
	}
	return g.implements(c, name)
}

func (g *Grammar) implements(c Capability, name string) bool {
	for _, check := range g.checks[c] {
		if check(name) {
			return true
		}
	}
	return false
}

func (g *Grammar) isKeyword(name string) bool {
	_, ok := g.keywords[name]
	return ok
}
