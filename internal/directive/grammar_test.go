package directive_test

import (
	"strings"
	"testing"

	"auto-cast/internal/directive"

	"github.com/stretchr/testify/assert"
)

func TestValidate_Keywords(t *testing.T) {
	g := directive.New()

	for _, k := range directive.Keywords() {
		t.Run(k, func(t *testing.T) {
			assert.True(t, g.Validate(k))
		})
	}
}

func TestValidate(t *testing.T) {
	g := directive.New(
		directive.WithNames(directive.Castable, `App\Casts\Money`),
		directive.WithNames(directive.AttributeTransform, `App\Casts\Address`),
		directive.WithNames(directive.InboundTransform, `App\Casts\Hash`),
		directive.WithCheck(directive.Enum, func(name string) bool {
			return strings.HasPrefix(name, `App\Enums\`)
		}),
	)

	tests := []struct {
		name      string
		candidate string
		want      bool
	}{
		{"rejects garbage", "nope!", false},
		{"rejects empty", "", false},
		{"int", "int", true},
		{"bool", "bool", true},
		{"decimal with precision", "decimal:4", true},
		{"parameter is not checked", "decimal:whatever", true},
		{"encrypted alias", "encrypted:array", true},
		{"unknown keyword with parameter", "money:2", false},
		{"castable", `App\Casts\Money`, true},
		{"castable with parameter", `App\Casts\Money:EUR`, true},
		{"attribute transform", `App\Casts\Address`, true},
		{"inbound transform", `App\Casts\Hash:sha256`, true},
		{"enum", `App\Enums\Status`, true},
		{"unregistered class", `App\Casts\Other`, false},
		{"built-in castable", directive.AsArrayObject, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, g.Validate(tt.candidate))
		})
	}
}

func TestValidate_CapabilitiesAreHostSpecific(t *testing.T) {
	assert.False(t, directive.New().Validate(`App\Casts\Money`))
}

func TestWithKeywords(t *testing.T) {
	g := directive.New(directive.WithKeywords("hashed"))

	assert.True(t, g.Validate("hashed"))
	assert.False(t, directive.New().Validate("hashed"))
}

func TestImplements(t *testing.T) {
	g := directive.New(directive.WithNames(directive.Enum, "Status"))

	assert.True(t, g.Implements(directive.Enum, "Status"))
	assert.False(t, g.Implements(directive.Castable, "Status"))
	assert.False(t, g.Implements(directive.Capability(42), "Status"))
}

func TestParseCapability(t *testing.T) {
	for _, c := range []directive.Capability{directive.Castable, directive.AttributeTransform, directive.InboundTransform, directive.Enum} {
		got, ok := directive.ParseCapability(c.String())
		assert.True(t, ok)
		assert.Equal(t, c, got)
	}

	_, ok := directive.ParseCapability("serializable")
	assert.False(t, ok)
}

func TestSplit(t *testing.T) {
	k, p := directive.Split("encrypted:array")
	assert.Equal(t, "encrypted", k)
	assert.Equal(t, "array", p)

	k, p = directive.Split("int")
	assert.Equal(t, "int", k)
	assert.Equal(t, "", p)
}
