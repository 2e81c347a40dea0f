package value_objects

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseScopeSet(t *testing.T) {
	tests := []struct {
		name         string
		raw          string
		wantCodes    []ScopeCode
		wantFallback bool
	}{
		{
			name:      "compact form",
			raw:       "@r@c@u@d",
			wantCodes: []ScopeCode{ScopeRead, ScopeCreate, ScopeUpdate, ScopeDelete},
		},
		{
			name:      "compact form single scope",
			raw:       "@e",
			wantCodes: []ScopeCode{ScopeExecute},
		},
		{
			name:      "compact form drops unknown codes",
			raw:       "@r@zz@c",
			wantCodes: []ScopeCode{ScopeRead, ScopeCreate},
		},
		{
			name:      "json array",
			raw:       `["r","c"]`,
			wantCodes: []ScopeCode{ScopeRead, ScopeCreate},
		},
		{
			name:      "json array drops unknown codes",
			raw:       `["r","x"]`,
			wantCodes: []ScopeCode{ScopeRead},
		},
		{
			name:      "empty input is the empty set",
			raw:       "",
			wantCodes: nil,
		},
		{
			name:      "whitespace only",
			raw:       "   ",
			wantCodes: nil,
		},
		{
			name:         "malformed json falls back to empty",
			raw:          `["r",`,
			wantCodes:    nil,
			wantFallback: true,
		},
		{
			name:         "unrecognized legacy encoding falls back to empty",
			raw:          "read,create",
			wantCodes:    nil,
			wantFallback: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, fallback := ParseScopeSet(tt.raw)
			assert.Equal(t, tt.wantFallback, fallback)
			if len(tt.wantCodes) == 0 {
				assert.True(t, set.IsEmpty())
			} else {
				assert.Equal(t, tt.wantCodes, set.Codes())
			}
		})
	}
}

func TestScopeSetRoundTrip(t *testing.T) {
	// parse(serialize(parse(s))) == parse(s) for well-formed inputs
	inputs := []string{"@r", "@r@c", "@u@d@e", "@r@c@u@d@e", `["c","d"]`, ""}

	for _, raw := range inputs {
		first, fallback := ParseScopeSet(raw)
		assert.False(t, fallback, "input %q should parse cleanly", raw)

		second, fallback := ParseScopeSet(first.String())
		assert.False(t, fallback)
		assert.Equal(t, first, second, "round trip for %q", raw)
	}
}

func TestScopeSetCanonicalOrder(t *testing.T) {
	// serialization order follows the catalog regardless of input order
	set, _ := ParseScopeSet("@e@r@d")
	assert.Equal(t, "@r@d@e", set.String())
}

func TestScopeSetUnion(t *testing.T) {
	a := NewScopeSet(ScopeRead, ScopeCreate)
	b := NewScopeSet(ScopeCreate, ScopeDelete)

	merged := a.Union(b)
	assert.Equal(t, []ScopeCode{ScopeRead, ScopeCreate, ScopeDelete}, merged.Codes())

	// commutative
	assert.Equal(t, merged, b.Union(a))
	// idempotent
	assert.Equal(t, merged, merged.Union(merged))
	// associative
	c := NewScopeSet(ScopeExecute)
	assert.Equal(t, a.Union(b).Union(c), a.Union(b.Union(c)))

	// union never subtracts: merged contains both operands
	assert.True(t, merged.ContainsAll(a))
	assert.True(t, merged.ContainsAll(b))
}

func TestScopeSetContains(t *testing.T) {
	set := NewScopeSet(ScopeRead, ScopeExecute)

	assert.True(t, set.Contains(ScopeRead))
	assert.True(t, set.Contains(ScopeExecute))
	assert.False(t, set.Contains(ScopeDelete))
	assert.False(t, set.Contains(ScopeCode("unknown")))
}

func TestFullScopeSet(t *testing.T) {
	full := FullScopeSet()
	for _, code := range ScopeCatalog() {
		assert.True(t, full.Contains(code))
	}
	assert.Equal(t, "@r@c@u@d@e", full.String())
}

func TestNewScopeSetDropsUnknownCodes(t *testing.T) {
	set := NewScopeSet(ScopeRead, ScopeCode("bogus"))
	assert.Equal(t, []ScopeCode{ScopeRead}, set.Codes())
}
