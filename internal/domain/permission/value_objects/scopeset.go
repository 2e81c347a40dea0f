package value_objects

import (
	"encoding/json"
	"strings"
)

// ScopeCode is an atomic permitted action code.
type ScopeCode string

const (
	ScopeRead    ScopeCode = "r"
	ScopeCreate  ScopeCode = "c"
	ScopeUpdate  ScopeCode = "u"
	ScopeDelete  ScopeCode = "d"
	ScopeExecute ScopeCode = "e"
)

// scopeCatalog is the fixed, enumerable scope set of this deployment,
// in canonical serialization order.
var scopeCatalog = []ScopeCode{ScopeRead, ScopeCreate, ScopeUpdate, ScopeDelete, ScopeExecute}

var scopeNames = map[ScopeCode]string{
	ScopeRead:    "read",
	ScopeCreate:  "create",
	ScopeUpdate:  "update",
	ScopeDelete:  "delete",
	ScopeExecute: "execute",
}

var scopeIndex = func() map[ScopeCode]uint {
	m := make(map[ScopeCode]uint, len(scopeCatalog))
	for i, code := range scopeCatalog {
		m[code] = uint(i)
	}
	return m
}()

// ScopeCatalog returns all recognized scope codes in canonical order.
func ScopeCatalog() []ScopeCode {
	out := make([]ScopeCode, len(scopeCatalog))
	copy(out, scopeCatalog)
	return out
}

// ScopeName returns the display name of a scope code, or the code itself
// if no name is registered.
func ScopeName(code ScopeCode) string {
	if name, ok := scopeNames[code]; ok {
		return name
	}
	return string(code)
}

// IsKnownScope reports whether the code belongs to the catalog.
func IsKnownScope(code ScopeCode) bool {
	_, ok := scopeIndex[code]
	return ok
}

// compactPrefix is the sentinel that introduces each token in the compact
// legacy encoding, e.g. "@r@c@u".
const compactPrefix = '@'

// ScopeSet is an immutable set of scope codes over the catalog. The zero
// value is the empty set; sets are comparable with ==.
type ScopeSet struct {
	mask uint32
}

// EmptyScopeSet returns the empty set.
func EmptyScopeSet() ScopeSet {
	return ScopeSet{}
}

// NewScopeSet builds a set from the given codes, dropping unknown codes.
func NewScopeSet(codes ...ScopeCode) ScopeSet {
	var s ScopeSet
	for _, code := range codes {
		if idx, ok := scopeIndex[code]; ok {
			s.mask |= 1 << idx
		}
	}
	return s
}

// FullScopeSet returns the set containing the whole catalog.
func FullScopeSet() ScopeSet {
	return NewScopeSet(scopeCatalog...)
}

// ParseScopeSet decodes a persisted scope encoding. Source data mixes a
// compact sentinel-prefixed form ("@r@c@u") with JSON arrays of codes
// (`["r","c"]`); dispatch is on the leading character. Anything else is a
// legacy value we cannot interpret: the result is the empty set and
// fallback is true so the caller can surface the occurrence instead of
// guessing silently. Resolution stays total either way.
func ParseScopeSet(raw string) (set ScopeSet, fallback bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ScopeSet{}, false
	}

	switch raw[0] {
	case compactPrefix:
		return parseCompact(raw), false
	case '[':
		var codes []string
		if err := json.Unmarshal([]byte(raw), &codes); err != nil {
			return ScopeSet{}, true
		}
		var s ScopeSet
		for _, code := range codes {
			s = s.With(ScopeCode(code))
		}
		return s, false
	default:
		return ScopeSet{}, true
	}
}

func parseCompact(raw string) ScopeSet {
	var s ScopeSet
	for _, token := range strings.Split(raw, string(compactPrefix)) {
		if token == "" {
			continue
		}
		s = s.With(ScopeCode(token))
	}
	return s
}

// With returns the set extended with code; unknown codes are dropped.
func (s ScopeSet) With(code ScopeCode) ScopeSet {
	if idx, ok := scopeIndex[code]; ok {
		s.mask |= 1 << idx
	}
	return s
}

// Union returns the merged set. Union is commutative, idempotent and
// associative; it is the only merge operation grants ever need because
// grants are purely additive.
func (s ScopeSet) Union(o ScopeSet) ScopeSet {
	return ScopeSet{mask: s.mask | o.mask}
}

// Contains reports whether the set holds the given code.
func (s ScopeSet) Contains(code ScopeCode) bool {
	idx, ok := scopeIndex[code]
	if !ok {
		return false
	}
	return s.mask&(1<<idx) != 0
}

// ContainsAll reports whether the set holds every code of o.
func (s ScopeSet) ContainsAll(o ScopeSet) bool {
	return s.mask&o.mask == o.mask
}

// IsEmpty reports whether the set holds no codes.
func (s ScopeSet) IsEmpty() bool {
	return s.mask == 0
}

// Codes returns the member codes in canonical catalog order.
func (s ScopeSet) Codes() []ScopeCode {
	out := make([]ScopeCode, 0, len(scopeCatalog))
	for i, code := range scopeCatalog {
		if s.mask&(1<<uint(i)) != 0 {
			out = append(out, code)
		}
	}
	return out
}

// String returns the canonical compact serialization ("@r@c@u"). It
// round-trips through ParseScopeSet for any set built from catalog codes.
func (s ScopeSet) String() string {
	if s.mask == 0 {
		return ""
	}
	var b strings.Builder
	for i, code := range scopeCatalog {
		if s.mask&(1<<uint(i)) != 0 {
			b.WriteByte(compactPrefix)
			b.WriteString(string(code))
		}
	}
	return b.String()
}
