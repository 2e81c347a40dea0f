package permission

import (
	"time"

	vo "github.com/aegis-idp/aegis/internal/domain/permission/value_objects"
)

// GrantSource classifies where an effective permission came from.
type GrantSource string

const (
	SourceDirect       GrantSource = "direct"
	SourceGroup        GrantSource = "group"
	SourceOrganization GrantSource = "organization"
	SourceRole         GrantSource = "role"
)

// SourceForSubjectType maps a grant subject kind onto its provenance class.
func SourceForSubjectType(t vo.SubjectType) GrantSource {
	switch t {
	case vo.SubjectGroup:
		return SourceGroup
	case vo.SubjectOrganization:
		return SourceOrganization
	case vo.SubjectRole:
		return SourceRole
	default:
		return SourceDirect
	}
}

// Provenance records one contributing grant behind an effective permission.
// A resource may legitimately show several sources.
type Provenance struct {
	Source     GrantSource
	SourceID   string
	SourceName string
	GrantedAt  time.Time
}

// EffectivePermission is the resolved, inheritance-expanded scope set a
// subject holds on one resource. It is derived fresh on every resolution
// and never cached: staleness here directly controls access decisions.
type EffectivePermission struct {
	ResourceID   uint
	ResourceCode string
	ClientID     uint
	Scopes       vo.ScopeSet
	Sources      []Provenance
}
