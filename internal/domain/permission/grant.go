package permission

import (
	"fmt"
	"time"

	vo "github.com/aegis-idp/aegis/internal/domain/permission/value_objects"
)

// Grant is the core authorization record linking a subject to a resource
// and a scope set. Grants are purely additive; there is no deny model.
// At most one active grant exists per (subject, resource) tuple — updates
// replace the scope set instead of appending rows.
type Grant struct {
	id                uint
	subject           vo.Subject
	subjectName       string
	resourceID        uint
	scopes            vo.ScopeSet
	inheritToChildren bool
	enabled           bool
	expiresAt         *time.Time
	grantedBy         string
	grantedAt         time.Time
	updatedAt         time.Time
}

func NewGrant(subject vo.Subject, subjectName string, resourceID uint, scopes vo.ScopeSet, inheritToChildren bool, expiresAt *time.Time, grantedBy string) (*Grant, error) {
	if !subject.Type.IsValid() || subject.ID == "" {
		return nil, fmt.Errorf("invalid grant subject: %v", subject)
	}
	if resourceID == 0 {
		return nil, fmt.Errorf("grant resource id is required")
	}
	if scopes.IsEmpty() {
		return nil, fmt.Errorf("grant scope set cannot be empty")
	}

	now := time.Now().UTC()
	return &Grant{
		subject:           subject,
		subjectName:       subjectName,
		resourceID:        resourceID,
		scopes:            scopes,
		inheritToChildren: inheritToChildren,
		enabled:           true,
		expiresAt:         expiresAt,
		grantedBy:         grantedBy,
		grantedAt:         now,
		updatedAt:         now,
	}, nil
}

func ReconstructGrant(id uint, subject vo.Subject, subjectName string, resourceID uint, scopes vo.ScopeSet, inheritToChildren, enabled bool, expiresAt *time.Time, grantedBy string, grantedAt, updatedAt time.Time) (*Grant, error) {
	if id == 0 {
		return nil, fmt.Errorf("grant ID cannot be zero")
	}
	return &Grant{
		id:                id,
		subject:           subject,
		subjectName:       subjectName,
		resourceID:        resourceID,
		scopes:            scopes,
		inheritToChildren: inheritToChildren,
		enabled:           enabled,
		expiresAt:         expiresAt,
		grantedBy:         grantedBy,
		grantedAt:         grantedAt,
		updatedAt:         updatedAt,
	}, nil
}

func (g *Grant) ID() uint {
	return g.id
}

func (g *Grant) SetID(id uint) error {
	if g.id != 0 {
		return fmt.Errorf("grant ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("grant ID cannot be zero")
	}
	g.id = id
	return nil
}

func (g *Grant) Subject() vo.Subject {
	return g.subject
}

func (g *Grant) SubjectName() string {
	return g.subjectName
}

func (g *Grant) ResourceID() uint {
	return g.resourceID
}

func (g *Grant) Scopes() vo.ScopeSet {
	return g.scopes
}

func (g *Grant) InheritToChildren() bool {
	return g.inheritToChildren
}

func (g *Grant) Enabled() bool {
	return g.enabled
}

func (g *Grant) ExpiresAt() *time.Time {
	return g.expiresAt
}

func (g *Grant) GrantedBy() string {
	return g.grantedBy
}

func (g *Grant) GrantedAt() time.Time {
	return g.grantedAt
}

func (g *Grant) UpdatedAt() time.Time {
	return g.updatedAt
}

// IsActive reports whether the grant contributes to resolution at the
// given instant: enabled and not past its optional expiry.
func (g *Grant) IsActive(now time.Time) bool {
	if !g.enabled {
		return false
	}
	if g.expiresAt != nil && !g.expiresAt.After(now) {
		return false
	}
	return true
}

// ReplaceScopes swaps the scope set. The invariant of one active grant
// per (subject, resource) means scope changes mutate in place rather
// than creating duplicate rows.
func (g *Grant) ReplaceScopes(scopes vo.ScopeSet) error {
	if scopes.IsEmpty() {
		return fmt.Errorf("grant scope set cannot be empty")
	}
	g.scopes = scopes
	g.updatedAt = time.Now().UTC()
	return nil
}

// SetInheritToChildren toggles resource-tree inheritance for this grant.
func (g *Grant) SetInheritToChildren(inherit bool) {
	g.inheritToChildren = inherit
	g.updatedAt = time.Now().UTC()
}

// SetExpiry replaces the optional expiry timestamp.
func (g *Grant) SetExpiry(expiresAt *time.Time) {
	g.expiresAt = expiresAt
	g.updatedAt = time.Now().UTC()
}

func (g *Grant) Disable() {
	g.enabled = false
	g.updatedAt = time.Now().UTC()
}

func (g *Grant) Enable() {
	g.enabled = true
	g.updatedAt = time.Now().UTC()
}
