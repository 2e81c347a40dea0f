package permission

import (
	"context"

	vo "github.com/aegis-idp/aegis/internal/domain/permission/value_objects"
)

// GrantFilter narrows grant listings for the administrative API.
type GrantFilter struct {
	SubjectType vo.SubjectType
	SubjectID   string
	ResourceID  uint
	EnabledOnly bool
	Page        int
	PageSize    int
}

// GrantRepository persists authorization grants.
type GrantRepository interface {
	Create(ctx context.Context, grant *Grant) error
	Update(ctx context.Context, grant *Grant) error
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (*Grant, error)
	// GetActiveBySubjectAndResource returns the single active grant for the
	// tuple, or nil. The at-most-one-active invariant is enforced here.
	GetActiveBySubjectAndResource(ctx context.Context, subject vo.Subject, resourceID uint) (*Grant, error)
	// ListActiveBySubjects returns every enabled, unexpired grant held by
	// any of the given subjects, ordered by creation.
	ListActiveBySubjects(ctx context.Context, subjects []vo.Subject) ([]*Grant, error)
	List(ctx context.Context, filter GrantFilter) ([]*Grant, int64, error)
}

// MembershipRepository is the read model over the external membership
// store: which groups and organizations a user belongs to.
type MembershipRepository interface {
	// ListForUser returns the group/organization subjects the user is a
	// direct member of, in membership-creation order.
	ListForUser(ctx context.Context, userID string) ([]vo.Subject, error)
}
