package usecases

import (
	"context"
	"sort"

	"github.com/aegis-idp/aegis/internal/domain/permission"
	vo "github.com/aegis-idp/aegis/internal/domain/permission/value_objects"
	"github.com/aegis-idp/aegis/internal/domain/resource"
	"github.com/aegis-idp/aegis/internal/shared/biztime"
	"github.com/aegis-idp/aegis/internal/shared/errors"
	"github.com/aegis-idp/aegis/internal/shared/logger"
)

// ResolvePermissionsUseCase computes the merged, inheritance-expanded
// permission set for a user: direct grants plus grants held by the
// groups and organizations the user belongs to, expanded over the
// resource tree where a grant inherits to children, merged per resource
// by scope-set union. The result is derived fresh on every call and
// never cached; staleness here directly controls access decisions.
type ResolvePermissionsUseCase struct {
	grantRepo      permission.GrantRepository
	membershipRepo permission.MembershipRepository
	resourceRepo   resource.Repository
	logger         logger.Interface
}

func NewResolvePermissionsUseCase(
	grantRepo permission.GrantRepository,
	membershipRepo permission.MembershipRepository,
	resourceRepo resource.Repository,
	logger logger.Interface,
) *ResolvePermissionsUseCase {
	return &ResolvePermissionsUseCase{
		grantRepo:      grantRepo,
		membershipRepo: membershipRepo,
		resourceRepo:   resourceRepo,
		logger:         logger,
	}
}

// Resolution bundles the resolved permissions with the resource tree
// snapshot they were computed against, so callers can keep resolving
// codes against the same consistent snapshot.
type Resolution struct {
	Permissions []permission.EffectivePermission
	Tree        *resource.Tree
}

// PermissionFor returns the effective permission on one resource, if any.
func (r *Resolution) PermissionFor(resourceID uint) (permission.EffectivePermission, bool) {
	for _, p := range r.Permissions {
		if p.ResourceID == resourceID {
			return p, true
		}
	}
	return permission.EffectivePermission{}, false
}

// Execute resolves the effective permissions of the given user. Storage
// failures surface as retryable StorageUnavailable trust errors.
func (uc *ResolvePermissionsUseCase) Execute(ctx context.Context, userID string) (*Resolution, error) {
	if userID == "" {
		return nil, errors.NewValidationError("user ID is required")
	}

	subjects := []vo.Subject{vo.UserSubject(userID)}

	memberships, err := uc.membershipRepo.ListForUser(ctx, userID)
	if err != nil {
		uc.logger.Errorw("failed to load user memberships", "error", err, "user_id", userID)
		return nil, errors.NewStorageUnavailableError("membership store unavailable")
	}
	subjects = append(subjects, memberships...)

	grants, err := uc.grantRepo.ListActiveBySubjects(ctx, subjects)
	if err != nil {
		uc.logger.Errorw("failed to load grants", "error", err, "user_id", userID)
		return nil, errors.NewStorageUnavailableError("grant store unavailable")
	}

	resources, err := uc.resourceRepo.ListAll(ctx)
	if err != nil {
		uc.logger.Errorw("failed to load resource tree", "error", err, "user_id", userID)
		return nil, errors.NewStorageUnavailableError("resource store unavailable")
	}
	tree := resource.NewTree(resources)

	permissions, err := uc.merge(grants, tree)
	if err != nil {
		uc.logger.Errorw("failed to expand grants over resource tree", "error", err, "user_id", userID)
		return nil, errors.NewStorageUnavailableError("resource tree inconsistent")
	}

	uc.logger.Infow("permissions resolved",
		"user_id", userID,
		"membership_count", len(memberships),
		"grant_count", len(grants),
		"resource_count", len(permissions),
	)

	return &Resolution{Permissions: permissions, Tree: tree}, nil
}

type mergedEntry struct {
	scopes  vo.ScopeSet
	sources []permission.Provenance
}

// merge expands each surviving grant onto its resource and, when the
// grant inherits to children, onto every descendant, then unions scope
// sets per resource. Grants are purely additive, so union is always the
// correct merge.
func (uc *ResolvePermissionsUseCase) merge(grants []*permission.Grant, tree *resource.Tree) ([]permission.EffectivePermission, error) {
	now := biztime.NowUTC()
	entries := make(map[uint]*mergedEntry)

	emit := func(resourceID uint, g *permission.Grant) {
		e, ok := entries[resourceID]
		if !ok {
			e = &mergedEntry{}
			entries[resourceID] = e
		}
		e.scopes = e.scopes.Union(g.Scopes())
		e.sources = append(e.sources, permission.Provenance{
			Source:     permission.SourceForSubjectType(g.Subject().Type),
			SourceID:   g.Subject().ID,
			SourceName: g.SubjectName(),
			GrantedAt:  g.GrantedAt(),
		})
	}

	for _, g := range grants {
		if !g.IsActive(now) {
			continue
		}

		if _, ok := tree.Get(g.ResourceID()); !ok {
			// grant points at a disabled or deleted resource; it cannot
			// contribute until the resource reappears
			uc.logger.Warnw("grant references resource outside the tree",
				"grant_id", g.ID(),
				"resource_id", g.ResourceID(),
			)
			continue
		}

		emit(g.ResourceID(), g)

		if g.InheritToChildren() {
			descendants, err := tree.DescendantsOf(g.ResourceID())
			if err != nil {
				return nil, err
			}
			for _, id := range descendants {
				emit(id, g)
			}
		}
	}

	permissions := make([]permission.EffectivePermission, 0, len(entries))
	for resourceID, entry := range entries {
		res, _ := tree.Get(resourceID)
		sortProvenance(entry.sources)
		permissions = append(permissions, permission.EffectivePermission{
			ResourceID:   resourceID,
			ResourceCode: res.Code(),
			ClientID:     res.ClientID(),
			Scopes:       entry.scopes,
			Sources:      entry.sources,
		})
	}

	sort.Slice(permissions, func(i, j int) bool {
		if permissions[i].ClientID != permissions[j].ClientID {
			return permissions[i].ClientID < permissions[j].ClientID
		}
		return permissions[i].ResourceID < permissions[j].ResourceID
	})

	return permissions, nil
}

// sortProvenance orders contributing sources for display: direct grants
// first, then membership-derived ones, each in grant-creation order.
func sortProvenance(sources []permission.Provenance) {
	sort.SliceStable(sources, func(i, j int) bool {
		iDirect := sources[i].Source == permission.SourceDirect
		jDirect := sources[j].Source == permission.SourceDirect
		if iDirect != jDirect {
			return iDirect
		}
		return sources[i].GrantedAt.Before(sources[j].GrantedAt)
	})
}
