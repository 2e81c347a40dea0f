package usecases

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/aegis-idp/aegis/internal/application/admin/dto"
	"github.com/aegis-idp/aegis/internal/domain/permission"
	vo "github.com/aegis-idp/aegis/internal/domain/permission/value_objects"
	"github.com/aegis-idp/aegis/internal/domain/resource"
	"github.com/aegis-idp/aegis/internal/shared/errors"
	"github.com/aegis-idp/aegis/internal/shared/logger"
)

// CreateGrantUseCase handles the business logic for granting a subject
// access to a resource.
type CreateGrantUseCase struct {
	grantRepo    permission.GrantRepository
	resourceRepo resource.Repository
	logger       logger.Interface
}

func NewCreateGrantUseCase(
	grantRepo permission.GrantRepository,
	resourceRepo resource.Repository,
	logger logger.Interface,
) *CreateGrantUseCase {
	return &CreateGrantUseCase{
		grantRepo:    grantRepo,
		resourceRepo: resourceRepo,
		logger:       logger,
	}
}

// Execute validates and persists a new grant. At most one active grant
// may exist per (subject, resource); a second create is rejected as a
// conflict and the caller should update the existing grant instead.
func (uc *CreateGrantUseCase) Execute(ctx context.Context, request dto.CreateGrantRequest) (*dto.GrantResponse, error) {
	uc.logger.Infow("executing create grant use case",
		"subject_type", request.SubjectType,
		"subject_id", request.SubjectID,
		"resource_id", request.ResourceID,
	)

	subject, err := vo.NewSubject(vo.SubjectType(request.SubjectType), request.SubjectID)
	if err != nil {
		uc.logger.Warnw("invalid grant subject", "error", err)
		return nil, errors.NewValidationError(err.Error())
	}

	scopes, err := parseScopeCodes(request.Scopes)
	if err != nil {
		uc.logger.Warnw("invalid grant scopes", "error", err, "scopes", request.Scopes)
		return nil, err
	}

	res, err := uc.resourceRepo.GetByID(ctx, request.ResourceID)
	if err != nil {
		uc.logger.Errorw("failed to look up resource", "error", err, "resource_id", request.ResourceID)
		return nil, fmt.Errorf("failed to look up resource: %w", err)
	}
	if res == nil {
		return nil, errors.NewNotFoundError(fmt.Sprintf("resource %d does not exist", request.ResourceID))
	}

	expiresAt, err := parseOptionalTime(request.ExpiresAt)
	if err != nil {
		return nil, err
	}

	grant, err := permission.NewGrant(subject, request.SubjectName, request.ResourceID, scopes, request.InheritToChildren, expiresAt, request.GrantedBy)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if err := uc.grantRepo.Create(ctx, grant); err != nil {
		if stderrors.Is(err, permission.ErrDuplicateActiveGrant) {
			uc.logger.Warnw("active grant already exists",
				"subject", subject.String(),
				"resource_id", request.ResourceID,
			)
			return nil, errors.NewConflictError("an active grant already exists for this subject and resource", "")
		}
		uc.logger.Errorw("failed to persist grant", "error", err)
		return nil, fmt.Errorf("failed to save grant: %w", err)
	}

	uc.logger.Infow("grant created",
		"grant_id", grant.ID(),
		"subject", subject.String(),
		"resource_id", request.ResourceID,
		"scopes", grant.Scopes().String(),
	)

	return toGrantResponse(grant), nil
}

func parseScopeCodes(raw []string) (vo.ScopeSet, error) {
	var scopes vo.ScopeSet
	for _, code := range raw {
		if !vo.IsKnownScope(vo.ScopeCode(code)) {
			return vo.ScopeSet{}, errors.NewValidationError(fmt.Sprintf("unknown scope code: %s", code))
		}
		scopes = scopes.With(vo.ScopeCode(code))
	}
	if scopes.IsEmpty() {
		return vo.ScopeSet{}, errors.NewValidationError("at least one scope is required")
	}
	return scopes, nil
}

func parseOptionalTime(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, *raw)
	if err != nil {
		return nil, errors.NewValidationError(fmt.Sprintf("invalid expiration time format: %s (expected RFC3339)", *raw))
	}
	return &parsed, nil
}

func toGrantResponse(g *permission.Grant) *dto.GrantResponse {
	codes := g.Scopes().Codes()
	scopes := make([]string, 0, len(codes))
	for _, code := range codes {
		scopes = append(scopes, string(code))
	}
	return &dto.GrantResponse{
		ID:                g.ID(),
		SubjectType:       string(g.Subject().Type),
		SubjectID:         g.Subject().ID,
		SubjectName:       g.SubjectName(),
		ResourceID:        g.ResourceID(),
		Scopes:            scopes,
		InheritToChildren: g.InheritToChildren(),
		Enabled:           g.Enabled(),
		ExpiresAt:         g.ExpiresAt(),
		GrantedBy:         g.GrantedBy(),
		GrantedAt:         g.GrantedAt(),
		UpdatedAt:         g.UpdatedAt(),
	}
}
