package usecases

import (
	"context"

	authzdto "github.com/aegis-idp/aegis/internal/application/authz/dto"
	authz "github.com/aegis-idp/aegis/internal/application/authz/usecases"
	vo "github.com/aegis-idp/aegis/internal/domain/permission/value_objects"
	"github.com/aegis-idp/aegis/internal/shared/logger"
)

// ListEffectivePermissionsUseCase exposes the resolver to the admin API
// so operators can inspect exactly what a user ends up with, including
// provenance, without presenting a token.
type ListEffectivePermissionsUseCase struct {
	resolver *authz.ResolvePermissionsUseCase
	logger   logger.Interface
}

func NewListEffectivePermissionsUseCase(resolver *authz.ResolvePermissionsUseCase, logger logger.Interface) *ListEffectivePermissionsUseCase {
	return &ListEffectivePermissionsUseCase{
		resolver: resolver,
		logger:   logger,
	}
}

func (uc *ListEffectivePermissionsUseCase) Execute(ctx context.Context, userID string) ([]authzdto.ResourcePermissionResponse, error) {
	resolution, err := uc.resolver.Execute(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]authzdto.ResourcePermissionResponse, 0, len(resolution.Permissions))
	for _, p := range resolution.Permissions {
		codes := p.Scopes.Codes()
		scopes := make([]authzdto.ScopeResponse, 0, len(codes))
		for _, code := range codes {
			scopes = append(scopes, authzdto.ScopeResponse{Code: string(code), Name: vo.ScopeName(code)})
		}
		sources := make([]authzdto.ProvenanceResponse, 0, len(p.Sources))
		for _, s := range p.Sources {
			sources = append(sources, authzdto.ProvenanceResponse{
				Source:     string(s.Source),
				SourceID:   s.SourceID,
				SourceName: s.SourceName,
				GrantedAt:  s.GrantedAt,
			})
		}
		responses = append(responses, authzdto.ResourcePermissionResponse{
			ResourceID:   p.ResourceID,
			ResourceCode: p.ResourceCode,
			Scopes:       scopes,
			Sources:      sources,
		})
	}

	uc.logger.Infow("effective permissions listed", "user_id", userID, "count", len(responses))
	return responses, nil
}
