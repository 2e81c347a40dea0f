package usecases

import (
	"context"

	"github.com/aegis-idp/aegis/internal/application/authz/dto"
	"github.com/aegis-idp/aegis/internal/domain/client"
	"github.com/aegis-idp/aegis/internal/domain/permission"
	vo "github.com/aegis-idp/aegis/internal/domain/permission/value_objects"
	"github.com/aegis-idp/aegis/internal/shared/logger"
)

// QueryPermissionsUseCase answers "what can this token holder do": it
// authenticates the calling client, verifies the end-user token, resolves
// effective permissions and groups them by the client application owning
// each resource subtree.
type QueryPermissionsUseCase struct {
	clients    ClientAuthenticator
	verifier   TokenVerifier
	resolver   *ResolvePermissionsUseCase
	clientRepo client.Repository
	logger     logger.Interface
}

func NewQueryPermissionsUseCase(
	clients ClientAuthenticator,
	verifier TokenVerifier,
	resolver *ResolvePermissionsUseCase,
	clientRepo client.Repository,
	logger logger.Interface,
) *QueryPermissionsUseCase {
	return &QueryPermissionsUseCase{
		clients:    clients,
		verifier:   verifier,
		resolver:   resolver,
		clientRepo: clientRepo,
		logger:     logger,
	}
}

// Execute runs the full trust-then-resolve pipeline. Every failure maps
// onto the trust error taxonomy; nothing here panics across the boundary.
func (uc *QueryPermissionsUseCase) Execute(ctx context.Context, req dto.QueryPermissionsRequest) (*dto.QueryPermissionsResponse, error) {
	caller, err := uc.clients.Authenticate(ctx, req.ClientID, req.ClientSecret)
	if err != nil {
		return nil, err
	}

	trust, err := uc.verifier.Verify(ctx, req.AccessToken)
	if err != nil {
		uc.logger.Warnw("token rejected", "error", err, "caller", caller.ClientID())
		return nil, err
	}
	if err := overlayIDToken(trust, req.IDToken, uc.logger); err != nil {
		return nil, err
	}

	resolution, err := uc.resolver.Execute(ctx, trust.SubjectID)
	if err != nil {
		return nil, err
	}

	systems, err := uc.groupBySystem(ctx, resolution.Permissions, req.SystemID)
	if err != nil {
		return nil, err
	}

	uc.logger.Infow("permissions queried",
		"caller", caller.ClientID(),
		"user_id", trust.SubjectID,
		"system_count", len(systems),
	)

	return &dto.QueryPermissionsResponse{
		UserID:          trust.SubjectID,
		UserName:        trust.SubjectName,
		UserEnglishName: trust.EnglishName,
		Permissions:     systems,
	}, nil
}

// groupBySystem buckets resolved resources under their owning registered
// client. Permissions arrive ordered by owning client then resource, so
// one linear pass preserves deterministic output.
func (uc *QueryPermissionsUseCase) groupBySystem(ctx context.Context, permissions []permission.EffectivePermission, systemFilter string) ([]dto.SystemPermissionsResponse, error) {
	systems := make([]dto.SystemPermissionsResponse, 0)
	owners := make(map[uint]*client.RegisteredClient)

	var current *dto.SystemPermissionsResponse
	var currentOwnerID uint

	for _, p := range permissions {
		owner, ok := owners[p.ClientID]
		if !ok {
			loaded, err := uc.clientRepo.GetByID(ctx, p.ClientID)
			if err != nil {
				uc.logger.Errorw("failed to load resource owner", "error", err, "owner_id", p.ClientID)
				return nil, err
			}
			owner = loaded
			owners[p.ClientID] = owner
		}
		if owner == nil {
			// orphaned subtree; resources without a registered owner are
			// invisible to integrations
			uc.logger.Warnw("resource owned by unregistered client", "owner_id", p.ClientID, "resource_id", p.ResourceID)
			continue
		}
		if systemFilter != "" && owner.ClientID() != systemFilter {
			continue
		}

		if current == nil || currentOwnerID != p.ClientID {
			systems = append(systems, dto.SystemPermissionsResponse{
				SystemID:   owner.ClientID(),
				SystemName: owner.Name(),
			})
			current = &systems[len(systems)-1]
			currentOwnerID = p.ClientID
		}

		current.Resources = append(current.Resources, toResourceResponse(p))
	}

	return systems, nil
}

func toResourceResponse(p permission.EffectivePermission) dto.ResourcePermissionResponse {
	codes := p.Scopes.Codes()
	scopes := make([]dto.ScopeResponse, 0, len(codes))
	for _, code := range codes {
		scopes = append(scopes, dto.ScopeResponse{Code: string(code), Name: vo.ScopeName(code)})
	}

	sources := make([]dto.ProvenanceResponse, 0, len(p.Sources))
	for _, s := range p.Sources {
		sources = append(sources, dto.ProvenanceResponse{
			Source:     string(s.Source),
			SourceID:   s.SourceID,
			SourceName: s.SourceName,
			GrantedAt:  s.GrantedAt,
		})
	}

	return dto.ResourcePermissionResponse{
		ResourceID:   p.ResourceID,
		ResourceCode: p.ResourceCode,
		Scopes:       scopes,
		Sources:      sources,
	}
}
