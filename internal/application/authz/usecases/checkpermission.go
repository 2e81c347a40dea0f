package usecases

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/aegis-idp/aegis/internal/application/authz/dto"
	vo "github.com/aegis-idp/aegis/internal/domain/permission/value_objects"
	"github.com/aegis-idp/aegis/internal/domain/resource"
	"github.com/aegis-idp/aegis/internal/shared/errors"
	"github.com/aegis-idp/aegis/internal/shared/logger"
)

// CheckPermissionUseCase answers "can this token holder do X on resource
// Y": the same trust path as querying, then a per-scope membership test
// against the resolved scope set. Absence of a scope yields false, never
// an error; only an unknown resource code is an error, because the two
// have different operator remediation paths.
type CheckPermissionUseCase struct {
	clients  ClientAuthenticator
	verifier TokenVerifier
	resolver *ResolvePermissionsUseCase
	logger   logger.Interface
}

func NewCheckPermissionUseCase(
	clients ClientAuthenticator,
	verifier TokenVerifier,
	resolver *ResolvePermissionsUseCase,
	logger logger.Interface,
) *CheckPermissionUseCase {
	return &CheckPermissionUseCase{
		clients:  clients,
		verifier: verifier,
		resolver: resolver,
		logger:   logger,
	}
}

// Execute checks the requested scopes on one resource of the calling
// client's own forest. When no scopes are requested the full standard
// catalog is checked.
func (uc *CheckPermissionUseCase) Execute(ctx context.Context, req dto.CheckPermissionRequest) (*dto.CheckPermissionResponse, error) {
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

	resourceID, err := resolution.Tree.ResolveByCode(caller.ID(), req.Resource)
	if err != nil {
		if stderrors.Is(err, resource.ErrResourceNotFound) {
			return nil, errors.NewResourceUnknownError(fmt.Sprintf("unknown resource code: %s", req.Resource))
		}
		return nil, errors.NewStorageUnavailableError("resource lookup failed")
	}

	requested := requestedScopes(req.Scopes)

	var held vo.ScopeSet
	if p, ok := resolution.PermissionFor(resourceID); ok {
		held = p.Scopes
	}

	result := make(map[string]bool, len(requested))
	for _, code := range requested {
		result[string(code)] = held.Contains(code)
	}

	uc.logger.Infow("permission checked",
		"caller", caller.ClientID(),
		"user_id", trust.SubjectID,
		"resource", req.Resource,
		"scopes", result,
	)

	return &dto.CheckPermissionResponse{Resource: req.Resource, Scopes: result}, nil
}

// requestedScopes normalizes the requested scope codes, defaulting to
// the full catalog when none were given. Unknown codes stay in the
// request and simply test false.
func requestedScopes(raw []string) []vo.ScopeCode {
	if len(raw) == 0 {
		return vo.ScopeCatalog()
	}
	out := make([]vo.ScopeCode, 0, len(raw))
	for _, s := range raw {
		out = append(out, vo.ScopeCode(s))
	}
	return out
}
