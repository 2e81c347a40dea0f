package usecases

import (
	"context"
	"fmt"

	"github.com/aegis-idp/aegis/internal/application/admin/dto"
	"github.com/aegis-idp/aegis/internal/domain/permission"
	"github.com/aegis-idp/aegis/internal/shared/errors"
	"github.com/aegis-idp/aegis/internal/shared/logger"
)

// UpdateGrantUseCase handles scope replacement, expiry changes and
// enable/disable toggling for an existing grant.
type UpdateGrantUseCase struct {
	grantRepo permission.GrantRepository
	logger    logger.Interface
}

func NewUpdateGrantUseCase(grantRepo permission.GrantRepository, logger logger.Interface) *UpdateGrantUseCase {
	return &UpdateGrantUseCase{
		grantRepo: grantRepo,
		logger:    logger,
	}
}

// Execute applies the requested changes. Scope changes replace the set
// in place rather than creating a second grant row.
func (uc *UpdateGrantUseCase) Execute(ctx context.Context, grantID uint, request dto.UpdateGrantRequest) (*dto.GrantResponse, error) {
	uc.logger.Infow("executing update grant use case", "grant_id", grantID)

	if grantID == 0 {
		return nil, errors.NewValidationError("grant ID is required")
	}

	grant, err := uc.grantRepo.GetByID(ctx, grantID)
	if err != nil {
		uc.logger.Errorw("failed to load grant", "error", err, "grant_id", grantID)
		return nil, fmt.Errorf("failed to load grant: %w", err)
	}
	if grant == nil {
		return nil, errors.NewNotFoundError(fmt.Sprintf("grant %d does not exist", grantID))
	}

	if request.Scopes != nil {
		scopes, err := parseScopeCodes(request.Scopes)
		if err != nil {
			return nil, err
		}
		if err := grant.ReplaceScopes(scopes); err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
	}

	if request.InheritToChildren != nil {
		grant.SetInheritToChildren(*request.InheritToChildren)
	}

	if request.ExpiresAt != nil {
		expiresAt, err := parseOptionalTime(request.ExpiresAt)
		if err != nil {
			return nil, err
		}
		grant.SetExpiry(expiresAt)
	}

	if request.Enabled != nil {
		if *request.Enabled {
			grant.Enable()
		} else {
			grant.Disable()
		}
	}

	if err := uc.grantRepo.Update(ctx, grant); err != nil {
		uc.logger.Errorw("failed to persist grant update", "error", err, "grant_id", grantID)
		return nil, fmt.Errorf("failed to update grant: %w", err)
	}

	uc.logger.Infow("grant updated",
		"grant_id", grantID,
		"scopes", grant.Scopes().String(),
		"enabled", grant.Enabled(),
	)

	return toGrantResponse(grant), nil
}
