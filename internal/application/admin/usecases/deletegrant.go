package usecases

import (
	"context"
	"fmt"

	"github.com/aegis-idp/aegis/internal/domain/permission"
	"github.com/aegis-idp/aegis/internal/shared/errors"
	"github.com/aegis-idp/aegis/internal/shared/logger"
)

// DeleteGrantUseCase removes a grant record entirely. Disabling is the
// reversible alternative; deletion is for grants created in error.
type DeleteGrantUseCase struct {
	grantRepo permission.GrantRepository
	logger    logger.Interface
}

func NewDeleteGrantUseCase(grantRepo permission.GrantRepository, logger logger.Interface) *DeleteGrantUseCase {
	return &DeleteGrantUseCase{
		grantRepo: grantRepo,
		logger:    logger,
	}
}

func (uc *DeleteGrantUseCase) Execute(ctx context.Context, grantID uint) error {
	uc.logger.Infow("executing delete grant use case", "grant_id", grantID)

	if grantID == 0 {
		return errors.NewValidationError("grant ID is required")
	}

	grant, err := uc.grantRepo.GetByID(ctx, grantID)
	if err != nil {
		uc.logger.Errorw("failed to load grant", "error", err, "grant_id", grantID)
		return fmt.Errorf("failed to load grant: %w", err)
	}
	if grant == nil {
		return errors.NewNotFoundError(fmt.Sprintf("grant %d does not exist", grantID))
	}

	if err := uc.grantRepo.Delete(ctx, grantID); err != nil {
		uc.logger.Errorw("failed to delete grant", "error", err, "grant_id", grantID)
		return fmt.Errorf("failed to delete grant: %w", err)
	}

	uc.logger.Infow("grant deleted", "grant_id", grantID, "subject", grant.Subject().String())
	return nil
}
