package usecases

import (
	"context"
	"fmt"

	"github.com/aegis-idp/aegis/internal/application/admin/dto"
	"github.com/aegis-idp/aegis/internal/domain/resource"
	"github.com/aegis-idp/aegis/internal/shared/errors"
	"github.com/aegis-idp/aegis/internal/shared/logger"
)

// CreateResourceUseCase adds a node to a client's resource forest.
type CreateResourceUseCase struct {
	resourceRepo resource.Repository
	logger       logger.Interface
}

func NewCreateResourceUseCase(resourceRepo resource.Repository, logger logger.Interface) *CreateResourceUseCase {
	return &CreateResourceUseCase{
		resourceRepo: resourceRepo,
		logger:       logger,
	}
}

func (uc *CreateResourceUseCase) Execute(ctx context.Context, request dto.CreateResourceRequest) (*dto.ResourceResponse, error) {
	uc.logger.Infow("executing create resource use case",
		"client_id", request.ClientID,
		"code", request.Code,
	)

	exists, err := uc.resourceRepo.ExistsByCode(ctx, request.ClientID, request.Code)
	if err != nil {
		uc.logger.Errorw("failed to check resource code", "error", err)
		return nil, fmt.Errorf("failed to check resource code: %w", err)
	}
	if exists {
		return nil, errors.NewConflictError(fmt.Sprintf("resource code %s already exists for this client", request.Code), "")
	}

	if request.ParentID != nil {
		parent, err := uc.resourceRepo.GetByID(ctx, *request.ParentID)
		if err != nil {
			uc.logger.Errorw("failed to look up parent resource", "error", err, "parent_id", *request.ParentID)
			return nil, fmt.Errorf("failed to look up parent resource: %w", err)
		}
		if parent == nil {
			return nil, errors.NewNotFoundError(fmt.Sprintf("parent resource %d does not exist", *request.ParentID))
		}
		// the forest never spans clients
		if parent.ClientID() != request.ClientID {
			return nil, errors.NewValidationError("parent resource belongs to a different client")
		}
	}

	res, err := resource.NewResource(request.ClientID, request.Code, request.Name, request.ResourceType, request.ParentID, request.SortOrder)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if err := uc.resourceRepo.Create(ctx, res); err != nil {
		uc.logger.Errorw("failed to persist resource", "error", err)
		return nil, fmt.Errorf("failed to save resource: %w", err)
	}

	uc.logger.Infow("resource created", "resource_id", res.ID(), "code", res.Code(), "client_id", res.ClientID())

	return toResourceDTO(res), nil
}

func toResourceDTO(r *resource.Resource) *dto.ResourceResponse {
	return &dto.ResourceResponse{
		ID:           r.ID(),
		ClientID:     r.ClientID(),
		Code:         r.Code(),
		Name:         r.Name(),
		ResourceType: r.ResourceType(),
		ParentID:     r.ParentID(),
		SortOrder:    r.SortOrder(),
		Enabled:      r.Enabled(),
	}
}
