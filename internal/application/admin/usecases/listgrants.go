package usecases

import (
	"context"
	"fmt"

	"github.com/aegis-idp/aegis/internal/application/admin/dto"
	"github.com/aegis-idp/aegis/internal/domain/permission"
	vo "github.com/aegis-idp/aegis/internal/domain/permission/value_objects"
	"github.com/aegis-idp/aegis/internal/shared/constants"
	"github.com/aegis-idp/aegis/internal/shared/errors"
	"github.com/aegis-idp/aegis/internal/shared/logger"
)

// ListGrantsUseCase handles paginated grant listing for the admin API.
type ListGrantsUseCase struct {
	grantRepo permission.GrantRepository
	logger    logger.Interface
}

func NewListGrantsUseCase(grantRepo permission.GrantRepository, logger logger.Interface) *ListGrantsUseCase {
	return &ListGrantsUseCase{
		grantRepo: grantRepo,
		logger:    logger,
	}
}

func (uc *ListGrantsUseCase) Execute(ctx context.Context, request dto.ListGrantsRequest) (*dto.ListGrantsResponse, error) {
	filter := permission.GrantFilter{
		SubjectID:   request.SubjectID,
		ResourceID:  request.ResourceID,
		EnabledOnly: request.EnabledOnly,
		Page:        request.Page,
		PageSize:    request.PageSize,
	}

	if request.SubjectType != "" {
		subjectType := vo.SubjectType(request.SubjectType)
		if !subjectType.IsValid() {
			return nil, errors.NewValidationError(fmt.Sprintf("invalid subject type: %s", request.SubjectType))
		}
		filter.SubjectType = subjectType
	}

	if filter.Page <= 0 {
		filter.Page = constants.DefaultPage
	}
	if filter.PageSize <= 0 || filter.PageSize > constants.MaxPageSize {
		filter.PageSize = constants.DefaultPageSize
	}

	grants, total, err := uc.grantRepo.List(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to list grants", "error", err)
		return nil, fmt.Errorf("failed to list grants: %w", err)
	}

	responses := make([]dto.GrantResponse, 0, len(grants))
	for _, g := range grants {
		responses = append(responses, *toGrantResponse(g))
	}

	return &dto.ListGrantsResponse{Grants: responses, Total: total}, nil
}
