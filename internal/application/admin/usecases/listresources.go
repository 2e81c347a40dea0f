package usecases

import (
	"context"
	"fmt"

	"github.com/aegis-idp/aegis/internal/application/admin/dto"
	vo "github.com/aegis-idp/aegis/internal/domain/permission/value_objects"
	"github.com/aegis-idp/aegis/internal/domain/resource"
	"github.com/aegis-idp/aegis/internal/shared/logger"
)

// ListResourcesUseCase lists one client's resource forest, or all
// forests when no client is given.
type ListResourcesUseCase struct {
	resourceRepo resource.Repository
	logger       logger.Interface
}

func NewListResourcesUseCase(resourceRepo resource.Repository, logger logger.Interface) *ListResourcesUseCase {
	return &ListResourcesUseCase{
		resourceRepo: resourceRepo,
		logger:       logger,
	}
}

func (uc *ListResourcesUseCase) Execute(ctx context.Context, clientID uint) ([]dto.ResourceResponse, error) {
	var (
		resources []*resource.Resource
		err       error
	)
	if clientID != 0 {
		resources, err = uc.resourceRepo.ListByClient(ctx, clientID)
	} else {
		resources, err = uc.resourceRepo.ListAll(ctx)
	}
	if err != nil {
		uc.logger.Errorw("failed to list resources", "error", err, "client_id", clientID)
		return nil, fmt.Errorf("failed to list resources: %w", err)
	}

	responses := make([]dto.ResourceResponse, 0, len(resources))
	for _, r := range resources {
		responses = append(responses, *toResourceDTO(r))
	}
	return responses, nil
}

// ListScopeCatalog returns the fixed scope catalog for admin display.
func ListScopeCatalog() []dto.ScopeCatalogEntry {
	codes := vo.ScopeCatalog()
	entries := make([]dto.ScopeCatalogEntry, 0, len(codes))
	for _, code := range codes {
		entries = append(entries, dto.ScopeCatalogEntry{Code: string(code), Name: vo.ScopeName(code)})
	}
	return entries
}
