package usecases

import (
	"context"
	"fmt"

	"github.com/aegis-idp/aegis/internal/application/admin/dto"
	"github.com/aegis-idp/aegis/internal/domain/client"
	"github.com/aegis-idp/aegis/internal/shared/logger"
)

// ListClientsUseCase lists registered client systems, never exposing
// secret material.
type ListClientsUseCase struct {
	clientRepo client.Repository
	logger     logger.Interface
}

func NewListClientsUseCase(clientRepo client.Repository, logger logger.Interface) *ListClientsUseCase {
	return &ListClientsUseCase{
		clientRepo: clientRepo,
		logger:     logger,
	}
}

func (uc *ListClientsUseCase) Execute(ctx context.Context) ([]dto.ClientResponse, error) {
	clients, err := uc.clientRepo.List(ctx)
	if err != nil {
		uc.logger.Errorw("failed to list clients", "error", err)
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}

	responses := make([]dto.ClientResponse, 0, len(clients))
	for _, c := range clients {
		responses = append(responses, dto.ClientResponse{
			ID:         c.ID(),
			ClientID:   c.ClientID(),
			Name:       c.Name(),
			Management: c.Management(),
			Enabled:    c.Enabled(),
			CreatedAt:  c.CreatedAt(),
		})
	}

	return responses, nil
}
