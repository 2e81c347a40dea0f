package usecases

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/aegis-idp/aegis/internal/application/admin/dto"
	"github.com/aegis-idp/aegis/internal/domain/client"
	"github.com/aegis-idp/aegis/internal/infrastructure/auth"
	"github.com/aegis-idp/aegis/internal/shared/errors"
	"github.com/aegis-idp/aegis/internal/shared/logger"
)

const clientSecretBytes = 32

// CreateClientUseCase registers a downstream client system. The secret
// is generated server-side, stored only as a bcrypt hash, and returned
// in plaintext exactly once in the creation response.
type CreateClientUseCase struct {
	clientRepo client.Repository
	hasher     *auth.BcryptSecretHasher
	logger     logger.Interface
}

func NewCreateClientUseCase(
	clientRepo client.Repository,
	hasher *auth.BcryptSecretHasher,
	logger logger.Interface,
) *CreateClientUseCase {
	return &CreateClientUseCase{
		clientRepo: clientRepo,
		hasher:     hasher,
		logger:     logger,
	}
}

func (uc *CreateClientUseCase) Execute(ctx context.Context, request dto.CreateClientRequest) (*dto.ClientResponse, error) {
	uc.logger.Infow("executing create client use case", "client_id", request.ClientID)

	exists, err := uc.clientRepo.ExistsByClientID(ctx, request.ClientID)
	if err != nil {
		uc.logger.Errorw("failed to check client existence", "error", err, "client_id", request.ClientID)
		return nil, fmt.Errorf("failed to check existing client: %w", err)
	}
	if exists {
		return nil, errors.NewConflictError(fmt.Sprintf("client %s is already registered", request.ClientID), "")
	}

	secret, err := generateClientSecret()
	if err != nil {
		uc.logger.Errorw("failed to generate client secret", "error", err)
		return nil, fmt.Errorf("failed to generate client secret: %w", err)
	}

	secretHash, err := uc.hasher.Hash(secret)
	if err != nil {
		uc.logger.Errorw("failed to hash client secret", "error", err)
		return nil, fmt.Errorf("failed to hash client secret: %w", err)
	}

	c, err := client.NewRegisteredClient(request.ClientID, request.Name, secretHash, request.Management)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if err := uc.clientRepo.Create(ctx, c); err != nil {
		uc.logger.Errorw("failed to persist client", "error", err, "client_id", request.ClientID)
		return nil, fmt.Errorf("failed to save client: %w", err)
	}

	uc.logger.Infow("client registered", "client_id", c.ClientID(), "management", c.Management())

	return &dto.ClientResponse{
		ID:           c.ID(),
		ClientID:     c.ClientID(),
		Name:         c.Name(),
		ClientSecret: secret,
		Management:   c.Management(),
		Enabled:      c.Enabled(),
		CreatedAt:    c.CreatedAt(),
	}, nil
}

func generateClientSecret() (string, error) {
	buf := make([]byte, clientSecretBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
