package auth

import (
	"context"
	"fmt"

	"github.com/aegis-idp/aegis/internal/domain/client"
	"github.com/aegis-idp/aegis/internal/shared/errors"
	"github.com/aegis-idp/aegis/internal/shared/logger"
)

// ClientAuthenticator validates a calling system's credentials before
// any end-user token from that system is examined: an untrusted client
// must not be able to probe permission state for arbitrary tokens.
type ClientAuthenticator struct {
	repo   client.Repository
	hasher *BcryptSecretHasher
	logger logger.Interface
}

func NewClientAuthenticator(repo client.Repository, hasher *BcryptSecretHasher, log logger.Interface) *ClientAuthenticator {
	return &ClientAuthenticator{
		repo:   repo,
		hasher: hasher,
		logger: log.Named("client_auth"),
	}
}

// Authenticate resolves and verifies the client credential pair. The
// error is identical for unknown id, disabled client and wrong secret.
func (a *ClientAuthenticator) Authenticate(ctx context.Context, clientID, clientSecret string) (*client.RegisteredClient, error) {
	if clientID == "" || clientSecret == "" {
		return nil, errors.NewInvalidClientError()
	}

	c, err := a.repo.GetByClientID(ctx, clientID)
	if err != nil {
		return nil, errors.NewStorageUnavailableError(fmt.Sprintf("client lookup failed: %v", err))
	}
	if c == nil || !c.Enabled() {
		return nil, errors.NewInvalidClientError()
	}

	if err := a.hasher.Verify(clientSecret, c.SecretHash()); err != nil {
		a.logger.Warnw("client secret mismatch", "client_id", clientID)
		return nil, errors.NewInvalidClientError()
	}

	return c, nil
}
