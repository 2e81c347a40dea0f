package usecases

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/aegis-idp/aegis/internal/application/introspection/dto"
	"github.com/aegis-idp/aegis/internal/domain/revocation"
	"github.com/aegis-idp/aegis/internal/shared/logger"
)

// NativeRevoker is the identity provider's own revocation endpoint.
type NativeRevoker interface {
	Revoke(ctx context.Context, token, tokenTypeHint string) error
}

// RevokeTokenUseCase delegates revocation to the provider, then
// best-effort records the token's identifier into the local registry so
// holders of the raw token, not just the introspecting party, observe
// the revocation. The native revocation is the primary effect; registry
// bookkeeping failures are logged and swallowed.
type RevokeTokenUseCase struct {
	native   NativeRevoker
	registry revocation.Registry
	logger   logger.Interface
}

func NewRevokeTokenUseCase(
	native NativeRevoker,
	registry revocation.Registry,
	logger logger.Interface,
) *RevokeTokenUseCase {
	return &RevokeTokenUseCase{
		native:   native,
		registry: registry,
		logger:   logger,
	}
}

// Execute revokes the token upstream and records it locally.
func (uc *RevokeTokenUseCase) Execute(ctx context.Context, req dto.RevokeRequest) error {
	if err := uc.native.Revoke(ctx, req.Token, req.TokenTypeHint); err != nil {
		uc.logger.Errorw("native revocation failed", "error", err)
		return err
	}

	uc.recordRevocation(ctx, req.Token, req.TokenTypeHint)
	return nil
}

// recordRevocation parses the raw token without signature verification
// to lift jti/sub/client_id/exp into the registry. Unverified parsing is
// acceptable here: the entry only ever makes a token less trusted.
func (uc *RevokeTokenUseCase) recordRevocation(ctx context.Context, rawToken, tokenTypeHint string) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(rawToken, claims); err != nil {
		uc.logger.Debugw("revoked token is not a parseable signed token, skipping registry record", "error", err)
		return
	}

	jti, _ := claims["jti"].(string)
	if jti == "" {
		uc.logger.Debugw("revoked token carries no jti, skipping registry record")
		return
	}

	subjectID, _ := claims.GetSubject()
	clientID, _ := claims["client_id"].(string)

	expiresAt := time.Now().UTC()
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		expiresAt = exp.Time
	}

	entry, err := revocation.NewRevokedToken(jti, subjectID, clientID, tokenTypeHint, expiresAt, "revocation_endpoint", clientID)
	if err != nil {
		uc.logger.Warnw("failed to build revocation entry", "error", err, "jti", jti)
		return
	}

	outcome, err := uc.registry.Revoke(ctx, entry)
	if err != nil {
		uc.logger.Warnw("failed to record revocation, upstream revoke already succeeded", "error", err, "jti", jti)
		return
	}

	uc.logger.Infow("revocation recorded", "jti", jti, "outcome", outcome.String())
}
