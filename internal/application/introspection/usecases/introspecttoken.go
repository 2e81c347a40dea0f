package usecases

import (
	"context"
	"time"

	"github.com/aegis-idp/aegis/internal/application/introspection/dto"
	"github.com/aegis-idp/aegis/internal/domain/revocation"
	"github.com/aegis-idp/aegis/internal/shared/biztime"
	"github.com/aegis-idp/aegis/internal/shared/logger"
)

// NativeIntrospector is the identity provider's own introspection
// endpoint, consumed as an external collaborator.
type NativeIntrospector interface {
	Introspect(ctx context.Context, token, tokenTypeHint string) (*dto.IntrospectionResult, error)
}

// IntrospectTokenUseCase wraps native introspection with the local
// revocation overlay: a token the provider still considers active is
// reported inactive here once its jti is revoked or its exp has passed.
// The overlay itself is a pure function over the native verdict and the
// registry lookup, so both stages test independently.
type IntrospectTokenUseCase struct {
	native   NativeIntrospector
	registry revocation.Registry
	logger   logger.Interface
}

func NewIntrospectTokenUseCase(
	native NativeIntrospector,
	registry revocation.Registry,
	logger logger.Interface,
) *IntrospectTokenUseCase {
	return &IntrospectTokenUseCase{
		native:   native,
		registry: registry,
		logger:   logger,
	}
}

// Execute introspects the token and applies the overlay. A registry read
// failure fails the call rather than risking a stale "active" verdict.
func (uc *IntrospectTokenUseCase) Execute(ctx context.Context, req dto.IntrospectRequest) (*dto.IntrospectionResult, error) {
	native, err := uc.native.Introspect(ctx, req.Token, req.TokenTypeHint)
	if err != nil {
		uc.logger.Errorw("native introspection failed", "error", err)
		return nil, err
	}

	revoked := false
	if native.Active && native.JTI != "" {
		revoked, err = uc.registry.IsRevoked(ctx, native.JTI)
		if err != nil {
			uc.logger.Errorw("revocation check failed during introspection", "error", err, "jti", native.JTI)
			return nil, err
		}
	}

	result := ApplyRevocationOverlay(native, revoked, biztime.NowUTC())
	if native.Active && !result.Active {
		uc.logger.Infow("introspection overlay deactivated token",
			"jti", native.JTI,
			"revoked", revoked,
		)
	}

	return result, nil
}

// ApplyRevocationOverlay flips the active flag off when the token's jti
// is revoked or its exp claim lies in the past, regardless of what the
// provider's own validator decided. Pure: no I/O, no mutation of the
// input.
func ApplyRevocationOverlay(native *dto.IntrospectionResult, revoked bool, now time.Time) *dto.IntrospectionResult {
	result := *native
	if !result.Active {
		return &result
	}
	if revoked {
		result.Active = false
		return &result
	}
	if result.Exp > 0 && !time.Unix(result.Exp, 0).After(now) {
		result.Active = false
	}
	return &result
}
