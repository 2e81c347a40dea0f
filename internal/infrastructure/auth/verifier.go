package auth

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lestrrat-go/jwx/v3/jwk"

	"github.com/aegis-idp/aegis/internal/domain/revocation"
	"github.com/aegis-idp/aegis/internal/shared/errors"
	"github.com/aegis-idp/aegis/internal/shared/logger"
)

// claim names carrying the subject's display identity
const (
	claimName        = "name"
	claimEnglishName = "english_name"
	claimPreferred   = "preferred_username"
)

var errKeyNotFound = stderrors.New("signing key not found in key set")

// TrustResult carries the verified identity of a presented token.
type TrustResult struct {
	SubjectID   string
	SubjectName string
	EnglishName string
	JTI         string
	ExpiresAt   time.Time
	Claims      jwt.MapClaims
}

// Verifier decides whether an externally presented bearer token should
// be trusted: signature against the cached issuer keys, expiry, and
// non-revocation. It never writes to the registry; its only side effect
// is key cache population.
type Verifier struct {
	issuer   string
	keys     *KeyCache
	registry revocation.Registry
	logger   logger.Interface
}

func NewVerifier(issuer string, keys *KeyCache, registry revocation.Registry, log logger.Interface) *Verifier {
	return &Verifier{
		issuer:   issuer,
		keys:     keys,
		registry: registry,
		logger:   log.Named("token_verifier"),
	}
}

// Verify validates signature, expiry and revocation state of a raw
// token and extracts its subject claims. All failures map onto the
// trust error taxonomy; none panic or leak parser internals.
func (v *Verifier) Verify(ctx context.Context, rawToken string) (*TrustResult, error) {
	claims, err := v.parseAndVerify(ctx, rawToken)
	if err != nil {
		return nil, err
	}

	result := &TrustResult{Claims: claims}

	if sub, err := claims.GetSubject(); err == nil {
		result.SubjectID = sub
	}
	if result.SubjectID == "" {
		return nil, errors.NewInvalidTokenError("token carries no subject claim")
	}

	if name, ok := claims[claimName].(string); ok {
		result.SubjectName = name
	} else if preferred, ok := claims[claimPreferred].(string); ok {
		result.SubjectName = preferred
	}
	if englishName, ok := claims[claimEnglishName].(string); ok {
		result.EnglishName = englishName
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		result.ExpiresAt = exp.Time
	}

	if jti, ok := claims["jti"].(string); ok && jti != "" {
		result.JTI = jti
		revoked, err := v.registry.IsRevoked(ctx, jti)
		if err != nil {
			return nil, errors.NewStorageUnavailableError(fmt.Sprintf("revocation check failed: %v", err))
		}
		if revoked {
			return nil, errors.NewTokenRevokedError()
		}
	}

	return result, nil
}

func (v *Verifier) parseAndVerify(ctx context.Context, rawToken string) (jwt.MapClaims, error) {
	keySet, err := v.keys.Get(ctx)
	if err != nil {
		return nil, errors.NewKeySetUnavailableError(fmt.Sprintf("key fetch failed: %v", err))
	}

	claims, err := v.parseWithKeySet(rawToken, keySet)
	if err == nil {
		return claims, nil
	}

	switch {
	case stderrors.Is(err, jwt.ErrTokenMalformed):
		return nil, errors.NewInvalidTokenError("token is not a well-formed signed token")
	case stderrors.Is(err, jwt.ErrTokenExpired):
		return nil, errors.NewTokenExpiredError()
	case stderrors.Is(err, jwt.ErrTokenSignatureInvalid), stderrors.Is(err, errKeyNotFound):
		// could be a rotation race: retry once against a fresh key set
		freshSet, refreshErr := v.keys.ForceRefresh(ctx)
		if refreshErr != nil {
			return nil, errors.NewKeySetUnavailableError(fmt.Sprintf("key refresh failed: %v", refreshErr))
		}
		claims, retryErr := v.parseWithKeySet(rawToken, freshSet)
		if retryErr == nil {
			v.logger.Infow("token verified after forced key refresh")
			return claims, nil
		}
		if stderrors.Is(retryErr, jwt.ErrTokenExpired) {
			return nil, errors.NewTokenExpiredError()
		}
		return nil, errors.NewInvalidTokenError("token signature could not be verified")
	default:
		return nil, errors.NewInvalidTokenError("token validation failed")
	}
}

func (v *Verifier) parseWithKeySet(rawToken string, keySet jwk.Set) (jwt.MapClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"RS256", "RS384", "RS512", "ES256", "ES384", "ES512"}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(rawToken, claims, keyfuncFor(keySet), opts...)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

func keyfuncFor(keySet jwk.Set) jwt.Keyfunc {
	return func(token *jwt.Token) (any, error) {
		kid, _ := token.Header["kid"].(string)
		if kid == "" {
			return nil, fmt.Errorf("%w: token header missing kid", errKeyNotFound)
		}

		key, found := keySet.LookupKeyID(kid)
		if !found {
			return nil, fmt.Errorf("%w: kid %q", errKeyNotFound, kid)
		}

		var rawKey any
		if err := jwk.Export(key, &rawKey); err != nil {
			return nil, fmt.Errorf("failed to export signing key: %w", err)
		}
		return rawKey, nil
	}
}
