package usecases

import (
	"context"

	"github.com/golang-jwt/jwt/v5"

	"github.com/aegis-idp/aegis/internal/domain/client"
	"github.com/aegis-idp/aegis/internal/infrastructure/auth"
	"github.com/aegis-idp/aegis/internal/shared/errors"
	"github.com/aegis-idp/aegis/internal/shared/logger"
)

// ClientAuthenticator validates the calling system's credential pair.
type ClientAuthenticator interface {
	Authenticate(ctx context.Context, clientID, clientSecret string) (*client.RegisteredClient, error)
}

// TokenVerifier decides whether a presented bearer token is trusted.
type TokenVerifier interface {
	Verify(ctx context.Context, rawToken string) (*auth.TrustResult, error)
}

// overlayIDToken folds display claims of an optional id token into the
// verified access-token result. The access token is the trust anchor;
// the id token is never signature-checked here and only its display
// claims are used, and only when it names the same subject. A subject
// mismatch is rejected because it means the caller paired tokens from
// two different sessions.
func overlayIDToken(result *auth.TrustResult, rawIDToken string, log logger.Interface) error {
	if rawIDToken == "" {
		return nil
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(rawIDToken, claims); err != nil {
		log.Warnw("ignoring unparseable id token", "error", err)
		return nil
	}

	if sub, err := claims.GetSubject(); err == nil && sub != "" && sub != result.SubjectID {
		return errors.NewInvalidTokenError("id token subject does not match access token")
	}

	if name, ok := claims["name"].(string); ok && name != "" {
		result.SubjectName = name
	}
	if englishName, ok := claims["english_name"].(string); ok && englishName != "" {
		result.EnglishName = englishName
	}
	return nil
}
