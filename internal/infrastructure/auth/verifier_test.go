package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aegis-idp/aegis/internal/domain/revocation"
	"github.com/aegis-idp/aegis/internal/shared/errors"
	"github.com/aegis-idp/aegis/internal/shared/logger"
)

const testIssuer = "https://idp.test"

type stubRegistry struct {
	revoked  map[string]bool
	checkErr error
}

func (s *stubRegistry) Revoke(ctx context.Context, entry *revocation.RevokedToken) (revocation.Outcome, error) {
	return revocation.OutcomeInserted, nil
}

func (s *stubRegistry) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if s.checkErr != nil {
		return false, s.checkErr
	}
	return s.revoked[jti], nil
}

func (s *stubRegistry) GetByJTI(ctx context.Context, jti string) (*revocation.RevokedToken, error) {
	return nil, nil
}

func (s *stubRegistry) PurgeExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

func (k *signingKey) sign(t *testing.T, claims jwt.MapClaims) string {
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = k.kid
	signed, err := token.SignedString(k.private)
	require.NoError(t, err)
	return signed
}

func defaultClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"iss":          testIssuer,
		"sub":          "user-42",
		"name":         "张伟",
		"english_name": "Wei Zhang",
		"jti":          "token-1",
		"exp":          time.Now().Add(time.Hour).Unix(),
		"iat":          time.Now().Unix(),
	}
}

func newTestVerifier(t *testing.T, server *jwksServer, registry revocation.Registry) *Verifier {
	if registry == nil {
		registry = &stubRegistry{revoked: map[string]bool{}}
	}
	cache := NewKeyCache(server.URL(), time.Hour, time.Second, logger.NewLogger())
	return NewVerifier(testIssuer, cache, registry, logger.NewLogger())
}

func TestVerifier_ValidToken(t *testing.T) {
	key := newSigningKey(t, "kid-1")
	server := newJWKSServer(t, key)
	verifier := newTestVerifier(t, server, nil)

	result, err := verifier.Verify(context.Background(), key.sign(t, defaultClaims()))
	require.NoError(t, err)
	assert.Equal(t, "user-42", result.SubjectID)
	assert.Equal(t, "张伟", result.SubjectName)
	assert.Equal(t, "Wei Zhang", result.EnglishName)
	assert.Equal(t, "token-1", result.JTI)
	assert.WithinDuration(t, time.Now().Add(time.Hour), result.ExpiresAt, 5*time.Second)
}

func TestVerifier_PreferredUsernameFallback(t *testing.T) {
	key := newSigningKey(t, "kid-1")
	server := newJWKSServer(t, key)
	verifier := newTestVerifier(t, server, nil)

	claims := defaultClaims()
	delete(claims, "name")
	claims["preferred_username"] = "wzhang"

	result, err := verifier.Verify(context.Background(), key.sign(t, claims))
	require.NoError(t, err)
	assert.Equal(t, "wzhang", result.SubjectName)
}

func TestVerifier_ExpiredToken(t *testing.T) {
	key := newSigningKey(t, "kid-1")
	server := newJWKSServer(t, key)
	verifier := newTestVerifier(t, server, nil)

	claims := defaultClaims()
	claims["exp"] = time.Now().Add(-time.Hour).Unix()

	_, err := verifier.Verify(context.Background(), key.sign(t, claims))
	require.Error(t, err)
	trustErr := errors.GetTrustError(err)
	require.NotNil(t, trustErr)
	assert.Equal(t, errors.ErrorTypeTokenExpired, trustErr.Type)
	assert.False(t, trustErr.Retryable)
}

func TestVerifier_MalformedToken(t *testing.T) {
	key := newSigningKey(t, "kid-1")
	server := newJWKSServer(t, key)
	verifier := newTestVerifier(t, server, nil)

	_, err := verifier.Verify(context.Background(), "not-a-token")
	require.Error(t, err)
	trustErr := errors.GetTrustError(err)
	require.NotNil(t, trustErr)
	assert.Equal(t, errors.ErrorTypeInvalidToken, trustErr.Type)
}

func TestVerifier_WrongIssuer(t *testing.T) {
	key := newSigningKey(t, "kid-1")
	server := newJWKSServer(t, key)
	verifier := newTestVerifier(t, server, nil)

	claims := defaultClaims()
	claims["iss"] = "https://somewhere-else.test"

	_, err := verifier.Verify(context.Background(), key.sign(t, claims))
	require.Error(t, err)
	trustErr := errors.GetTrustError(err)
	require.NotNil(t, trustErr)
	assert.Equal(t, errors.ErrorTypeInvalidToken, trustErr.Type)
}

func TestVerifier_MissingSubject(t *testing.T) {
	key := newSigningKey(t, "kid-1")
	server := newJWKSServer(t, key)
	verifier := newTestVerifier(t, server, nil)

	claims := defaultClaims()
	delete(claims, "sub")

	_, err := verifier.Verify(context.Background(), key.sign(t, claims))
	require.Error(t, err)
	trustErr := errors.GetTrustError(err)
	require.NotNil(t, trustErr)
	assert.Equal(t, errors.ErrorTypeInvalidToken, trustErr.Type)
}

func TestVerifier_RevokedToken(t *testing.T) {
	key := newSigningKey(t, "kid-1")
	server := newJWKSServer(t, key)
	registry := &stubRegistry{revoked: map[string]bool{"token-1": true}}
	verifier := newTestVerifier(t, server, registry)

	_, err := verifier.Verify(context.Background(), key.sign(t, defaultClaims()))
	require.Error(t, err)
	trustErr := errors.GetTrustError(err)
	require.NotNil(t, trustErr)
	assert.Equal(t, errors.ErrorTypeTokenRevoked, trustErr.Type)
	assert.False(t, trustErr.Retryable)
}

func TestVerifier_RevocationCheckFailureIsRetryable(t *testing.T) {
	key := newSigningKey(t, "kid-1")
	server := newJWKSServer(t, key)
	registry := &stubRegistry{checkErr: assert.AnError}
	verifier := newTestVerifier(t, server, registry)

	_, err := verifier.Verify(context.Background(), key.sign(t, defaultClaims()))
	require.Error(t, err)
	trustErr := errors.GetTrustError(err)
	require.NotNil(t, trustErr)
	assert.Equal(t, errors.ErrorTypeStorageUnavailable, trustErr.Type)
	assert.True(t, trustErr.Retryable)
}

func TestVerifier_RecoversFromKeyRotation(t *testing.T) {
	oldKey := newSigningKey(t, "kid-old")
	server := newJWKSServer(t, oldKey)
	verifier := newTestVerifier(t, server, nil)

	// Warm the cache with the old set.
	_, err := verifier.Verify(context.Background(), oldKey.sign(t, defaultClaims()))
	require.NoError(t, err)

	// The provider rotates keys; the cached set no longer matches.
	newKey := newSigningKey(t, "kid-new")
	server.Install(t, newKey)

	result, err := verifier.Verify(context.Background(), newKey.sign(t, defaultClaims()))
	require.NoError(t, err)
	assert.Equal(t, "user-42", result.SubjectID)
}

func TestVerifier_KeySetUnavailable(t *testing.T) {
	key := newSigningKey(t, "kid-1")
	server := newJWKSServer(t, key)
	server.failing.Store(true)
	verifier := newTestVerifier(t, server, nil)

	_, err := verifier.Verify(context.Background(), key.sign(t, defaultClaims()))
	require.Error(t, err)
	trustErr := errors.GetTrustError(err)
	require.NotNil(t, trustErr)
	assert.Equal(t, errors.ErrorTypeKeySetUnavailable, trustErr.Type)
	assert.True(t, trustErr.Retryable)
}

func TestVerifier_RejectsUnsignedToken(t *testing.T) {
	key := newSigningKey(t, "kid-1")
	server := newJWKSServer(t, key)
	verifier := newTestVerifier(t, server, nil)

	token := jwt.NewWithClaims(jwt.SigningMethodNone, defaultClaims())
	token.Header["kid"] = "kid-1"
	raw, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = verifier.Verify(context.Background(), raw)
	require.Error(t, err)
	trustErr := errors.GetTrustError(err)
	require.NotNil(t, trustErr)
	assert.Equal(t, errors.ErrorTypeInvalidToken, trustErr.Type)
}
