package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aegis-idp/aegis/internal/application/authz/dto"
	"github.com/aegis-idp/aegis/internal/application/authz/testutil"
	"github.com/aegis-idp/aegis/internal/domain/client"
	vo "github.com/aegis-idp/aegis/internal/domain/permission/value_objects"
	"github.com/aegis-idp/aegis/internal/infrastructure/auth"
	"github.com/aegis-idp/aegis/internal/shared/errors"
)

func queryFixture(t *testing.T) (*QueryPermissionsUseCase, *testutil.MockGrantRepository) {
	t.Helper()
	grants := testutil.NewMockGrantRepository()
	memberships := testutil.NewMockMembershipRepository()
	resources := testutil.NewMockResourceRepository()
	buildPayrollForest(t, resources)

	clientRepo := testutil.NewMockClientRepository()
	now := time.Now().UTC()
	payrollApp, err := client.ReconstructRegisteredClient(1, "payroll-app", "Payroll", "hash", false, true, now, now)
	require.NoError(t, err)
	clientRepo.AddClient(payrollApp)

	resolver := newResolver(grants, memberships, resources)
	clients := &testutil.MockClientAuthenticator{Client: payrollApp}
	verifier := &testutil.MockTokenVerifier{Result: &auth.TrustResult{
		SubjectID:   "alice",
		SubjectName: "Alice",
		EnglishName: "Alice L",
	}}

	return NewQueryPermissionsUseCase(clients, verifier, resolver, clientRepo, testutil.NewMockLogger()), grants
}

func TestQueryPermissions_GroupsBySystem(t *testing.T) {
	uc, grants := queryFixture(t)

	grantedAt := time.Now().UTC().Add(-time.Hour)
	grants.AddGrant(reconstructGrant(t, 1, vo.UserSubject("alice"), 1,
		vo.NewScopeSet(vo.ScopeRead, vo.ScopeCreate), false, nil, grantedAt))
	grants.AddGrant(reconstructGrant(t, 2, vo.UserSubject("alice"), 6,
		vo.NewScopeSet(vo.ScopeRead), false, nil, grantedAt))

	resp, err := uc.Execute(context.Background(), dto.QueryPermissionsRequest{
		ClientID:     "payroll-app",
		ClientSecret: "secret",
		AccessToken:  "token",
	})
	require.NoError(t, err)

	assert.Equal(t, "alice", resp.UserID)
	assert.Equal(t, "Alice", resp.UserName)
	assert.Equal(t, "Alice L", resp.UserEnglishName)

	require.Len(t, resp.Permissions, 1)
	system := resp.Permissions[0]
	assert.Equal(t, "payroll-app", system.SystemID)
	assert.Equal(t, "Payroll", system.SystemName)
	require.Len(t, system.Resources, 2)
	assert.Equal(t, "payroll", system.Resources[0].ResourceCode)
	assert.Equal(t, "hr", system.Resources[1].ResourceCode)

	scopes := system.Resources[0].Scopes
	require.Len(t, scopes, 2)
	assert.Equal(t, dto.ScopeResponse{Code: "r", Name: "read"}, scopes[0])
	assert.Equal(t, dto.ScopeResponse{Code: "c", Name: "create"}, scopes[1])
}

func TestQueryPermissions_SystemFilter(t *testing.T) {
	uc, grants := queryFixture(t)

	grantedAt := time.Now().UTC().Add(-time.Hour)
	grants.AddGrant(reconstructGrant(t, 1, vo.UserSubject("alice"), 1,
		vo.NewScopeSet(vo.ScopeRead), false, nil, grantedAt))

	resp, err := uc.Execute(context.Background(), dto.QueryPermissionsRequest{
		ClientID:     "payroll-app",
		ClientSecret: "secret",
		AccessToken:  "token",
		SystemID:     "other-app",
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Permissions)
}

func TestQueryPermissions_IDTokenSubjectMismatch(t *testing.T) {
	uc, _ := queryFixture(t)

	idToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub":  "mallory",
		"name": "Mallory",
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), dto.QueryPermissionsRequest{
		ClientID:     "payroll-app",
		ClientSecret: "secret",
		AccessToken:  "token",
		IDToken:      idToken,
	})
	require.Error(t, err)

	trustErr := errors.GetTrustError(err)
	require.NotNil(t, trustErr)
	assert.Equal(t, errors.ErrorTypeInvalidToken, trustErr.Type)
}

func TestQueryPermissions_IDTokenOverridesDisplayName(t *testing.T) {
	uc, grants := queryFixture(t)

	grants.AddGrant(reconstructGrant(t, 1, vo.UserSubject("alice"), 1,
		vo.NewScopeSet(vo.ScopeRead), false, nil, time.Now().UTC().Add(-time.Hour)))

	idToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub":  "alice",
		"name": "Alice Liddell",
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	resp, err := uc.Execute(context.Background(), dto.QueryPermissionsRequest{
		ClientID:     "payroll-app",
		ClientSecret: "secret",
		AccessToken:  "token",
		IDToken:      idToken,
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice Liddell", resp.UserName)
}
