package usecases

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aegis-idp/aegis/internal/application/authz/testutil"
	"github.com/aegis-idp/aegis/internal/application/introspection/dto"
	"github.com/aegis-idp/aegis/internal/domain/revocation"
)

type stubIntrospector struct {
	result *dto.IntrospectionResult
	err    error
}

func (s *stubIntrospector) Introspect(ctx context.Context, token, tokenTypeHint string) (*dto.IntrospectionResult, error) {
	return s.result, s.err
}

func TestApplyRevocationOverlay(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name       string
		native     dto.IntrospectionResult
		revoked    bool
		wantActive bool
	}{
		{
			name:       "active unrevoked token stays active",
			native:     dto.IntrospectionResult{Active: true, JTI: "a", Exp: now.Add(time.Hour).Unix()},
			wantActive: true,
		},
		{
			name:       "revoked token is deactivated",
			native:     dto.IntrospectionResult{Active: true, JTI: "a", Exp: now.Add(time.Hour).Unix()},
			revoked:    true,
			wantActive: false,
		},
		{
			name:       "expired token is deactivated even if provider says active",
			native:     dto.IntrospectionResult{Active: true, JTI: "a", Exp: now.Add(-time.Minute).Unix()},
			wantActive: false,
		},
		{
			name:       "inactive stays inactive",
			native:     dto.IntrospectionResult{Active: false},
			wantActive: false,
		},
		{
			name:       "active token without exp stays active",
			native:     dto.IntrospectionResult{Active: true, JTI: "a"},
			wantActive: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := tt.native
			got := ApplyRevocationOverlay(&tt.native, tt.revoked, now)
			assert.Equal(t, tt.wantActive, got.Active)
			// the overlay is pure: the native verdict is never mutated
			assert.Equal(t, original, tt.native)
		})
	}
}

func TestIntrospectToken_OverlayDeactivatesRevoked(t *testing.T) {
	registry := testutil.NewMockRegistry()
	entry, err := revocation.NewRevokedToken("jti-1", "alice", "payroll-app", "access_token", time.Now().UTC().Add(time.Hour), "test", "admin")
	require.NoError(t, err)
	_, err = registry.Revoke(context.Background(), entry)
	require.NoError(t, err)

	native := &stubIntrospector{result: &dto.IntrospectionResult{
		Active: true,
		JTI:    "jti-1",
		Exp:    time.Now().UTC().Add(time.Hour).Unix(),
	}}

	uc := NewIntrospectTokenUseCase(native, registry, testutil.NewMockLogger())
	result, err := uc.Execute(context.Background(), dto.IntrospectRequest{Token: "raw"})
	require.NoError(t, err)
	assert.False(t, result.Active)
}

func TestIntrospectToken_RegistryFailureFailsClosed(t *testing.T) {
	registry := testutil.NewMockRegistry()
	registry.SetCheckError(fmt.Errorf("db down"))

	native := &stubIntrospector{result: &dto.IntrospectionResult{
		Active: true,
		JTI:    "jti-1",
		Exp:    time.Now().UTC().Add(time.Hour).Unix(),
	}}

	uc := NewIntrospectTokenUseCase(native, registry, testutil.NewMockLogger())
	_, err := uc.Execute(context.Background(), dto.IntrospectRequest{Token: "raw"})
	require.Error(t, err)
}
