package connect

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aegis-idp/aegis/internal/application/authz/dto"
	"github.com/aegis-idp/aegis/internal/application/authz/testutil"
	httptestutil "github.com/aegis-idp/aegis/internal/interfaces/http/handlers/testutil"
	"github.com/aegis-idp/aegis/internal/shared/errors"
)

type mockQueryPermissionsUC struct {
	result *dto.QueryPermissionsResponse
	err    error
}

func (m *mockQueryPermissionsUC) Execute(_ context.Context, _ dto.QueryPermissionsRequest) (*dto.QueryPermissionsResponse, error) {
	return m.result, m.err
}

type mockCheckPermissionUC struct {
	result *dto.CheckPermissionResponse
	err    error
}

func (m *mockCheckPermissionUC) Execute(_ context.Context, _ dto.CheckPermissionRequest) (*dto.CheckPermissionResponse, error) {
	return m.result, m.err
}

func newConnectHandler(queryUC QueryPermissionsExecutor, checkUC CheckPermissionExecutor) *ConnectHandler {
	return NewConnectHandler(queryUC, checkUC, testutil.NewMockLogger())
}

func queryRequestBody() dto.QueryPermissionsRequest {
	return dto.QueryPermissionsRequest{
		ClientID:     "payroll-app",
		ClientSecret: "secret",
		AccessToken:  "token",
	}
}

func TestConnectHandler_QueryPermissions(t *testing.T) {
	t.Run("success returns resolved permissions", func(t *testing.T) {
		queryUC := &mockQueryPermissionsUC{result: &dto.QueryPermissionsResponse{
			UserID:   "user-42",
			UserName: "Wei Zhang",
			Permissions: []dto.SystemPermissionsResponse{
				{SystemID: "payroll-app", SystemName: "Payroll"},
			},
		}}
		handler := newConnectHandler(queryUC, &mockCheckPermissionUC{})

		c, w := httptestutil.NewTestContext(http.MethodPost, "/connect/permissions/query", queryRequestBody())
		handler.QueryPermissions(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp dto.QueryPermissionsResponse
		require.NoError(t, httptestutil.ParseResponse(w, &resp))
		assert.Equal(t, "user-42", resp.UserID)
		require.Len(t, resp.Permissions, 1)
		assert.Equal(t, "payroll-app", resp.Permissions[0].SystemID)
	})

	t.Run("missing credentials yield the flat error pair", func(t *testing.T) {
		handler := newConnectHandler(&mockQueryPermissionsUC{}, &mockCheckPermissionUC{})

		c, w := httptestutil.NewTestContext(http.MethodPost, "/connect/permissions/query", map[string]string{
			"clientId": "payroll-app",
		})
		handler.QueryPermissions(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)

		var resp map[string]any
		require.NoError(t, httptestutil.ParseResponse(w, &resp))
		assert.Equal(t, "invalid_client", resp["error"])
		assert.NotEmpty(t, resp["errorDescription"])
	})

	t.Run("revoked token maps onto the trust taxonomy", func(t *testing.T) {
		queryUC := &mockQueryPermissionsUC{err: errors.NewTokenRevokedError()}
		handler := newConnectHandler(queryUC, &mockCheckPermissionUC{})

		c, w := httptestutil.NewTestContext(http.MethodPost, "/connect/permissions/query", queryRequestBody())
		handler.QueryPermissions(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)

		var resp map[string]any
		require.NoError(t, httptestutil.ParseResponse(w, &resp))
		assert.Equal(t, "token_revoked", resp["error"])
	})

	t.Run("unclassified failure degrades to an opaque retryable error", func(t *testing.T) {
		queryUC := &mockQueryPermissionsUC{err: assert.AnError}
		handler := newConnectHandler(queryUC, &mockCheckPermissionUC{})

		c, w := httptestutil.NewTestContext(http.MethodPost, "/connect/permissions/query", queryRequestBody())
		handler.QueryPermissions(c)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)

		var resp map[string]any
		require.NoError(t, httptestutil.ParseResponse(w, &resp))
		assert.Equal(t, "storage_unavailable", resp["error"])
	})
}

func checkRequestBody(scopes ...string) dto.CheckPermissionRequest {
	return dto.CheckPermissionRequest{
		ClientID:     "payroll-app",
		ClientSecret: "secret",
		AccessToken:  "token",
		Resource:     "payroll.reports",
		Scopes:       scopes,
	}
}

func TestConnectHandler_CheckPermission(t *testing.T) {
	t.Run("all scopes held reports allowed", func(t *testing.T) {
		checkUC := &mockCheckPermissionUC{result: &dto.CheckPermissionResponse{
			Resource: "payroll.reports",
			Scopes:   map[string]bool{"r": true, "c": true},
		}}
		handler := newConnectHandler(&mockQueryPermissionsUC{}, checkUC)

		c, w := httptestutil.NewTestContext(http.MethodPost, "/connect/permissions/check", checkRequestBody("r", "c"))
		handler.CheckPermission(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp map[string]any
		require.NoError(t, httptestutil.ParseResponse(w, &resp))
		assert.Equal(t, true, resp["allowed"])
		assert.Equal(t, "payroll.reports", resp["resource"])
	})

	t.Run("one missing scope reports not allowed without an error", func(t *testing.T) {
		checkUC := &mockCheckPermissionUC{result: &dto.CheckPermissionResponse{
			Resource: "payroll.reports",
			Scopes:   map[string]bool{"r": true, "d": false},
		}}
		handler := newConnectHandler(&mockQueryPermissionsUC{}, checkUC)

		c, w := httptestutil.NewTestContext(http.MethodPost, "/connect/permissions/check", checkRequestBody("r", "d"))
		handler.CheckPermission(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp map[string]any
		require.NoError(t, httptestutil.ParseResponse(w, &resp))
		assert.Equal(t, false, resp["allowed"])
		scopes, ok := resp["scopes"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, true, scopes["r"])
		assert.Equal(t, false, scopes["d"])
	})

	t.Run("trust failure carries allowed false alongside the error pair", func(t *testing.T) {
		checkUC := &mockCheckPermissionUC{err: errors.NewTokenExpiredError()}
		handler := newConnectHandler(&mockQueryPermissionsUC{}, checkUC)

		c, w := httptestutil.NewTestContext(http.MethodPost, "/connect/permissions/check", checkRequestBody("r"))
		handler.CheckPermission(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)

		var resp map[string]any
		require.NoError(t, httptestutil.ParseResponse(w, &resp))
		assert.Equal(t, false, resp["allowed"])
		assert.Equal(t, "token_expired", resp["error"])
	})

	t.Run("unknown resource returns 404 with the flat pair", func(t *testing.T) {
		checkUC := &mockCheckPermissionUC{err: errors.NewResourceUnknownError("no such resource")}
		handler := newConnectHandler(&mockQueryPermissionsUC{}, checkUC)

		c, w := httptestutil.NewTestContext(http.MethodPost, "/connect/permissions/check", checkRequestBody("r"))
		handler.CheckPermission(c)

		assert.Equal(t, http.StatusNotFound, w.Code)

		var resp map[string]any
		require.NoError(t, httptestutil.ParseResponse(w, &resp))
		assert.Equal(t, false, resp["allowed"])
		assert.Equal(t, "resource_unknown", resp["error"])
	})
}
