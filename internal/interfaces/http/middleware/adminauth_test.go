package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aegis-idp/aegis/internal/application/authz/testutil"
	dclient "github.com/aegis-idp/aegis/internal/domain/client"
	"github.com/aegis-idp/aegis/internal/shared/constants"
	"github.com/aegis-idp/aegis/internal/shared/errors"
)

type stubAuthenticator struct {
	client *dclient.RegisteredClient
	err    error
}

func (s *stubAuthenticator) Authenticate(_ context.Context, _, _ string) (*dclient.RegisteredClient, error) {
	return s.client, s.err
}

func managementClient(t *testing.T) *dclient.RegisteredClient {
	now := time.Now().UTC()
	c, err := dclient.ReconstructRegisteredClient(1, "admin-console", "Admin Console", "hash", true, true, now, now)
	require.NoError(t, err)
	return c
}

func ordinaryClient(t *testing.T) *dclient.RegisteredClient {
	now := time.Now().UTC()
	c, err := dclient.ReconstructRegisteredClient(2, "payroll-app", "Payroll", "hash", false, true, now, now)
	require.NoError(t, err)
	return c
}

func runAdminAuth(t *testing.T, auth ClientAuthenticator, configure func(r *http.Request)) (*httptest.ResponseRecorder, bool) {
	gin.SetMode(gin.TestMode)

	var passed bool
	engine := gin.New()
	engine.Use(AdminAuth(auth, testutil.NewMockLogger()))
	engine.GET("/api/admin/grants", func(c *gin.Context) {
		passed = true
		_, hasClient := c.Get(constants.ContextKeyClientID)
		assert.True(t, hasClient)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/grants", nil)
	if configure != nil {
		configure(req)
	}

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w, passed
}

func TestAdminAuth_MissingCredentials(t *testing.T) {
	w, passed := runAdminAuth(t, &stubAuthenticator{}, nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Header().Get("WWW-Authenticate"), "Basic")
	assert.False(t, passed)
}

func TestAdminAuth_BadCredentials(t *testing.T) {
	auth := &stubAuthenticator{err: errors.NewInvalidClientError()}
	w, passed := runAdminAuth(t, auth, func(r *http.Request) {
		r.SetBasicAuth("admin-console", "wrong")
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, passed)
}

func TestAdminAuth_NonManagementClientRejected(t *testing.T) {
	auth := &stubAuthenticator{client: ordinaryClient(t)}
	w, passed := runAdminAuth(t, auth, func(r *http.Request) {
		r.SetBasicAuth("payroll-app", "secret")
	})

	// identical response shape to bad credentials
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, passed)
}

func TestAdminAuth_ManagementClientPasses(t *testing.T) {
	auth := &stubAuthenticator{client: managementClient(t)}
	w, passed := runAdminAuth(t, auth, func(r *http.Request) {
		r.SetBasicAuth("admin-console", "secret")
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, passed)
}
