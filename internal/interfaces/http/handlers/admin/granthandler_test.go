package admin

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aegis-idp/aegis/internal/application/admin/dto"
	authzdto "github.com/aegis-idp/aegis/internal/application/authz/dto"
	"github.com/aegis-idp/aegis/internal/application/authz/testutil"
	httptestutil "github.com/aegis-idp/aegis/internal/interfaces/http/handlers/testutil"
	"github.com/aegis-idp/aegis/internal/shared/errors"
)

type mockCreateGrantUC struct {
	result *dto.GrantResponse
	err    error
}

func (m *mockCreateGrantUC) Execute(_ context.Context, _ dto.CreateGrantRequest) (*dto.GrantResponse, error) {
	return m.result, m.err
}

type mockUpdateGrantUC struct {
	result *dto.GrantResponse
	err    error
}

func (m *mockUpdateGrantUC) Execute(_ context.Context, _ uint, _ dto.UpdateGrantRequest) (*dto.GrantResponse, error) {
	return m.result, m.err
}

type mockDeleteGrantUC struct {
	err error
}

func (m *mockDeleteGrantUC) Execute(_ context.Context, _ uint) error {
	return m.err
}

type mockListGrantsUC struct {
	result *dto.ListGrantsResponse
	err    error
}

func (m *mockListGrantsUC) Execute(_ context.Context, _ dto.ListGrantsRequest) (*dto.ListGrantsResponse, error) {
	return m.result, m.err
}

type mockListEffectiveUC struct {
	result []authzdto.ResourcePermissionResponse
	err    error
}

func (m *mockListEffectiveUC) Execute(_ context.Context, _ string) ([]authzdto.ResourcePermissionResponse, error) {
	return m.result, m.err
}

type grantHandlerMocks struct {
	create        *mockCreateGrantUC
	update        *mockUpdateGrantUC
	delete        *mockDeleteGrantUC
	list          *mockListGrantsUC
	listEffective *mockListEffectiveUC
}

func newGrantHandler() (*GrantHandler, *grantHandlerMocks) {
	mocks := &grantHandlerMocks{
		create:        &mockCreateGrantUC{},
		update:        &mockUpdateGrantUC{},
		delete:        &mockDeleteGrantUC{},
		list:          &mockListGrantsUC{},
		listEffective: &mockListEffectiveUC{},
	}
	handler := NewGrantHandler(mocks.create, mocks.update, mocks.delete, mocks.list, mocks.listEffective, testutil.NewMockLogger())
	return handler, mocks
}

func TestGrantHandler_CreateGrant(t *testing.T) {
	t.Run("created grant arrives in the envelope", func(t *testing.T) {
		handler, mocks := newGrantHandler()
		mocks.create.result = &dto.GrantResponse{ID: 7, SubjectType: "user", SubjectID: "alice", ResourceID: 1, Scopes: []string{"r"}}

		c, w := httptestutil.NewTestContext(http.MethodPost, "/api/admin/grants", dto.CreateGrantRequest{
			SubjectType: "user",
			SubjectID:   "alice",
			ResourceID:  1,
			Scopes:      []string{"r"},
		})
		handler.CreateGrant(c)

		assert.Equal(t, http.StatusCreated, w.Code)

		var resp httptestutil.APIResponse
		require.NoError(t, httptestutil.ParseResponse(w, &resp))
		assert.True(t, resp.Success)
	})

	t.Run("missing fields fail validation before the use case", func(t *testing.T) {
		handler, _ := newGrantHandler()

		c, w := httptestutil.NewTestContext(http.MethodPost, "/api/admin/grants", map[string]any{
			"subjectType": "user",
		})
		handler.CreateGrant(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp httptestutil.APIResponse
		require.NoError(t, httptestutil.ParseResponse(w, &resp))
		assert.False(t, resp.Success)
	})

	t.Run("duplicate active grant surfaces as conflict", func(t *testing.T) {
		handler, mocks := newGrantHandler()
		mocks.create.err = errors.NewConflictError("an active grant already exists for this subject and resource")

		c, w := httptestutil.NewTestContext(http.MethodPost, "/api/admin/grants", dto.CreateGrantRequest{
			SubjectType: "user",
			SubjectID:   "alice",
			ResourceID:  1,
			Scopes:      []string{"r"},
		})
		handler.CreateGrant(c)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestGrantHandler_UpdateGrant(t *testing.T) {
	t.Run("invalid id parameter is rejected", func(t *testing.T) {
		handler, _ := newGrantHandler()

		c, w := httptestutil.NewTestContext(http.MethodPut, "/api/admin/grants/abc", dto.UpdateGrantRequest{})
		httptestutil.SetURLParam(c, "id", "abc")
		handler.UpdateGrant(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing grant surfaces as not found", func(t *testing.T) {
		handler, mocks := newGrantHandler()
		mocks.update.err = errors.NewNotFoundError("grant not found")

		c, w := httptestutil.NewTestContext(http.MethodPut, "/api/admin/grants/42", dto.UpdateGrantRequest{})
		httptestutil.SetURLParam(c, "id", "42")
		handler.UpdateGrant(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("update returns the refreshed grant", func(t *testing.T) {
		handler, mocks := newGrantHandler()
		mocks.update.result = &dto.GrantResponse{ID: 42, Scopes: []string{"r", "u"}}

		c, w := httptestutil.NewTestContext(http.MethodPut, "/api/admin/grants/42", dto.UpdateGrantRequest{
			Scopes: []string{"r", "u"},
		})
		httptestutil.SetURLParam(c, "id", "42")
		handler.UpdateGrant(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestGrantHandler_DeleteGrant(t *testing.T) {
	handler, _ := newGrantHandler()

	c, w := httptestutil.NewTestContext(http.MethodDelete, "/api/admin/grants/42", nil)
	httptestutil.SetURLParam(c, "id", "42")
	handler.DeleteGrant(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGrantHandler_ListGrants(t *testing.T) {
	handler, mocks := newGrantHandler()
	mocks.list.result = &dto.ListGrantsResponse{
		Grants: []dto.GrantResponse{{ID: 1}, {ID: 2}},
		Total:  2,
	}

	c, w := httptestutil.NewTestContext(http.MethodGet, "/api/admin/grants", nil)
	httptestutil.SetQueryParams(c, map[string]string{"subjectType": "user", "subjectId": "alice"})
	handler.ListGrants(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp httptestutil.APIResponse
	require.NoError(t, httptestutil.ParseResponse(w, &resp))
	assert.True(t, resp.Success)
}

func TestGrantHandler_ListGrants_RejectsUnknownSubjectType(t *testing.T) {
	handler, _ := newGrantHandler()

	c, w := httptestutil.NewTestContext(http.MethodGet, "/api/admin/grants", nil)
	httptestutil.SetQueryParams(c, map[string]string{"subjectType": "robot"})
	handler.ListGrants(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGrantHandler_ListEffectivePermissions(t *testing.T) {
	handler, mocks := newGrantHandler()
	mocks.listEffective.result = []authzdto.ResourcePermissionResponse{
		{ResourceID: 1, ResourceCode: "payroll"},
	}

	c, w := httptestutil.NewTestContext(http.MethodGet, "/api/admin/users/user-42/permissions", nil)
	httptestutil.SetURLParam(c, "userId", "user-42")
	handler.ListEffectivePermissions(c)

	assert.Equal(t, http.StatusOK, w.Code)
}
