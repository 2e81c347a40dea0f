package connect

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aegis-idp/aegis/internal/application/authz/dto"
	"github.com/aegis-idp/aegis/internal/shared/constants"
	"github.com/aegis-idp/aegis/internal/shared/errors"
	"github.com/aegis-idp/aegis/internal/shared/logger"
)

// QueryPermissionsExecutor answers "what can this token holder do".
type QueryPermissionsExecutor interface {
	Execute(ctx context.Context, req dto.QueryPermissionsRequest) (*dto.QueryPermissionsResponse, error)
}

// CheckPermissionExecutor answers "can this token holder do X".
type CheckPermissionExecutor interface {
	Execute(ctx context.Context, req dto.CheckPermissionRequest) (*dto.CheckPermissionResponse, error)
}

// ConnectHandler exposes the permission query/check surface called by
// downstream client systems. Errors use the flat {error,
// errorDescription} wire shape those integrations expect, not the
// envelope of the admin API.
type ConnectHandler struct {
	queryUC QueryPermissionsExecutor
	checkUC CheckPermissionExecutor
	logger  logger.Interface
}

func NewConnectHandler(queryUC QueryPermissionsExecutor, checkUC CheckPermissionExecutor, log logger.Interface) *ConnectHandler {
	return &ConnectHandler{
		queryUC: queryUC,
		checkUC: checkUC,
		logger:  log,
	}
}

// QueryPermissions handles POST /connect/permissions/query
func (h *ConnectHandler) QueryPermissions(c *gin.Context) {
	var req dto.QueryPermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid query permissions request", "error", err)
		trustErrorResponse(c, errors.NewInvalidClientError("malformed request body"))
		return
	}
	c.Set(constants.ContextKeyClientID, req.ClientID)

	result, err := h.queryUC.Execute(c.Request.Context(), req)
	if err != nil {
		trustErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// CheckPermission handles POST /connect/permissions/check
func (h *ConnectHandler) CheckPermission(c *gin.Context) {
	var req dto.CheckPermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid check permission request", "error", err)
		checkErrorResponse(c, errors.NewInvalidClientError("malformed request body"))
		return
	}
	c.Set(constants.ContextKeyClientID, req.ClientID)

	result, err := h.checkUC.Execute(c.Request.Context(), req)
	if err != nil {
		checkErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"allowed":  allAllowed(result.Scopes),
		"resource": result.Resource,
		"scopes":   result.Scopes,
	})
}

func allAllowed(scopes map[string]bool) bool {
	for _, ok := range scopes {
		if !ok {
			return false
		}
	}
	return len(scopes) > 0
}

// trustErrorResponse writes the flat error pair. Unclassified errors
// degrade to an opaque storage failure so no internals leak.
func trustErrorResponse(c *gin.Context, err error) {
	code, payload := flatError(err)
	c.JSON(code, payload)
}

func flatError(err error) (int, gin.H) {
	if trustErr := errors.GetTrustError(err); trustErr != nil {
		return trustErr.Code, gin.H{
			"error":            string(trustErr.Type),
			"errorDescription": trustErr.Message,
		}
	}
	if appErr := errors.GetAppError(err); appErr != nil {
		return appErr.Code, gin.H{
			"error":            string(appErr.Type),
			"errorDescription": appErr.Message,
		}
	}
	fallback := errors.NewStorageUnavailableError()
	return fallback.Code, gin.H{
		"error":            string(fallback.Type),
		"errorDescription": fallback.Message,
	}
}

// checkErrorResponse is the same pair with the allowed flag the check
// callers key on: a failed trust path never yields partial success.
func checkErrorResponse(c *gin.Context, err error) {
	code, payload := flatError(err)
	payload["allowed"] = false
	c.JSON(code, payload)
}
