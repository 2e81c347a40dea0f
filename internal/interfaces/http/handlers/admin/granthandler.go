package admin

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/aegis-idp/aegis/internal/application/admin/dto"
	authzdto "github.com/aegis-idp/aegis/internal/application/authz/dto"
	"github.com/aegis-idp/aegis/internal/shared/errors"
	"github.com/aegis-idp/aegis/internal/shared/logger"
	"github.com/aegis-idp/aegis/internal/shared/utils"
)

type CreateGrantExecutor interface {
	Execute(ctx context.Context, req dto.CreateGrantRequest) (*dto.GrantResponse, error)
}

type UpdateGrantExecutor interface {
	Execute(ctx context.Context, grantID uint, req dto.UpdateGrantRequest) (*dto.GrantResponse, error)
}

type DeleteGrantExecutor interface {
	Execute(ctx context.Context, grantID uint) error
}

type ListGrantsExecutor interface {
	Execute(ctx context.Context, req dto.ListGrantsRequest) (*dto.ListGrantsResponse, error)
}

type ListEffectivePermissionsExecutor interface {
	Execute(ctx context.Context, userID string) ([]authzdto.ResourcePermissionResponse, error)
}

// GrantHandler exposes grant administration to the management UI.
type GrantHandler struct {
	createGrantUC   CreateGrantExecutor
	updateGrantUC   UpdateGrantExecutor
	deleteGrantUC   DeleteGrantExecutor
	listGrantsUC    ListGrantsExecutor
	listEffectiveUC ListEffectivePermissionsExecutor
	logger          logger.Interface
}

func NewGrantHandler(
	createGrantUC CreateGrantExecutor,
	updateGrantUC UpdateGrantExecutor,
	deleteGrantUC DeleteGrantExecutor,
	listGrantsUC ListGrantsExecutor,
	listEffectiveUC ListEffectivePermissionsExecutor,
	log logger.Interface,
) *GrantHandler {
	return &GrantHandler{
		createGrantUC:   createGrantUC,
		updateGrantUC:   updateGrantUC,
		deleteGrantUC:   deleteGrantUC,
		listGrantsUC:    listGrantsUC,
		listEffectiveUC: listEffectiveUC,
		logger:          log,
	}
}

// CreateGrant handles POST /admin/grants
func (h *GrantHandler) CreateGrant(c *gin.Context) {
	var req dto.CreateGrantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid create grant request", "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	result, err := h.createGrantUC.Execute(c.Request.Context(), req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Grant created successfully")
}

// UpdateGrant handles PUT /admin/grants/:id
func (h *GrantHandler) UpdateGrant(c *gin.Context) {
	grantID, err := parseIDParam(c)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	var req dto.UpdateGrantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid update grant request", "error", err, "grant_id", grantID)
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	result, err := h.updateGrantUC.Execute(c.Request.Context(), grantID, req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Grant updated successfully", result)
}

// DeleteGrant handles DELETE /admin/grants/:id
func (h *GrantHandler) DeleteGrant(c *gin.Context) {
	grantID, err := parseIDParam(c)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	if err := h.deleteGrantUC.Execute(c.Request.Context(), grantID); err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Grant deleted successfully", nil)
}

// ListGrants handles GET /admin/grants
func (h *GrantHandler) ListGrants(c *gin.Context) {
	var req dto.ListGrantsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid query parameters", err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	result, err := h.listGrantsUC.Execute(c.Request.Context(), req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// ListEffectivePermissions handles GET /admin/users/:userId/permissions
func (h *GrantHandler) ListEffectivePermissions(c *gin.Context) {
	userID := c.Param("userId")
	if userID == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "User ID is required")
		return
	}

	result, err := h.listEffectiveUC.Execute(c.Request.Context(), userID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

func parseIDParam(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, errors.NewValidationError("invalid id parameter")
	}
	return uint(id), nil
}
