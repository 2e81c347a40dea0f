package admin

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/aegis-idp/aegis/internal/application/admin/dto"
	"github.com/aegis-idp/aegis/internal/application/admin/usecases"
	"github.com/aegis-idp/aegis/internal/shared/logger"
	"github.com/aegis-idp/aegis/internal/shared/utils"
)

type CreateResourceExecutor interface {
	Execute(ctx context.Context, req dto.CreateResourceRequest) (*dto.ResourceResponse, error)
}

type ListResourcesExecutor interface {
	Execute(ctx context.Context, clientID uint) ([]dto.ResourceResponse, error)
}

// ResourceHandler exposes resource-forest administration and the scope
// catalog.
type ResourceHandler struct {
	createResourceUC CreateResourceExecutor
	listResourcesUC  ListResourcesExecutor
	logger           logger.Interface
}

func NewResourceHandler(createResourceUC CreateResourceExecutor, listResourcesUC ListResourcesExecutor, log logger.Interface) *ResourceHandler {
	return &ResourceHandler{
		createResourceUC: createResourceUC,
		listResourcesUC:  listResourcesUC,
		logger:           log,
	}
}

// CreateResource handles POST /admin/resources
func (h *ResourceHandler) CreateResource(c *gin.Context) {
	var req dto.CreateResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid create resource request", "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	result, err := h.createResourceUC.Execute(c.Request.Context(), req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Resource created successfully")
}

// ListResources handles GET /admin/resources?clientId=N
func (h *ResourceHandler) ListResources(c *gin.Context) {
	var clientID uint
	if raw := c.Query("clientId"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "Invalid clientId parameter")
			return
		}
		clientID = uint(parsed)
	}

	result, err := h.listResourcesUC.Execute(c.Request.Context(), clientID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// ListScopes handles GET /admin/scopes
func (h *ResourceHandler) ListScopes(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "", usecases.ListScopeCatalog())
}
