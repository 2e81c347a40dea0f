package admin

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aegis-idp/aegis/internal/application/admin/dto"
	"github.com/aegis-idp/aegis/internal/shared/logger"
	"github.com/aegis-idp/aegis/internal/shared/utils"
)

type CreateClientExecutor interface {
	Execute(ctx context.Context, req dto.CreateClientRequest) (*dto.ClientResponse, error)
}

type ListClientsExecutor interface {
	Execute(ctx context.Context) ([]dto.ClientResponse, error)
}

// ClientHandler exposes registered-client administration.
type ClientHandler struct {
	createClientUC CreateClientExecutor
	listClientsUC  ListClientsExecutor
	logger         logger.Interface
}

func NewClientHandler(createClientUC CreateClientExecutor, listClientsUC ListClientsExecutor, log logger.Interface) *ClientHandler {
	return &ClientHandler{
		createClientUC: createClientUC,
		listClientsUC:  listClientsUC,
		logger:         log,
	}
}

// CreateClient handles POST /admin/clients. The response carries the
// generated secret; it is never retrievable again.
func (h *ClientHandler) CreateClient(c *gin.Context) {
	var req dto.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid create client request", "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	result, err := h.createClientUC.Execute(c.Request.Context(), req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Client registered successfully")
}

// ListClients handles GET /admin/clients
func (h *ClientHandler) ListClients(c *gin.Context) {
	result, err := h.listClientsUC.Execute(c.Request.Context())
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}
