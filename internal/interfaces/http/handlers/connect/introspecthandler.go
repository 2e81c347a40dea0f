package connect

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aegis-idp/aegis/internal/application/introspection/dto"
	"github.com/aegis-idp/aegis/internal/shared/logger"
)

// IntrospectExecutor runs native introspection plus the revocation overlay.
type IntrospectExecutor interface {
	Execute(ctx context.Context, req dto.IntrospectRequest) (*dto.IntrospectionResult, error)
}

// RevokeExecutor runs native revocation plus registry bookkeeping.
type RevokeExecutor interface {
	Execute(ctx context.Context, req dto.RevokeRequest) error
}

// IntrospectionHandler fronts the identity provider's introspection and
// revocation endpoints so every caller observes the overlaid revocation
// state. The wire shapes follow the standard token endpoints: form
// requests, bare JSON verdicts.
type IntrospectionHandler struct {
	introspectUC IntrospectExecutor
	revokeUC     RevokeExecutor
	logger       logger.Interface
}

func NewIntrospectionHandler(introspectUC IntrospectExecutor, revokeUC RevokeExecutor, log logger.Interface) *IntrospectionHandler {
	return &IntrospectionHandler{
		introspectUC: introspectUC,
		revokeUC:     revokeUC,
		logger:       log,
	}
}

// Introspect handles POST /connect/introspect
func (h *IntrospectionHandler) Introspect(c *gin.Context) {
	var req dto.IntrospectRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":            "invalid_request",
			"errorDescription": "token parameter is required",
		})
		return
	}

	result, err := h.introspectUC.Execute(c.Request.Context(), req)
	if err != nil {
		// a failed lookup must not report the token as active
		h.logger.Errorw("introspection failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":            "temporarily_unavailable",
			"errorDescription": "introspection is temporarily unavailable",
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

// Revoke handles POST /connect/revocation
func (h *IntrospectionHandler) Revoke(c *gin.Context) {
	var req dto.RevokeRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":            "invalid_request",
			"errorDescription": "token parameter is required",
		})
		return
	}

	if err := h.revokeUC.Execute(c.Request.Context(), req); err != nil {
		h.logger.Errorw("revocation failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":            "temporarily_unavailable",
			"errorDescription": "revocation is temporarily unavailable",
		})
		return
	}

	c.Status(http.StatusOK)
}
