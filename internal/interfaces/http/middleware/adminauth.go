package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	dclient "github.com/aegis-idp/aegis/internal/domain/client"
	"github.com/aegis-idp/aegis/internal/shared/constants"
	"github.com/aegis-idp/aegis/internal/shared/logger"
	"github.com/aegis-idp/aegis/internal/shared/utils"
)

// ClientAuthenticator is the credential check backing admin basic auth.
type ClientAuthenticator interface {
	Authenticate(ctx context.Context, clientID, clientSecret string) (*dclient.RegisteredClient, error)
}

// AdminAuth guards the administrative API with HTTP basic auth against
// the registered-client store. Only clients flagged as management
// clients pass; the response is identical for bad credentials and for
// non-management clients.
func AdminAuth(auth ClientAuthenticator, log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID, clientSecret, ok := c.Request.BasicAuth()
		if !ok {
			c.Header("WWW-Authenticate", `Basic realm="aegis-admin"`)
			utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
			c.Abort()
			return
		}

		registered, err := auth.Authenticate(c.Request.Context(), clientID, clientSecret)
		if err != nil || !registered.Management() {
			log.Warnw("admin authentication rejected", "client_id", clientID)
			utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication failed")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyClientID, registered.ClientID())
		c.Next()
	}
}
