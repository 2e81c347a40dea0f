package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/aegis-idp/aegis/internal/interfaces/http/handlers/connect"
)

type ConnectRouteConfig struct {
	ConnectHandler       *connect.ConnectHandler
	IntrospectionHandler *connect.IntrospectionHandler
	RateLimit            gin.HandlerFunc
}

// SetupConnectRoutes registers the surface called by downstream client
// systems: permission query/check plus the intercepted token endpoints.
func SetupConnectRoutes(engine *gin.Engine, config *ConnectRouteConfig) {
	group := engine.Group("/connect")
	if config.RateLimit != nil {
		group.Use(config.RateLimit)
	}
	{
		group.POST("/permissions/query", config.ConnectHandler.QueryPermissions)
		group.POST("/permissions/check", config.ConnectHandler.CheckPermission)
		group.POST("/introspect", config.IntrospectionHandler.Introspect)
		group.POST("/revocation", config.IntrospectionHandler.Revoke)
	}
}
