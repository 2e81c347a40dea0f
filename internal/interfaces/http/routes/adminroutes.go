package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/aegis-idp/aegis/internal/interfaces/http/handlers/admin"
)

type AdminRouteConfig struct {
	GrantHandler    *admin.GrantHandler
	ClientHandler   *admin.ClientHandler
	ResourceHandler *admin.ResourceHandler
	AdminAuth       gin.HandlerFunc
}

// SetupAdminRoutes registers the management API consumed by the admin UI.
func SetupAdminRoutes(engine *gin.Engine, config *AdminRouteConfig) {
	group := engine.Group("/api/admin")
	group.Use(config.AdminAuth)
	{
		group.POST("/grants", config.GrantHandler.CreateGrant)
		group.GET("/grants", config.GrantHandler.ListGrants)
		group.PUT("/grants/:id", config.GrantHandler.UpdateGrant)
		group.DELETE("/grants/:id", config.GrantHandler.DeleteGrant)

		group.GET("/users/:userId/permissions", config.GrantHandler.ListEffectivePermissions)

		group.POST("/clients", config.ClientHandler.CreateClient)
		group.GET("/clients", config.ClientHandler.ListClients)

		group.POST("/resources", config.ResourceHandler.CreateResource)
		group.GET("/resources", config.ResourceHandler.ListResources)
		group.GET("/scopes", config.ResourceHandler.ListScopes)
	}
}
