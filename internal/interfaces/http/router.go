package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	adminusecases "github.com/aegis-idp/aegis/internal/application/admin/usecases"
	authzusecases "github.com/aegis-idp/aegis/internal/application/authz/usecases"
	introspectionusecases "github.com/aegis-idp/aegis/internal/application/introspection/usecases"
	"github.com/aegis-idp/aegis/internal/infrastructure/auth"
	"github.com/aegis-idp/aegis/internal/infrastructure/config"
	"github.com/aegis-idp/aegis/internal/infrastructure/idp"
	"github.com/aegis-idp/aegis/internal/infrastructure/ratelimit"
	"github.com/aegis-idp/aegis/internal/infrastructure/repository"
	adminhandlers "github.com/aegis-idp/aegis/internal/interfaces/http/handlers/admin"
	connecthandlers "github.com/aegis-idp/aegis/internal/interfaces/http/handlers/connect"
	"github.com/aegis-idp/aegis/internal/interfaces/http/middleware"
	"github.com/aegis-idp/aegis/internal/interfaces/http/routes"
	"github.com/aegis-idp/aegis/internal/shared/logger"
)

// Router wires repositories, use cases and handlers onto one gin engine.
type Router struct {
	engine *gin.Engine
}

// NewRouter builds the full HTTP surface from storage and configuration.
func NewRouter(db *gorm.DB, cfg *config.Config, log logger.Interface) *Router {
	engine := gin.New()

	engine.Use(middleware.RequestID())
	engine.Use(middleware.RequestLogger(log))
	engine.Use(middleware.Recovery(log))
	engine.Use(middleware.CORS(cfg.Server.AllowedOrigins))

	// repositories
	grantRepo := repository.NewGrantRepository(db, log)
	resourceRepo := repository.NewResourceRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)
	clientRepo := repository.NewClientRepository(db)
	registry := repository.NewRevokedTokenRepository(db, log)

	// trust path
	hasher := auth.NewBcryptSecretHasher(cfg.Auth.BcryptCost)
	clientAuth := auth.NewClientAuthenticator(clientRepo, hasher, log)
	keyCache := auth.NewKeyCache(cfg.Trust.JWKSURL,
		time.Duration(cfg.Trust.KeyRefreshMinutes)*time.Minute,
		time.Duration(cfg.Trust.FetchTimeoutSeconds)*time.Second,
		log,
	)
	verifier := auth.NewVerifier(cfg.Trust.Issuer, keyCache, registry, log)

	// use cases
	resolver := authzusecases.NewResolvePermissionsUseCase(grantRepo, membershipRepo, resourceRepo, log)
	queryUC := authzusecases.NewQueryPermissionsUseCase(clientAuth, verifier, resolver, clientRepo, log)
	checkUC := authzusecases.NewCheckPermissionUseCase(clientAuth, verifier, resolver, log)

	nativeIDP := idp.NewNativeClient(cfg.Introspection, log)
	introspectUC := introspectionusecases.NewIntrospectTokenUseCase(nativeIDP, registry, log)
	revokeUC := introspectionusecases.NewRevokeTokenUseCase(nativeIDP, registry, log)

	createGrantUC := adminusecases.NewCreateGrantUseCase(grantRepo, resourceRepo, log)
	updateGrantUC := adminusecases.NewUpdateGrantUseCase(grantRepo, log)
	deleteGrantUC := adminusecases.NewDeleteGrantUseCase(grantRepo, log)
	listGrantsUC := adminusecases.NewListGrantsUseCase(grantRepo, log)
	listEffectiveUC := adminusecases.NewListEffectivePermissionsUseCase(resolver, log)
	createClientUC := adminusecases.NewCreateClientUseCase(clientRepo, hasher, log)
	listClientsUC := adminusecases.NewListClientsUseCase(clientRepo, log)
	createResourceUC := adminusecases.NewCreateResourceUseCase(resourceRepo, log)
	listResourcesUC := adminusecases.NewListResourcesUseCase(resourceRepo, log)

	// handlers
	connectHandler := connecthandlers.NewConnectHandler(queryUC, checkUC, log)
	introspectionHandler := connecthandlers.NewIntrospectionHandler(introspectUC, revokeUC, log)
	grantHandler := adminhandlers.NewGrantHandler(createGrantUC, updateGrantUC, deleteGrantUC, listGrantsUC, listEffectiveUC, log)
	clientHandler := adminhandlers.NewClientHandler(createClientUC, listClientsUC, log)
	resourceHandler := adminhandlers.NewResourceHandler(createResourceUC, listResourcesUC, log)

	var rateLimitMW gin.HandlerFunc
	if cfg.RateLimit.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.GetAddr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		limiter := ratelimit.NewRedisRateLimiter(redisClient)
		rateLimitMW = middleware.RateLimit(limiter, cfg.RateLimit, log)
	}

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.SetupConnectRoutes(engine, &routes.ConnectRouteConfig{
		ConnectHandler:       connectHandler,
		IntrospectionHandler: introspectionHandler,
		RateLimit:            rateLimitMW,
	})

	routes.SetupAdminRoutes(engine, &routes.AdminRouteConfig{
		GrantHandler:    grantHandler,
		ClientHandler:   clientHandler,
		ResourceHandler: resourceHandler,
		AdminAuth:       middleware.AdminAuth(clientAuth, log),
	})

	return &Router{engine: engine}
}

// Engine exposes the underlying gin engine for the HTTP server.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
