package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/aegis-idp/aegis/internal/domain/revocation"
	"github.com/aegis-idp/aegis/internal/infrastructure/config"
	"github.com/aegis-idp/aegis/internal/infrastructure/database"
	"github.com/aegis-idp/aegis/internal/infrastructure/migration"
	"github.com/aegis-idp/aegis/internal/infrastructure/repository"
	httpRouter "github.com/aegis-idp/aegis/internal/interfaces/http"
	"github.com/aegis-idp/aegis/internal/shared/biztime"
	sharedConfig "github.com/aegis-idp/aegis/internal/shared/config"
	"github.com/aegis-idp/aegis/internal/shared/logger"
)

var (
	env         string
	autoMigrate bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server",
		Long:  `Start the Aegis authorization server with the specified configuration.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Automatically run database migrations on startup (not recommended for production)")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	cfg.Server.Mode = mapEnvToGinMode(env)

	if err := logger.Init(&cfg.Logger, cfg.Server.Mode == gin.DebugMode); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("starting server", "environment", env, "auto_migrate", autoMigrate)

	gin.SetMode(cfg.Server.Mode)
	gin.DefaultWriter = io.Discard
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, nuHandlers int) {
	}

	if err := database.Init(&cfg.Database); err != nil {
		logger.Fatal("failed to initialize database", "error", err)
	}
	defer database.Close()

	if autoMigrate {
		if env == "production" {
			logger.Warn("auto-migration is enabled in production environment - this is not recommended!")
		}
		strategy := migration.NewAutoMigrateStrategy()
		if err := strategy.Migrate(database.Get(), migration.AutoMigrateModels()...); err != nil {
			logger.Fatal("auto-migration failed", "error", err)
		}
		logger.Info("auto-migration completed")
	}

	log := logger.NewLogger()

	gcCtx, stopGC := context.WithCancel(context.Background())
	defer stopGC()
	registry := repository.NewRevokedTokenRepository(database.Get(), log)
	go runRevocationGC(gcCtx, registry, cfg.Revocation, log)

	router := httpRouter.NewRouter(database.Get(), cfg, log)

	srv := &http.Server{
		Addr:         cfg.Server.GetAddr(),
		Handler:      router.Engine(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "address", cfg.Server.GetAddr(), "mode", cfg.Server.Mode)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		return err
	}

	logger.Info("server exited gracefully")
	return nil
}

// runRevocationGC periodically deletes registry entries whose tokens
// expired long enough ago that no verifier could still accept them.
func runRevocationGC(ctx context.Context, registry revocation.Registry, cfg sharedConfig.RevocationConfig, log logger.Interface) {
	if cfg.GCIntervalMinutes <= 0 {
		log.Infow("revocation gc disabled")
		return
	}

	ticker := time.NewTicker(time.Duration(cfg.GCIntervalMinutes) * time.Minute)
	defer ticker.Stop()

	margin := time.Duration(cfg.GCSafetyMarginHours) * time.Hour

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cutoff := biztime.NowUTC().Add(-margin)
			purged, err := registry.PurgeExpired(ctx, cutoff)
			if err != nil {
				log.Warnw("revocation gc sweep failed", "error", err)
				continue
			}
			if purged > 0 {
				log.Infow("revocation gc sweep completed", "purged", purged, "cutoff", cutoff)
			}
		}
	}
}

func mapEnvToGinMode(environment string) string {
	switch environment {
	case "production", "prod":
		return gin.ReleaseMode
	case "test", "testing":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}
