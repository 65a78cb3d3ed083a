package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"catalogsync/internal/api/handlers"
	"catalogsync/internal/api/middleware"
	"catalogsync/internal/auth"
	"catalogsync/internal/cache"
	"catalogsync/internal/config"
	"catalogsync/internal/events"
	"catalogsync/internal/feed"
	"catalogsync/internal/logger"
	"catalogsync/internal/replication"
)

type Server struct {
	config *config.Config
	logger *logger.Logger
	router *gin.Engine
	server *http.Server
}

func New(cfg *config.Config, log *logger.Logger, c *cache.Cache, engine *replication.Engine,
	generator *feed.Generator, authenticator *auth.Authenticator, webhookHandler *events.Handler) *Server {

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS())

	syncHandler := handlers.NewSyncHandler(engine, c, log)
	catalogHandler := handlers.NewCatalogHandler(generator, cfg.PublicDir, log)
	authHandler := handlers.NewAuthHandler(authenticator)

	router.POST("/webhooks/:source", webhookHandler.ServeWebhook)

	authGroup := router.Group("/auth")
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/logout", authHandler.Logout)
		authGroup.GET("/check", authHandler.Check)
	}

	operator := router.Group("/")
	operator.Use(middleware.RequireSession(authenticator))
	{
		operator.POST("/sync/initial", syncHandler.RunInitial)
		operator.GET("/sync/status", syncHandler.Status)
		operator.GET("/catalog/generate", catalogHandler.Generate)
		operator.GET("/catalog", catalogHandler.Stream)
	}

	return &Server{
		config: cfg,
		logger: log,
		router: router,
	}
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%s", s.config.Port)

	s.server = &http.Server{
		Addr:        addr,
		Handler:     s.router,
		ReadTimeout: 15 * time.Second,
		// No WriteTimeout: /sync/initial runs BulkSync synchronously and a
		// full replication pass can take minutes (spec.md §5) — a write
		// deadline here would tear down the connection mid-run.
		IdleTimeout: 60 * time.Second,
	}

	s.logger.Info("Starting server on " + addr)
	return s.server.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	return s.server.Shutdown(ctx)
}

// GetRouter returns the Gin router, useful for in-process testing.
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}
