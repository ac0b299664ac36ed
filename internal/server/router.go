package server

import (
	"github.com/abduss/docstore/internal/auth"
	"github.com/abduss/docstore/internal/config"
	"github.com/abduss/docstore/internal/file"
	"github.com/abduss/docstore/internal/logger"
	"github.com/abduss/docstore/internal/metrics"
	"github.com/abduss/docstore/internal/presigned"
	"github.com/gin-gonic/gin"
)

// Dependencies groups the services required by the HTTP router.
type Dependencies struct {
	Config           config.Config
	DB               Pinger
	ObjectStore      BucketLister
	AuthService      *auth.Service
	FileService      *file.Service
	PresignedService *presigned.Service
}

// NewRouter builds a Gin engine with foundational middleware and routes.
func NewRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.Middleware())
	router.Use(metrics.Middleware())

	registerHealthRoutes(router, deps)
	metrics.Register(router, deps.Config.Metrics.PrometheusPath)

	api := router.Group("/api")

	var guards []gin.HandlerFunc
	if deps.AuthService != nil {
		auth.RegisterRoutes(api, deps.AuthService)
		if deps.Config.Auth.Enabled {
			guards = append(guards, auth.AuthMiddleware(deps.AuthService))
		}
	}

	if deps.FileService != nil {
		file.RegisterRoutes(api, deps.FileService, deps.Config.Files.MaxUploadBytes, guards...)
	}
	if deps.PresignedService != nil {
		presigned.NewHandler(deps.PresignedService).RegisterRoutes(api)
	}

	return router
}
