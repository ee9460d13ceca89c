package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yungbote/mrkr-backend/internal/handlers"
	"github.com/yungbote/mrkr-backend/internal/logger"
	"github.com/yungbote/mrkr-backend/internal/middleware"
)

type RouterConfig struct {
	Log             *logger.Logger
	UtilsHandler    *handlers.UtilsHandler
	UserHandler     *handlers.UserHandler
	ProjectHandler  *handlers.ProjectHandler
	DocumentHandler *handlers.DocumentHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(cfg.Log))

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	api := router.Group("/api/v1")
	{
		// Utils
		api.GET("/utils/health", cfg.UtilsHandler.HealthCheck)

		// User
		api.POST("/user", cfg.UserHandler.Create)
		api.GET("/user/list-users", cfg.UserHandler.List)

		// Project
		api.POST("/project", cfg.ProjectHandler.Create)
		api.GET("/project/list-projects", cfg.ProjectHandler.List)
		api.GET("/project/:id", cfg.ProjectHandler.Get)
		api.POST("/project/:id/scan", cfg.ProjectHandler.Scan)
		api.GET("/project/:id/list-documents", cfg.ProjectHandler.ListDocuments)

		// Document
		api.PUT("/document/assignee", cfg.DocumentHandler.BatchAssignee)
		api.PUT("/document/reviewer", cfg.DocumentHandler.BatchReviewer)
		api.PUT("/document/status", cfg.DocumentHandler.BatchStatus)
		api.GET("/document/:id", cfg.DocumentHandler.Get)
		api.GET("/document/:id/content", cfg.DocumentHandler.Content)
		api.GET("/document/:id/metadata", cfg.DocumentHandler.Metadata)
		api.PUT("/document/:id/data", cfg.DocumentHandler.UpdateData)
		api.POST("/document/:id/scan", cfg.DocumentHandler.Scan)
	}

	return router
}
