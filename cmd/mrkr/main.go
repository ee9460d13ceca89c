package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yungbote/mrkr-backend/internal/db"
	"github.com/yungbote/mrkr-backend/internal/handlers"
	"github.com/yungbote/mrkr-backend/internal/logger"
	"github.com/yungbote/mrkr-backend/internal/repos"
	"github.com/yungbote/mrkr-backend/internal/server"
	"github.com/yungbote/mrkr-backend/internal/services"
	"github.com/yungbote/mrkr-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	port := utils.GetEnv("HTTP_PORT", "8080", log)
	maxWorkers := utils.GetEnvAsInt("MRKR_MAX_WORKERS", 4, log)

	// Database
	dbService, err := db.NewDatabaseService(log)
	if err != nil {
		log.Error("Database init failed", "error", err)
		os.Exit(1)
	}
	if err = dbService.AutoMigrateAll(); err != nil {
		log.Error("Database auto migration failed", "error", err)
		os.Exit(1)
	}
	theDB := dbService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(theDB, log)
	projectRepo := repos.NewProjectRepo(theDB, log)
	documentRepo := repos.NewDocumentRepo(theDB, log)
	ocrRepo := repos.NewOcrRepo(theDB, log)

	// Services
	log.Info("Setting up Services from main...")
	pool := services.NewWorkerPool(maxWorkers, log)
	userService := services.NewUserService(theDB, log, userRepo)
	projectService := services.NewProjectService(theDB, log, projectRepo, documentRepo)
	documentService := services.NewDocumentService(theDB, log, projectRepo, documentRepo, userRepo)
	scanService := services.NewScanService(theDB, log, pool, projectRepo, documentRepo, ocrRepo)

	// Handlers
	log.Info("Setting up handlers from main...")
	utilsHandler := handlers.NewUtilsHandler(dbService)
	userHandler := handlers.NewUserHandler(userService)
	projectHandler := handlers.NewProjectHandler(projectService, documentService, scanService)
	documentHandler := handlers.NewDocumentHandler(documentService, scanService)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		Log:             log,
		UtilsHandler:    utilsHandler,
		UserHandler:     userHandler,
		ProjectHandler:  projectHandler,
		DocumentHandler: documentHandler,
	})

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		log.Info("Server listening", "port", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server shutdown failed", "error", err)
	}
	pool.Shutdown()
	log.Info("Shutdown complete")
}
