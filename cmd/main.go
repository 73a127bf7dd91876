package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"kanban-lite/kanban/broker"
	"kanban-lite/kanban/config"
	"kanban-lite/kanban/database"
	"kanban-lite/kanban/middleware"
	"kanban-lite/kanban/routes"
	"kanban-lite/kanban/services"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()

	db, err := database.Setup(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Event publishing is best-effort: the board works without a broker.
	if err := broker.InitProducer(cfg); err != nil {
		log.Printf("Warning: Failed to initialize NATS producer: %v", err)
		log.Println("The application will continue, but task events will not be published")
	} else {
		defer broker.CloseProducer()
	}

	credentials := services.NewSharedSecretStore(cfg.AdminPassword, cfg.AdminPasswordHash, cfg.AdminUsername)
	authService := services.NewAuthService(credentials, cfg.JWTSecret, cfg.JWTExpirationHours)
	services.AuthServiceInstance = authService

	uploadService := services.NewUploadService(cfg.UploadDir)
	services.UploadServiceInstance = uploadService

	router := gin.Default()
	router.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	// Session endpoints stay public; everything else sits behind the gate.
	routes.RegisterAuthRoutes(router, authService, cfg.JWTExpirationHours)

	authenticated := router.Group("/")
	authenticated.Use(middleware.AuthMiddleware(authService))
	routes.RegisterTaskRoutes(authenticated, db, services.TaskServiceInstance)
	routes.RegisterUploadRoutes(authenticated, db, uploadService)

	// Stored images resolve straight from the uploads directory.
	router.Static("/uploads", cfg.UploadDir)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-quit
		log.Println("Shutting down server...")
		broker.CloseProducer()
		os.Exit(0)
	}()

	log.Printf("API server is running on port %s", cfg.AppPort)
	if err := http.ListenAndServe(":"+cfg.AppPort, router); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
