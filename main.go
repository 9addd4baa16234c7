package main

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/CataldiDonato/catalogo-autos/internal/config"
	"github.com/CataldiDonato/catalogo-autos/internal/database"
	"github.com/CataldiDonato/catalogo-autos/internal/handler"
	"github.com/CataldiDonato/catalogo-autos/internal/middleware"
	"github.com/CataldiDonato/catalogo-autos/internal/repository"
	"github.com/CataldiDonato/catalogo-autos/internal/service"
	"github.com/CataldiDonato/catalogo-autos/internal/storage"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	if err := godotenv.Load(); err != nil {
		log.Info("no .env file found, using environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect error: %v", err)
	}
	if err := database.InitSchema(db); err != nil {
		log.Fatalf("db schema error: %v", err)
	}

	imageStore, err := storage.NewImageStore(cfg.UploadDir)
	if err != nil {
		log.Fatalf("upload dir error: %v", err)
	}

	pubRepo := repository.NewPublicationRepository(db)
	userRepo := repository.NewUserRepository(db)
	contactRepo := repository.NewContactRepository(db)
	ingestSvc := service.NewIngestService(pubRepo, imageStore, log)

	authH := &handler.AuthHandler{Users: userRepo, JWTSecret: cfg.JWTSecret, Log: log}
	pubH := &handler.PublicationHandler{Repo: pubRepo}
	uploadH := &handler.UploadHandler{Store: imageStore}
	webhookH := &handler.WebhookHandler{Svc: ingestSvc}
	parseH := &handler.ParseHandler{}
	contactH := &handler.ContactHandler{Repo: contactRepo}

	r := gin.Default()
	r.Use(cors.Default())
	r.Static("/uploads", cfg.UploadDir)

	api := r.Group("/api")

	// public routes
	authH.RegisterRoutes(api)
	pubH.RegisterPublicRoutes(api)
	parseH.RegisterRoutes(api)
	contactH.RegisterRoutes(api)
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// webhook routes (pre-shared key, no session)
	webhook := api.Group("/")
	webhook.Use(middleware.APIKeyAuth(cfg.WebhookAPIKey))
	webhookH.RegisterRoutes(webhook)

	// admin routes (JWT required)
	protected := api.Group("/")
	protected.Use(middleware.JWTAuth(cfg.JWTSecret))
	pubH.RegisterProtectedRoutes(protected)
	uploadH.RegisterRoutes(protected)

	log.Infof("catalog server listening on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
