package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/communitytransit/directions-backend/internal/config"
	"github.com/communitytransit/directions-backend/internal/database"
	"github.com/communitytransit/directions-backend/internal/handlers"
	"github.com/communitytransit/directions-backend/internal/middleware"
	"github.com/communitytransit/directions-backend/internal/services"
	"github.com/communitytransit/directions-backend/internal/streetnet"
	"github.com/communitytransit/directions-backend/pkg/jwt"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting CommunityTransit Directions Backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database connection
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	retry := database.Retryer{
		Attempts: cfg.Database.RetryAttempts,
		Backoff:  cfg.Database.RetryBackoff,
		Logger:   logger,
	}

	// Initialize repositories
	routeRepository := database.NewRouteRepository(db, retry)
	areaRepository := database.NewAreaRepository(db, retry)
	userRepository := database.NewUserRepository(db)

	// Initialize services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(
		cfg.JWT.Secret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	overpassClient := streetnet.NewOverpassClient(
		cfg.StreetNetwork.OverpassURL,
		cfg.StreetNetwork.FetchTimeout,
		logger,
	)
	authService := services.NewAuthService(userRepository, jwtService, logger)
	directionsService := services.NewDirectionsService(routeRepository, areaRepository, overpassClient, logger)
	contributionService := services.NewContributionService(routeRepository, areaRepository, logger)
	routePlanService := services.NewRoutePlanService(overpassClient, logger)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	directionsHandler := handlers.NewDirectionsHandler(directionsService)
	routeHandler := handlers.NewRouteHandler(contributionService, routePlanService)

	// Setup router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  "database unreachable",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": version,
		})
	})

	// API routes
	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
			auth.GET("/verify", middleware.AuthMiddleware(jwtService), authHandler.Verify)
		}

		v1.POST("/directions", directionsHandler.GetDirections)
		v1.POST("/route", routeHandler.PlanRoute)

		routes := v1.Group("/routes")
		{
			routes.GET("/:id", routeHandler.GetRoute)
			routes.POST("/contribute", middleware.AuthMiddleware(jwtService), routeHandler.Contribute)
		}
	}

	// Start server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited")
}
