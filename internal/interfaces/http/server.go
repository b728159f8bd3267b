package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"fleet-service/internal/config"
	"fleet-service/internal/infrastructure/cache"
	"fleet-service/internal/interfaces/http/handlers"
	"fleet-service/internal/interfaces/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Server HTTP сервер
type Server struct {
	config     *config.Config
	logger     *zap.Logger
	httpServer *http.Server
	router     *gin.Engine
}

// Handlers обработчики, монтируемые сервером
type Handlers struct {
	Auth         *handlers.AuthHandler
	Vehicle      *handlers.VehicleHandler
	Driver       *handlers.DriverHandler
	Trip         *handlers.TripHandler
	Schedule     *handlers.ScheduleHandler
	Maintenance  *handlers.MaintenanceHandler
	Fine         *handlers.FineHandler
	Notification *handlers.NotificationHandler
}

// NewServer создает новый HTTP сервер
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	redisClient *cache.Client,
	h Handlers,
) *Server {
	// Настройка Gin
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	if cfg.Metrics.Enabled {
		router.Use(middleware.Metrics())
	}
	if cfg.RateLimit.Enabled && redisClient != nil {
		router.Use(middleware.RateLimit(redisClient, cfg.RateLimit.Requests, cfg.RateLimit.Window, logger))
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"service":   "fleet-service",
			"timestamp": time.Now().UTC(),
		})
	})

	if cfg.Metrics.Enabled {
		router.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	// API routes
	api := router.Group("/api/v1")

	api.POST("/auth/login", h.Auth.Login)

	authorized := api.Group("")
	authorized.Use(middleware.Auth([]byte(cfg.Auth.Secret)))
	{
		authorized.POST("/auth/password", h.Auth.ChangePassword)

		// Vehicle routes
		vehicles := authorized.Group("/vehicles")
		{
			vehicles.GET("", h.Vehicle.ListVehicles)
			vehicles.GET("/availability", h.Vehicle.GetAvailability)
			vehicles.GET("/:id", h.Vehicle.GetVehicle)
			vehicles.GET("/:id/maintenance", h.Vehicle.ListMaintenanceHistory)
			vehicles.GET("/:id/tires", h.Vehicle.ListTireChanges)
		}

		// Trip routes
		trips := authorized.Group("/trips")
		{
			trips.POST("", h.Trip.StartTrip)
			trips.GET("", h.Trip.ListTrips)
			trips.GET("/:id", h.Trip.GetTrip)
			trips.POST("/:id/end", h.Trip.EndTrip)
			trips.POST("/:id/cancel", h.Trip.CancelTrip)
			trips.POST("/:id/log", h.Trip.AppendTripLog)
		}

		// Schedule routes
		schedules := authorized.Group("/schedules")
		{
			schedules.GET("", h.Schedule.ListSchedules)
			schedules.POST("", h.Schedule.CreateSchedule)
			schedules.PUT("/:id", h.Schedule.UpdateSchedule)
			schedules.DELETE("/:id", h.Schedule.DeleteSchedule)
		}

		// Notification routes
		notifications := authorized.Group("/notifications")
		{
			notifications.GET("", h.Notification.ListNotifications)
			notifications.POST("/:id/read", h.Notification.MarkRead)
			notifications.GET("/stream", h.Notification.Stream)
		}

		authorized.GET("/drivers/:id/points", h.Driver.GetDriverPoints)
		authorized.GET("/drivers/:id/fines", h.Driver.ListDriverFines)

		// Administrative routes
		admin := authorized.Group("")
		admin.Use(middleware.RequireAdmin())
		{
			admin.POST("/vehicles", h.Vehicle.CreateVehicle)
			admin.PUT("/vehicles/:id", h.Vehicle.UpdateVehicle)
			admin.POST("/vehicles/:id/tires", h.Vehicle.RecordTireChange)

			admin.POST("/drivers", h.Driver.CreateDriver)
			admin.GET("/drivers", h.Driver.ListDrivers)
			admin.GET("/drivers/:id", h.Driver.GetDriver)
			admin.PUT("/drivers/:id", h.Driver.UpdateDriver)
			admin.DELETE("/drivers/:id", h.Driver.DeleteDriver)
			admin.POST("/drivers/:id/password-reset", h.Auth.ResetPassword)

			admin.POST("/maintenance", h.Maintenance.OpenMaintenance)
			admin.GET("/maintenance", h.Maintenance.ListMaintenance)
			admin.POST("/maintenance/:id/resolve", h.Maintenance.ResolveMaintenance)

			admin.POST("/fines", h.Fine.CreateFine)
			admin.GET("/fines", h.Fine.ListFines)
			admin.DELETE("/fines/:id", h.Fine.DeleteFine)
		}
	}

	server := &Server{
		config: cfg,
		logger: logger,
		router: router,
		httpServer: &http.Server{
			Addr:           fmt.Sprintf(":%d", cfg.Server.HTTPPort),
			Handler:        router,
			ReadTimeout:    cfg.Server.Timeout,
			WriteTimeout:   cfg.Server.Timeout,
			IdleTimeout:    2 * cfg.Server.Timeout,
			MaxHeaderBytes: 1 << 20, // 1 MB
		},
	}

	return server
}

// Start запускает HTTP сервер
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server",
		zap.Int("port", s.config.Server.HTTPPort),
		zap.String("environment", s.config.Server.Environment),
	)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

// Stop останавливает HTTP сервер
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping HTTP server")

	return s.httpServer.Shutdown(ctx)
}

// GetRouter возвращает router для тестирования
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}
