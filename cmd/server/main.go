package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"fleet-service/internal/config"
	"fleet-service/internal/domain/restriction"
	"fleet-service/internal/domain/services"
	"fleet-service/internal/infrastructure/cache"
	"fleet-service/internal/infrastructure/database"
	"fleet-service/internal/infrastructure/messaging"
	httpServer "fleet-service/internal/interfaces/http"
	httpHandlers "fleet-service/internal/interfaces/http/handlers"
	"fleet-service/internal/repositories"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Application основная структура приложения
type Application struct {
	config *config.Config
	logger *zap.Logger
	db     *database.DB

	store       repositories.Store
	redisClient *cache.Client
	natsClient  *messaging.NATSPublisher

	locker     *services.VehicleLocker
	dispatcher *services.NotificationDispatcher
	engine     *restriction.Engine

	// Services
	authService       services.AuthService
	driverService     services.DriverService
	vehicleService    services.VehicleService
	fleetService      services.FleetService
	schedulingService services.SchedulingService

	// Servers
	httpServer *httpServer.Server

	// Shutdown
	shutdown chan struct{}
	wg       sync.WaitGroup
}

func main() {
	app, err := NewApplication()
	if err != nil {
		fmt.Printf("Failed to initialize application: %v\n", err)
		os.Exit(1)
	}

	if err := app.Run(); err != nil {
		app.logger.Fatal("Application failed", zap.Error(err))
	}

	app.logger.Info("Application stopped gracefully")
}

// NewApplication создает новый экземпляр приложения
func NewApplication() (*Application, error) {
	// Загружаем конфигурацию
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Валидируем конфигурацию
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	// Инициализируем логгер
	logger, err := initLogger(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Starting Fleet Service",
		zap.String("version", "1.0.0"),
		zap.String("environment", cfg.Server.Environment),
		zap.Int("http_port", cfg.Server.HTTPPort),
	)

	// Инициализируем базу данных
	db, err := database.NewPostgresDB(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Выполняем миграции
	migrationsPath := filepath.Join("internal", "infrastructure", "database", "migrations")
	if err := db.RunMigrations(migrationsPath); err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		// Не прерываем выполнение, так как миграции могут быть уже выполнены
	}

	app := &Application{
		config:   cfg,
		logger:   logger,
		db:       db,
		shutdown: make(chan struct{}),
	}

	if err := app.initInfrastructure(); err != nil {
		return nil, fmt.Errorf("failed to initialize infrastructure: %w", err)
	}

	if err := app.initServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	if err := app.initServers(); err != nil {
		return nil, fmt.Errorf("failed to initialize servers: %w", err)
	}

	return app, nil
}

// initLogger инициализирует логгер
func initLogger(cfg config.LoggerConfig) (*zap.Logger, error) {
	var zapConfig zap.Config

	if cfg.Format == "json" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	// Устанавливаем уровень логирования
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	zapConfig.Level.SetLevel(level)

	// Устанавливаем путь вывода
	if cfg.OutputPath != "" && cfg.OutputPath != "stdout" {
		zapConfig.OutputPaths = []string{cfg.OutputPath}
	}

	logger, err := zapConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	return logger, nil
}

// initInfrastructure инициализирует хранилище, кэш и шину событий
func (app *Application) initInfrastructure() error {
	app.store = repositories.NewPostgresStore(app.db, app.logger)

	redisClient, err := cache.NewRedisClient(&app.config.Redis, app.logger)
	if err != nil {
		// Без Redis сервис работает, ограничение частоты запросов отключается
		app.logger.Error("Failed to connect to Redis, rate limiting disabled", zap.Error(err))
	} else {
		app.redisClient = redisClient
	}

	natsClient, err := messaging.NewNATSPublisher(&app.config.NATS, app.logger)
	if err != nil {
		// Без NATS сервис работает, события автопарка не публикуются
		app.logger.Error("Failed to connect to NATS, fleet events disabled", zap.Error(err))
	} else {
		app.natsClient = natsClient
	}

	app.logger.Info("Infrastructure initialized")
	return nil
}

// initServices инициализирует сервисы
func (app *Application) initServices() error {
	app.locker = services.NewVehicleLocker()
	app.dispatcher = services.NewNotificationDispatcher(app.logger)
	app.engine = restriction.NewEngine(restrictionPolicy(&app.config.Restriction))

	var eventBus services.EventPublisher
	if app.natsClient != nil {
		eventBus = app.natsClient
	}

	app.authService = services.NewAuthService(app.store, app.config.Auth.Secret, app.config.Auth.TokenTTL, app.logger)
	app.driverService = services.NewDriverService(app.store, app.logger)
	app.vehicleService = services.NewVehicleService(app.store, app.logger)
	app.fleetService = services.NewFleetService(app.store, app.locker, app.dispatcher, eventBus, app.logger)
	app.schedulingService = services.NewSchedulingService(app.store, app.engine, app.locker, app.logger)

	app.logger.Info("Services initialized")
	return nil
}

// restrictionPolicy собирает политику циркуляции из конфигурации
func restrictionPolicy(cfg *config.RestrictionConfig) *restriction.Policy {
	policy := restriction.DefaultPolicy()

	if cfg.City != "" {
		policy.City = cfg.City
	}
	if cfg.State != "" {
		policy.State = cfg.State
	}
	if len(cfg.CityAliases) > 0 {
		policy.CityAliases = cfg.CityAliases
	}
	if len(cfg.SuppressTerms) > 0 {
		policy.SuppressTerms = cfg.SuppressTerms
	}

	return policy
}

// initServers инициализирует серверы
func (app *Application) initServers() error {
	handlers := httpServer.Handlers{
		Auth:         httpHandlers.NewAuthHandler(app.authService, app.logger),
		Vehicle:      httpHandlers.NewVehicleHandler(app.vehicleService, app.fleetService, app.logger),
		Driver:       httpHandlers.NewDriverHandler(app.driverService, app.fleetService, app.logger),
		Trip:         httpHandlers.NewTripHandler(app.fleetService, app.logger),
		Schedule:     httpHandlers.NewScheduleHandler(app.schedulingService, app.logger),
		Maintenance:  httpHandlers.NewMaintenanceHandler(app.fleetService, app.logger),
		Fine:         httpHandlers.NewFineHandler(app.fleetService, app.logger),
		Notification: httpHandlers.NewNotificationHandler(app.store, app.dispatcher, app.logger),
	}

	app.httpServer = httpServer.NewServer(app.config, app.logger, app.redisClient, handlers)

	app.logger.Info("Servers initialized")
	return nil
}

// Run запускает приложение
func (app *Application) Run() error {
	// Запускаем HTTP сервер
	app.wg.Add(1)
	go func() {
		defer app.wg.Done()
		if err := app.httpServer.Start(); err != nil {
			app.logger.Error("HTTP server failed", zap.Error(err))
		}
	}()

	// Ждем сигнал для завершения
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		app.logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
	case <-app.shutdown:
		app.logger.Info("Received shutdown from internal source")
	}

	// Graceful shutdown
	return app.gracefulShutdown()
}

// gracefulShutdown выполняет graceful shutdown
func (app *Application) gracefulShutdown() error {
	app.logger.Info("Starting graceful shutdown")

	// Создаем контекст с таймаутом для shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Закрываем канал для уведомления background задач
	close(app.shutdown)

	// Останавливаем HTTP сервер
	if err := app.httpServer.Stop(ctx); err != nil {
		app.logger.Error("Failed to stop HTTP server", zap.Error(err))
	}

	// Ждем завершения background задач
	done := make(chan struct{})
	go func() {
		app.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		app.logger.Info("All goroutines stopped")
	case <-ctx.Done():
		app.logger.Error("Shutdown timeout exceeded")
	}

	// Закрываем внешние подключения
	if app.natsClient != nil {
		app.natsClient.Close()
	}

	if app.redisClient != nil {
		if err := app.redisClient.Close(); err != nil {
			app.logger.Error("Failed to close Redis connection", zap.Error(err))
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("Failed to close database connection", zap.Error(err))
	}

	app.logger.Info("Graceful shutdown completed")
	return nil
}
