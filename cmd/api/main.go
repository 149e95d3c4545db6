package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	deliveryHTTP "github.com/frontandrew/parkir/internal/delivery/http"
	"github.com/frontandrew/parkir/internal/infrastructure/storage"
	"github.com/frontandrew/parkir/internal/pkg/config"
	"github.com/frontandrew/parkir/internal/pkg/database"
	"github.com/frontandrew/parkir/internal/pkg/hash"
	"github.com/frontandrew/parkir/internal/pkg/jwt"
	"github.com/frontandrew/parkir/internal/pkg/logger"
	"github.com/frontandrew/parkir/internal/pkg/qrcode"
	"github.com/frontandrew/parkir/internal/pkg/redis"
	"github.com/frontandrew/parkir/internal/repository/cached"
	"github.com/frontandrew/parkir/internal/repository/postgres"
	"github.com/frontandrew/parkir/internal/usecase/auth"
	"github.com/frontandrew/parkir/internal/usecase/card"
	"github.com/frontandrew/parkir/internal/usecase/dashboard"
	"github.com/frontandrew/parkir/internal/usecase/overnight"
	"github.com/frontandrew/parkir/internal/usecase/parking"
	"github.com/frontandrew/parkir/internal/usecase/tariff"
	"github.com/frontandrew/parkir/internal/usecase/user"
	"github.com/frontandrew/parkir/migrations"
)

// Период очистки просроченных refresh токенов
const tokenCleanupInterval = time.Hour

func main() {
	// =========================================================================
	// Загрузка конфигурации
	// =========================================================================

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// =========================================================================
	// Инициализация logger
	// =========================================================================

	log := logger.New(cfg.Logger.Level, cfg.Logger.Format, cfg.Logger.Output)
	logger.SetGlobalLogger(log)
	log.Info("Starting PARKIR API server", map[string]interface{}{
		"version":   "1.0.0",
		"time_zone": cfg.Parking.TimeZone,
	})

	// =========================================================================
	// Подключение к PostgreSQL
	// =========================================================================

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	db, err := database.Connect(ctx, &cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer database.Close(db)

	log.Info("Connected to PostgreSQL", map[string]interface{}{
		"host":     cfg.Database.Host,
		"port":     cfg.Database.Port,
		"database": cfg.Database.Database,
	})

	if cfg.Database.AutoMigrate {
		applied, err := database.Migrate(ctx, db, migrations.FS)
		if err != nil {
			log.Fatal("Failed to apply migrations", map[string]interface{}{
				"error": err.Error(),
			})
		}
		log.Info("Migrations applied", map[string]interface{}{
			"applied": applied,
		})
	}

	// =========================================================================
	// Подключение к Redis (кэш тарифа и лимиты запросов)
	// =========================================================================

	redisClient := redis.New(&cfg.Redis)
	defer redisClient.Close()

	if err := redisClient.Ping(ctx); err != nil {
		log.Warn("Redis is not available", map[string]interface{}{
			"error":   err.Error(),
			"address": cfg.Redis.Address(),
		})
		log.Warn("Tariff will be read from PostgreSQL and rate limits are disabled until Redis is running")
	} else {
		log.Info("Connected to Redis", map[string]interface{}{
			"address": cfg.Redis.Address(),
		})
	}

	// =========================================================================
	// Создание repositories
	// =========================================================================

	userRepo := postgres.NewUserRepository(db)
	refreshTokenRepo := postgres.NewRefreshTokenRepository(db)
	cardRepo := postgres.NewVehicleCardRepository(db)
	sessionRepo := postgres.NewParkingSessionRepository(db)
	requestRepo := postgres.NewOvernightRequestRepository(db)
	tariffRepo := cached.NewTariffRepository(postgres.NewTariffRepository(db), redisClient, log)

	log.Info("Repositories initialized")

	// =========================================================================
	// Внешние сервисы: хранилище файлов и генератор QR
	// =========================================================================

	storageClient := storage.NewHTTPClient(cfg.Storage.BaseURL, cfg.Storage.Bucket, cfg.Storage.Token, cfg.Storage.Timeout)
	if cfg.Storage.Bucket == "" {
		log.Warn("Storage bucket is not configured, card uploads will fail")
	}
	qrEncoder := qrcode.NewEncoder(qrcode.DefaultSize)

	// =========================================================================
	// Создание JWT token service
	// =========================================================================

	tokenService := jwt.NewTokenService(
		cfg.JWT.SecretKey,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)
	hasher := hash.NewHasher(hash.DefaultCost)

	log.Info("JWT token service initialized")

	// =========================================================================
	// Создание use case services
	// =========================================================================

	authService := auth.NewService(userRepo, refreshTokenRepo, tokenService, hasher, log)
	userService := user.NewService(userRepo, hasher, log)
	cardService := card.NewService(cardRepo, userRepo, storageClient, qrEncoder, cfg.Parking.PublicURL, log)
	parkingService := parking.NewService(sessionRepo, cardRepo, userRepo, requestRepo, tariffRepo, log)
	overnightService := overnight.NewService(requestRepo, cardRepo, log)
	tariffService := tariff.NewService(tariffRepo, log)
	dashboardService := dashboard.NewService(sessionRepo, userRepo, cfg.Parking.Location(), log)

	log.Info("Use case services initialized")

	// =========================================================================
	// Создание HTTP handlers и router
	// =========================================================================

	handlers := deliveryHTTP.Handlers{
		Auth:      deliveryHTTP.NewAuthHandler(authService, log),
		User:      deliveryHTTP.NewUserHandler(userService, log),
		Card:      deliveryHTTP.NewCardHandler(cardService, log),
		Parking:   deliveryHTTP.NewParkingHandler(parkingService, log),
		Overnight: deliveryHTTP.NewOvernightHandler(overnightService, log),
		Tariff:    deliveryHTTP.NewTariffHandler(tariffService, log),
		Dashboard: deliveryHTTP.NewDashboardHandler(dashboardService, log),
	}

	checks := map[string]deliveryHTTP.HealthCheck{
		"postgres": db.Ping,
		"redis":    redisClient.Ping,
	}

	router := deliveryHTTP.NewRouter(handlers, authService, redisClient, checks, cfg, log)
	handler := router.Setup()

	log.Info("HTTP router configured")

	// =========================================================================
	// Фоновая очистка refresh токенов
	// =========================================================================

	go cleanupTokens(ctx, authService, log)

	// =========================================================================
	// Создание HTTP сервера
	// =========================================================================

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErrors := make(chan error, 1)

	go func() {
		log.Info("API server listening", map[string]interface{}{
			"address": srv.Addr,
		})
		serverErrors <- srv.ListenAndServe()
	}()

	// =========================================================================
	// Graceful shutdown
	// =========================================================================

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server error", map[string]interface{}{
				"error": err.Error(),
			})
		}

	case sig := <-shutdown:
		log.Info("Shutdown signal received", map[string]interface{}{
			"signal": sig.String(),
		})
		stop()

		// Даем серверу 30 секунд на graceful shutdown
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Graceful shutdown failed", map[string]interface{}{
				"error": err.Error(),
			})

			if err := srv.Close(); err != nil {
				log.Fatal("Failed to close server", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}

		log.Info("Server stopped gracefully")
	}
}

// cleanupTokens раз в час удаляет просроченные refresh токены
func cleanupTokens(ctx context.Context, authService *auth.Service, log logger.Logger) {
	ticker := time.NewTicker(tokenCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := authService.CleanupExpiredTokens(ctx)
			if err != nil {
				log.Error("Failed to cleanup refresh tokens", map[string]interface{}{
					"error": err.Error(),
				})
				continue
			}
			if removed > 0 {
				log.Info("Expired refresh tokens removed", map[string]interface{}{
					"count": removed,
				})
			}
		}
	}
}
