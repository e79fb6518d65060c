package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SergeiKhy/shop-directory/internal/auth"
	"github.com/SergeiKhy/shop-directory/internal/config"
	"github.com/SergeiKhy/shop-directory/internal/handler"
	"github.com/SergeiKhy/shop-directory/internal/middleware"
	"github.com/SergeiKhy/shop-directory/internal/repository"
	"github.com/SergeiKhy/shop-directory/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Загрузка конфига
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Инициализация логгера
	logger, err := newLogger(cfg.App.Env)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	if cfg.App.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	statsLocation, err := cfg.Stats.Location()
	if err != nil {
		logger.Fatal("Invalid stats timezone", zap.Error(err))
	}

	// Подключение к БД (postgres)
	db, err := repository.NewPostgresDB(cfg.DB)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	logger.Info("Connected to PostgreSQL")

	if cfg.DB.AutoMigrate {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := repository.Migrate(ctx, db)
		cancel()
		if err != nil {
			logger.Fatal("Failed to apply migrations", zap.Error(err))
		}
		logger.Info("Migrations applied")
	}

	// Подключение к Redis
	redis, err := repository.NewRedisClient(cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redis.Close()
	logger.Info("Connected to Redis")

	// Инициализация репозиториев
	regionRepo := repository.NewRegionRepository(db)
	subRegionRepo := repository.NewSubRegionRepository(db)
	listingRepo := repository.NewListingRepository(db)
	clickRepo := repository.NewClickRepository(db)
	statsRepo := repository.NewStatsRepository(db)
	cacheRepo := repository.NewCacheRepository(redis)

	// Инициализация сервисов
	opts := []service.Option{
		service.WithQueryTimeout(cfg.DB.QueryTimeout),
		service.WithCacheTTL(cfg.Redis.CacheTTL),
		service.WithLogger(logger),
	}
	services := handler.Services{
		Listings: service.NewListingService(listingRepo, regionRepo, subRegionRepo, opts...),
		Clicks:   service.NewClickService(clickRepo, listingRepo, opts...),
		Stats:    service.NewStatsService(statsRepo, statsLocation, opts...),
		Regions:  service.NewRegionService(regionRepo, subRegionRepo, cacheRepo, opts...),
	}

	// Инициализация middleware
	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		BurstSize:         cfg.RateLimit.BurstSize,
		CleanupInterval:   time.Minute,
	})
	defer rateLimiter.Stop()

	authenticator := middleware.NewAuthenticator(auth.NewJWTVerifier(cfg.Auth.JWTSecret), logger)

	health := handler.NewHealthHandler(map[string]handler.Pinger{
		"postgres": db,
		"redis":    redis,
	}, logger)

	// Настройка роутера
	router := handler.NewRouter(services, health, rateLimiter, authenticator, cfg.CORS.AllowOrigins, logger)

	// Запуск сервера
	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Запуск в горутине
	go func() {
		logger.Info("Server starting",
			zap.String("port", cfg.App.Port),
			zap.String("stats_timezone", statsLocation.String()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
