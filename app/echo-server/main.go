package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wildNest/app/echo-server/router"
	"wildNest/business/admin"
	"wildNest/business/category"
	"wildNest/business/drink"
	"wildNest/business/question"
	"wildNest/business/recommendation"
	"wildNest/business/rule"
	"wildNest/internal/middleware"
	psqlRepo "wildNest/internal/repository/postgres"
	redisRepo "wildNest/internal/repository/redis"
	"wildNest/internal/rest"
	"wildNest/pkg/config"
	"wildNest/pkg/database"
	redisdb "wildNest/pkg/database/redis"
	"wildNest/pkg/logger"
	"wildNest/pkg/metrics"
	"wildNest/pkg/utils"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment, logger.Options{
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	logger.Info("Starting WildNest", "version", cfg.App.Version, "algorithm", recommendation.AlgorithmVersion)

	utils.InitJWT(cfg.JWT.SecretKey, cfg.JWT.TTL)
	metrics.Init()

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	logger.Info("Database connected successfully")

	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), time.Minute)
	if err := database.Migrate(migrateCtx, db); err != nil {
		logger.Fatal("Failed to migrate database", "error", err)
	}
	cancelMigrate()

	redisClient, err := redisdb.NewRedisClient(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to redis", "error", err)
	}
	defer func() {
		if err := redisdb.CloseRedisClient(redisClient); err != nil {
			logger.Error("Failed to close redis client", err)
		}
	}()

	// Init repo
	drinkRepo := psqlRepo.NewDrinkRepository(db)
	categoryRepo := psqlRepo.NewCategoryRepository(db)
	questionRepo := psqlRepo.NewQuestionRepository(db)
	optionRepo := psqlRepo.NewOptionRepository(db)
	ruleRepo := psqlRepo.NewRuleRepository(db)
	logRepo := psqlRepo.NewRecommendationLogRepository(db)
	adminRepo := psqlRepo.NewAdminRepository(db)
	tokenRepo := redisRepo.NewTokenRepository(redisClient)
	catalogCache := redisRepo.NewCatalogCache(redisClient, cfg.Recommendation.CacheTTL)

	// Init service
	engineCfg := recommendation.DefaultConfig()
	engineCfg.MaxResults = cfg.Recommendation.MaxResults
	engine := recommendation.NewEngine(engineCfg)

	drinkService := drink.NewDrinkService(drinkRepo, catalogCache)
	categoryService := category.NewCategoryService(categoryRepo)
	questionService := question.NewQuestionService(questionRepo, optionRepo, catalogCache)
	ruleService := rule.NewRuleService(ruleRepo, catalogCache)
	recommendationService := recommendation.NewRecommendationService(
		engine, optionRepo, ruleRepo, drinkRepo, logRepo, catalogCache, cfg.App.ShareCodeKey,
	)
	adminService := admin.NewAdminService(adminRepo, tokenRepo)

	bootstrapCtx, cancelBootstrap := context.WithTimeout(context.Background(), 10*time.Second)
	if err := adminService.EnsureAdmin(bootstrapCtx, cfg.Admin.Username, cfg.Admin.Password); err != nil {
		logger.Error("Failed to bootstrap admin", err)
	}
	cancelBootstrap()

	// Init handler
	drinkHandler := rest.NewDrinkHandler(drinkService)
	categoryHandler := rest.NewCategoryHandler(categoryService)
	questionHandler := rest.NewQuestionHandler(questionService)
	ruleHandler := rest.NewRuleHandler(ruleService)
	recommendHandler := rest.NewRecommendHandler(recommendationService)
	adminHandler := rest.NewAdminHandler(adminService)
	healthHandler := rest.NewHealthHandler(cfg.App.Version, map[string]rest.HealthCheck{
		"database": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		"redis": func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		},
	})

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.TraceID())
	e.Use(echomiddleware.BodyLimit("1M"))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "X-Session-ID"},
	}))

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Per-IP limit on the quiz submission
	recommendLimiter := echomiddleware.RateLimiter(
		echomiddleware.NewRateLimiterMemoryStore(rate.Limit(cfg.Recommendation.RateLimit)),
	)

	authRequired := middleware.AuthMiddlewareWithRedis(tokenRepo)
	adminOnly := middleware.AdminOnly()

	// Setup routes
	api := e.Group("/api/v1")
	router.SetupHealthRoutes(api, healthHandler)
	router.SetupDrinkRoutes(api, drinkHandler)
	router.SetupCategoryRoutes(api, categoryHandler)
	router.SetupRecommendRoutes(api, questionHandler, recommendHandler, recommendLimiter)

	adminAPI := api.Group("/admin")
	router.SetupAdminAuthRoutes(adminAPI, adminHandler, authRequired, adminOnly)

	protected := adminAPI.Group("", authRequired, adminOnly)
	router.SetupAdminDrinkRoutes(protected, drinkHandler)
	router.SetupAdminCategoryRoutes(protected, categoryHandler)
	router.SetupAdminQuestionRoutes(protected, questionHandler)
	router.SetupAdminRuleRoutes(protected, ruleHandler)
	router.SetupAdminRecommendRoutes(protected, recommendHandler)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}
