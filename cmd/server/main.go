package main

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"shortlink-platform/internal/cleanup"
	"shortlink-platform/internal/config"
	"shortlink-platform/internal/handler"
	"shortlink-platform/internal/middleware"
	"shortlink-platform/internal/service"
	"shortlink-platform/internal/store"
	"shortlink-platform/pkg/database"
	auth "shortlink-platform/pkg/jwt"
	"shortlink-platform/pkg/logger"
	"shortlink-platform/pkg/redis"

	_ "shortlink-platform/docs"

	"github.com/gin-gonic/gin"
	redisClient "github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// @title shortlink-platform API
// @version 1.0
// @description 短链接与点击分析服务
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Println("配置加载失败:", err)
		return
	}

	logger.InitLogger(cfg.Log.Level, cfg.Log.Filename)
	defer func() {
		if err := logger.Logger.Sync(); err != nil {
			fmt.Println("日志同步失败:", err)
		}
	}()
	sugaredLogger := zap.S()

	db, err := database.InitMySQL(&cfg.Database)
	if err != nil {
		sugaredLogger.Fatalf("数据库初始化失败: %v", err)
	}
	sugaredLogger.Info("✅ 数据库连接成功")

	var rdb *redisClient.Client
	if cfg.Cache.Host != "" {
		rdb, err = redis.NewClient(&redis.Options{
			Host: cfg.Cache.Host, Port: cfg.Cache.Port, Password: cfg.Cache.Password, DB: cfg.Cache.DB,
		})
		if err != nil {
			sugaredLogger.Warnf("缓存连接失败: %v", err)
		} else {
			defer func() {
				if err := rdb.Close(); err != nil {
					sugaredLogger.Errorf("关闭 Redis 连接失败: %v", err)
				}
			}()
			sugaredLogger.Info("✅ 缓存连接成功")
		}
	}

	mappingStore := store.NewMappingStore(db)
	clickStore := store.NewClickStore(db)

	resolver := service.NewResolver(mappingStore, clickStore, rdb, sugaredLogger)
	mappingService := service.NewMappingService(mappingStore, rdb, sugaredLogger)
	analytics := service.NewAnalytics(mappingStore, clickStore, sugaredLogger)

	// 过期清理任务
	var cleanupWorker *cleanup.Worker
	if cfg.Cleanup.Enabled {
		interval := time.Duration(cfg.Cleanup.IntervalMinutes) * time.Minute
		if interval <= 0 {
			interval = 10 * time.Minute
		}
		cleanupWorker = cleanup.NewWorker(mappingStore, interval, sugaredLogger)
		cleanupWorker.Start()
		defer cleanupWorker.Stop()
		sugaredLogger.Info("✅ 过期清理任务已启动")
	}

	tokenManager := auth.NewManager(cfg.Auth.Secret, cfg.Auth.Issuer, cfg.Auth.ExpirationHours)
	sugaredLogger.Info("✅ 认证管理器初始化成功")

	if cfg.App.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.GinZapRecovery(logger.Logger, true))
	router.Use(middleware.GinZapLogger(logger.Logger))
	router.Use(middleware.RateLimit(&cfg.RateLimit))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	urlHandler := handler.NewUrlMappingHandler(db, resolver, mappingService, analytics, cfg.App.BaseURL)
	authHandler := handler.NewAuthHandler(db, rdb, tokenManager)

	registerRoutes(router, urlHandler, authHandler, middleware.AuthMiddleware(tokenManager), middleware.AdminMiddleware())

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	sugaredLogger.Infof("🚀 服务启动成功, 访问 http://localhost:%d", cfg.Server.Port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		sugaredLogger.Fatalf("服务启动失败: %v", err)
	}
}

func registerRoutes(
	router *gin.Engine,
	urlHandler *handler.UrlMappingHandler,
	authHandler *handler.AuthHandler,
	authMiddleware, adminMiddleware gin.HandlerFunc,
) {
	router.GET("/health", urlHandler.HealthCheck)
	router.GET("/:code", urlHandler.RedirectToOriginal)

	authGroup := router.Group("/auth")
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/register", authHandler.Register)
	}

	api := router.Group("/api")
	api.Use(authMiddleware)
	{
		api.GET("/me", authHandler.GetCurrentUser)

		urls := api.Group("/urls")
		{
			urls.POST("/shorten", urlHandler.CreateShortUrl)
			urls.GET("/myurls", urlHandler.GetUserUrls)
			urls.GET("/search", urlHandler.SearchUserUrls)
			urls.GET("/totalClicks", urlHandler.GetTotalClicks)
			urls.GET("/analytics/:code", urlHandler.GetUrlAnalytics)
			urls.GET("/:code", urlHandler.GetUrlDetails)
			urls.PUT("/:code", urlHandler.UpdateUrl)
			urls.DELETE("/:code", urlHandler.DeleteUrl)
		}
	}

	admin := api.Group("")
	admin.Use(adminMiddleware)
	{
		admin.GET("/stats", urlHandler.GetStats)
	}
}
