package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	authapp "github.com/wyfcoding/clientonboarding/internal/auth/application"
	authdomain "github.com/wyfcoding/clientonboarding/internal/auth/domain"
	authmysql "github.com/wyfcoding/clientonboarding/internal/auth/infrastructure/persistence/mysql"
	authredis "github.com/wyfcoding/clientonboarding/internal/auth/infrastructure/persistence/redis"
	authhttp "github.com/wyfcoding/clientonboarding/internal/auth/interfaces/http"
	"github.com/wyfcoding/clientonboarding/internal/onboarding/application"
	"github.com/wyfcoding/clientonboarding/internal/onboarding/domain"
	"github.com/wyfcoding/clientonboarding/internal/onboarding/infrastructure/messaging"
	"github.com/wyfcoding/clientonboarding/internal/onboarding/infrastructure/persistence/mysql"
	onboardinghttp "github.com/wyfcoding/clientonboarding/internal/onboarding/interfaces/http"
	"github.com/wyfcoding/clientonboarding/pkg/config"
	"github.com/wyfcoding/clientonboarding/pkg/db"
	"github.com/wyfcoding/clientonboarding/pkg/logger"
	"github.com/wyfcoding/clientonboarding/pkg/middleware"
	"github.com/wyfcoding/clientonboarding/pkg/mq"
	"golang.org/x/sync/errgroup"
)

var configPath = flag.String("config", "configs/onboarding/config.toml", "config file path")

func main() {
	flag.Parse()

	// 1. 初始化配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	// 2. 初始化日志
	if err := logger.Init(logger.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		FilePath:   cfg.Logger.FilePath,
		MaxSize:    cfg.Logger.MaxSize,
		MaxBackups: cfg.Logger.MaxBackups,
		MaxAge:     cfg.Logger.MaxAge,
		Compress:   cfg.Logger.Compress,
		WithCaller: cfg.Logger.WithCaller,
	}); err != nil {
		panic(fmt.Sprintf("failed to init logger: %v", err))
	}

	ctx := context.Background()
	logger.Info(ctx, "starting service", "service", cfg.ServiceName, "version", cfg.Version, "environment", cfg.Environment)

	// 3. 初始化数据库
	database, err := db.Init(db.Config{
		Driver:             cfg.Database.Driver,
		DSN:                cfg.Database.DSN,
		MaxOpenConns:       cfg.Database.MaxOpenConns,
		MaxIdleConns:       cfg.Database.MaxIdleConns,
		ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
		LogEnabled:         cfg.Database.LogEnabled,
		SlowQueryThreshold: cfg.Database.SlowQueryThreshold,
	})
	if err != nil {
		logger.Fatal(ctx, "failed to connect database", "error", err)
	}
	defer database.Close()

	// Auto Migrate (仅用于开发方便)
	if cfg.Environment == "dev" {
		if err := database.AutoMigrate(
			&domain.OnboardingRecord{},
			&domain.LegacyClientProfile{},
			&authdomain.Broker{},
		); err != nil {
			logger.Error(ctx, "failed to migrate database", "error", err)
		}
	}

	// 4. 初始化 Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.MaxPoolSize,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal(ctx, "failed to connect redis", "error", err)
	}
	defer redisClient.Close()

	// 5. 初始化事件发布器（Kafka 可选）
	var publisher domain.EventPublisher
	var producer *mq.KafkaProducer
	if cfg.Kafka.Enabled {
		producer, err = mq.NewProducer(mq.KafkaConfig{
			Brokers:      cfg.Kafka.Brokers,
			MaxRetries:   cfg.Kafka.MaxRetries,
			RetryBackoff: cfg.Kafka.RetryBackoff,
		})
		if err != nil {
			logger.Fatal(ctx, "failed to init kafka producer", "error", err)
		}
		defer producer.Close()
		publisher = messaging.NewKafkaEventPublisher(producer, cfg.Kafka.Topic)
	}

	// 6. 初始化仓储与应用服务
	brokerRepo := authmysql.NewBrokerRepository(database.DB)
	sessionRepo := authredis.NewSessionRepository(redisClient)
	authService := authapp.NewAuthService(brokerRepo, sessionRepo, cfg.Auth.JWTSecret, time.Duration(cfg.Auth.SessionTTL)*time.Hour)

	onboardingRepo := mysql.NewOnboardingRepository(database.DB)
	onboardingService := application.NewOnboardingService(onboardingRepo, publisher, authService)

	// 7. 初始化 HTTP 接口层
	gin.SetMode(gin.ReleaseMode)
	if cfg.Environment == "dev" {
		gin.SetMode(gin.DebugMode)
	}
	r := gin.New()
	r.Use(middleware.GinLoggingMiddleware())
	r.Use(middleware.GinRecoveryMiddleware())
	r.Use(middleware.GinCORSMiddleware())
	r.Use(middleware.GinRateLimitMiddleware(middleware.NewRateLimiter(200, 100)))

	api := r.Group("/api/v1")

	authHandler := authhttp.NewHandler(authService, cfg.Auth.CookieName, cfg.Auth.CookieSecure)
	authHandler.RegisterRoutes(api)

	protected := api.Group("")
	protected.Use(middleware.GinSessionMiddleware(cfg.Auth.CookieName, cfg.Auth.JWTSecret, authService))

	onboardingHandler := onboardinghttp.NewHandler(onboardingService)
	onboardingHandler.RegisterRoutes(protected)

	// 8. 启动服务
	g, gctx := errgroup.WithContext(ctx)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeout) * time.Second,
	}

	g.Go(func() error {
		logger.Info(gctx, "HTTP server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	// 9. 优雅关闭
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-quit:
			logger.Info(gctx, "shutting down server...")
		case <-gctx.Done():
			logger.Info(gctx, "context cancelled, shutting down...")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error(ctx, "server exited with error", "error", err)
	}
}
